// SPDX-License-Identifier: Apache-2.0

// Package output relays execution lifecycle events to externally supplied
// listeners while shielding the run from listener misbehavior.
package output

import (
	"github.com/miaopass-future/robotframework/internal/result"
	"github.com/miaopass-future/robotframework/internal/running"
	"github.com/miaopass-future/robotframework/pkg/listener"
	"github.com/miaopass-future/robotframework/pkg/model"
)

// LibraryListeners is the single entry point the execution engine uses to
// notify library-registered listeners. Each instance owns its dispatcher
// state; two routers in one process never share registrations.
type LibraryListeners struct {
	methods  map[listener.Kind]*ListenerMethods
	filter   *LevelFilter
	importer *Importer
}

// NewLibraryListeners creates a router with the given initial log level
// threshold. Listener references passed to Register resolve through
// importer.
func NewLibraryListeners(logLevel model.Level, importer *Importer) *LibraryListeners {
	kinds := listener.Kinds()
	methods := make(map[listener.Kind]*ListenerMethods, len(kinds))
	for _, kind := range kinds {
		methods[kind] = NewListenerMethods(kind)
	}
	return &LibraryListeners{
		methods:  methods,
		filter:   NewLevelFilter(logLevel),
		importer: importer,
	}
}

// Register resolves refs and binds them under library. The whole batch is
// fail-fast: if any reference fails to resolve, nothing is bound and the
// error names the failing listener.
func (l *LibraryListeners) Register(refs []any, library string) error {
	proxies, err := l.importer.ImportListeners(refs, true)
	if err != nil {
		return err
	}
	for _, kind := range listener.Kinds() {
		l.methods[kind].Register(proxies, library)
	}
	return nil
}

// Unregister removes every listener owned by library. With closeListeners
// set, each of them first receives a close notification, in registration
// order, with individual failures isolated.
func (l *LibraryListeners) Unregister(library string, closeListeners bool) {
	if closeListeners {
		l.methods[listener.KindClose].NotifyLibrary(library, nil)
	}
	for _, kind := range listener.Kinds() {
		l.methods[kind].Unregister(library)
	}
}

// NewSuiteScope bounds the lifetime of registrations made inside the
// entered suite.
func (l *LibraryListeners) NewSuiteScope() {
	for _, kind := range listener.Kinds() {
		l.methods[kind].NewSuiteScope()
	}
}

// DiscardSuiteScope drops every registration added since the matching
// NewSuiteScope.
func (l *LibraryListeners) DiscardSuiteScope() {
	for _, kind := range listener.Kinds() {
		l.methods[kind].DiscardSuiteScope()
	}
}

// SetLogLevel replaces the log message threshold for subsequent events.
func (l *LibraryListeners) SetLogLevel(name string) error {
	_, err := l.filter.SetLevel(name)
	return err
}

// StartSuite notifies suite start. Child collections and the test count
// are pinned to the static model, which alone is fully populated at this
// point.
func (l *LibraryListeners) StartSuite(data *running.TestSuite, res *result.TestSuite) {
	l.methods[listener.KindStartSuite].Notify(listener.NewCombined(data, res, map[string]any{
		"Tests":     data.Tests,
		"Suites":    data.Suites,
		"TestCount": data.TestCount(),
	}))
}

// EndSuite notifies suite end.
func (l *LibraryListeners) EndSuite(data *running.TestSuite, res *result.TestSuite) {
	l.methods[listener.KindEndSuite].Notify(listener.NewCombined(data, res, nil))
}

// StartTest notifies test start.
func (l *LibraryListeners) StartTest(data *running.TestCase, res *result.TestCase) {
	l.methods[listener.KindStartTest].Notify(listener.NewCombined(data, res, nil))
}

// EndTest notifies test end.
func (l *LibraryListeners) EndTest(data *running.TestCase, res *result.TestCase) {
	l.methods[listener.KindEndTest].Notify(listener.NewCombined(data, res, nil))
}

// StartBodyItem notifies keyword start. Synthetic control-flow containers
// are filtered out; listeners only see real keyword executions.
func (l *LibraryListeners) StartBodyItem(data *running.BodyItem, res *result.BodyItem) {
	if data.Type.IsControlRoot() {
		return
	}
	l.methods[listener.KindStartKeyword].Notify(listener.NewCombined(data, res, nil))
}

// EndBodyItem notifies keyword end, with the same filtering as
// StartBodyItem.
func (l *LibraryListeners) EndBodyItem(data *running.BodyItem, res *result.BodyItem) {
	if data.Type.IsControlRoot() {
		return
	}
	l.methods[listener.KindEndKeyword].Notify(listener.NewCombined(data, res, nil))
}

// LogMessage forwards a log message if it passes the level threshold.
func (l *LibraryListeners) LogMessage(msg *model.Message) {
	if l.filter.Enabled(msg.Level) {
		l.methods[listener.KindLogMessage].Notify(msg)
	}
}

// Message forwards a generic message regardless of its level.
func (l *LibraryListeners) Message(msg *model.Message) {
	l.methods[listener.KindMessage].Notify(msg)
}

// LibraryImport notifies a library import. Only v2 listeners have this hook.
func (l *LibraryListeners) LibraryImport(imp *listener.Import) {
	l.methods[listener.KindLibraryImport].Notify(imp)
}

// ResourceImport notifies a resource file import.
func (l *LibraryListeners) ResourceImport(imp *listener.Import) {
	l.methods[listener.KindResourceImport].Notify(imp)
}

// VariablesImport notifies a variable file import.
func (l *LibraryListeners) VariablesImport(imp *listener.Import) {
	l.methods[listener.KindVariablesImport].Notify(imp)
}
