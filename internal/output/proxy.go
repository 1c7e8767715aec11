// SPDX-License-Identifier: Apache-2.0

package output

import (
	"math"
	"strconv"

	"github.com/samber/oops"

	"github.com/miaopass-future/robotframework/pkg/listener"
	"github.com/miaopass-future/robotframework/pkg/model"
)

// hookFunc invokes one listener hook with an event payload.
type hookFunc func(payload any) error

// v3RemovedKinds are hooks that exist only in the version 2 contract.
// Keyword detail flows to v3 listeners at the body-item level instead.
var v3RemovedKinds = []listener.Kind{
	listener.KindStartKeyword,
	listener.KindEndKeyword,
	listener.KindLibraryImport,
	listener.KindResourceImport,
	listener.KindVariablesImport,
}

// ListenerProxy wraps one resolved listener with its declared API version
// and a version-correct hook table. The table is built once; hooks absent
// at construction stay absent for the proxy's lifetime.
type ListenerProxy struct {
	name    string
	version int
	hooks   map[listener.Kind]hookFunc
}

// NewListenerProxy validates the listener's version marker and builds the
// hook table.
func NewListenerProxy(lst any, name string) (*ListenerProxy, error) {
	version, err := listenerVersion(lst, name)
	if err != nil {
		return nil, err
	}
	p := &ListenerProxy{
		name:    name,
		version: version,
		hooks:   make(map[listener.Kind]hookFunc),
	}
	p.bindTyped(lst)
	if dyn, ok := lst.(listener.Dynamic); ok {
		p.bindDynamic(dyn)
	}
	if version == 3 {
		for _, kind := range v3RemovedKinds {
			delete(p.hooks, kind)
		}
	}
	return p, nil
}

// Name returns the listener display name.
func (p *ListenerProxy) Name() string { return p.name }

// Version returns the declared API version, 2 or 3.
func (p *ListenerProxy) Version() int { return p.version }

// Has reports whether the hook for kind is callable.
func (p *ListenerProxy) Has(kind listener.Kind) bool {
	return p.hooks[kind] != nil
}

// Call invokes the hook for kind. Calling an absent hook is a no-op.
// A panicking listener is reported as an error, never propagated.
func (p *ListenerProxy) Call(kind listener.Kind, payload any) (err error) {
	hook := p.hooks[kind]
	if hook == nil {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = oops.
				Code("LISTENER_PANIC").
				With("listener", p.name).
				With("method", string(kind)).
				Errorf("listener '%s' panicked: %v", p.name, r)
		}
	}()
	return hook(payload)
}

func listenerVersion(lst any, name string) (int, error) {
	versioned, ok := lst.(listener.Versioned)
	if !ok {
		return 0, versionMissing(name)
	}
	raw := versioned.ListenerAPIVersion()
	if raw == nil {
		return 0, versionMissing(name)
	}
	version, ok := toInt(raw)
	if !ok || (version != 2 && version != 3) {
		return 0, oops.
			Code("LISTENER_VERSION_INVALID").
			With("listener", name).
			With("version", raw).
			Errorf("listener '%s' uses unsupported API version '%v'", name, raw)
	}
	return version, nil
}

func versionMissing(name string) error {
	return oops.
		Code("LISTENER_VERSION_MISSING").
		With("listener", name).
		Errorf("listener '%s' does not declare the mandatory API version", name)
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int8:
		return int(n), true
	case int16:
		return int(n), true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case uint:
		return int(n), true
	case uint8:
		return int(n), true
	case uint16:
		return int(n), true
	case uint32:
		return int(n), true
	case uint64:
		return int(n), true
	case float32:
		return floatToInt(float64(n))
	case float64:
		return floatToInt(n)
	case string:
		parsed, err := strconv.Atoi(n)
		return parsed, err == nil
	default:
		return 0, false
	}
}

func floatToInt(f float64) (int, bool) {
	if f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}

func (p *ListenerProxy) bindTyped(lst any) {
	if h, ok := lst.(listener.SuiteStartHandler); ok {
		p.hooks[listener.KindStartSuite] = viewHook(h.StartSuite)
	}
	if h, ok := lst.(listener.SuiteEndHandler); ok {
		p.hooks[listener.KindEndSuite] = viewHook(h.EndSuite)
	}
	if h, ok := lst.(listener.TestStartHandler); ok {
		p.hooks[listener.KindStartTest] = viewHook(h.StartTest)
	}
	if h, ok := lst.(listener.TestEndHandler); ok {
		p.hooks[listener.KindEndTest] = viewHook(h.EndTest)
	}
	if h, ok := lst.(listener.KeywordStartHandler); ok {
		p.hooks[listener.KindStartKeyword] = viewHook(h.StartKeyword)
	}
	if h, ok := lst.(listener.KeywordEndHandler); ok {
		p.hooks[listener.KindEndKeyword] = viewHook(h.EndKeyword)
	}
	if h, ok := lst.(listener.LogMessageHandler); ok {
		p.hooks[listener.KindLogMessage] = messageHook(h.LogMessage)
	}
	if h, ok := lst.(listener.MessageHandler); ok {
		p.hooks[listener.KindMessage] = messageHook(h.Message)
	}
	if h, ok := lst.(listener.LibraryImportHandler); ok {
		p.hooks[listener.KindLibraryImport] = importHook(h.LibraryImport)
	}
	if h, ok := lst.(listener.ResourceImportHandler); ok {
		p.hooks[listener.KindResourceImport] = importHook(h.ResourceImport)
	}
	if h, ok := lst.(listener.VariablesImportHandler); ok {
		p.hooks[listener.KindVariablesImport] = importHook(h.VariablesImport)
	}
	if h, ok := lst.(listener.CloseHandler); ok {
		p.hooks[listener.KindClose] = func(any) error { return h.Close() }
	}
}

// bindDynamic fills hook table gaps from a dynamic listener contract.
// Typed hooks, when both are present, win.
func (p *ListenerProxy) bindDynamic(dyn listener.Dynamic) {
	for _, kind := range listener.Kinds() {
		if p.hooks[kind] != nil || !dyn.Has(kind) {
			continue
		}
		p.hooks[kind] = func(payload any) error {
			return dyn.Call(kind, payload)
		}
	}
}

func viewHook(fn func(*listener.Combined) error) hookFunc {
	return func(payload any) error {
		view, _ := payload.(*listener.Combined)
		return fn(view)
	}
}

func messageHook(fn func(*model.Message) error) hookFunc {
	return func(payload any) error {
		msg, _ := payload.(*model.Message)
		return fn(msg)
	}
}

func importHook(fn func(*listener.Import) error) hookFunc {
	return func(payload any) error {
		imp, _ := payload.(*listener.Import)
		return fn(imp)
	}
}
