// SPDX-License-Identifier: Apache-2.0

package output

import (
	"log/slog"
	"slices"

	"github.com/samber/oops"

	"github.com/miaopass-future/robotframework/pkg/errutil"
	"github.com/miaopass-future/robotframework/pkg/listener"
)

// ListenerMethods dispatches one event kind to the listeners currently
// registered for it. Registrations are keyed by the owning library and
// kept in registration order; suite scopes bound the lifetime of
// registrations made inside them.
//
// All six operations must be called from the single thread driving
// execution; there is no internal locking.
type ListenerMethods struct {
	kind    listener.Kind
	entries []methodEntry
	scopes  [][]methodEntry
}

type methodEntry struct {
	library string
	proxy   *ListenerProxy
}

// NewListenerMethods creates a dispatcher for kind.
func NewListenerMethods(kind listener.Kind) *ListenerMethods {
	return &ListenerMethods{kind: kind}
}

// Kind returns the event kind this dispatcher serves.
func (m *ListenerMethods) Kind() listener.Kind { return m.kind }

// Register appends proxies to the active set under library,
// preserving order.
func (m *ListenerMethods) Register(proxies []*ListenerProxy, library string) {
	for _, proxy := range proxies {
		m.entries = append(m.entries, methodEntry{library: library, proxy: proxy})
	}
}

// Unregister removes every registration owned by library, from the active
// set and from every recorded scope, so a later scope discard cannot bring
// a removed listener back.
func (m *ListenerMethods) Unregister(library string) {
	m.entries = withoutLibrary(m.entries, library)
	for i, scope := range m.scopes {
		m.scopes[i] = withoutLibrary(scope, library)
	}
}

func withoutLibrary(entries []methodEntry, library string) []methodEntry {
	var kept []methodEntry
	for _, e := range entries {
		if e.library != library {
			kept = append(kept, e)
		}
	}
	return kept
}

// NewSuiteScope records the current active set so registrations made from
// now on can be discarded together.
func (m *ListenerMethods) NewSuiteScope() {
	m.scopes = append(m.scopes, slices.Clone(m.entries))
}

// DiscardSuiteScope restores the active set recorded by the matching
// NewSuiteScope. Discarding without a matching scope is a programming
// error and panics.
func (m *ListenerMethods) DiscardSuiteScope() {
	if len(m.scopes) == 0 {
		panic("output: DiscardSuiteScope without matching NewSuiteScope")
	}
	last := len(m.scopes) - 1
	m.entries = m.scopes[last]
	m.scopes = m.scopes[:last]
}

// Notify calls the hook for this kind on every active listener in
// registration order. One listener's failure is logged and isolated; the
// rest are still notified.
func (m *ListenerMethods) Notify(payload any) {
	m.notify(m.entries, payload)
	NotificationsTotal.WithLabelValues(string(m.kind)).Inc()
}

// NotifyLibrary notifies only the listeners owned by library.
func (m *ListenerMethods) NotifyLibrary(library string, payload any) {
	var owned []methodEntry
	for _, e := range m.entries {
		if e.library == library {
			owned = append(owned, e)
		}
	}
	m.notify(owned, payload)
}

func (m *ListenerMethods) notify(entries []methodEntry, payload any) {
	for _, e := range entries {
		if !e.proxy.Has(m.kind) {
			continue
		}
		if err := e.proxy.Call(m.kind, payload); err != nil {
			ListenerFailures.WithLabelValues(e.proxy.Name(), string(m.kind)).Inc()
			errutil.LogWarning(slog.Default(), "calling listener method failed", oops.
				Code("LISTENER_CALL_FAILED").
				With("listener", e.proxy.Name()).
				With("method", string(m.kind)).
				Wrapf(err, "calling method '%s' of listener '%s' failed", m.kind, e.proxy.Name()))
		}
	}
}
