// SPDX-License-Identifier: Apache-2.0

package output

import (
	"sort"
	"sync"

	"github.com/gobwas/glob"
	"github.com/samber/oops"
)

// Factory constructs a listener instance from textual arguments.
type Factory func(args ...string) (any, error)

// Registry maps listener names to factories or ready-made values so
// textual references can resolve without filesystem loading. Factories are
// always invoked; values are handed out directly and reject arguments.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
	values    map[string]any
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
		values:    make(map[string]any),
	}
}

// RegisterFactory registers a listener constructor under name,
// replacing any previous registration.
func (r *Registry) RegisterFactory(name string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.values, name)
	r.factories[name] = f
}

// RegisterValue registers a ready-made listener under name,
// replacing any previous registration.
func (r *Registry) RegisterValue(name string, v any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.factories, name)
	r.values[name] = v
}

// Resolve returns the listener registered under name, invoking its factory
// with args when one is registered.
func (r *Registry) Resolve(name string, args []string) (any, error) {
	r.mu.RLock()
	factory, isFactory := r.factories[name]
	value, isValue := r.values[name]
	r.mu.RUnlock()

	switch {
	case isFactory:
		lst, err := factory(args...)
		if err != nil {
			return nil, oops.
				Code("LISTENER_INIT_FAILED").
				With("listener", name).
				With("args", args).
				Wrapf(err, "initializing listener %q failed", name)
		}
		return lst, nil
	case isValue:
		if len(args) > 0 {
			return nil, oops.
				Code("LISTENER_ARGS_REJECTED").
				With("listener", name).
				With("args", args).
				Errorf("listener %q does not take arguments", name)
		}
		return value, nil
	default:
		return nil, oops.
			Code("LISTENER_NOT_FOUND").
			With("listener", name).
			Errorf("no listener registered as %q", name)
	}
}

// Names returns registered names matching the glob pattern, sorted.
// An empty pattern matches everything.
func (r *Registry) Names(pattern string) ([]string, error) {
	if pattern == "" {
		pattern = "*"
	}
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, oops.
			Code("LISTENER_PATTERN_INVALID").
			With("pattern", pattern).
			Wrapf(err, "invalid listener name pattern %q", pattern)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var names []string
	for name := range r.factories {
		if g.Match(name) {
			names = append(names, name)
		}
	}
	for name := range r.values {
		if g.Match(name) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}
