// SPDX-License-Identifier: Apache-2.0

package output

import (
	"log/slog"
	"path"
	"reflect"
	"strings"

	"github.com/samber/oops"

	"github.com/miaopass-future/robotframework/pkg/errutil"
	"github.com/miaopass-future/robotframework/pkg/listener"
)

// ScriptHost loads listener scripts referenced by filesystem path.
type ScriptHost interface {
	// Extensions returns the file extensions the host accepts, without dots.
	Extensions() []string
	// Load resolves path into a live listener, instantiated with args.
	Load(path string, args []string) (any, error)
}

// Importer resolves raw listener references into listener proxies.
// A reference is either a live listener object or a textual spec of the
// form "identifier:arg1:arg2" or "path/to/script.lua:arg1". Comma delimits
// arguments when the reference contains no colon.
type Importer struct {
	registry *Registry
	hosts    []ScriptHost
}

// ImporterOption configures the Importer.
type ImporterOption func(*Importer)

// WithScriptHost adds a script host for path references.
func WithScriptHost(h ScriptHost) ImporterOption {
	return func(i *Importer) {
		i.hosts = append(i.hosts, h)
	}
}

// NewImporter creates an importer resolving named references through
// registry.
func NewImporter(registry *Registry, opts ...ImporterOption) *Importer {
	i := &Importer{registry: registry}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Import resolves one reference into a version-checked listener proxy.
func (i *Importer) Import(ref any) (*ListenerProxy, error) {
	lst, name, err := i.resolve(ref)
	if err != nil {
		return nil, err
	}
	return NewListenerProxy(lst, name)
}

// ImportListeners resolves refs in order. With raiseOnError the first
// failure aborts the whole batch and nothing is returned; otherwise a
// failing reference is logged and skipped while the rest still resolve.
func (i *Importer) ImportListeners(refs []any, raiseOnError bool) ([]*ListenerProxy, error) {
	var proxies []*ListenerProxy
	for _, ref := range refs {
		proxy, err := i.Import(ref)
		if err != nil {
			err = oops.
				Code("LISTENER_ATTACH_FAILED").
				With("reference", refText(ref)).
				Wrapf(err, "taking listener %q into use failed", refText(ref))
			if raiseOnError {
				return nil, err
			}
			ListenerImports.WithLabelValues(statusError).Inc()
			errutil.LogError(slog.Default(), "taking listener into use failed", err)
			continue
		}
		proxies = append(proxies, proxy)
	}
	// Successes count only once the whole batch commits; an aborted
	// fail-fast batch binds nothing.
	ListenerImports.WithLabelValues(statusSuccess).Add(float64(len(proxies)))
	return proxies, nil
}

func (i *Importer) resolve(ref any) (any, string, error) {
	if spec, ok := ref.(string); ok {
		return i.resolveSpec(spec)
	}
	if ref == nil {
		return nil, "", oops.Code("LISTENER_NOT_FOUND").New("listener reference is nil")
	}
	return ref, displayName(ref), nil
}

func (i *Importer) resolveSpec(spec string) (any, string, error) {
	name, args := splitArgsFromNameOrPath(spec)
	if host := i.hostFor(name); host != nil {
		lst, err := host.Load(normalizePath(name), args)
		if err != nil {
			return nil, name, oops.
				Code("LISTENER_IMPORT_FAILED").
				With("reference", spec).
				Wrapf(err, "importing listener %q failed", name)
		}
		return lst, name, nil
	}
	lst, err := i.registry.Resolve(name, args)
	if err != nil {
		return nil, name, err
	}
	return lst, name, nil
}

func (i *Importer) hostFor(name string) ScriptHost {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(normalizePath(name)), "."))
	if ext == "" {
		return nil
	}
	for _, host := range i.hosts {
		for _, accepted := range host.Extensions() {
			if ext == accepted {
				return host
			}
		}
	}
	return nil
}

// splitArgsFromNameOrPath splits "name:arg1:arg2" into the base reference
// and its arguments. A single-letter prefix followed by a path separator
// is a Windows drive, not a delimiter. Comma delimits when the reference
// contains no colon.
func splitArgsFromNameOrPath(spec string) (string, []string) {
	sep := ":"
	if !strings.Contains(spec, ":") {
		if !strings.Contains(spec, ",") {
			return spec, nil
		}
		sep = ","
	}
	parts := strings.Split(spec, sep)
	if sep == ":" && len(parts) > 1 && isDrivePrefix(parts[0], parts[1]) {
		parts = append([]string{parts[0] + ":" + parts[1]}, parts[2:]...)
	}
	return parts[0], parts[1:]
}

func isDrivePrefix(prefix, rest string) bool {
	return len(prefix) == 1 &&
		(strings.HasPrefix(rest, "\\") || strings.HasPrefix(rest, "/"))
}

// normalizePath converts backslash separators and cleans the path.
func normalizePath(name string) string {
	return path.Clean(strings.ReplaceAll(name, "\\", "/"))
}

// displayName derives a name for a live listener object: an explicit
// Name() wins, otherwise the runtime type name is used.
func displayName(ref any) string {
	if named, ok := ref.(listener.Named); ok {
		return named.Name()
	}
	t := reflect.TypeOf(ref)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return "<nil>"
	}
	if t.Name() != "" {
		return t.Name()
	}
	return t.String()
}

func refText(ref any) string {
	if spec, ok := ref.(string); ok {
		return spec
	}
	return displayName(ref)
}
