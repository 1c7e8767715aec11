// SPDX-License-Identifier: Apache-2.0

// Package lua hosts listener scripts written in Lua. A script declares its
// API version through the ROBOT_LISTENER_API_VERSION global and implements
// hooks as global functions named after the hook kind, e.g.
//
//	ROBOT_LISTENER_API_VERSION = 2
//	function log_message(msg) ... end
//
// Arguments from the textual reference are exposed as the listener_args
// table before the script body runs.
package lua

import (
	"os"
	"path/filepath"
	"time"

	"github.com/samber/oops"
	lua "github.com/yuin/gopher-lua"

	"github.com/miaopass-future/robotframework/pkg/listener"
	"github.com/miaopass-future/robotframework/pkg/model"
)

// Host loads Lua listener scripts and owns the lifetime of their states.
type Host struct {
	libraries []safeLibrary
	listeners []*Listener
}

// NewHost creates a host with the default sandboxed library set.
func NewHost() *Host {
	return &Host{libraries: defaultSafeLibraries()}
}

// Extensions reports the file extensions the host accepts.
func (h *Host) Extensions() []string { return []string{"lua"} }

// Load reads and executes a listener script. The returned value satisfies
// the dynamic listener contract; its hook set is fixed once the script
// body has run.
func (h *Host) Load(path string, args []string) (any, error) {
	code, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, oops.
			In("lua").
			With("path", path).
			Wrapf(err, "reading listener script failed")
	}

	state, err := h.newState()
	if err != nil {
		return nil, oops.In("lua").With("path", path).Wrap(err)
	}

	argsTable := state.NewTable()
	for _, arg := range args {
		argsTable.Append(lua.LString(arg))
	}
	state.SetGlobal("listener_args", argsTable)

	if err := state.DoString(string(code)); err != nil {
		state.Close()
		return nil, oops.
			In("lua").
			With("path", path).
			Wrapf(err, "executing listener script failed")
	}

	lst := &Listener{name: path, state: state}
	h.listeners = append(h.listeners, lst)
	return lst, nil
}

// Close shuts down every state the host has handed out.
func (h *Host) Close() error {
	for _, lst := range h.listeners {
		lst.state.Close()
	}
	h.listeners = nil
	return nil
}

// Listener adapts one loaded Lua script to the dynamic listener contract.
// It is not safe for concurrent use; all calls must come from the single
// thread driving execution.
type Listener struct {
	name  string
	state *lua.LState
}

var _ listener.Dynamic = (*Listener)(nil)

// ListenerAPIVersion returns the script's version global: nil when unset,
// an int for whole numbers, otherwise the raw string value.
func (l *Listener) ListenerAPIVersion() any {
	v := l.state.GetGlobal("ROBOT_LISTENER_API_VERSION")
	switch v.Type() {
	case lua.LTNil:
		return nil
	case lua.LTNumber:
		n := float64(v.(lua.LNumber))
		if n == float64(int(n)) {
			return int(n)
		}
		return n
	default:
		return v.String()
	}
}

// Has reports whether the script defines a global function for kind.
func (l *Listener) Has(kind listener.Kind) bool {
	return l.state.GetGlobal(string(kind)).Type() == lua.LTFunction
}

// Call invokes the script's hook function for kind with the converted
// payload. Calling an undefined hook is a no-op.
func (l *Listener) Call(kind listener.Kind, payload any) error {
	fn := l.state.GetGlobal(string(kind))
	if fn.Type() != lua.LTFunction {
		return nil
	}

	args := make([]lua.LValue, 0, 1)
	switch p := payload.(type) {
	case *listener.Combined:
		args = append(args, l.viewTable(p))
	case *model.Message:
		args = append(args, l.messageTable(p))
	case *listener.Import:
		args = append(args, l.importTable(p))
	case nil:
		// close carries no payload
	default:
		args = append(args, toLValue(l.state, p))
	}

	if err := l.state.CallByParam(lua.P{
		Fn:      fn,
		NRet:    0,
		Protect: true,
	}, args...); err != nil {
		return oops.
			In("lua").
			With("script", l.name).
			With("method", string(kind)).
			Wrapf(err, "listener script hook '%s' failed", kind)
	}
	return nil
}

func (l *Listener) viewTable(v *listener.Combined) *lua.LTable {
	t := l.state.NewTable()
	for name, value := range v.Attrs() {
		l.state.SetField(t, name, toLValue(l.state, value))
	}
	return t
}

func (l *Listener) messageTable(m *model.Message) *lua.LTable {
	t := l.state.NewTable()
	l.state.SetField(t, "id", lua.LString(m.ID.String()))
	l.state.SetField(t, "timestamp", lua.LString(m.Timestamp.Format(time.RFC3339Nano)))
	l.state.SetField(t, "level", lua.LString(m.Level.String()))
	l.state.SetField(t, "message", lua.LString(m.Text))
	l.state.SetField(t, "html", lua.LBool(m.HTML))
	return t
}

func (l *Listener) importTable(imp *listener.Import) *lua.LTable {
	t := l.state.NewTable()
	l.state.SetField(t, "name", lua.LString(imp.Name))
	l.state.SetField(t, "source", lua.LString(imp.Source))
	return t
}
