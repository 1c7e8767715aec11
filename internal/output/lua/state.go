// SPDX-License-Identifier: Apache-2.0

package lua

import (
	"fmt"
	"math"

	lua "github.com/yuin/gopher-lua"
)

// safeLibrary is one Lua library permitted inside a listener state.
type safeLibrary struct {
	name string
	fn   lua.LGFunction
}

// defaultSafeLibraries lists the libraries a listener script may use.
// Safe: base, table, string, math.
// Blocked: os, io, debug, package.
func defaultSafeLibraries() []safeLibrary {
	return []safeLibrary{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	}
}

// unsafeBaseFunctions are base library functions that reach the filesystem
// and are therefore removed from every state.
var unsafeBaseFunctions = []string{"dofile", "loadfile", "loadstring", "load"}

// newState builds a fresh state with only the host's safe libraries loaded.
func (h *Host) newState() (*lua.LState, error) {
	L := lua.NewState(lua.Options{
		SkipOpenLibs: true,
	})

	for _, lib := range h.libraries {
		if err := L.CallByParam(lua.P{
			Fn:      L.NewFunction(lib.fn),
			NRet:    0,
			Protect: true,
		}, lua.LString(lib.name)); err != nil {
			L.Close()
			return nil, fmt.Errorf("opening library %s failed: %w", lib.name, err)
		}
	}

	for _, fn := range unsafeBaseFunctions {
		L.SetGlobal(fn, lua.LNil)
	}

	return L, nil
}

// toLValue converts a Go value into its closest Lua representation.
// Values with no natural mapping fall back to their string form.
func toLValue(L *lua.LState, v any) lua.LValue {
	switch x := v.(type) {
	case nil:
		return lua.LNil
	case bool:
		return lua.LBool(x)
	case string:
		return lua.LString(x)
	case int:
		return lua.LNumber(x)
	case int32:
		return lua.LNumber(x)
	case int64:
		return lua.LNumber(x)
	case uint:
		if x <= math.MaxInt64 {
			return lua.LNumber(x)
		}
		return lua.LString(fmt.Sprint(x))
	case float32:
		return lua.LNumber(x)
	case float64:
		return lua.LNumber(x)
	case []string:
		t := L.NewTable()
		for _, s := range x {
			t.Append(lua.LString(s))
		}
		return t
	case fmt.Stringer:
		return lua.LString(x.String())
	default:
		return lua.LString(fmt.Sprint(v))
	}
}
