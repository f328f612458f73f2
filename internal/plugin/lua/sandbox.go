package lua

import (
	"errors"
	"io"
	"strings"

	lua "github.com/yuin/gopher-lua"
)

// errorTypeName names the metatable of Go errors raised into Lua.
const errorTypeName = "tt.error"

// installSandbox removes functions that can load code from outside the
// state, routes print to out and registers the Go error type.
func installSandbox(L *lua.LState, out io.Writer) {
	dangerousFuncs := []string{
		"dofile",     // Load and execute file
		"loadfile",   // Load file as function
		"load",       // Load string as function
		"loadstring", // Load string as function (deprecated but may exist)
		"require",    // No package library, and no module loading
	}
	for _, name := range dangerousFuncs {
		L.SetGlobal(name, lua.LNil)
	}

	L.SetGlobal("print", L.NewFunction(func(L *lua.LState) int {
		n := L.GetTop()
		parts := make([]string, 0, n)
		for i := 1; i <= n; i++ {
			parts = append(parts, L.ToStringMeta(L.Get(i)).String())
		}
		_, _ = io.WriteString(out, strings.Join(parts, "\t")+"\n")
		return 0
	}))

	mt := L.NewTypeMetatable(errorTypeName)
	L.SetField(mt, "__tostring", L.NewFunction(func(L *lua.LState) int {
		ud := L.CheckUserData(1)
		if err, ok := ud.Value.(error); ok {
			L.Push(lua.LString(err.Error()))
		} else {
			L.Push(lua.LString("error"))
		}
		return 1
	}))
}

// raise raises err as a Lua error carrying the Go error value, so it
// survives to the caller of DoFile intact.
func raise(L *lua.LState, err error) int {
	ud := L.NewUserData()
	ud.Value = err
	L.SetMetatable(ud, L.GetTypeMetatable(errorTypeName))
	L.Error(ud, 1)
	return 0
}

// unwrapRaised returns the Go error carried by a value raised with raise,
// or err itself.
func unwrapRaised(err error) error {
	var apiErr *lua.ApiError
	if errors.As(err, &apiErr) {
		if ud, ok := apiErr.Object.(*lua.LUserData); ok {
			if goErr, ok := ud.Value.(error); ok {
				return goErr
			}
		}
	}
	return err
}
