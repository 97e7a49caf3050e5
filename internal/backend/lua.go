package backend

import (
	"context"
	"errors"
	"fmt"
	"sync"

	lua "github.com/yuin/gopher-lua"
)

// LuaFunction is the global a completion script must define:
//
//	function complete(text, column, line) return "snippet" end
//
// It may also return a table with a snippet field, or nil for no suggestion.
const LuaFunction = "complete"

// ErrScriptClosed is returned after the script state has been closed.
var ErrScriptClosed = errors.New("lua state is closed")

// unsafeGlobals are removed from the base library.
var unsafeGlobals = []string{"dofile", "loadfile", "load", "loadstring", "require", "module"}

// Script is a completion backend implemented in Lua. gopher-lua states are not
// goroutine-safe, so calls are serialized.
type Script struct {
	mu     sync.Mutex
	L      *lua.LState
	closed bool
}

// NewLua loads the script at path and returns its completion function.
func NewLua(path string) (Func, error) {
	if path == "" {
		return nil, &Error{Provider: ProviderLua, Err: errors.New("script not set")}
	}
	s := newScript()
	if err := s.load(func() error { return s.L.DoFile(path) }); err != nil {
		s.Close()
		return nil, &Error{Provider: ProviderLua, Err: err}
	}
	return s.Complete, nil
}

// LoadScript compiles source and checks that it defines LuaFunction.
func LoadScript(source string) (*Script, error) {
	s := newScript()
	if err := s.load(func() error { return s.L.DoString(source) }); err != nil {
		s.Close()
		return nil, &Error{Provider: ProviderLua, Err: err}
	}
	return s, nil
}

func newScript() *Script {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
	for _, name := range unsafeGlobals {
		L.SetGlobal(name, lua.LNil)
	}

	mod := L.NewTable()
	L.SetField(mod, "indicator", lua.LString(FillIndicator))
	L.SetField(mod, "fill", L.NewFunction(luaFill))
	L.SetField(mod, "prompt", L.NewFunction(luaPrompt))
	L.SetGlobal("ghostline", mod)

	return &Script{L: L}
}

func (s *Script) load(run func() error) error {
	if err := recoverCall(run); err != nil {
		return err
	}
	if fn := s.L.GetGlobal(LuaFunction); fn.Type() != lua.LTFunction {
		return fmt.Errorf("script does not define function %q", LuaFunction)
	}
	return nil
}

// Complete calls the script's complete function. Cancelling ctx aborts a
// running script.
func (s *Script) Complete(ctx context.Context, req Request) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return Result{}, wrap(ProviderLua, ErrScriptClosed)
	}

	s.L.SetContext(ctx)
	defer s.L.RemoveContext()

	top := s.L.GetTop()
	defer s.L.SetTop(top)

	s.L.Push(s.L.GetGlobal(LuaFunction))
	s.L.Push(lua.LString(req.Text))
	s.L.Push(lua.LNumber(req.Column))
	s.L.Push(lua.LNumber(req.Line))
	err := recoverCall(func() error { return s.L.PCall(3, 1, nil) })
	if err != nil {
		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}
		return Result{}, wrap(ProviderLua, err)
	}

	switch v := s.L.Get(-1).(type) {
	case lua.LString:
		return Result{Snippet: string(v)}, nil
	case *lua.LTable:
		if sv, ok := s.L.GetField(v, "snippet").(lua.LString); ok {
			return Result{Snippet: string(sv)}, nil
		}
		return Result{}, nil
	case *lua.LNilType:
		return Result{}, nil
	default:
		return Result{}, wrap(ProviderLua, fmt.Errorf("%s returned %s", LuaFunction, v.Type()))
	}
}

// Close releases the Lua state.
func (s *Script) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.L.Close()
		s.closed = true
	}
}

func recoverCall(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	return fn()
}

// ghostline.fill(text, line, column)
func luaFill(L *lua.LState) int {
	text := L.CheckString(1)
	line := L.CheckInt(2)
	column := L.CheckInt(3)
	L.Push(lua.LString(WithIndicator(text, line, column)))
	return 1
}

// ghostline.prompt(text, line, column)
func luaPrompt(L *lua.LState) int {
	req := Request{Text: L.CheckString(1), Line: L.CheckInt(2), Column: L.CheckInt(3)}
	L.Push(lua.LString(Prompt(req)))
	return 1
}
