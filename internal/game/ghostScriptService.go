package game

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	lua "github.com/yuin/gopher-lua"
	"github.com/yuin/gopher-lua/parse"
)

const scriptEntryPoint = "chooseDirection"

// ScriptStrategy delegates ghost targeting to a Lua function:
//
//	function chooseDirection(state)
//	  -- state.mode, state.ghost {x,y}, state.pacman {x,y}, state.home {x,y},
//	  -- state.heading, state.pacmanHeading, state.pillTimer, state.options
//	  return state.options[1]
//	end
//
// The script is compiled once; each call runs in a fresh Lua state. Errors
// and illegal answers fall back to DefaultStrategy.
type ScriptStrategy struct {
	Name     string
	proto    *lua.FunctionProto
	fallback GhostStrategy
}

func NewScriptStrategy(name, source string) (*ScriptStrategy, error) {
	chunk, err := parse.Parse(strings.NewReader(source), name)
	if err != nil {
		return nil, fmt.Errorf("parse ghost script %s: %w", name, err)
	}
	proto, err := lua.Compile(chunk, name)
	if err != nil {
		return nil, fmt.Errorf("compile ghost script %s: %w", name, err)
	}
	return &ScriptStrategy{Name: name, proto: proto, fallback: DefaultStrategy{}}, nil
}

func LoadScriptStrategy(path string) (*ScriptStrategy, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read ghost script: %w", err)
	}
	return NewScriptStrategy(path, string(source))
}

func (s *ScriptStrategy) ChooseDirection(ghost *Ghost, options []Direction) Direction {
	d, err := s.evaluate(ghost, options)
	if err != nil {
		log.Warn("Ghost script failed, using default strategy", "script", s.Name, "ghost", ghost.ID(), "error", err)
		return s.fallback.ChooseDirection(ghost, options)
	}
	return d
}

func (s *ScriptStrategy) evaluate(ghost *Ghost, options []Direction) (Direction, error) {
	luaState := newSandboxedState()
	defer luaState.Close()

	luaState.Push(luaState.NewFunctionFromProto(s.proto))
	if err := luaState.PCall(0, lua.MultRet, nil); err != nil {
		return None, fmt.Errorf("run script body: %w", err)
	}

	fn := luaState.GetGlobal(scriptEntryPoint)
	if fn.Type() != lua.LTFunction {
		return None, errors.New("script does not define " + scriptEntryPoint)
	}
	luaState.Push(fn)
	luaState.Push(stateTable(luaState, ghost, options))
	if err := luaState.PCall(1, 1, nil); err != nil {
		return None, fmt.Errorf("call %s: %w", scriptEntryPoint, err)
	}

	luaReturn := luaState.Get(-1)
	luaState.Pop(1)
	name, ok := luaReturn.(lua.LString)
	if !ok {
		return None, fmt.Errorf("script returned %s, expected string", luaReturn.Type().String())
	}
	d, ok := ParseDirection(string(name))
	if !ok || !containsDirection(options, d) {
		return None, fmt.Errorf("script chose illegal direction %q", string(name))
	}
	return d, nil
}

// newSandboxedState opens only the pure libraries; scripts get no io or os.
func newSandboxedState() *lua.LState {
	luaState := lua.NewState(lua.Options{SkipOpenLibs: true})
	for _, lib := range []struct {
		name string
		open lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		luaState.Push(luaState.NewFunction(lib.open))
		luaState.Push(lua.LString(lib.name))
		luaState.Call(1, 0)
	}
	return luaState
}

func stateTable(luaState *lua.LState, ghost *Ghost, options []Direction) *lua.LTable {
	board := ghost.Board()
	pacman := board.Pacman()

	tbl := luaState.NewTable()
	tbl.RawSetString("mode", lua.LString(ghost.State().String()))
	tbl.RawSetString("ghost", cellTable(luaState, ghost.Cell()))
	tbl.RawSetString("home", cellTable(luaState, ghost.Home().Cell))
	tbl.RawSetString("pacman", cellTable(luaState, pacman.Cell()))
	tbl.RawSetString("heading", lua.LString(ghost.Direction().String()))
	tbl.RawSetString("pacmanHeading", lua.LString(pacman.Direction().String()))
	tbl.RawSetString("pillTimer", lua.LNumber(board.PillTimer()))

	opts := luaState.NewTable()
	for _, d := range options {
		opts.Append(lua.LString(d.String()))
	}
	tbl.RawSetString("options", opts)
	return tbl
}

func cellTable(luaState *lua.LState, c Cell) *lua.LTable {
	tbl := luaState.NewTable()
	tbl.RawSetString("x", lua.LNumber(c.X))
	tbl.RawSetString("y", lua.LNumber(c.Y))
	return tbl
}
