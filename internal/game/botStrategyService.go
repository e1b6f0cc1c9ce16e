package game

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	lua "github.com/yuin/gopher-lua"
	"github.com/yuin/gopher-lua/parse"
)

const luaEntryPoint = "nextDirection"

// LuaStrategy lets a script overrule the built-in decision. The script must
// define nextDirection(state) and return "UP", "DOWN", "LEFT" or "RIGHT".
// Errors and moves into occupied cells fall back to the built-in decision.
// The definition is compiled on first use; later edits to it are ignored.
type LuaStrategy struct {
	StrategyName       string
	StrategyDefinition string
	Fallback           Strategy

	compileOnce sync.Once
	proto       *lua.FunctionProto
	compileErr  error
}

func compileLua(name, definition string) (*lua.FunctionProto, error) {
	chunk, err := parse.Parse(strings.NewReader(definition), name)
	if err != nil {
		return nil, fmt.Errorf("could not parse lua strategy %s: %w", name, err)
	}
	proto, err := lua.Compile(chunk, name)
	if err != nil {
		return nil, fmt.Errorf("could not compile lua strategy %s: %w", name, err)
	}
	return proto, nil
}

// compiled returns the script's bytecode, compiling it the first time.
func (s *LuaStrategy) compiled() (*lua.FunctionProto, error) {
	s.compileOnce.Do(func() {
		s.proto, s.compileErr = compileLua(s.StrategyName, s.StrategyDefinition)
	})
	return s.proto, s.compileErr
}

// load runs the script's top level in luaState so its globals exist.
func (s *LuaStrategy) load(luaState *lua.LState) error {
	proto, err := s.compiled()
	if err != nil {
		return err
	}
	luaState.Push(luaState.NewFunctionFromProto(proto))
	if err := luaState.PCall(0, lua.MultRet, nil); err != nil {
		return fmt.Errorf("could not load lua strategy %s: %w", s.StrategyName, err)
	}
	return nil
}

// LoadLuaStrategy reads a script from disk and checks that it defines the entry point.
func LoadLuaStrategy(path string) (*LuaStrategy, error) {
	definition, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read lua strategy %s: %w", path, err)
	}

	strategy := &LuaStrategy{
		StrategyName:       path,
		StrategyDefinition: string(definition),
		Fallback:           DefaultStrategy{},
	}

	luaState := lua.NewState()
	defer luaState.Close()
	if err := strategy.load(luaState); err != nil {
		return nil, err
	}
	if luaState.GetGlobal(luaEntryPoint).Type() != lua.LTFunction {
		return nil, fmt.Errorf("lua strategy %s does not define %s", path, luaEntryPoint)
	}

	return strategy, nil
}

func (s *LuaStrategy) NextDirection(m *MapUtil, lastDirection Direction) Decision {
	fallback := s.Fallback
	if fallback == nil {
		fallback = DefaultStrategy{}
	}
	decision := fallback.NextDirection(m, lastDirection)

	scripted, err := s.runScript(m, lastDirection, decision)
	if err != nil {
		log.Warn("Lua strategy failed, using default decision", "strategy", s.StrategyName, "error", err)
		return decision
	}

	if len(decision.Feasible) > 0 && !m.CanIMoveInDirection(scripted) {
		log.Warn("Lua strategy chose a blocked direction, using default decision",
			"strategy", s.StrategyName, "direction", scripted)
		return decision
	}

	decision.Direction = scripted
	return decision
}

func (s *LuaStrategy) runScript(m *MapUtil, lastDirection Direction, suggested Decision) (Direction, error) {
	luaState := lua.NewState()
	defer luaState.Close()
	if err := s.load(luaState); err != nil {
		return Up, err
	}

	entryPoint := luaState.GetGlobal(luaEntryPoint)
	if entryPoint.Type() != lua.LTFunction {
		return Up, errors.New("lua strategy has no " + luaEntryPoint + " function")
	}

	if err := luaState.CallByParam(lua.P{
		Fn:      entryPoint,
		NRet:    1,
		Protect: true,
	}, stateToLuaTable(luaState, m, lastDirection, suggested)); err != nil {
		return Up, fmt.Errorf("could not execute lua strategy definition: %w", err)
	}

	luaReturn := luaState.Get(-1)
	luaState.Pop(1)
	if luaReturn.Type() != lua.LTString {
		return Up, fmt.Errorf("lua return value was type %s, expected string", luaReturn.Type().String())
	}

	return ParseDirection(lua.LVAsString(luaReturn))
}

func stateToLuaTable(luaState *lua.LState, m *MapUtil, lastDirection Direction, suggested Decision) *lua.LTable {
	pos := m.MyPosition()
	state := luaState.NewTable()
	state.RawSetString("x", lua.LNumber(pos.X))
	state.RawSetString("y", lua.LNumber(pos.Y))
	state.RawSetString("width", lua.LNumber(m.Board().Width))
	state.RawSetString("height", lua.LNumber(m.Board().Height))
	state.RawSetString("last", lua.LString(lastDirection.String()))
	state.RawSetString("suggested", lua.LString(suggested.Direction.String()))

	feasible := luaState.NewTable()
	for _, direction := range suggested.Feasible {
		feasible.Append(lua.LString(direction.String()))
	}
	state.RawSetString("feasible", feasible)

	scores := luaState.NewTable()
	for direction, space := range suggested.Scores {
		scores.RawSetString(direction.String(), lua.LNumber(space))
	}
	state.RawSetString("scores", scores)

	return state
}
