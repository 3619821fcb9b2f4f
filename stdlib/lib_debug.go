package stdlib

import (
	"strings"

	. "github.com/katsu-lua/lua54/api"
)

var debugLib = FuncReg{
	"getinfo":      dbGetInfo,
	"getlocal":     dbGetLocal,
	"setlocal":     dbSetLocal,
	"getupvalue":   dbGetUpvalue,
	"setupvalue":   dbSetUpvalue,
	"sethook":      dbSetHook,
	"gethook":      dbGetHook,
	"traceback":    dbTraceback,
	"getmetatable": dbGetMetatable,
	"setmetatable": dbSetMetatable,
}

func OpenDebugLib(ls State) int {
	ls.NewLib(debugLib)
	return 1
}

// debug.getinfo([thread,] f [, what])
// lua-5.4/src/ldblib.c#db_getinfo()
func dbGetInfo(ls State) int {
	arg := 1
	var level int
	if ls.IsNumber(arg) {
		level = int(ls.CheckInteger(arg))
	} else if ls.IsFunction(arg) {
		level = -1 // level<0 is not meaningful for a function value; handled below
	}
	what := ls.OptString(arg+1, "flnStu")

	if level >= 0 {
		info, ok := ls.GetInfo(level, what)
		if !ok {
			ls.PushNil()
			return 1
		}
		pushDebugInfo(ls, info, what)
		return 1
	}

	// function-value form: only the subset derivable without a live frame.
	ls.CreateTable(0, 4)
	ls.PushString("Lua")
	ls.SetField(-2, "what")
	ls.PushString("?")
	ls.SetField(-2, "source")
	ls.PushString("[?]")
	ls.SetField(-2, "short_src")
	ls.PushInteger(-1)
	ls.SetField(-2, "linedefined")
	return 1
}

func pushDebugInfo(ls State, info *DebugInfo, what string) {
	ls.CreateTable(0, 12)
	set := func(k string, v any) {
		pushAny(ls, v)
		ls.SetField(-2, k)
	}
	if strings.Contains(what, "S") {
		set("source", info.Source)
		set("short_src", info.ShortSrc)
		set("what", info.What)
		set("linedefined", int64(info.LineDefined))
		set("lastlinedefined", int64(info.LastLineDefined))
	}
	if strings.Contains(what, "l") {
		set("currentline", int64(info.CurrentLine))
	}
	if strings.Contains(what, "u") {
		set("nups", int64(info.NumUpvalues))
		set("nparams", int64(info.NumParams))
		set("isvararg", info.IsVararg)
	}
	if strings.Contains(what, "n") {
		set("name", info.Name)
		set("namewhat", info.NameWhat)
	}
	if strings.Contains(what, "t") {
		set("istailcall", info.IsTailCall)
	}
}

func pushAny(ls State, v any) {
	switch x := v.(type) {
	case string:
		ls.PushString(x)
	case int64:
		ls.PushInteger(x)
	case int:
		ls.PushInteger(int64(x))
	case bool:
		ls.PushBoolean(x)
	default:
		ls.PushNil()
	}
}

// debug.getlocal([thread,] f, local)
func dbGetLocal(ls State) int {
	level := int(ls.CheckInteger(1))
	n := int(ls.CheckInteger(2))
	name, ok := ls.GetLocal(level, n)
	if !ok {
		ls.PushNil()
		return 1
	}
	ls.PushString(name)
	ls.Insert(-2) // name, value
	return 2
}

// debug.setlocal([thread,] level, local)
func dbSetLocal(ls State) int {
	level := int(ls.CheckInteger(1))
	n := int(ls.CheckInteger(2))
	ls.PushValue(3)
	name, ok := ls.SetLocal(level, n)
	if !ok {
		ls.PushNil()
		return 1
	}
	ls.PushString(name)
	return 1
}

// debug.getupvalue(f, up)
func dbGetUpvalue(ls State) int {
	n := int(ls.CheckInteger(2))
	name, ok := ls.GetUpvalueName(1, n)
	if !ok {
		ls.PushNil()
		return 1
	}
	ls.PushString(name)
	return 1
}

// debug.setupvalue(f, up, value)
func dbSetUpvalue(ls State) int {
	n := int(ls.CheckInteger(2))
	ls.PushValue(3)
	name, ok := ls.SetUpvalueValue(1, n)
	if !ok {
		ls.PushNil()
		return 1
	}
	ls.PushString(name)
	return 1
}

// debug.sethook([thread,] [hook, mask [, count]])
func dbSetHook(ls State) int {
	if ls.IsNoneOrNil(1) {
		ls.SetHook(nil, 0, 0)
		return 0
	}
	hookFn := getFunc(ls, 1)
	maskStr := ls.CheckString(2)
	count := int(ls.OptInteger(3, 0))

	mask := 0
	if strings.Contains(maskStr, "c") {
		mask |= HookCall
	}
	if strings.Contains(maskStr, "r") {
		mask |= HookRet
	}
	if strings.Contains(maskStr, "l") {
		mask |= HookLine
	}
	if count > 0 {
		mask |= HookCount
	}

	ls.SetHook(func(s State, event int, line int) {
		s.PushGoFunction(hookFn)
		s.PushString(hookEventName(event))
		if line >= 0 {
			s.PushInteger(int64(line))
		} else {
			s.PushNil()
		}
		s.Call(2, 0)
	}, mask, count)
	return 0
}

func hookEventName(event int) string {
	switch event {
	case HookCall:
		return "call"
	case HookRet:
		return "return"
	case HookLine:
		return "line"
	case HookCount:
		return "count"
	case HookTailCall:
		return "tail call"
	default:
		return "?"
	}
}

// debug.gethook([thread])
func dbGetHook(ls State) int {
	hook, mask, count := ls.GetHook()
	if hook == nil {
		ls.PushNil()
		return 1
	}
	var sb strings.Builder
	if mask&HookCall != 0 {
		sb.WriteByte('c')
	}
	if mask&HookRet != 0 {
		sb.WriteByte('r')
	}
	if mask&HookLine != 0 {
		sb.WriteByte('l')
	}
	ls.PushString("hook")
	ls.PushString(sb.String())
	ls.PushInteger(int64(count))
	return 3
}

// debug.traceback([thread,] [message [, level]])
func dbTraceback(ls State) int {
	msg := ""
	if ls.IsString(1) {
		msg = ls.CheckString(1)
	} else if !ls.IsNoneOrNil(1) {
		ls.PushValue(1)
		return 1 // non-string, non-nil message is returned unchanged
	}
	level := int(ls.OptInteger(2, 1))
	ls.PushString(ls.Traceback(msg, level))
	return 1
}

// debug.getmetatable(value)
func dbGetMetatable(ls State) int {
	if !ls.GetMetatable(1) {
		ls.PushNil()
	}
	return 1
}

// debug.setmetatable(value, table)
func dbSetMetatable(ls State) int {
	ls.ArgCheck(ls.IsNoneOrNil(2) || ls.Type(2) == TTABLE, 2, "nil or table expected")
	ls.SetMetatable(1)
	ls.PushValue(1)
	return 1
}
