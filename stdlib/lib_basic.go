package stdlib

import (
	"strconv"
	"strings"

	. "github.com/katsu-lua/lua54/api"
)

const luaVersion = "Lua 5.4"

var baseFuncs = FuncReg{
	"print":          basePrint,
	"type":           baseType,
	"tostring":       baseToString,
	"tonumber":       baseToNumber,
	"pairs":          basePairs,
	"ipairs":         baseIPairs,
	"next":           baseNext,
	"error":          baseError,
	"assert":         baseAssert,
	"pcall":          basePCall,
	"xpcall":         baseXPCall,
	"select":         baseSelect,
	"rawget":         baseRawGet,
	"rawset":         baseRawSet,
	"rawequal":       baseRawEqual,
	"rawlen":         baseRawLen,
	"setmetatable":   baseSetMetatable,
	"getmetatable":   baseGetMetatable,
	"load":           baseLoad,
	"loadfile":       baseLoadFile,
	"dofile":         baseDoFile,
	"collectgarbage": baseCollectGarbage,
}

// lua-5.4/src/lbaselib.c#luaopen_base()
func OpenBaseLib(ls State) int {
	/* open lib into global table */
	ls.PushGlobalTable()
	ls.SetFuncs(baseFuncs, 0)
	/* set global _G */
	ls.PushValue(-1)
	ls.SetField(-2, "_G")
	/* set global _VERSION */
	ls.PushString(luaVersion)
	ls.SetField(-2, "_VERSION")
	return 1
}

// print (···)
// http://www.lua.org/manual/5.4/manual.html#pdf-print
func basePrint(ls State) int {
	n := ls.GetTop() /* number of arguments */
	for i := 1; i <= n; i++ {
		if i > 1 {
			print("\t")
		}
		print(ls.ToString2(i))
		ls.Pop(1) /* pop result */
	}
	println()
	return 0
}

// type (v)
// http://www.lua.org/manual/5.4/manual.html#pdf-type
func baseType(ls State) int {
	t := ls.Type(1)
	ls.ArgCheck(t != TNONE, 1, "value expected")
	ls.PushString(ls.TypeName(t))
	return 1
}

// tostring (v)
// http://www.lua.org/manual/5.4/manual.html#pdf-tostring
func baseToString(ls State) int {
	ls.CheckAny(1)
	ls.ToString2(1)
	return 1
}

// tonumber (e [, base])
// http://www.lua.org/manual/5.4/manual.html#pdf-tonumber
func baseToNumber(ls State) int {
	if ls.IsNoneOrNil(2) { /* standard conversion? */
		ls.CheckAny(1)
		if ls.Type(1) == TNUMBER { /* already a number? */
			ls.SetTop(1) /* yes; return it */
			return 1
		}
		if s, ok := ls.ToStringX(1); ok {
			if ls.StringToNumber(s) {
				return 1 /* successful conversion to number */
			} /* else not a number */
		}
	} else {
		ls.CheckType(1, TSTRING) /* no numbers as strings */
		s := strings.TrimSpace(ls.ToString(1))
		base := int(ls.CheckInteger(2))
		ls.ArgCheck(2 <= base && base <= 36, 2, "base out of range")
		if n, err := strconv.ParseInt(s, base, 64); err == nil {
			ls.PushInteger(n)
			return 1
		} /* else not a number */
	}
	ls.PushNil() /* not a number */
	return 1
}

// next (table [, index])
// http://www.lua.org/manual/5.4/manual.html#pdf-next
func baseNext(ls State) int {
	ls.CheckType(1, TTABLE)
	ls.SetTop(2) /* create a 2nd argument if there isn't one */
	if ls.Next(1) {
		return 2
	}
	ls.PushNil()
	return 1
}

// pairs (t)
// http://www.lua.org/manual/5.4/manual.html#pdf-pairs
func basePairs(ls State) int {
	ls.CheckAny(1)
	if ls.GetMetafield(1, "__pairs") == TNIL { /* no metamethod? */
		ls.PushGoFunction(baseNext) /* will return generator, */
		ls.PushValue(1)             /* state, */
		ls.PushNil()
	} else {
		ls.PushValue(1) /* argument 'self' to metamethod */
		ls.Call(1, 3)   /* get 3 values from metamethod */
	}
	return 3
}

// ipairs (t)
// http://www.lua.org/manual/5.4/manual.html#pdf-ipairs
func baseIPairs(ls State) int {
	ls.CheckAny(1)
	if ls.GetMetafield(1, "__ipairs") == TNIL {
		ls.PushGoFunction(iPairsAux) /* iteration function */
		ls.PushValue(1)              /* state */
		ls.PushInteger(0)            /* initial value */
	} else {
		ls.PushValue(1)
		ls.Call(1, 3)
	}
	return 3
}

func iPairsAux(ls State) int {
	i := ls.CheckInteger(2) + 1
	ls.PushInteger(i)
	if ls.GetI(1, i) == TNIL {
		return 1
	}
	return 2
}

// error (message [, level])
// http://www.lua.org/manual/5.4/manual.html#pdf-error
func baseError(ls State) int {
	level := int(ls.OptInteger(2, 1))
	ls.SetTop(1)
	if ls.Type(1) == TSTRING && level > 0 {
		if info, ok := ls.GetInfo(level, "Sl"); ok {
			msg := ls.CheckString(1)
			ls.PushFString("%s:%d: %s", info.ShortSrc, info.CurrentLine, msg)
			ls.Replace(1)
		}
	}
	return ls.Error()
}

// assert (v [, message])
// http://www.lua.org/manual/5.4/manual.html#pdf-assert
func baseAssert(ls State) int {
	if ls.ToBoolean(1) { /* condition is true? */
		return ls.GetTop() /* return all arguments */
	}
	ls.CheckAny(1)                     /* there must be a condition */
	ls.Remove(1)                       /* remove it */
	ls.PushString("assertion failed!") /* default message */
	ls.SetTop(1)                       /* leave only message (default if no other one) */
	return baseError(ls)               /* call 'error' */
}

// pcall (f [, arg1, ···])
// http://www.lua.org/manual/5.4/manual.html#pdf-pcall
func basePCall(ls State) int {
	nArgs := ls.GetTop() - 1
	status := ls.PCall(nArgs, MultRet, 0)
	ls.PushBoolean(status == OK)
	ls.Insert(1)
	return ls.GetTop()
}

// xpcall (f, msgh [, arg1, ···])
// http://www.lua.org/manual/5.4/manual.html#pdf-xpcall
// msgh is called with the error value after the failed call has been
// unwound, since PCall does not invoke its msgh argument itself; the failed
// call's frames are no longer on the stack while msgh runs.
func baseXPCall(ls State) int {
	ls.CheckType(2, TFUNCTION)
	nArgs := ls.GetTop() - 2
	base := ls.GetTop()

	ls.PushValue(1)
	for i := 0; i < nArgs; i++ {
		ls.PushValue(3 + i)
	}
	status := ls.PCall(nArgs, MultRet, 0)

	if status != OK {
		ls.PushValue(2) /* msgh */
		ls.Insert(-2)   /* ... msgh errvalue */
		if ls.PCall(1, 1, 0) != OK {
			ls.Pop(1)
			ls.PushString("error in error handling")
		}
	}

	nRets := ls.GetTop() - base
	ls.PushBoolean(status == OK)
	ls.Insert(base + 1)
	for i := 0; i < base; i++ {
		ls.Remove(1)
	}
	return nRets + 1
}

// select (index, ···)
// http://www.lua.org/manual/5.4/manual.html#pdf-select
func baseSelect(ls State) int {
	n := ls.GetTop()
	if ls.Type(1) == TSTRING {
		if s, ok := ls.ToStringX(1); ok && s == "#" {
			ls.PushInteger(int64(n - 1))
			return 1
		}
	}
	i := ls.CheckInteger(1)
	if i < 0 {
		i = int64(n) + i
	} else if i == 0 {
		ls.ArgError(1, "index out of range")
	}
	ls.ArgCheck(i >= 1, 1, "index out of range")
	if i > int64(n-1) {
		return 0
	}
	return n - int(i)
}

// rawget (table, index)
// http://www.lua.org/manual/5.4/manual.html#pdf-rawget
func baseRawGet(ls State) int {
	ls.CheckType(1, TTABLE)
	ls.CheckAny(2)
	ls.SetTop(2)
	ls.RawGet(1)
	return 1
}

// rawset (table, index, value)
// http://www.lua.org/manual/5.4/manual.html#pdf-rawset
func baseRawSet(ls State) int {
	ls.CheckType(1, TTABLE)
	ls.CheckAny(2)
	ls.CheckAny(3)
	ls.SetTop(3)
	ls.RawSet(1)
	return 1
}

// rawequal (v1, v2)
// http://www.lua.org/manual/5.4/manual.html#pdf-rawequal
func baseRawEqual(ls State) int {
	ls.CheckAny(1)
	ls.CheckAny(2)
	ls.PushBoolean(ls.RawEqual(1, 2))
	return 1
}

// rawlen (v)
// http://www.lua.org/manual/5.4/manual.html#pdf-rawlen
func baseRawLen(ls State) int {
	t := ls.Type(1)
	ls.ArgCheck(t == TTABLE || t == TSTRING, 1, "table or string expected")
	ls.PushInteger(ls.RawLen(1))
	return 1
}

// setmetatable (table, metatable)
// http://www.lua.org/manual/5.4/manual.html#pdf-setmetatable
func baseSetMetatable(ls State) int {
	t := ls.Type(2)
	ls.CheckType(1, TTABLE)
	ls.ArgCheck(t == TNIL || t == TTABLE, 2, "nil or table expected")
	if ls.GetMetatable(1) {
		protected := ls.GetField(-1, "__metatable") != TNIL
		ls.Pop(2)
		ls.ArgCheck(!protected, 1, "cannot change a protected metatable")
	}
	ls.SetTop(2)
	ls.SetMetatable(1)
	return 1
}

// getmetatable (object)
// http://www.lua.org/manual/5.4/manual.html#pdf-getmetatable
func baseGetMetatable(ls State) int {
	if !ls.GetMetatable(1) {
		ls.PushNil()
		return 1
	}
	if ls.GetField(-1, "__metatable") == TNIL {
		ls.Pop(1)
	} else {
		ls.Remove(-2)
	}
	return 1
}

// collectgarbage ([opt [, arg]])
// http://www.lua.org/manual/5.4/manual.html#pdf-collectgarbage
// A protocol stub: this implementation's collector is not tunable, so every
// option that reports a number reports zero.
func baseCollectGarbage(ls State) int {
	switch ls.OptString(1, "collect") {
	case "count":
		ls.PushNumber(0)
		ls.PushNumber(0)
		return 2
	case "isrunning":
		ls.PushBoolean(true)
		return 1
	case "collect", "stop", "restart", "step":
		ls.PushInteger(0)
		return 1
	default:
		return ls.ArgError(1, "invalid option")
	}
}

// load (chunk [, chunkname [, mode [, env]]])
// http://www.lua.org/manual/5.4/manual.html#pdf-load
func baseLoad(ls State) int {
	var status Status
	chunk, isStr := ls.ToStringX(1)
	mode := ls.OptString(3, "bt")
	env := 0 /* 'env' index or 0 if no 'env' */
	if !ls.IsNone(4) {
		env = 4
	}
	if isStr { /* loading a string? */
		chunkname := ls.OptString(2, chunk)
		status = ls.Load([]byte(chunk), chunkname, mode)
	} else { /* loading from a reader function */
		panic("loading from a reader function") // todo
	}
	return loadAux(ls, status, env)
}

func loadAux(ls State, status Status, envIdx int) int {
	if status == OK {
		if envIdx != 0 { /* 'env' parameter? */
			panic("todo!")
		}
		return 1
	}
	/* error (message is on top of the stack) */
	ls.PushNil()
	ls.Insert(-2) /* put before error message */
	return 2      /* return nil plus error message */
}

// loadfile ([filename [, mode [, env]]])
// http://www.lua.org/manual/5.4/manual.html#pdf-loadfile
func baseLoadFile(ls State) int {
	fname := ls.OptString(1, "")
	mode := ls.OptString(2, "bt")
	env := 0 /* 'env' index or 0 if no 'env' */
	if !ls.IsNone(3) {
		env = 3
	}
	status := ls.LoadFileX(fname, mode)
	return loadAux(ls, status, env)
}

// dofile ([filename])
// http://www.lua.org/manual/5.4/manual.html#pdf-dofile
func baseDoFile(ls State) int {
	fname := ls.OptString(1, "")
	ls.SetTop(1)
	if ls.LoadFile(fname) != OK {
		return ls.Error()
	}
	ls.Call(0, MultRet)
	return ls.GetTop() - 1
}
