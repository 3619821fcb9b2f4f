package state

import (
	"fmt"
	"os"

	. "github.com/katsu-lua/lua54/api"
	"github.com/katsu-lua/lua54/stdlib"
)

// [-0, +0, v]
// http://www.lua.org/manual/5.4/manual.html#luaL_error
func (self *luaState) Error2(fmt string, a ...interface{}) int {
	self.PushFString(fmt, a...)
	return self.Error()
}

// [-0, +0, v]
// http://www.lua.org/manual/5.4/manual.html#luaL_argerror
func (self *luaState) ArgError(arg int, extraMsg string) int {
	return self.Error2("bad argument #%d (%s)", arg, extraMsg)
}

// [-0, +0, v]
// http://www.lua.org/manual/5.4/manual.html#luaL_checkstack
func (self *luaState) CheckStack2(sz int, msg string) {
	if !self.CheckStack(sz) {
		if msg != "" {
			self.Error2("stack overflow (%s)", msg)
		} else {
			self.Error2("stack overflow")
		}
	}
}

// [-0, +0, v]
// http://www.lua.org/manual/5.4/manual.html#luaL_argcheck
func (self *luaState) ArgCheck(cond bool, arg int, extraMsg string) {
	if !cond {
		self.ArgError(arg, extraMsg)
	}
}

// [-0, +0, v]
// http://www.lua.org/manual/5.4/manual.html#luaL_checkany
func (self *luaState) CheckAny(arg int) any {
	if self.Type(arg) == TNONE {
		self.ArgError(arg, "value expected")
	}
	return self.stack.get(arg)
}

// [-0, +0, v]
// http://www.lua.org/manual/5.4/manual.html#luaL_checktype
func (self *luaState) CheckType(arg int, t Type) {
	if self.Type(arg) != t {
		self.tagError(arg, t)
	}
}

// [-0, +0, v]
// http://www.lua.org/manual/5.4/manual.html#luaL_checkinteger
func (self *luaState) CheckInteger(arg int) int64 {
	i, ok := self.ToIntegerX(arg)
	if !ok {
		self.intError(arg)
	}
	return i
}

// [-0, +0, v]
// http://www.lua.org/manual/5.4/manual.html#luaL_checknumber
func (self *luaState) CheckNumber(arg int) float64 {
	f, ok := self.ToNumberX(arg)
	if !ok {
		self.tagError(arg, TNUMBER)
	}
	return f
}

// [-0, +0, v]
// http://www.lua.org/manual/5.4/manual.html#luaL_checkstring
func (self *luaState) CheckString(arg int) string {
	s, ok := self.ToStringX(arg)
	if !ok {
		self.tagError(arg, TSTRING)
	}
	return s
}

func (self *luaState) CheckBool(arg int) bool {
	if self.Type(arg) != TBOOLEAN {
		self.tagError(arg, TBOOLEAN)
	}
	return self.ToBoolean(arg)
}

// [-0, +0, v]
// http://www.lua.org/manual/5.4/manual.html#luaL_optinteger
func (self *luaState) OptInteger(arg int, def int64) int64 {
	if self.IsNoneOrNil(arg) {
		return def
	}
	return self.CheckInteger(arg)
}

// [-0, +0, v]
// http://www.lua.org/manual/5.4/manual.html#luaL_optnumber
func (self *luaState) OptNumber(arg int, def float64) float64 {
	if self.IsNoneOrNil(arg) {
		return def
	}
	return self.CheckNumber(arg)
}

// [-0, +0, v]
// http://www.lua.org/manual/5.4/manual.html#luaL_optstring
func (self *luaState) OptString(arg int, def string) string {
	if self.IsNoneOrNil(arg) {
		return def
	}
	return self.CheckString(arg)
}

func (self *luaState) OptBool(arg int, def bool) bool {
	if self.IsNoneOrNil(arg) {
		return def
	}
	return self.ToBoolean(arg)
}

// [-0, +?, e]
// http://www.lua.org/manual/5.4/manual.html#luaL_dofile
func (self *luaState) DoFile(filename string) bool {
	return self.LoadFile(filename) == OK &&
		self.PCall(0, MultRet, 0) == OK
}

// [-0, +?, –]
// http://www.lua.org/manual/5.4/manual.html#luaL_dostring
func (self *luaState) DoString(str, source string) bool {
	return self.LoadString(str, source) == OK &&
		self.PCall(0, MultRet, 0) == OK
}

// [-0, +1, m]
// http://www.lua.org/manual/5.4/manual.html#luaL_loadfile
func (self *luaState) LoadFile(filename string) Status {
	return self.LoadFileX(filename, "bt")
}

// [-0, +1, m]
// http://www.lua.org/manual/5.4/manual.html#luaL_loadfilex
func (self *luaState) LoadFileX(filename, mode string) Status {
	data, err := os.ReadFile(filename)
	if err != nil {
		self.stack.push(err.Error())
		return ErrFile
	}
	return self.Load(data, "@"+filename, mode)
}

// [-0, +1, –]
// http://www.lua.org/manual/5.4/manual.html#luaL_loadstring
func (self *luaState) LoadString(s, source string) Status {
	return self.Load([]byte(s), source, "bt")
}

// [-0, +0, –]
// http://www.lua.org/manual/5.4/manual.html#luaL_typename
func (self *luaState) TypeName2(idx int) string {
	return self.TypeName(self.Type(idx))
}

// [-0, +0, e]
// http://www.lua.org/manual/5.4/manual.html#luaL_len
func (self *luaState) Len2(idx int) int64 {
	self.Len(idx)
	i, isNum := self.ToIntegerX(-1)
	if !isNum {
		self.Error2("object length is not an integer")
	}
	self.Pop(1)
	return i
}

// [-0, +1, e]
// http://www.lua.org/manual/5.4/manual.html#luaL_tolstring
func (self *luaState) ToString2(idx int) string {
	if self.CallMeta(idx, "__tostring") {
		if !self.IsString(-1) {
			self.Error2("'__tostring' must return a string")
		}
	} else {
		switch self.Type(idx) {
		case TNUMBER:
			if self.IsInteger(idx) {
				self.PushString(fmt.Sprintf("%d", self.ToInteger(idx)))
			} else {
				self.PushString(numberToString(self.ToNumber(idx)))
			}
		case TSTRING:
			self.PushValue(idx)
		case TBOOLEAN:
			if self.ToBoolean(idx) {
				self.PushString("true")
			} else {
				self.PushString("false")
			}
		case TNIL:
			self.PushString("nil")
		default:
			tt := self.GetMetafield(idx, "__name") /* try name */
			var kind string
			if tt == TSTRING {
				kind = self.CheckString(-1)
			} else {
				kind = self.TypeName2(idx)
			}

			self.PushString(fmt.Sprintf("%s: %p", kind, self.ToPointer(idx)))

			if tt != TNIL {
				self.Remove(-2) /* remove '__name' */
			}
		}
	}
	return self.CheckString(-1)
}

// [-0, +1, e]
// http://www.lua.org/manual/5.4/manual.html#luaL_getsubtable
func (self *luaState) GetSubTable(idx int, fname string) bool {
	if self.GetField(idx, fname) == TTABLE {
		return true /* table already there */
	}
	self.Pop(1) /* remove previous result */
	idx = self.stack.absIndex(idx)
	self.NewTable()
	self.PushValue(-1)        /* copy to be left at top */
	self.SetField(idx, fname) /* assign new table to field */
	return false              /* false, because did not find table there */
}

// [-0, +(0|1), m]
// http://www.lua.org/manual/5.4/manual.html#luaL_getmetafield
func (self *luaState) GetMetafield(obj int, event string) Type {
	if !self.GetMetatable(obj) { /* no metatable? */
		return TNIL
	}

	self.PushString(event)
	tt := self.RawGet(-2)
	if tt == TNIL { /* is metafield nil? */
		self.Pop(2) /* remove metatable and metafield */
	} else {
		self.Remove(-2) /* remove only metatable */
	}
	return tt /* return metafield type */
}

// [-0, +(0|1), e]
// http://www.lua.org/manual/5.4/manual.html#luaL_callmeta
func (self *luaState) CallMeta(obj int, event string) bool {
	obj = self.AbsIndex(obj)
	if self.GetMetafield(obj, event) == TNIL { /* no metafield? */
		return false
	}

	self.PushValue(obj)
	self.Call(1, 1)
	return true
}

// [-0, +0, e]
// http://www.lua.org/manual/5.4/manual.html#luaL_openlibs
func (self *luaState) OpenLibs() {
	libs := map[string]GoFunction{
		"_G":        stdlib.OpenBaseLib,
		"string":    stdlib.OpenStringLib,
		"table":     stdlib.OpenTableLib,
		"math":      stdlib.OpenMathLib,
		"os":        stdlib.OpenOSLib,
		"io":        stdlib.OpenIOLib,
		"coroutine": stdlib.OpenCoroutineLib,
		"package":   stdlib.OpenPackageLib,
		"debug":     stdlib.OpenDebugLib,
		"utf8":      stdlib.OpenUTF8Lib,
		"json":      stdlib.OpenJsonLib,
	}

	for name := range libs {
		self.RequireF(name, libs[name], true)
		self.Pop(1)
	}
}

// [-0, +1, e]
// http://www.lua.org/manual/5.4/manual.html#luaL_requiref
func (self *luaState) RequireF(modname string, openf GoFunction, glb bool) {
	self.GetSubTable(RegistryIndex, "_LOADED")
	self.GetField(-1, modname) /* LOADED[modname] */
	if !self.ToBoolean(-1) {   /* package not already loaded? */
		self.Pop(1) /* remove field */
		self.PushGoFunction(openf)
		self.PushString(modname)   /* argument to open function */
		self.Call(1, 1)            /* call 'openf' to open module */
		self.PushValue(-1)         /* make copy of module (call result) */
		self.SetField(-3, modname) /* _LOADED[modname] = module */
	}
	self.Remove(-2) /* remove _LOADED table */
	if glb {
		self.PushValue(-1)      /* copy of module */
		self.SetGlobal(modname) /* _G[modname] = module */
	}
}

// [-0, +1, m]
// http://www.lua.org/manual/5.4/manual.html#luaL_newlib
func (self *luaState) NewLib(l FuncReg) {
	self.NewLibTable(l)
	self.SetFuncs(l, 0)
}

// [-0, +1, m]
// http://www.lua.org/manual/5.4/manual.html#luaL_newlibtable
func (self *luaState) NewLibTable(l FuncReg) {
	self.CreateTable(0, len(l))
}

// [-nup, +0, m]
// http://www.lua.org/manual/5.4/manual.html#luaL_setfuncs
func (self *luaState) SetFuncs(l FuncReg, nup int) {
	self.CheckStack2(nup, "too many upvalues")
	for name := range l { /* fill the table with given functions */
		for i := 0; i < nup; i++ { /* copy upvalues to the top */
			self.PushValue(-nup)
		}
		// r[-(nup+2)][name]=fun
		self.PushGoClosure(l[name], nup) /* closure with those upvalues */
		self.SetField(-(nup + 2), name)
	}
	self.Pop(nup) /* remove upvalues */
}

func (self *luaState) intError(arg int) {
	if self.IsNumber(arg) {
		self.ArgError(arg, "number has no integer representation")
	} else {
		self.tagError(arg, TNUMBER)
	}
}

func (self *luaState) tagError(arg int, tag Type) {
	self.typeError(arg, self.TypeName(tag))
}

func (self *luaState) typeError(arg int, tname string) int {
	var typeArg string /* name for the type of the actual argument */
	if self.GetMetafield(arg, "__name") == TSTRING {
		typeArg = self.ToString(-1) /* use the given type name */
	} else if self.Type(arg) == TLIGHTUSERDATA {
		typeArg = "light userdata" /* special name for messages */
	} else {
		typeArg = self.TypeName2(arg) /* standard name */
	}
	msg := tname + " expected, got " + typeArg
	self.PushString(msg)
	return self.ArgError(arg, msg)
}
