package state

import (
	"fmt"

	. "github.com/katsu-lua/lua54/api"
)

// [-0, +1, –]
// http://www.lua.org/manual/5.4/manual.html#lua_pushnil
func (self *luaState) PushNil() {
	self.stack.push(nil)
}

// [-0, +1, –]
// http://www.lua.org/manual/5.4/manual.html#lua_pushboolean
func (self *luaState) PushBoolean(b bool) {
	self.stack.push(b)
}

// [-0, +1, –]
// http://www.lua.org/manual/5.4/manual.html#lua_pushinteger
func (self *luaState) PushInteger(n int64) {
	self.stack.push(n)
}

// [-0, +1, –]
// http://www.lua.org/manual/5.4/manual.html#lua_pushnumber
func (self *luaState) PushNumber(n float64) {
	self.stack.push(n)
}

// [-0, +1, m]
// http://www.lua.org/manual/5.4/manual.html#lua_pushstring
func (self *luaState) PushString(s string) {
	self.stack.push(s)
}

// [-0, +1, e]
// http://www.lua.org/manual/5.4/manual.html#lua_pushfstring
func (self *luaState) PushFString(fmtStr string, a ...interface{}) {
	str := fmt.Sprintf(fmtStr, a...)
	self.stack.push(str)
}

// [-0, +1, –]
// http://www.lua.org/manual/5.4/manual.html#lua_pushcfunction
func (self *luaState) PushGoFunction(f GoFunction) {
	self.stack.push(newGoClosure(f, 0))
}

// [-n, +1, m]
// http://www.lua.org/manual/5.4/manual.html#lua_pushcclosure
func (self *luaState) PushGoClosure(f GoFunction, n int) {
	closure := newGoClosure(f, n)
	for i := n; i > 0; i-- {
		val := self.stack.pop()
		uv := &upvalue{}
		uv.closed = val
		closure.upVals[i-1] = uv
	}
	self.stack.push(closure)
}

// [-0, +1, –]
// http://www.lua.org/manual/5.4/manual.html#lua_pushglobaltable
func (self *luaState) PushGlobalTable() {
	global := self.registry.get(RidxGlobals)
	self.stack.push(global)
}

// [-0, +1, –]
// http://www.lua.org/manual/5.4/manual.html#lua_pushthread
func (self *luaState) PushThread() bool {
	self.stack.push(self)
	return self.isMainThread()
}

// Push is the Go-native escape hatch: pushes any already-representable
// Lua value (nil, bool, int64, float64, string, *luaTable, *closure,
// *luaState) directly, for standard-library code building values without
// going through the index-addressed push functions one field at a time.
func (self *luaState) Push(item any) {
	switch item.(type) {
	case nil, bool, int64, float64, string, *luaTable, *closure, *luaState:
		self.stack.push(item)
	default:
		panic(fmt.Sprintf("cannot push value of type %T", item))
	}
}

// PushCopyTable pushes a shallow copy of the table at idx: a new table
// with the same array/hash entries but no shared identity or metatable.
func (self *luaState) PushCopyTable(idx int) {
	val := self.stack.get(idx)
	src, ok := val.(*luaTable)
	if !ok {
		panic(fmt.Sprintf("attempt to copy a %s value", self.TypeName(typeOf(val))))
	}
	dst := newLuaTable(len(src.arr), len(src._map))
	dst.arr = append(dst.arr, src.arr...)
	for k, v := range src._map {
		dst._map[k] = v
	}
	self.stack.push(dst)
}
