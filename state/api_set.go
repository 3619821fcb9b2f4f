package state

import (
	"fmt"

	. "github.com/katsu-lua/lua54/api"
)

// [-2, +0, e]
// http://www.lua.org/manual/5.4/manual.html#lua_settable
func (self *luaState) SetTable(idx int) {
	t := self.stack.get(idx)
	v := self.stack.pop()
	k := self.stack.pop()
	self.setTableH(t, k, v, false, idx)
}

// [-1, +0, e]
// http://www.lua.org/manual/5.4/manual.html#lua_setfield
func (self *luaState) SetField(idx int, k string) {
	t := self.stack.get(idx)
	v := self.stack.pop()
	self.setTableH(t, k, v, false, idx)
}

// [-1, +0, e]
// http://www.lua.org/manual/5.4/manual.html#lua_seti
func (self *luaState) SetI(idx int, i int64) {
	t := self.stack.get(idx)
	v := self.stack.pop()
	self.setTableH(t, i, v, false, idx)
}

// setTableH is setTable with the additional stack index whose value is being
// indexed, used to resolve a name hint (spec §4.5) if the index fails.
func (self *luaState) setTableH(t, k, v any, raw bool, srcIdx int) {
	defer func() {
		if r := recover(); r != nil {
			panic(self.addIndexHint(r, srcIdx))
		}
	}()
	self.setTable(t, k, v, raw)
}

// [-1, +0, –]
// http://www.lua.org/manual/5.4/manual.html#lua_setmetatable
func (self *luaState) SetMetatable(idx int) {
	val := self.stack.get(idx)
	mtVal := self.stack.pop()
	var mt *luaTable
	if mtVal != nil {
		mt = mtVal.(*luaTable)
	}
	setMetatable(val, mt, self)
}

// [-2, +0, m]
// http://www.lua.org/manual/5.4/manual.html#lua_rawset
func (self *luaState) RawSet(idx int) {
	t := self.stack.get(idx)
	v := self.stack.pop()
	k := self.stack.pop()
	self.setTable(t, k, v, true)
}

// [-1, +0, m]
// http://www.lua.org/manual/5.4/manual.html#lua_rawseti
func (self *luaState) RawSetI(idx int, i int64) {
	t := self.stack.get(idx)
	v := self.stack.pop()
	self.setTable(t, i, v, true)
}

// [-1, +0, e]
// http://www.lua.org/manual/5.4/manual.html#lua_setglobal
func (self *luaState) SetGlobal(name string) {
	t := self.registry.get(RidxGlobals)
	v := self.stack.pop()
	self.setTable(t, name, v, false)
}

// [-0, +0, e]
// http://www.lua.org/manual/5.4/manual.html#lua_register
func (self *luaState) Register(name string, f GoFunction) {
	self.PushGoFunction(f)
	self.SetGlobal(name)
}

// t[k]=v
func (self *luaState) setTable(t, k, v any, raw bool) {
	if tbl, ok := t.(*luaTable); ok {
		if raw || tbl.get(k) != nil || !tbl.hasMetafield("__newindex") {
			tbl.put(k, v)
			return
		}
	}

	if !raw {
		if mf := getMetafield(t, "__newindex", self); mf != nil {
			switch x := mf.(type) {
			case *luaTable:
				self.setTable(x, k, v, false)
				return
			case *closure:
				self.stack.push(mf)
				self.stack.push(t)
				self.stack.push(k)
				self.stack.push(v)
				self.Call(3, 0)
				return
			}
		}
	}

	panic(fmt.Sprintf("attempt to index a %s value", self.TypeName(typeOf(t))))
}
