package state

import (
	"fmt"

	. "github.com/katsu-lua/lua54/api"
	"github.com/katsu-lua/lua54/vm"
)

// [-0, +1, m]
// http://www.lua.org/manual/5.4/manual.html#lua_newtable
func (self *luaState) NewTable() {
	self.CreateTable(0, 0)
}

// [-0, +1, m]
// http://www.lua.org/manual/5.4/manual.html#lua_createtable
func (self *luaState) CreateTable(nArr, nRec int) {
	t := newLuaTable(nArr, nRec)
	self.stack.push(t)
}

// [-1, +1, e]
// http://www.lua.org/manual/5.4/manual.html#lua_gettable
func (self *luaState) GetTable(idx int) Type {
	t := self.stack.get(idx)
	k := self.stack.pop()
	return self.getTableH(t, k, false, idx)
}

// [-0, +1, e]
// http://www.lua.org/manual/5.4/manual.html#lua_getfield
func (self *luaState) GetField(idx int, k string) Type {
	t := self.stack.get(idx)
	return self.getTableH(t, k, false, idx)
}

// [-0, +1, e]
// http://www.lua.org/manual/5.4/manual.html#lua_geti
func (self *luaState) GetI(idx int, i int64) Type {
	t := self.stack.get(idx)
	return self.getTableH(t, i, false, idx)
}

// [-1, +1, –]
// http://www.lua.org/manual/5.4/manual.html#lua_rawget
func (self *luaState) RawGet(idx int) Type {
	t := self.stack.get(idx)
	k := self.stack.pop()
	return self.getTable(t, k, true)
}

// [-0, +1, –]
// http://www.lua.org/manual/5.4/manual.html#lua_rawgeti
func (self *luaState) RawGetI(idx int, i int64) Type {
	t := self.stack.get(idx)
	return self.getTable(t, i, true)
}

// [-0, +0, –]
// http://www.lua.org/manual/5.4/manual.html#lua_rawlen
func (self *luaState) RawLen(idx int) int64 {
	val := self.stack.get(idx)
	switch x := val.(type) {
	case string:
		return int64(len(x))
	case *luaTable:
		return int64(x.len())
	default:
		return 0
	}
}

// [-0, +0, –]
// http://www.lua.org/manual/5.4/manual.html#lua_rawequal
func (self *luaState) RawEqual(idx1, idx2 int) bool {
	a := self.stack.get(idx1)
	b := self.stack.get(idx2)
	return rawEquals(a, b)
}

// [-0, +1, e]
// http://www.lua.org/manual/5.4/manual.html#lua_getglobal
func (self *luaState) GetGlobal(name string) Type {
	t := self.registry.get(RidxGlobals)
	return self.getTable(t, name, false)
}

// getTableH is getTable with the additional stack index whose value is being
// indexed, used to resolve a name hint (spec §4.5) if the index fails.
func (self *luaState) getTableH(t, k any, raw bool, srcIdx int) Type {
	defer func() {
		if r := recover(); r != nil {
			panic(self.addIndexHint(r, srcIdx))
		}
	}()
	return self.getTable(t, k, raw)
}

// addIndexHint appends a bytecode-derived "(local 'x')"-style hint to an
// "attempt to index ..." panic value, if one can be resolved.
func (self *luaState) addIndexHint(p any, srcIdx int) any {
	msg, ok := p.(string)
	if !ok {
		return p
	}
	s := self.stack
	if s.closure == nil || s.closure.proto == nil {
		return p
	}
	reg := s.absIndex(srcIdx) - 1
	hint := vm.NameHint(s.closure.proto, s.lastPC, reg)
	if hint == "" {
		return p
	}
	return fmt.Sprintf("%s (%s)", msg, hint)
}

// [-0, +(0|1), –]
// http://www.lua.org/manual/5.4/manual.html#lua_getmetatable
func (self *luaState) GetMetatable(idx int) bool {
	val := self.stack.get(idx)

	if mt := getMetatable(val, self); mt != nil {
		self.stack.push(mt)
		return true
	} else {
		return false
	}
}

// push(t[k])
func (self *luaState) getTable(t, k any, raw bool) Type {
	if tbl, ok := t.(*luaTable); ok {
		v := tbl.get(k)
		if raw || v != nil || !tbl.hasMetafield("__index") {
			self.stack.push(v)
			return typeOf(v)
		}
	}

	if !raw {
		if mf := getMetafield(t, "__index", self); mf != nil {
			switch x := mf.(type) {
			case *luaTable:
				return self.getTable(x, k, false)
			case *closure:
				self.stack.push(mf)
				self.stack.push(t)
				self.stack.push(k)
				self.Call(2, 1)
				v := self.stack.get(-1)
				return typeOf(v)
			}
		}
	}

	panic(fmt.Sprintf("attempt to index a %s value", self.TypeName(typeOf(t))))
}
