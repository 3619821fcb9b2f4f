package state

import (
	"strconv"
	"strings"

	. "github.com/katsu-lua/lua54/api"
)

// [-0, +0, –]
// http://www.lua.org/manual/5.4/manual.html#lua_typename
func (self *luaState) TypeName(tp Type) string {
	switch tp {
	case TNONE:
		return "no value"
	case TNIL:
		return "nil"
	case TBOOLEAN:
		return "boolean"
	case TNUMBER:
		return "number"
	case TSTRING:
		return "string"
	case TTABLE:
		return "table"
	case TFUNCTION:
		return "function"
	case TTHREAD:
		return "thread"
	default:
		return "userdata"
	}
}

// [-0, +0, –]
// http://www.lua.org/manual/5.4/manual.html#lua_type
func (self *luaState) Type(idx int) Type {
	if self.stack.isValid(idx) {
		val := self.stack.get(idx)
		return typeOf(val)
	}
	return TNONE
}

// [-0, +0, –]
// http://www.lua.org/manual/5.4/manual.html#lua_isnone
func (self *luaState) IsNone(idx int) bool {
	return self.Type(idx) == TNONE
}

// [-0, +0, –]
// http://www.lua.org/manual/5.4/manual.html#lua_isnil
func (self *luaState) IsNil(idx int) bool {
	return self.Type(idx) == TNIL
}

// [-0, +0, –]
// http://www.lua.org/manual/5.4/manual.html#lua_isnoneornil
func (self *luaState) IsNoneOrNil(idx int) bool {
	return self.Type(idx) <= TNIL
}

// [-0, +0, –]
// http://www.lua.org/manual/5.4/manual.html#lua_isboolean
func (self *luaState) IsBoolean(idx int) bool {
	return self.Type(idx) == TBOOLEAN
}

// [-0, +0, –]
// http://www.lua.org/manual/5.4/manual.html#lua_istable
func (self *luaState) IsTable(idx int) bool {
	return self.Type(idx) == TTABLE
}

// [-0, +0, –]
// http://www.lua.org/manual/5.4/manual.html#lua_isfunction
func (self *luaState) IsFunction(idx int) bool {
	return self.Type(idx) == TFUNCTION
}

// [-0, +0, –]
// http://www.lua.org/manual/5.4/manual.html#lua_isthread
func (self *luaState) IsThread(idx int) bool {
	return self.Type(idx) == TTHREAD
}

// [-0, +0, –]
// http://www.lua.org/manual/5.4/manual.html#lua_isstring
func (self *luaState) IsString(idx int) bool {
	t := self.Type(idx)
	return t == TSTRING || t == TNUMBER
}

// [-0, +0, –]
// http://www.lua.org/manual/5.4/manual.html#lua_isnumber
func (self *luaState) IsNumber(idx int) bool {
	_, ok := self.ToNumberX(idx)
	return ok
}

// [-0, +0, –]
// http://www.lua.org/manual/5.4/manual.html#lua_isinteger
func (self *luaState) IsInteger(idx int) bool {
	val := self.stack.get(idx)
	_, ok := val.(int64)
	return ok
}

// [-0, +0, –]
// http://www.lua.org/manual/5.4/manual.html#lua_iscfunction
func (self *luaState) IsGoFunction(idx int) bool {
	val := self.stack.get(idx)
	if c, ok := val.(*closure); ok {
		return c.goFunc != nil
	}
	return false
}

// [-0, +0, –]
// http://www.lua.org/manual/5.4/manual.html#lua_toboolean
func (self *luaState) ToBoolean(idx int) bool {
	val := self.stack.get(idx)
	return convertToBoolean(val)
}

// [-0, +0, –]
// http://www.lua.org/manual/5.4/manual.html#lua_tointeger
func (self *luaState) ToInteger(idx int) int64 {
	i, _ := self.ToIntegerX(idx)
	return i
}

// [-0, +0, –]
// http://www.lua.org/manual/5.4/manual.html#lua_tointegerx
func (self *luaState) ToIntegerX(idx int) (int64, bool) {
	val := self.stack.get(idx)
	return convertToInteger(val)
}

// [-0, +0, –]
// http://www.lua.org/manual/5.4/manual.html#lua_tonumber
func (self *luaState) ToNumber(idx int) float64 {
	n, _ := self.ToNumberX(idx)
	return n
}

// [-0, +0, –]
// http://www.lua.org/manual/5.4/manual.html#lua_tonumberx
func (self *luaState) ToNumberX(idx int) (float64, bool) {
	val := self.stack.get(idx)
	return convertToFloat(val)
}

// [-0, +0, m]
// http://www.lua.org/manual/5.4/manual.html#lua_tostring
func (self *luaState) ToString(idx int) string {
	s, _ := self.ToStringX(idx)
	return s
}

func (self *luaState) ToStringX(idx int) (string, bool) {
	val := self.stack.get(idx)

	switch x := val.(type) {
	case string:
		return x, true
	case int64:
		s := strconv.FormatInt(x, 10)
		self.stack.set(idx, s)
		return s, true
	case float64:
		s := numberToString(x)
		self.stack.set(idx, s)
		return s, true
	default:
		return "", false
	}
}

// numberToString mirrors Lua's %.14g float formatting, with a trailing
// ".0" so floats never print indistinguishably from integers.
func numberToString(f float64) string {
	s := strconv.FormatFloat(f, 'g', 14, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}

// [-0, +0, –]
// http://www.lua.org/manual/5.4/manual.html#lua_tocfunction
func (self *luaState) ToGoFunction(idx int) GoFunction {
	val := self.stack.get(idx)
	if c, ok := val.(*closure); ok {
		return c.goFunc
	}
	return nil
}

// [-0, +0, –]
// http://www.lua.org/manual/5.4/manual.html#lua_tothread
func (self *luaState) ToThread(idx int) State {
	val := self.stack.get(idx)
	if val != nil {
		if ls, ok := val.(*luaState); ok {
			return ls
		}
	}
	return nil
}

// [-0, +0, –]
// http://www.lua.org/manual/5.4/manual.html#lua_topointer
func (self *luaState) ToPointer(idx int) interface{} {
	return self.stack.get(idx)
}
