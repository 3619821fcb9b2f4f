package state

import (
	"fmt"

	. "github.com/katsu-lua/lua54/api"
)

// [-0, +0, e]
// http://www.lua.org/manual/5.4/manual.html#lua_compare
func (self *luaState) Compare(idx1, idx2 int, op CompareOp) bool {
	a := self.stack.get(idx1)
	b := self.stack.get(idx2)
	switch op {
	case OpEq:
		return self.equals(a, b)
	case OpLt:
		return self.lessThan(a, b)
	case OpLe:
		return self.lessEqual(a, b)
	default:
		panic("invalid compare op")
	}
}

func (self *luaState) equals(a, b any) bool {
	if rawEquals(a, b) {
		return true
	}
	at, aok := a.(*luaTable)
	bt, bok := b.(*luaTable)
	if aok && bok && at != bt {
		if result, ok := callMetamethod(a, b, "__eq", self); ok {
			return convertToBoolean(result)
		}
	}
	return false
}

func (self *luaState) lessThan(a, b any) bool {
	if x, ok := a.(int64); ok {
		if y, ok := b.(int64); ok {
			return x < y
		}
		if y, ok := b.(float64); ok {
			return float64(x) < y
		}
	} else if x, ok := a.(float64); ok {
		switch y := b.(type) {
		case int64:
			return x < float64(y)
		case float64:
			return x < y
		}
	} else if x, ok := a.(string); ok {
		if y, ok := b.(string); ok {
			return x < y
		}
	}
	if result, ok := callMetamethod(a, b, "__lt", self); ok {
		return convertToBoolean(result)
	}
	panic(fmt.Sprintf("attempt to compare %s with %s", self.TypeName(typeOf(a)), self.TypeName(typeOf(b))))
}

func (self *luaState) lessEqual(a, b any) bool {
	if x, ok := a.(int64); ok {
		if y, ok := b.(int64); ok {
			return x <= y
		}
		if y, ok := b.(float64); ok {
			return float64(x) <= y
		}
	} else if x, ok := a.(float64); ok {
		switch y := b.(type) {
		case int64:
			return x <= float64(y)
		case float64:
			return x <= y
		}
	} else if x, ok := a.(string); ok {
		if y, ok := b.(string); ok {
			return x <= y
		}
	}
	if result, ok := callMetamethod(a, b, "__le", self); ok {
		return convertToBoolean(result)
	}
	if result, ok := callMetamethod(b, a, "__lt", self); ok {
		return !convertToBoolean(result)
	}
	panic(fmt.Sprintf("attempt to compare %s with %s", self.TypeName(typeOf(a)), self.TypeName(typeOf(b))))
}

// [-n, +1, e]
// http://www.lua.org/manual/5.4/manual.html#lua_concat
// Concatenates the n values on top of the stack, right-to-left, applying
// __concat wherever a pair isn't both string/number.
func (self *luaState) Concat(n int) {
	if n == 0 {
		self.stack.push("")
		return
	}
	for n > 1 {
		b := self.stack.pop()
		a := self.stack.pop()
		self.stack.push(concat2(a, b, self))
		n--
	}
}

func concat2(a, b any, ls *luaState) any {
	if isConcatable(a) && isConcatable(b) {
		return toConcatString(a) + toConcatString(b)
	}
	if result, ok := callMetamethod(a, b, "__concat", ls); ok {
		return result
	}
	bad := a
	if isConcatable(a) {
		bad = b
	}
	panic(fmt.Sprintf("attempt to concatenate a %s value", ls.TypeName(typeOf(bad))))
}

func isConcatable(v any) bool {
	switch v.(type) {
	case string, int64, float64:
		return true
	default:
		return false
	}
}

func toConcatString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case int64:
		return fmt.Sprintf("%d", x)
	case float64:
		return numberToString(x)
	default:
		return ""
	}
}
