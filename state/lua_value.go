package state

import (
	"fmt"
	"math"

	. "github.com/katsu-lua/lua54/api"
	"github.com/katsu-lua/lua54/utils"
)

func typeOf(val any) Type {
	switch val.(type) {
	case nil:
		return TNIL
	case bool:
		return TBOOLEAN
	case int64, float64:
		return TNUMBER
	case string:
		return TSTRING
	case *luaTable:
		return TTABLE
	case *closure:
		return TFUNCTION
	case *luaState:
		return TTHREAD
	default:
		panic(fmt.Sprintf("invalid type: %T<%v>", val, val))
	}
}

func convertToBoolean(val any) bool {
	switch x := val.(type) {
	case nil:
		return false
	case bool:
		return x
	default:
		return true
	}
}

// http://www.lua.org/manual/5.4/manual.html#3.4.3
func convertToFloat(val any) (float64, bool) {
	switch x := val.(type) {
	case int64:
		return float64(x), true
	case float64:
		return x, true
	case string:
		return utils.ParseFloat(x)
	default:
		return 0, false
	}
}

// http://www.lua.org/manual/5.4/manual.html#3.4.3
func convertToInteger(val any) (int64, bool) {
	switch x := val.(type) {
	case int64:
		return x, true
	case float64:
		return utils.FloatToInteger(x)
	case string:
		return _stringToInteger(x)
	default:
		return 0, false
	}
}

func _stringToInteger(s string) (int64, bool) {
	if i, ok := utils.ParseInteger(s); ok {
		return i, true
	}
	if f, ok := utils.ParseFloat(s); ok {
		return utils.FloatToInteger(f)
	}
	return 0, false
}

// rawEquals implements primitive equality: numbers compare across the
// int64/float64 subtypes, strings and booleans by value, everything else
// by identity.
func rawEquals(a, b any) bool {
	if a == nil && b == nil {
		return true
	}
	switch x := a.(type) {
	case int64:
		switch y := b.(type) {
		case int64:
			return x == y
		case float64:
			return float64(x) == y
		default:
			return false
		}
	case float64:
		switch y := b.(type) {
		case int64:
			return x == float64(y)
		case float64:
			return x == y
		default:
			return false
		}
	default:
		return a == b
	}
}

func isNaN(val any) bool {
	f, ok := val.(float64)
	return ok && math.IsNaN(f)
}

/* metatable */

// metatableKey namespaces the registry entries used to store the single
// shared metatable for each non-table type (nil/boolean/number/string/
// function/thread). Tables carry their own metatable field.
func metatableKey(t Type) string {
	return fmt.Sprintf("_MT%d", t)
}

func getMetatable(val any, ls *luaState) *luaTable {
	if t, ok := val.(*luaTable); ok {
		return t.metatable
	}
	key := metatableKey(typeOf(val))
	if mt := ls.registry.get(key); mt != nil {
		return mt.(*luaTable)
	}
	return nil
}

func setMetatable(val any, mt *luaTable, ls *luaState) {
	if t, ok := val.(*luaTable); ok {
		t.metatable = mt
		return
	}
	key := metatableKey(typeOf(val))
	if mt == nil {
		ls.registry.put(key, nil)
	} else {
		ls.registry.put(key, mt)
	}
}

func getMetafield(val any, fieldName string, ls *luaState) any {
	if mt := getMetatable(val, ls); mt != nil {
		return mt.get(fieldName)
	}
	return nil
}

func callMetamethod(a, b any, mmName string, ls *luaState) (any, bool) {
	var mm any
	if mm = getMetafield(a, mmName, ls); mm == nil {
		if mm = getMetafield(b, mmName, ls); mm == nil {
			return nil, false
		}
	}

	ls.stack.check(4)
	ls.stack.push(mm)
	ls.stack.push(a)
	ls.stack.push(b)
	ls.Call(2, 1)
	return ls.stack.pop(), true
}
