package stdlib

import (
	"fmt"
	"reflect"

	. "github.com/katsu-lua/lua54/api"
)

// pushValue pushes an arbitrary Go value as its natural Lua representation;
// slices/maps become array-part/hash-part tables via reflection.
func pushValue(ls State, item any) {
	switch i := item.(type) {
	case string:
		ls.PushString(i)
	case int64:
		ls.PushInteger(i)
	case int:
		ls.PushInteger(int64(i))
	case float64:
		ls.PushNumber(i)
	case bool:
		ls.PushBoolean(i)
	case GoFunction:
		ls.PushGoFunction(i)
	case nil:
		ls.PushNil()
	default:
		v := reflect.ValueOf(i)
		switch v.Kind() {
		case reflect.Slice, reflect.Array:
			ls.CreateTable(v.Len(), 0)
			for idx := 0; idx < v.Len(); idx++ {
				pushValue(ls, v.Index(idx).Interface())
				ls.SetI(-2, int64(idx+1))
			}
			return
		case reflect.Map:
			keys := v.MapKeys()
			ls.CreateTable(0, len(keys))
			for idx := range keys {
				key := keys[idx]
				pushValue(ls, v.MapIndex(key).Interface())
				ls.SetField(-2, fmt.Sprintf("%v", key.Interface()))
			}
			return
		}
		panic(fmt.Sprintf("unsupported type: %T", item))
	}
}

func getTable(ls State, idx int) map[string]any {
	idx = ls.AbsIndex(idx)
	ls.CheckType(idx, TTABLE)
	table := make(map[string]any)
	ls.PushNil()
	for ls.Next(idx) {
		key := ls.ToString(-2)
		val := ls.ToPointer(-1)
		table[key] = val
		ls.Pop(1)
	}
	return table
}

func getList(ls State, idx int) []any {
	idx = ls.AbsIndex(idx)
	ls.CheckType(idx, TTABLE)
	list := make([]any, 0)
	ls.PushNil()
	for ls.Next(idx) {
		list = append(list, ls.ToPointer(-1))
		ls.Pop(1)
	}
	return list
}

func CheckTable(ls State, idx int) map[string]any {
	return getTable(ls, idx)
}

func CheckList(ls State, idx int) []any {
	return getList(ls, idx)
}

func OptList(ls State, idx int, dft []any) []any {
	if ls.IsNoneOrNil(idx) {
		return dft
	}
	return getList(ls, idx)
}

func OptTable(ls State, idx int, dft map[string]any) map[string]any {
	if ls.IsNoneOrNil(idx) {
		return dft
	}
	return getTable(ls, idx)
}

// getField mirrors loslib.c's getfield(): read an integer field off the
// table at the top of the stack, falling back to dft (or erroring if
// dft < 0 and the field is absent).
func getField(ls State, key string, dft int64) int {
	t := ls.GetField(-1, key)
	res, isNum := ls.ToIntegerX(-1)
	if !isNum {
		if t != TNIL {
			ls.Error2("field '%s' is not an integer", key)
		} else if dft < 0 {
			ls.Error2("field '%s' missing in date table", key)
		}
		res = dft
	}
	ls.Pop(1)
	return int(res)
}

func getFunc(ls State, idx int) GoFunction {
	ls.CheckType(idx, TFUNCTION)
	return ls.ToGoFunction(idx)
}
