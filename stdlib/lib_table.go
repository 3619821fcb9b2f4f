package stdlib

import (
	"sort"
	"strings"

	. "github.com/katsu-lua/lua54/api"
)

var tableLib = FuncReg{
	"insert": tableInsert,
	"remove": tableRemove,
	"concat": tableConcat,
	"sort":   tableSort,
	"pack":   tablePack,
	"unpack": tableUnpack,
}

func OpenTableLib(ls State) int {
	ls.NewLib(tableLib)
	return 1
}

// table.insert(list, [pos,] value)
func tableInsert(ls State) int {
	n := ls.Len2(1)
	switch ls.GetTop() {
	case 2:
		ls.SetI(1, n+1)
	case 3:
		pos := ls.CheckInteger(2)
		if pos < 1 || pos > n+1 {
			ls.ArgError(2, "position out of bounds")
		}
		for i := n + 1; i > pos; i-- {
			ls.GetI(1, i-1)
			ls.SetI(1, i)
		}
		ls.PushValue(3)
		ls.SetI(1, pos)
	default:
		ls.Error2("wrong number of arguments to 'insert'")
	}
	return 0
}

// table.remove(list, [pos])
func tableRemove(ls State) int {
	n := ls.Len2(1)
	pos := ls.OptInteger(2, n)
	if n == 0 {
		return 0
	}
	if pos != n && (pos < 1 || pos > n+1) {
		ls.ArgError(2, "position out of bounds")
	}
	ls.GetI(1, pos)
	for ; pos < n; pos++ {
		ls.GetI(1, pos+1)
		ls.SetI(1, pos)
	}
	ls.PushNil()
	ls.SetI(1, pos)
	return 1
}

// table.concat(list, [sep [, i [, j]]])
func tableConcat(ls State) int {
	sep := ls.OptString(2, "")
	i := ls.OptInteger(3, 1)
	j := ls.OptInteger(4, ls.Len2(1))

	var b strings.Builder
	for ; i <= j; i++ {
		ls.GetI(1, i)
		if !ls.IsString(-1) {
			ls.Error2("invalid value (at index %d) in table for 'concat'", i)
		}
		b.WriteString(ls.ToString(-1))
		ls.Pop(1)
		if i < j {
			b.WriteString(sep)
		}
	}
	ls.PushString(b.String())
	return 1
}

type tableSorter struct {
	n    int
	less func(i, j int) bool
	swap func(i, j int)
}

func (s tableSorter) Len() int           { return s.n }
func (s tableSorter) Less(i, j int) bool { return s.less(i, j) }
func (s tableSorter) Swap(i, j int)      { s.swap(i, j) }

// table.sort(list, [comp])
func tableSort(ls State) int {
	n := int(ls.Len2(1))
	hasCmp := !ls.IsNoneOrNil(2)

	less := func(i, j int) bool {
		if hasCmp {
			ls.PushValue(2)
			ls.GetI(1, int64(i+1))
			ls.GetI(1, int64(j+1))
			ls.Call(2, 1)
			ok := ls.ToBoolean(-1)
			ls.Pop(1)
			return ok
		}
		ls.GetI(1, int64(i+1))
		ls.GetI(1, int64(j+1))
		ok := ls.Compare(-2, -1, OpLt)
		ls.Pop(2)
		return ok
	}
	swap := func(i, j int) {
		ls.GetI(1, int64(i+1))
		ls.GetI(1, int64(j+1))
		ls.SetI(1, int64(i+1))
		ls.SetI(1, int64(j+1))
	}

	sort.Sort(tableSorter{n, less, swap})
	return 0
}

// table.pack(...)
func tablePack(ls State) int {
	n := ls.GetTop()
	ls.CreateTable(n, 1)
	ls.Insert(1)
	for i := n; i >= 1; i-- {
		ls.SetI(1, int64(i))
	}
	ls.PushInteger(int64(n))
	ls.SetField(1, "n")
	return 1
}

// table.unpack(list, [i [, j]])
func tableUnpack(ls State) int {
	i := ls.OptInteger(2, 1)
	j := ls.OptInteger(3, ls.Len2(1))
	if i > j {
		return 0
	}
	n := j - i + 1
	ls.CheckStack2(int(n), "too many results to unpack")
	for ; i <= j; i++ {
		ls.GetI(1, i)
	}
	return int(n)
}
