package stdlib

import (
	"os"
	"strings"

	. "github.com/katsu-lua/lua54/api"
	"github.com/katsu-lua/lua54/utils"
)

const loadedTable = "_LOADED"
const preloadTable = "_PRELOAD"

const (
	dirSep    = string(os.PathSeparator)
	pathSep   = ";"
	pathMark  = "?"
	execDir   = "!"
	igMark    = "-"
)

var pkgFuncs = FuncReg{
	"searchpath": pkgSearchPath,
}

var llFuncs = FuncReg{
	"require": pkgRequire,
}

func OpenPackageLib(ls State) int {
	ls.NewLib(pkgFuncs)
	createSearchersTable(ls)

	ls.PushString("?.lua;?/init.lua")
	ls.SetField(-2, "path")
	ls.PushString("")
	ls.SetField(-2, "cpath")
	ls.PushString(dirSep + "\n" + pathSep + "\n" +
		pathMark + "\n" + execDir + "\n" + igMark + "\n")
	ls.SetField(-2, "config")

	ls.GetSubTable(RegistryIndex, loadedTable)
	ls.SetField(-2, "loaded")
	ls.GetSubTable(RegistryIndex, preloadTable)
	ls.SetField(-2, "preload")

	ls.PushGlobalTable()
	ls.PushValue(-2)
	ls.SetFuncs(llFuncs, 1)
	ls.Pop(1)
	return 1
}

func createSearchersTable(ls State) {
	searchers := []GoFunction{
		preloadSearcher,
		luaSearcher,
	}
	ls.CreateTable(len(searchers), 0)
	for idx := range searchers {
		ls.PushValue(-2)
		ls.PushGoClosure(searchers[idx], 1)
		ls.RawSetI(-2, int64(idx+1))
	}
	ls.SetField(-2, "searchers")
}

func preloadSearcher(ls State) int {
	name := ls.CheckString(1)
	ls.GetField(RegistryIndex, "_PRELOAD")
	if ls.GetField(-1, name) == TNIL {
		ls.PushString("\n\tno field package.preload['" + name + "']")
	}
	return 1
}

func luaSearcher(ls State) int {
	name := ls.CheckString(1)
	ls.GetField(UpvalueIndex(1), "path")
	path, ok := ls.ToStringX(-1)
	if !ok {
		ls.Error2("'package.path' must be a string")
	}

	c, filename, errMsg := searchPath(name, path, ".", dirSep)
	if errMsg != "" {
		ls.PushString(errMsg)
		return 1
	}

	if ls.Load(c, "@"+filename, "bt") == OK {
		ls.PushString(filename)
		return 2
	}
	return ls.Error2("error loading module '%s' from file '%s':\n\t%s",
		ls.CheckString(1), filename, ls.CheckString(-1))
}

// package.searchpath (name, path [, sep [, rep]])
func pkgSearchPath(ls State) int {
	name := ls.CheckString(1)
	path := ls.CheckString(2)
	sep := ls.OptString(3, ".")
	rep := ls.OptString(4, dirSep)
	if _, filename, errMsg := searchPath(name, path, sep, rep); errMsg == "" {
		ls.PushString(filename)
		return 1
	} else {
		ls.PushNil()
		ls.PushString(errMsg)
		return 2
	}
}

func searchPath(name, path, sep, repSep string) (content []byte, fname, errMsg string) {
	if sep != "" {
		name = strings.Replace(name, sep, repSep, -1)
	}

	for _, filename := range strings.Split(path, pathSep) {
		filename = strings.Replace(filename, pathMark, name, -1)
		if utils.Exist(filename) {
			c, err := os.ReadFile(filename)
			if err != nil {
				return nil, filename, err.Error()
			}
			return c, filename, ""
		}
		errMsg += "\n\tno file '" + filename + "'"
	}

	return nil, "", errMsg
}

// require (name)
func pkgRequire(ls State) int {
	name := ls.CheckString(1)
	ls.SetTop(1)
	ls.GetField(RegistryIndex, loadedTable)
	ls.GetField(2, name)
	if ls.ToBoolean(-1) {
		return 1
	}
	ls.Pop(1)
	findLoader(ls, name)
	ls.PushString(name)
	ls.Insert(-2)
	ls.Call(2, 1)
	if !ls.IsNil(-1) {
		ls.SetField(2, name)
	}
	if ls.GetField(2, name) == TNIL {
		ls.PushBoolean(true)
		ls.PushValue(-1)
		ls.SetField(2, name)
	}
	return 1
}

func findLoader(ls State, name string) {
	if ls.GetField(UpvalueIndex(1), "searchers") != TTABLE {
		ls.Error2("'package.searchers' must be a table")
	}

	errMsg := "module '" + name + "' not found:"

	for i := int64(1); ; i++ {
		if ls.RawGetI(3, i) == TNIL {
			ls.Pop(1)
			ls.Error2(errMsg)
		}

		ls.PushString(name)
		ls.Call(1, 2)
		if ls.IsFunction(-2) {
			return
		} else if ls.IsString(-2) {
			ls.Pop(1)
			errMsg += ls.CheckString(-1)
		} else {
			ls.Pop(2)
		}
	}
}
