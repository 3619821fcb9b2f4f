package stdlib

import (
	. "github.com/katsu-lua/lua54/api"
	glc "git.lolli.tech/lollipopkit/go_lru_cacher"
	"github.com/tidwall/gjson"
)

var (
	jsonLib = FuncReg{
		"get": jsonGet,
	}
	// caches parsed gjson.Result by source text, since REPL/require-driven
	// code tends to re-query the same JSON blob repeatedly.
	gjsonCacher = glc.NewCacher(10)
)

func OpenJsonLib(ls State) int {
	ls.NewLib(jsonLib)
	return 1
}

// json.get (source, path)
// return bool, result
func jsonGet(ls State) int {
	source := ls.CheckString(1)
	path := ls.CheckString(2)

	var gjsonResult gjson.Result
	gjsonCache, ok := gjsonCacher.Get(source)
	if !ok {
		gjsonResult = gjson.Parse(source)
		gjsonCacher.Set(source, gjsonResult)
	} else {
		gjsonResult, ok = gjsonCache.(gjson.Result)
		if !ok {
			ls.PushString("gjson cache type convert error")
			return 1
		}
	}

	result := gjsonResult.Get(path)
	if !result.Exists() {
		ls.PushBoolean(false)
		ls.PushString("")
		return 2
	}
	ls.PushBoolean(true)
	ls.PushString(result.String())
	return 2
}
