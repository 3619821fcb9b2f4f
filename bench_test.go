package main

import (
	"testing"

	"github.com/katsu-lua/lua54/state"
)

const fibChunk = `
local function fib(n)
	if n < 2 then return n end
	return fib(n - 1) + fib(n - 2)
end
return fib(24)
`

func BenchmarkFib(b *testing.B) {
	for i := 0; i < b.N; i++ {
		ls := state.New()
		ls.OpenLibs()
		if !ls.DoString(fibChunk, "=bench") {
			b.Fatal(ls.ToString2(-1))
		}
	}
}
