package stdlib

import (
	"strings"
	"unicode/utf8"

	. "github.com/katsu-lua/lua54/api"
)

// utf8 is real Lua 5.4 stdlib surface, not named by spec.md's library list
// (§6) but carried as ambient enrichment — grounded directly on Go's
// unicode/utf8, which already speaks the same encoding Lua's lutf8lib.c
// hand-rolls.
var utf8Lib = FuncReg{
	"char":      utf8Char,
	"codepoint": utf8Codepoint,
	"len":       utf8Len,
	"offset":    utf8Offset,
	"codes":     utf8Codes,
}

const utf8CharPattern = "[\x00-\x7F\xC2-\xFD][\x80-\xBF]*"

func OpenUTF8Lib(ls State) int {
	ls.NewLib(utf8Lib)
	ls.PushString(utf8CharPattern)
	ls.SetField(-2, "charpattern")
	return 1
}

// utf8.char(...)
func utf8Char(ls State) int {
	var b strings.Builder
	for i := 1; i <= ls.GetTop(); i++ {
		b.WriteRune(rune(ls.CheckInteger(i)))
	}
	ls.PushString(b.String())
	return 1
}

func utf8PosToByte(s string, i int64) int {
	if i >= 0 {
		return int(i) - 1
	}
	return len(s) + int(i)
}

// utf8.codepoint(s [, i [, j]])
func utf8Codepoint(ls State) int {
	s := ls.CheckString(1)
	i := ls.OptInteger(2, 1)
	j := ls.OptInteger(3, i)
	start := utf8PosToByte(s, i)
	end := utf8PosToByte(s, j)
	if start < 0 || end > len(s) {
		ls.Error2("bad argument to 'codepoint' (out of bounds)")
	}

	n := 0
	for pos := start; pos <= end && pos < len(s); {
		r, size := utf8.DecodeRuneInString(s[pos:])
		if r == utf8.RuneError && size <= 1 {
			ls.Error2("invalid UTF-8 code")
		}
		ls.PushInteger(int64(r))
		n++
		pos += size
	}
	return n
}

// utf8.len(s [, i [, j]])
func utf8Len(ls State) int {
	s := ls.CheckString(1)
	i := ls.OptInteger(2, 1)
	j := ls.OptInteger(3, -1)
	start := utf8PosToByte(s, i)
	end := utf8PosToByte(s, j) + 1
	if end > len(s) {
		end = len(s)
	}

	n := int64(0)
	pos := start
	for pos < end {
		r, size := utf8.DecodeRuneInString(s[pos:])
		if r == utf8.RuneError && size <= 1 {
			ls.PushNil()
			ls.PushInteger(int64(pos + 1))
			return 2
		}
		pos += size
		n++
	}
	ls.PushInteger(n)
	return 1
}

// utf8.offset(s, n [, i])
func utf8Offset(ls State) int {
	s := ls.CheckString(1)
	n := ls.CheckInteger(2)
	var defaultI int64 = 1
	if n < 0 {
		defaultI = int64(len(s)) + 1
	}
	i := utf8PosToByte(s, ls.OptInteger(3, defaultI))

	pos := i
	switch {
	case n > 0:
		if pos < len(s) {
			n--
		}
		for n > 0 && pos < len(s) {
			pos++
			for pos < len(s) && isUTF8Cont(s[pos]) {
				pos++
			}
			n--
		}
	case n < 0:
		for n < 0 && pos > 0 {
			pos--
			for pos > 0 && isUTF8Cont(s[pos]) {
				pos--
			}
			n++
		}
	}
	if n != 0 {
		ls.PushNil()
		return 1
	}
	ls.PushInteger(int64(pos + 1))
	return 1
}

func isUTF8Cont(b byte) bool {
	return b&0xC0 == 0x80
}

// utf8.codes(s)
func utf8Codes(ls State) int {
	s := ls.CheckString(1)
	ls.PushGoFunction(func(ls State) int {
		pos := int(ls.CheckInteger(2))
		if pos > 0 {
			_, size := utf8.DecodeRuneInString(s[pos-1:])
			pos += size - 1
		}
		if pos >= len(s) {
			ls.PushNil()
			return 1
		}
		r, size := utf8.DecodeRuneInString(s[pos:])
		if r == utf8.RuneError && size <= 1 {
			ls.Error2("invalid UTF-8 code")
		}
		ls.PushInteger(int64(pos + 1))
		ls.PushInteger(int64(r))
		return 2
	})
	ls.PushValue(1)
	ls.PushInteger(0)
	return 3
}
