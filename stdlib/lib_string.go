package stdlib

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	. "github.com/katsu-lua/lua54/api"
)

var strLib = FuncReg{
	"len":      strLen,
	"rep":      strRep,
	"reverse":  strReverse,
	"lower":    strLower,
	"upper":    strUpper,
	"sub":      strSub,
	"byte":     strByte,
	"char":     strChar,
	"find":     strFind,
	"match":    strMatch,
	"gmatch":   strGmatch,
	"gsub":     strGsub,
	"format":   strFormat,
	"pack":     strPack,
	"unpack":   strUnpack,
	"packsize": strPackSize,
}

func OpenStringLib(ls State) int {
	ls.NewLib(strLib)
	// string values index into the string library (s:upper() etc).
	ls.CreateTable(0, 1)
	ls.PushValue(-2)
	ls.SetField(-2, "__index")
	setStringMetatable(ls)
	ls.Pop(1)
	return 1
}

// setStringMetatable installs the table on top of the stack as the
// metatable shared by every string value.
func setStringMetatable(ls State) {
	ls.PushString("")
	ls.PushValue(-2)
	ls.SetMetatable(-2)
	ls.Pop(1)
}

// string.len (s)
func strLen(ls State) int {
	s := ls.CheckString(1)
	ls.PushInteger(int64(len(s)))
	return 1
}

// string.rep (s, n [, sep])
func strRep(ls State) int {
	s := ls.CheckString(1)
	n := ls.CheckInteger(2)
	sep := ls.OptString(3, "")

	if n <= 0 {
		ls.PushString("")
	} else if n == 1 {
		ls.PushString(s)
	} else {
		a := make([]string, n)
		for i := 0; i < int(n); i++ {
			a[i] = s
		}
		ls.PushString(strings.Join(a, sep))
	}
	return 1
}

// string.reverse (s)
func strReverse(ls State) int {
	s := ls.CheckString(1)
	n := len(s)
	a := make([]byte, n)
	for i := 0; i < n; i++ {
		a[i] = s[n-1-i]
	}
	ls.PushString(string(a))
	return 1
}

func strLower(ls State) int {
	ls.PushString(strings.ToLower(ls.CheckString(1)))
	return 1
}

func strUpper(ls State) int {
	ls.PushString(strings.ToUpper(ls.CheckString(1)))
	return 1
}

// string.sub (s, i [, j])
func strSub(ls State) int {
	s := ls.CheckString(1)
	sLen := len(s)
	i := posRelat(ls.CheckInteger(2), sLen)
	j := posRelat(ls.OptInteger(3, -1), sLen)

	if i < 1 {
		i = 1
	}
	if j > sLen {
		j = sLen
	}

	if i <= j {
		ls.PushString(s[i-1 : j])
	} else {
		ls.PushString("")
	}
	return 1
}

// string.byte (s [, i [, j]])
func strByte(ls State) int {
	s := ls.CheckString(1)
	sLen := len(s)
	i := posRelat(ls.OptInteger(2, 1), sLen)
	j := posRelat(ls.OptInteger(3, int64(i)), sLen)

	if i < 1 {
		i = 1
	}
	if j > sLen {
		j = sLen
	}
	if i > j {
		return 0
	}

	n := j - i + 1
	ls.CheckStack2(n, "string slice too long")
	for k := 0; k < n; k++ {
		ls.PushInteger(int64(s[i+k-1]))
	}
	return n
}

// string.char (···)
func strChar(ls State) int {
	nArgs := ls.GetTop()
	s := make([]byte, nArgs)
	for i := 1; i <= nArgs; i++ {
		c := ls.CheckInteger(i)
		ls.ArgCheck(int64(byte(c)) == c, i, "value out of range")
		s[i-1] = byte(c)
	}
	ls.PushString(string(s))
	return 1
}

func pushOneCapture(ls State, c capResult) {
	if c.isPos {
		ls.PushInteger(int64(c.pos))
	} else {
		ls.PushString(c.str)
	}
}

// string.find (s, pattern [, init [, plain]])
func strFind(ls State) int {
	s := ls.CheckString(1)
	pat := ls.CheckString(2)
	init := posRelat(ls.OptInteger(3, 1), len(s))
	if init < 1 {
		init = 1
	} else if init > len(s)+1 {
		ls.PushNil()
		return 1
	}
	plain := ls.ToBoolean(4)

	if plain || !patHasSpecials(pat) {
		idx := strings.Index(s[init-1:], pat)
		if idx < 0 {
			ls.PushNil()
			return 1
		}
		start := init + idx
		ls.PushInteger(int64(start))
		ls.PushInteger(int64(start + len(pat) - 1))
		return 2
	}

	start, end, caps, ok := doMatch(s, pat, init-1)
	if !ok {
		ls.PushNil()
		return 1
	}
	ls.PushInteger(int64(start + 1))
	ls.PushInteger(int64(end))
	if len(caps) == 1 && caps[0].str == s[start:end] && !caps[0].isPos {
		return 2
	}
	for _, c := range caps {
		pushOneCapture(ls, c)
	}
	return 2 + len(caps)
}

// string.match (s, pattern [, init])
func strMatch(ls State) int {
	s := ls.CheckString(1)
	pat := ls.CheckString(2)
	init := posRelat(ls.OptInteger(3, 1), len(s))
	if init < 1 {
		init = 1
	} else if init > len(s)+1 {
		ls.PushNil()
		return 1
	}

	_, _, caps, ok := doMatch(s, pat, init-1)
	if !ok {
		ls.PushNil()
		return 1
	}
	for _, c := range caps {
		pushOneCapture(ls, c)
	}
	return len(caps)
}

// string.gmatch (s, pattern)
func strGmatch(ls State) int {
	s := ls.CheckString(1)
	pat := ls.CheckString(2)
	pos := 0
	iter := func(ls State) int {
		for pos <= len(s) {
			start, end, caps, ok := doMatch(s, pat, pos)
			if !ok {
				return 0
			}
			if end == pos && end == start {
				pos = end + 1
			} else {
				pos = end
			}
			if start > end {
				continue
			}
			for _, c := range caps {
				pushOneCapture(ls, c)
			}
			return len(caps)
		}
		return 0
	}
	ls.PushGoFunction(iter)
	return 1
}

// string.gsub (s, pattern, repl [, n])
func strGsub(ls State) int {
	s := ls.CheckString(1)
	pat := ls.CheckString(2)
	maxN := ls.OptInteger(4, int64(len(s))+1)

	var b strings.Builder
	pos := 0
	count := int64(0)
	anchor := strings.HasPrefix(pat, "^")

	for pos <= len(s) && count < maxN {
		start, end, caps, ok := doMatch(s, pat, pos)
		if !ok {
			break
		}
		count++
		b.WriteString(s[pos:start])
		appendReplacement(ls, &b, s, start, end, caps)
		if end > pos {
			pos = end
		} else {
			if pos < len(s) {
				b.WriteByte(s[pos])
			}
			pos++
		}
		if anchor {
			break
		}
	}
	if pos < len(s) {
		b.WriteString(s[pos:])
	}

	ls.PushString(b.String())
	ls.PushInteger(count)
	return 2
}

func appendReplacement(ls State, b *strings.Builder, s string, start, end int, caps []capResult) {
	whole := s[start:end]
	switch {
	case ls.IsString(3) || ls.IsNumber(3):
		repl := ls.ToString(3)
		for i := 0; i < len(repl); i++ {
			if repl[i] == '%' && i+1 < len(repl) {
				i++
				c := repl[i]
				if c == '%' {
					b.WriteByte('%')
				} else if c == '0' {
					b.WriteString(whole)
				} else if c >= '1' && c <= '9' {
					idx := int(c - '1')
					if idx < len(caps) {
						b.WriteString(fmtCapture(caps[idx]))
					}
				} else {
					b.WriteByte(c)
				}
			} else {
				b.WriteByte(repl[i])
			}
		}
	case ls.IsTable(3):
		key := fmtCapture(caps[0])
		ls.PushValue(3)
		ls.PushString(key)
		ls.GetTable(-2)
		writeReplValue(ls, b, whole)
		ls.Pop(2)
	case ls.IsFunction(3):
		ls.PushValue(3)
		for _, c := range caps {
			pushOneCapture(ls, c)
		}
		ls.Call(len(caps), 1)
		writeReplValue(ls, b, whole)
		ls.Pop(1)
	default:
		ls.Error2("bad argument #3 to 'gsub' (string/function/table expected)")
	}
}

func writeReplValue(ls State, b *strings.Builder, whole string) {
	if ls.ToBoolean(-1) {
		if ls.IsString(-1) || ls.IsNumber(-1) {
			b.WriteString(ls.ToString(-1))
		} else {
			ls.Error2("invalid replacement value (a %s)", ls.TypeName2(-1))
		}
	} else {
		b.WriteString(whole)
	}
}

// string.format (formatstring, ···)
func strFormat(ls State) int {
	format := ls.CheckString(1)
	var b strings.Builder
	argIdx := 2

	i := 0
	for i < len(format) {
		c := format[i]
		if c != '%' {
			b.WriteByte(c)
			i++
			continue
		}
		start := i
		i++
		if i < len(format) && format[i] == '%' {
			b.WriteByte('%')
			i++
			continue
		}
		for i < len(format) && strings.IndexByte("-+ #0", format[i]) >= 0 {
			i++
		}
		for i < len(format) && isDigit(format[i]) {
			i++
		}
		if i < len(format) && format[i] == '.' {
			i++
			for i < len(format) && isDigit(format[i]) {
				i++
			}
		}
		if i >= len(format) {
			panic("invalid conversion to 'format'")
		}
		tag := format[start : i+1]
		b.WriteString(formatArg(ls, tag, argIdx))
		argIdx++
		i++
	}

	ls.PushString(b.String())
	return 1
}

func formatArg(ls State, tag string, argIdx int) string {
	switch tag[len(tag)-1] {
	case 'c':
		return string([]byte{byte(ls.CheckInteger(argIdx))})
	case 'i':
		return fmt.Sprintf(tag[:len(tag)-1]+"d", ls.CheckInteger(argIdx))
	case 'd', 'o':
		return fmt.Sprintf(tag, ls.CheckInteger(argIdx))
	case 'u':
		return fmt.Sprintf(tag[:len(tag)-1]+"d", uint64(ls.CheckInteger(argIdx)))
	case 'x', 'X':
		return fmt.Sprintf(tag, uint64(ls.CheckInteger(argIdx)))
	case 'e', 'E', 'f', 'F', 'g', 'G':
		return fmt.Sprintf(tag, ls.CheckNumber(argIdx))
	case 's':
		return fmt.Sprintf(tag, ls.ToString2(argIdx))
	case 'q':
		return quoteLuaString(ls.CheckString(argIdx))
	default:
		panic("invalid conversion '" + tag + "' to 'format'")
	}
}

func quoteLuaString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '"', '\\':
			b.WriteByte('\\')
			b.WriteByte(c)
		case '\n':
			b.WriteString("\\n")
		case '\r':
			b.WriteString("\\r")
		case 0:
			b.WriteString("\\0")
		default:
			if c < 32 || c == 127 {
				b.WriteString("\\")
				b.WriteString(strconv.Itoa(int(c)))
			} else {
				b.WriteByte(c)
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}

// string.pack/unpack/packsize support the fixed-size directives
// b B h H i I l L j J T f d. 'f' and 'd' take 4 and 8 bytes, but their
// values are packed and unpacked as integers, not as IEEE floats.
// 's' is not supported (variable-length strings need an explicit size
// prefix, which this subset doesn't parse).
func packFormat(format string) (order binary.ByteOrder, sizes []int) {
	order = binary.LittleEndian
	for i := 0; i < len(format); i++ {
		switch format[i] {
		case '<':
			order = binary.LittleEndian
		case '>':
			order = binary.BigEndian
		case '=', '!':
			// native/aligned: treated as little-endian, unaligned.
		case 'b', 'B':
			sizes = append(sizes, 1)
		case 'h', 'H':
			sizes = append(sizes, 2)
		case 'i', 'I', 'f':
			sizes = append(sizes, 4)
		case 'l', 'L', 'j', 'J', 'T', 'd':
			sizes = append(sizes, 8)
		}
	}
	return
}

func strPack(ls State) int {
	format := ls.CheckString(1)
	order, sizes := packFormat(format)
	buf := make([]byte, 0, 16)
	argIdx := 2
	for _, size := range sizes {
		var v uint64
		if size == 4 {
			v = uint64(ls.CheckInteger(argIdx))
		} else {
			v = uint64(ls.CheckInteger(argIdx))
		}
		tmp := make([]byte, size)
		switch size {
		case 1:
			tmp[0] = byte(v)
		case 2:
			order.PutUint16(tmp, uint16(v))
		case 4:
			order.PutUint32(tmp, uint32(v))
		case 8:
			order.PutUint64(tmp, v)
		}
		buf = append(buf, tmp...)
		argIdx++
	}
	ls.PushString(string(buf))
	return 1
}

func strUnpack(ls State) int {
	format := ls.CheckString(1)
	data := ls.CheckString(2)
	order, sizes := packFormat(format)
	off := int(ls.OptInteger(3, 1)) - 1
	n := 0
	for _, size := range sizes {
		if off+size > len(data) {
			ls.Error2("data string too short")
		}
		chunk := []byte(data[off : off+size])
		var v uint64
		switch size {
		case 1:
			v = uint64(chunk[0])
		case 2:
			v = uint64(order.Uint16(chunk))
		case 4:
			v = uint64(order.Uint32(chunk))
		case 8:
			v = order.Uint64(chunk)
		}
		ls.PushInteger(int64(v))
		off += size
		n++
	}
	ls.PushInteger(int64(off + 1))
	return n + 1
}

func strPackSize(ls State) int {
	format := ls.CheckString(1)
	_, sizes := packFormat(format)
	total := 0
	for _, s := range sizes {
		total += s
	}
	ls.PushInteger(int64(total))
	return 1
}
