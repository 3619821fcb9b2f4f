package stdlib

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"
	"strings"

	. "github.com/katsu-lua/lua54/api"
)

// Registry keys for the current default input/output file handles, mirroring
// real Lua's io.input()/io.output() statefulness (spec §6's narrow
// filesystem-collaborator boundary: open/read/write on an *os.File).
const (
	ioDefaultInput  = "_IO_INPUT"
	ioDefaultOutput = "_IO_OUTPUT"
)

// fileHandle backs a Lua value returned by io.open/io.stdin/.../io.tmpfile.
// There is no userdata primitive in this implementation's value model (§3
// lists Userdata as an opaque-ref variant, but nothing in SPEC_FULL.md needs
// more than a file handle), so the handle is a plain table whose methods are
// Go closures capturing *fileHandle directly instead of going through the
// upvalue machinery — __name on its metatable is still "FILE*" per spec §6.
type fileHandle struct {
	f       *os.File
	r       *bufio.Reader
	closed  bool
	noClose bool // true for stdin/stdout/stderr: close() marks closed but never calls os.File.Close
}

func (fh *fileHandle) reader() *bufio.Reader {
	if fh.r == nil {
		fh.r = bufio.NewReader(fh.f)
	}
	return fh.r
}

var ioLib = FuncReg{
	"open":    ioOpen,
	"close":   ioClose,
	"read":    ioRead,
	"write":   ioWrite,
	"lines":   ioLines,
	"type":    ioType,
	"input":   ioInput,
	"output":  ioOutput,
	"flush":   ioFlushDefault,
	"tmpfile": ioTmpFile,
	"popen":   ioPopen,
}

func OpenIOLib(ls State) int {
	ls.NewLib(ioLib)

	pushFileHandle(ls, os.Stdin, true)
	ls.PushValue(-1)
	ls.SetField(-3, "stdin")
	ls.SetField(RegistryIndex, ioDefaultInput)

	pushFileHandle(ls, os.Stdout, true)
	ls.PushValue(-1)
	ls.SetField(-3, "stdout")
	ls.SetField(RegistryIndex, ioDefaultOutput)

	pushFileHandle(ls, os.Stderr, true)
	ls.SetField(-2, "stderr")

	return 1
}

// pushFileHandle pushes a fresh file-handle table wrapping f, methods bound
// as Go closures over its *fileHandle, with the "FILE*" metatable from
// spec §6 (__name, __tostring, __close, __gc via a Go finalizer since host
// garbage collection is what backs object reclamation here, per spec §9).
func pushFileHandle(ls State, f *os.File, noClose bool) {
	fh := &fileHandle{f: f, noClose: noClose}

	ls.CreateTable(0, 8)
	ls.PushGoFunction(func(ls State) int { return fhRead(ls, fh) })
	ls.SetField(-2, "read")
	ls.PushGoFunction(func(ls State) int { return fhWrite(ls, fh) })
	ls.SetField(-2, "write")
	ls.PushGoFunction(func(ls State) int { return fhClose(ls, fh) })
	ls.SetField(-2, "close")
	ls.PushGoFunction(func(ls State) int { return fhLines(ls, fh) })
	ls.SetField(-2, "lines")
	ls.PushGoFunction(func(ls State) int { return fhSeek(ls, fh) })
	ls.SetField(-2, "seek")
	ls.PushGoFunction(func(ls State) int { return fhFlush(ls, fh) })
	ls.SetField(-2, "flush")
	ls.PushGoFunction(func(ls State) int { return fhSetvbuf(ls, fh) })
	ls.SetField(-2, "setvbuf")

	ls.CreateTable(0, 4)
	ls.PushString("FILE*")
	ls.SetField(-2, "__name")
	ls.PushGoFunction(func(ls State) int { return fhTostring(ls, fh) })
	ls.SetField(-2, "__tostring")
	ls.PushGoFunction(func(ls State) int { return fhClose(ls, fh) })
	ls.SetField(-2, "__close")
	ls.PushGoFunction(func(ls State) int { fh.closed = true; return 0 })
	ls.SetField(-2, "__gc")
	ls.SetMetatable(-2)

	registerHandle(ls, -1, fh)
	runtime.SetFinalizer(fh, func(fh *fileHandle) {
		if !fh.closed && !fh.noClose {
			fh.f.Close()
		}
	})
}

func checkFileHandle(ls State, idx int) *fileHandle {
	ls.CheckType(idx, TTABLE)
	fh := fileHandleOf(ls, idx)
	if fh == nil {
		ls.ArgError(idx, "FILE* expected")
	}
	return fh
}

// liveHandles maps a handle table's identity (via ToPointer) back to the
// *fileHandle its closures captured, since this value model has no userdata
// slot to stash a Go pointer in directly.
var liveHandles = map[any]*fileHandle{}

func fileHandleOf(ls State, idx int) *fileHandle {
	key := ls.ToPointer(idx)
	return liveHandles[key]
}

func registerHandle(ls State, idx int, fh *fileHandle) {
	liveHandles[ls.ToPointer(idx)] = fh
}

// io.open(filename [, mode])
func ioOpen(ls State) int {
	name := ls.CheckString(1)
	mode := ls.OptString(2, "r")
	f, err := openMode(name, mode)
	if err != nil {
		ls.PushNil()
		ls.PushString(err.Error())
		ls.PushInteger(1)
		return 3
	}
	pushFileHandle(ls, f, false)
	return 1
}

func openMode(name, mode string) (*os.File, error) {
	mode = strings.TrimSuffix(mode, "b")
	switch mode {
	case "r":
		return os.OpenFile(name, os.O_RDONLY, 0o644)
	case "w":
		return os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	case "a":
		return os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	case "r+":
		return os.OpenFile(name, os.O_RDWR, 0o644)
	case "w+":
		return os.OpenFile(name, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	case "a+":
		return os.OpenFile(name, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o644)
	default:
		return nil, fmt.Errorf("invalid mode '%s'", mode)
	}
}

// io.tmpfile()
func ioTmpFile(ls State) int {
	f, err := os.CreateTemp("", "lua_")
	if err != nil {
		ls.PushNil()
		ls.PushString(err.Error())
		return 2
	}
	pushFileHandle(ls, f, false)
	return 1
}

// io.popen(prog [, mode]) is unsupported without a process-spawning
// collaborator in scope (spec §6 names only open/read/write); it reports
// failure the way real Lua does on platforms without popen.
func ioPopen(ls State) int {
	ls.PushNil()
	ls.PushString("popen not supported")
	return 2
}

func defaultFile(ls State, key string) *fileHandle {
	ls.GetField(RegistryIndex, key)
	fh := fileHandleOf(ls, -1)
	ls.Pop(1)
	return fh
}

// io.input([file])
func ioInput(ls State) int {
	return ioDefaultGetSet(ls, ioDefaultInput, "r")
}

// io.output([file])
func ioOutput(ls State) int {
	return ioDefaultGetSet(ls, ioDefaultOutput, "w")
}

func ioDefaultGetSet(ls State, key, mode string) int {
	if ls.IsNoneOrNil(1) {
		ls.GetField(RegistryIndex, key)
		return 1
	}
	if ls.IsString(1) {
		name := ls.CheckString(1)
		f, err := openMode(name, mode)
		if err != nil {
			ls.Error2("%s", err.Error())
		}
		pushFileHandle(ls, f, false)
	} else {
		checkFileHandle(ls, 1)
		ls.PushValue(1)
	}
	ls.PushValue(-1)
	ls.SetField(RegistryIndex, key)
	return 1
}

// io.close([file])
func ioClose(ls State) int {
	if ls.IsNoneOrNil(1) {
		fh := defaultFile(ls, ioDefaultOutput)
		return closeHandle(ls, fh)
	}
	fh := checkFileHandle(ls, 1)
	return closeHandle(ls, fh)
}

func closeHandle(ls State, fh *fileHandle) int {
	if fh == nil || fh.closed {
		ls.PushBoolean(true)
		return 1
	}
	fh.closed = true
	if !fh.noClose {
		if err := fh.f.Close(); err != nil {
			ls.PushNil()
			ls.PushString(err.Error())
			return 2
		}
	}
	ls.PushBoolean(true)
	return 1
}

func fhClose(ls State, fh *fileHandle) int {
	return closeHandle(ls, fh)
}

func fhTostring(ls State, fh *fileHandle) int {
	if fh.closed {
		ls.PushString("file (closed)")
	} else {
		ls.PushString(fmt.Sprintf("file (%p)", fh.f))
	}
	return 1
}

func fhFlush(ls State, fh *fileHandle) int {
	if !fh.closed {
		fh.f.Sync()
	}
	ls.PushValue(1)
	return 1
}

func ioFlushDefault(ls State) int {
	if fh := defaultFile(ls, ioDefaultOutput); fh != nil && !fh.closed {
		fh.f.Sync()
	}
	ls.PushBoolean(true)
	return 1
}

func fhSetvbuf(ls State, fh *fileHandle) int {
	ls.CheckString(2) // mode accepted and ignored; Go's os.File is unbuffered on write
	ls.PushBoolean(true)
	return 1
}

func fhSeek(ls State, fh *fileHandle) int {
	whenceName := ls.OptString(2, "cur")
	offset := ls.OptInteger(3, 0)
	var whence int
	switch whenceName {
	case "set":
		whence = io.SeekStart
	case "cur":
		whence = io.SeekCurrent
	case "end":
		whence = io.SeekEnd
	default:
		ls.ArgError(2, "invalid option")
	}
	pos, err := fh.f.Seek(offset, whence)
	if err != nil {
		ls.PushNil()
		ls.PushString(err.Error())
		return 2
	}
	fh.r = nil // Seek invalidates anything buffered
	ls.PushInteger(pos)
	return 1
}

// readOneFormat implements one format spec for read()/lines(): "l"/"L" a
// line (without/with trailing \n), "n" a number, "a" the whole remaining
// file. ok is false at EOF with no partial data to report.
func readOneFormat(fh *fileHandle, format string) (value any, ok bool) {
	format = strings.TrimPrefix(format, "*")
	r := fh.reader()
	switch format {
	case "l", "L":
		line, err := r.ReadString('\n')
		if line == "" && err != nil {
			return nil, false
		}
		if format == "l" {
			line = strings.TrimRight(line, "\n")
			line = strings.TrimRight(line, "\r")
		}
		return line, true
	case "a":
		rest := make([]byte, 0, 512)
		buf := make([]byte, 512)
		for {
			n, err := r.Read(buf)
			rest = append(rest, buf[:n]...)
			if err != nil {
				break
			}
		}
		return string(rest), true
	case "n":
		var sb strings.Builder
		for {
			b, err := r.Peek(1)
			if err != nil || len(b) == 0 {
				break
			}
			c := b[0]
			if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
				if sb.Len() == 0 {
					r.ReadByte()
					continue
				}
				break
			}
			if (c >= '0' && c <= '9') || c == '.' || c == '-' || c == '+' || c == 'e' || c == 'E' || c == 'x' || c == 'X' ||
				(c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F') {
				r.ReadByte()
				sb.WriteByte(c)
				continue
			}
			break
		}
		if sb.Len() == 0 {
			return nil, false
		}
		if n, err := strconv.ParseFloat(sb.String(), 64); err == nil {
			return n, true
		}
		return nil, false
	default:
		return nil, false
	}
}

func readNumberBytes(fh *fileHandle, n int) (string, bool) {
	buf := make([]byte, n)
	read, err := io.ReadFull(fh.reader(), buf)
	if read == 0 && err != nil {
		return "", false
	}
	return string(buf[:read]), true
}

func pushReadResult(ls State, v any, ok bool) {
	if !ok {
		ls.PushNil()
		return
	}
	switch x := v.(type) {
	case string:
		ls.PushString(x)
	case float64:
		ls.PushNumber(x)
	}
}

func doReads(ls State, fh *fileHandle, firstFormatArg int) int {
	if ls.GetTop() < firstFormatArg {
		v, ok := readOneFormat(fh, "l")
		pushReadResult(ls, v, ok)
		return 1
	}
	n := 0
	for i := firstFormatArg; i <= ls.GetTop(); i++ {
		n++
		if ls.IsNumber(i) {
			count := int(ls.ToInteger(i))
			s, ok := readNumberBytes(fh, count)
			if !ok && count > 0 {
				ls.PushNil()
			} else {
				ls.PushString(s)
			}
			continue
		}
		format := ls.CheckString(i)
		v, ok := readOneFormat(fh, format)
		pushReadResult(ls, v, ok)
	}
	return n
}

func fhRead(ls State, fh *fileHandle) int {
	return doReads(ls, fh, 2)
}

// io.read(...) reads from the default input file.
func ioRead(ls State) int {
	fh := defaultFile(ls, ioDefaultInput)
	if fh == nil {
		ls.PushNil()
		return 1
	}
	return doReads(ls, fh, 1)
}

func writeOne(ls State, fh *fileHandle, idx int) error {
	var s string
	if ls.IsNumber(idx) {
		s = ls.ToString2(idx)
	} else {
		s = ls.CheckString(idx)
	}
	_, err := fh.f.WriteString(s)
	return err
}

func fhWrite(ls State, fh *fileHandle) int {
	for i := 2; i <= ls.GetTop(); i++ {
		if err := writeOne(ls, fh, i); err != nil {
			ls.PushNil()
			ls.PushString(err.Error())
			return 2
		}
	}
	ls.PushValue(1)
	return 1
}

// io.write(...) writes to the default output file.
func ioWrite(ls State) int {
	fh := defaultFile(ls, ioDefaultOutput)
	if fh == nil {
		ls.PushBoolean(false)
		return 1
	}
	for i := 1; i <= ls.GetTop(); i++ {
		if err := writeOne(ls, fh, i); err != nil {
			ls.PushNil()
			ls.PushString(err.Error())
			return 2
		}
	}
	ls.PushBoolean(true)
	return 1
}

func linesIterator(fh *fileHandle, format string, closeAtEnd bool) GoFunction {
	return func(ls State) int {
		v, ok := readOneFormat(fh, format)
		if !ok {
			if closeAtEnd {
				closeHandle(ls, fh)
			}
			ls.PushNil()
			return 1
		}
		pushReadResult(ls, v, ok)
		return 1
	}
}

// io.lines([filename, ...])
func ioLines(ls State) int {
	if ls.IsNoneOrNil(1) {
		fh := defaultFile(ls, ioDefaultInput)
		ls.PushGoFunction(linesIterator(fh, "l", false))
		return 1
	}
	name := ls.CheckString(1)
	f, err := openMode(name, "r")
	if err != nil {
		ls.Error2("%s", err.Error())
	}
	fh := &fileHandle{f: f}
	format := "l"
	if ls.GetTop() >= 2 {
		format = ls.OptString(2, "l")
	}
	ls.PushGoFunction(linesIterator(fh, format, true))
	return 1
}

// file:lines(...) (method form)
func fhLines(ls State, fh *fileHandle) int {
	format := "l"
	if ls.GetTop() >= 2 {
		format = ls.OptString(2, "l")
	}
	ls.PushGoFunction(linesIterator(fh, format, false))
	return 1
}

// io.type(obj)
func ioType(ls State) int {
	if ls.Type(1) != TTABLE {
		ls.PushNil()
		return 1
	}
	fh := fileHandleOf(ls, 1)
	if fh == nil {
		ls.PushNil()
		return 1
	}
	if fh.closed {
		ls.PushString("closed file")
	} else {
		ls.PushString("file")
	}
	return 1
}
