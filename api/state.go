package api

// GoFunction is the native-function ABI: a Go closure invoked through the
// CALL opcode exactly like a Lua function, reading arguments off the stack
// and pushing results the same way.
type GoFunction func(State) int

func UpvalueIndex(i int) int {
	return RegistryIndex - i
}

// State is the full surface a running chunk, a GoFunction, or the standard
// library sees: primitive stack operations (BasicAPI) plus the auxiliary
// convenience layer built on top of them (AuxLib).
type State interface {
	BasicAPI
	AuxLib
}

type BasicAPI interface {
	/* basic stack manipulation */
	GetTop() int
	AbsIndex(idx int) int
	CheckStack(n int) bool
	Pop(n int)
	Copy(fromIdx, toIdx int)
	PushValue(idx int)
	Replace(idx int)
	Insert(idx int)
	Remove(idx int)
	Rotate(idx, n int)
	SetTop(idx int)
	XMove(to State, n int)
	/* access functions (stack -> Go) */
	TypeName(tp Type) string
	Type(idx int) Type
	IsNone(idx int) bool
	IsNil(idx int) bool
	IsNoneOrNil(idx int) bool
	IsBoolean(idx int) bool
	IsInteger(idx int) bool
	IsNumber(idx int) bool
	IsString(idx int) bool
	IsTable(idx int) bool
	IsThread(idx int) bool
	IsFunction(idx int) bool
	IsGoFunction(idx int) bool
	ToBoolean(idx int) bool
	ToInteger(idx int) int64
	ToIntegerX(idx int) (int64, bool)
	ToNumber(idx int) float64
	ToNumberX(idx int) (float64, bool)
	ToString(idx int) string
	ToStringX(idx int) (string, bool)
	ToGoFunction(idx int) GoFunction
	ToThread(idx int) State
	ToPointer(idx int) interface{}
	/* push functions (Go -> stack) */
	PushNil()
	PushBoolean(b bool)
	PushInteger(n int64)
	PushNumber(n float64)
	PushString(s string)
	PushFString(fmt string, a ...interface{})
	PushGoFunction(f GoFunction)
	PushGoClosure(f GoFunction, n int)
	PushGlobalTable()
	PushThread() bool
	Push(item any)
	PushCopyTable(idx int)
	/* comparison and arithmetic functions */
	Arith(op ArithOp)
	Compare(idx1, idx2 int, op CompareOp) bool
	Concat(n int)
	/* get functions (Lua -> stack) */
	NewTable()
	CreateTable(nArr, nRec int)
	GetTable(idx int) Type
	GetField(idx int, k string) Type
	GetI(idx int, i int64) Type
	RawGet(idx int) Type
	RawGetI(idx int, i int64) Type
	RawLen(idx int) int64
	RawEqual(idx1, idx2 int) bool
	GetGlobal(name string) Type
	GetMetatable(idx int) bool
	/* set functions (stack -> Lua) */
	SetTable(idx int)
	SetField(idx int, k string)
	SetMetatable(idx int)
	SetI(idx int, i int64)
	RawSet(idx int)
	RawSetI(idx int, i int64)
	SetGlobal(name string)
	Register(name string, f GoFunction)
	/* 'load' and 'call' functions (load and run Lua code) */
	Load(chunk []byte, chunkName, mode string) Status
	Call(nArgs, nResults int)
	PCall(nArgs, nResults, msgh int) Status
	/* miscellaneous functions */
	Len(idx int)
	Next(idx int) bool
	Error() int
	StringToNumber(s string) bool
	/* coroutine functions */
	NewThread() State
	Resume(from State, nArgs int) Status
	Yield(nResults int) Status
	Status() Status
	IsYieldable() bool
	GetStack() bool // debug: does the running thread have any frames?

	/* debug library support */
	GetInfo(level int, what string) (*DebugInfo, bool)
	GetLocal(level, n int) (string, bool)
	SetLocal(level, n int) (string, bool)
	GetUpvalueName(fnIdx, n int) (string, bool)
	SetUpvalueValue(fnIdx, n int) (string, bool)
	SetHook(hook Hook, mask int, count int)
	GetHook() (Hook, int, int)

	// CatchAndPrint recovers a panicking Lua error at the top level and
	// prints it; isRepl prints the message without a traceback.
	CatchAndPrint(isRepl bool)
}

type FuncReg map[string]GoFunction

// auxiliary library
type AuxLib interface {
	/* error-report functions */
	Error2(fmt string, a ...interface{}) int
	ArgError(arg int, extraMsg string) int
	/* argument check functions */
	CheckStack2(sz int, msg string)
	ArgCheck(cond bool, arg int, extraMsg string)
	CheckAny(arg int) any
	CheckType(arg int, t Type)
	CheckInteger(arg int) int64
	CheckNumber(arg int) float64
	CheckString(arg int) string
	CheckBool(arg int) bool
	OptInteger(arg int, d int64) int64
	OptNumber(arg int, d float64) float64
	OptString(arg int, d string) string
	OptBool(arg int, d bool) bool
	/* load functions */
	DoFile(filename string) bool
	DoString(str, source string) bool
	LoadFile(filename string) Status
	LoadFileX(filename, mode string) Status
	LoadString(s, source string) Status
	/* other functions */
	TypeName2(idx int) string
	ToString2(idx int) string
	Len2(idx int) int64
	GetSubTable(idx int, fname string) bool
	GetMetafield(obj int, e string) Type
	CallMeta(obj int, e string) bool
	OpenLibs()
	RequireF(modname string, openf GoFunction, glb bool)
	NewLib(l FuncReg)
	NewLibTable(l FuncReg)
	SetFuncs(l FuncReg, nup int)
	Traceback(msg string, level int) string
}

// DebugInfo mirrors the fields lua_Debug exposes to the debug library:
// enough for getinfo's "nSlu" selector set.
type DebugInfo struct {
	Source        string
	ShortSrc      string
	LineDefined   int
	LastLineDefined int
	What          string // "Lua", "Go", "main"
	CurrentLine   int
	Name          string
	NameWhat      string // "global", "local", "method", "field", "upvalue", ""
	NumUpvalues   int
	NumParams     int
	IsVararg      bool
	IsTailCall    bool
}

// Hook events, matching LUA_MASKCALL/RET/LINE/COUNT.
const (
	HookCall = 1 << iota
	HookRet
	HookLine
	HookCount
	HookTailCall
)

// Hook is invoked by the VM's dispatch loop when the corresponding event
// bit is set in the installed mask; event is one of the Hook* constants.
type Hook func(s State, event int, line int)
