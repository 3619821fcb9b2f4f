package api

// VM is the execution-core-facing extension of State: the handful of
// operations the bytecode dispatch loop (package vm) needs beyond the
// public C-API surface — program counter control, constant/register-K
// decoding, and upvalue closing.
type VM interface {
	State
	PC() int
	AddPC(n int)
	Fetch() uint32
	GetConst(idx int)
	GetRK(rk int)
	RegisterCount() int
	LoadVararg(n int)
	LoadProto(idx int)
	CloseUpvalues(a int)

	// RegisterTBC marks the value currently at the given absolute register
	// as to-be-closed, appending it to the current frame's TBC list.
	RegisterTBC(reg int)
}
