// Package api defines the C-API-shaped contract the VM, compiler and
// standard library are built against: a stack-based interface mirroring
// lua.h (lua_*) and lauxlib.h (luaL_*) from the reference implementation.
package api

import (
	"math/bits"
)

const MinStack = 20
const MaxStack = 1000000
const RegistryIndex = -MaxStack - 1000
const RidxMainThread int64 = 1
const RidxGlobals int64 = 2
const MultRet = -1

const (
	offset     = bits.UintSize - 1
	MaxInteger = 1<<offset - 1
	MinInteger = -1 << offset
)

/* basic types */
type Type = int

const (
	TNONE Type = iota - 1 // -1
	TNIL
	TBOOLEAN
	TLIGHTUSERDATA
	TNUMBER
	TSTRING
	TTABLE
	TFUNCTION
	TUSERDATA
	TTHREAD
)

/* arithmetic functions */
type ArithOp = int

const (
	OpAdd  ArithOp = iota // +
	OpSub                 // -
	OpMul                 // *
	OpMod                 // %
	OpPow                 // ^
	OpDiv                 // /
	OpIDiv                // //
	OpBAnd                // &
	OpBOr                 // |
	OpBXor                // ~
	OpShl                 // <<
	OpShr                 // >>
	OpUnm                 // unary -
	OpBNot                // unary ~
)

/* comparison functions */
type CompareOp = int

const (
	OpEq CompareOp = iota // ==
	OpLt                  // <
	OpLe                  // <=
)

/* thread status */
type Status int

const (
	OK Status = iota
	Yield
	ErrRun
	ErrSyntax
	ErrMem
	ErrGCMM
	ErrErr
	ErrFile
)
