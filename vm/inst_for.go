package vm

import . "github.com/katsu-lua/lua54/api"

// R(A)-=R(A+2); pc+=sBx
func forPrep(i Instruction, vm VM) {
	a, sBx := i.AsBx()
	a += 1

	vm.PushValue(a)
	vm.PushValue(a + 2)
	vm.Arith(OpSub)
	vm.Replace(a)
	vm.AddPC(sBx)
}

// R(A)+=R(A+2); if R(A) <?= R(A+1) then { pc+=sBx; R(A+3)=R(A) }
func forLoop(i Instruction, vm VM) {
	a, sBx := i.AsBx()
	a += 1

	// R(A) += R(A+2)
	vm.PushValue(a + 2)
	vm.PushValue(a)
	vm.Arith(OpAdd)
	vm.Replace(a)

	isPositiveStep := vm.ToNumber(a+2) >= 0
	if isPositiveStep && vm.Compare(a, a+1, OpLe) ||
		!isPositiveStep && vm.Compare(a+1, a, OpLe) {
		vm.AddPC(sBx)
		vm.Copy(a, a+3)
	}
}

// R(A+3), ... ,R(A+2+C) := R(A)(R(A+1), R(A+2))
func tForCall(i Instruction, vm VM) {
	a, _, c := i.ABC()
	a += 1

	_pushFuncAndArgs(a, 3, vm)
	vm.Call(2, c)
	_popResults(a+3, c+1, vm)
}

// if R(A+1) ~= nil then { R(A)=R(A+1); pc += sBx }
func tForLoop(i Instruction, vm VM) {
	a, sBx := i.AsBx()
	a += 1

	if !vm.IsNil(a + 1) {
		vm.Copy(a+1, a)
		vm.AddPC(sBx)
	}
}
