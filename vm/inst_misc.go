package vm

import . "github.com/katsu-lua/lua54/api"

// R(A) := R(B)
func move(i Instruction, vm VM) {
	a, b, _ := i.ABC()
	a += 1
	b += 1

	vm.Copy(b, a)
}

// pc+=sBx; if (A) close all upvalues >= R(A - 1)
func jmp(i Instruction, vm VM) {
	a, sBx := i.AsBx()

	vm.AddPC(sBx)
	if a != 0 {
		vm.CloseUpvalues(a)
	}
}

// close all upvalues at register >= R(A); to-be-closed variables are not
// closed here, only when the frame returns or an error unwinds it
func closeStat(i Instruction, vm VM) {
	a, _, _ := i.ABC()
	a += 1

	vm.CloseUpvalues(a)
}

// mark R(A) as to-be-closed
func tbc(i Instruction, vm VM) {
	a, _, _ := i.ABC()

	vm.RegisterTBC(a)
}
