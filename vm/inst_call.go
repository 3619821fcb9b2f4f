package vm

import . "github.com/katsu-lua/lua54/api"

// R(A), ... ,R(A+C-2) := R(A)(R(A+1), ... ,R(A+B-1))
func call(i Instruction, vm VM) {
	a, b, c := i.ABC()
	a += 1

	nArgs := _pushFuncAndArgs(a, b, vm)
	vm.Call(nArgs, c-1)
	_popResults(a, c, vm)
}

// return R(A)(R(A+1), ... ,R(A+B-1))
func tailCall(i Instruction, vm VM) {
	a, b, _ := i.ABC()
	a += 1

	// not a true tail call (no Go stack reuse), but observably equivalent
	nArgs := _pushFuncAndArgs(a, b, vm)
	vm.Call(nArgs, -1)
	_popResults(a, 0, vm)
}

// return R(A), ... ,R(A+B-2)
func _return(i Instruction, vm VM) {
	a, b, _ := i.ABC()
	a += 1

	if b == 1 {
		// no results
	} else if b > 1 {
		vm.CheckStack(b - 1)
		for i := a; i <= a+b-2; i++ {
			vm.PushValue(i)
		}
	} else {
		_fixStack(a, vm)
	}
}

func _pushFuncAndArgs(a, b int, vm VM) (nArgs int) {
	if b >= 1 {
		vm.CheckStack(b)
		for i := a; i < a+b; i++ {
			vm.PushValue(i)
		}
		return b - 1
	}
	_fixStack(a, vm)
	return vm.GetTop() - vm.RegisterCount() - 1
}

func _fixStack(a int, vm VM) {
	x := int(vm.ToInteger(-1))
	vm.Pop(1)

	vm.CheckStack(x - a)
	for i := a; i < x; i++ {
		vm.PushValue(i)
	}
	vm.Rotate(vm.RegisterCount()+1, x-a)
}
