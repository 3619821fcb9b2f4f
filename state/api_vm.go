package state

import (
	"fmt"

	"github.com/katsu-lua/lua54/vm"
)

func (self *luaState) PC() int {
	return self.stack.pc
}

func (self *luaState) AddPC(n int) {
	self.stack.lastPC = self.stack.pc
	self.stack.pc += n
}

func (self *luaState) Fetch() uint32 {
	i := self.stack.closure.proto.Code[self.stack.pc]
	self.stack.lastPC = self.stack.pc
	self.stack.pc++
	return i
}

func (self *luaState) GetConst(idx int) {
	c := self.stack.closure.proto.Constants[idx]
	self.stack.push(c)
}

func (self *luaState) GetRK(rk int) {
	if rk > 0xFF { // constant
		self.GetConst(rk & 0xFF)
	} else { // register
		self.PushValue(rk + 1)
	}
}

func (self *luaState) RegisterCount() int {
	return int(self.stack.closure.proto.MaxStackSize)
}

func (self *luaState) LoadVararg(n int) {
	if n < 0 {
		n = len(self.stack.varargs)
	}

	self.stack.check(n)
	self.stack.pushN(self.stack.varargs, n)
}

func (self *luaState) LoadProto(idx int) {
	stack := self.stack
	subProto := stack.closure.proto.Protos[idx]
	c := newLuaClosure(subProto)
	stack.push(c)

	for i := range subProto.Upvalues {
		uvIdx := int(subProto.Upvalues[i].Idx)
		if subProto.Upvalues[i].InStack == 1 {
			if stack.openuvs == nil {
				stack.openuvs = map[int]*upvalue{}
			}

			if openuv, found := stack.openuvs[uvIdx]; found {
				c.upVals[i] = openuv
			} else {
				c.upVals[i] = newOpenUpvalue(&stack.slots[uvIdx])
				stack.openuvs[uvIdx] = c.upVals[i]
			}
		} else {
			c.upVals[i] = stack.closure.upVals[uvIdx]
		}
	}
}

// CloseUpvalues closes every open upvalue referencing register >= a-1
// (0-based), severing its link to this frame before the frame shrinks or
// returns.
func (self *luaState) CloseUpvalues(a int) {
	for i, uv := range self.stack.openuvs {
		if i >= a-1 {
			uv.close()
			delete(self.stack.openuvs, i)
		}
	}
}

// RegisterTBC marks the value currently at the given absolute register as
// to-be-closed: its __close metamethod runs, in LIFO order, when the frame
// returns or an error unwinds it; leaving the enclosing block does not close it.
func (self *luaState) RegisterTBC(reg int) {
	val := self.stack.slots[reg]
	if val == nil || val == false {
		return
	}
	if getMetafield(val, "__close", self) == nil {
		name := "?"
		if self.stack.closure != nil && self.stack.closure.proto != nil {
			if n, ok := vm.ActiveLocalName(self.stack.closure.proto, self.stack.pc, reg); ok {
				name = n
			}
		}
		panic(fmt.Sprintf("variable '%s' got a non-closable value", name))
	}
	self.stack.markTBC(reg)
}
