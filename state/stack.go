package state

import (
	. "github.com/katsu-lua/lua54/api"
)

// luaStack is one call frame: a window of registers plus the bookkeeping
// the dispatch loop and C-API need to address them (pc, varargs, open
// upvalues, pending to-be-closed variables).
type luaStack struct {
	/* virtual stack */
	slots []any
	top   int
	/* call info */
	state   *luaState
	closure *closure
	varargs []any
	openuvs map[int]*upvalue
	pc      int
	lastPC  int
	/* to-be-closed variables, registers in ascending order (LIFO close order
	   pops from the end) */
	tbc []int
	/* linked list */
	prev *luaStack
}

func newLuaStack(size int, state *luaState) *luaStack {
	return &luaStack{
		slots: make([]any, size),
		top:   0,
		state: state,
	}
}

func (self *luaStack) check(n int) {
	free := len(self.slots) - self.top
	for i := free; i < n; i++ {
		self.slots = append(self.slots, nil)
	}
}

func (self *luaStack) push(val any) {
	if self.top == len(self.slots) {
		panic("stack overflow!")
	}
	self.slots[self.top] = val
	self.top++
}

func (self *luaStack) pop() any {
	if self.top < 1 {
		panic("stack underflow!")
	}
	self.top--
	val := self.slots[self.top]
	self.slots[self.top] = nil
	return val
}

func (self *luaStack) pushN(vals []any, n int) {
	nVals := len(vals)
	if n < 0 {
		n = nVals
	}

	for i := 0; i < n; i++ {
		if i < nVals {
			self.push(vals[i])
		} else {
			self.push(nil)
		}
	}
}

func (self *luaStack) popN(n int) []any {
	vals := make([]any, n)
	for i := n - 1; i >= 0; i-- {
		vals[i] = self.pop()
	}
	return vals
}

func (self *luaStack) absIndex(idx int) int {
	if idx >= 0 || idx <= RegistryIndex {
		return idx
	}
	return idx + self.top + 1
}

func (self *luaStack) isValid(idx int) bool {
	if idx < RegistryIndex { /* upvalues */
		uvIdx := RegistryIndex - idx - 1
		c := self.closure
		return c != nil && uvIdx < len(c.upVals)
	}
	if idx == RegistryIndex {
		return true
	}
	absIdx := self.absIndex(idx)
	return absIdx > 0 && absIdx <= self.top
}

func (self *luaStack) get(idx int) any {
	if idx < RegistryIndex { /* upvalues */
		uvIdx := RegistryIndex - idx - 1
		c := self.closure
		if c == nil || uvIdx >= len(c.upVals) {
			return nil
		}
		return c.upVals[uvIdx].get()
	}

	if idx == RegistryIndex {
		return self.state.registry
	}

	absIdx := self.absIndex(idx)
	if absIdx > 0 && absIdx <= self.top {
		return self.slots[absIdx-1]
	}
	return nil
}

func (self *luaStack) set(idx int, val any) {
	if idx < RegistryIndex { /* upvalues */
		uvIdx := RegistryIndex - idx - 1
		c := self.closure
		if c != nil && uvIdx < len(c.upVals) {
			c.upVals[uvIdx].set(val)
		}
		return
	}

	if idx == RegistryIndex {
		self.state.registry = val.(*luaTable)
		return
	}

	absIdx := self.absIndex(idx)
	if absIdx > 0 && absIdx <= self.top {
		self.slots[absIdx-1] = val
		return
	}
	panic("invalid index!")
}

func (self *luaStack) reverse(from, to int) {
	slots := self.slots
	for from < to {
		slots[from], slots[to] = slots[to], slots[from]
		from++
		to--
	}
}

// markTBC registers the value at the given absolute register (1-based stack
// slot `reg+1`) as to-be-closed. A non-nil, non-false value without a
// __close metamethod is a compile-time-impossible but runtime-checked error.
func (self *luaStack) markTBC(reg int) {
	self.tbc = append(self.tbc, reg)
}

// popTBCFrom closes every to-be-closed variable at or above `reg`, in LIFO
// order, chaining any error raised by a __close call into the next one via
// the (possibly nil) `cause` passed to __close's second argument.
func (self *luaStack) popTBCFrom(reg int, cause any, ls *luaState) {
	raised := false
	for len(self.tbc) > 0 && self.tbc[len(self.tbc)-1] >= reg {
		slot := self.tbc[len(self.tbc)-1]
		self.tbc = self.tbc[:len(self.tbc)-1]
		val := self.slots[slot]
		if val == nil || val == false {
			continue
		}
		if mf := getMetafield(val, "__close", ls); mf != nil {
			base := ls.stack
			func() {
				defer func() {
					if err := recover(); err != nil {
						for ls.stack != base {
							ls.popLuaStack()
						}
						cause, raised = err, true
					}
				}()
				ls.stack.check(3)
				ls.stack.push(mf)
				ls.stack.push(val)
				ls.stack.push(cause)
				ls.Call(2, 0)
			}()
		}
	}
	if raised {
		panic(cause)
	}
}
