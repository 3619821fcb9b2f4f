package state

import (
	. "github.com/katsu-lua/lua54/api"
)

// luaState is one Lua thread: the reference implementation's lua_State.
// Coroutines are separate luaState values sharing a registry; the main
// thread is the one the registry's RidxMainThread entry points back to.
type luaState struct {
	registry *luaTable
	stack    *luaStack

	/* coroutine */
	coStatus Status
	coCaller *luaState
	coChan   chan int

	/* debug hooks */
	hook      Hook
	hookMask  int
	hookCount int
	inHook    bool
}

func New() *luaState {
	ls := &luaState{}

	registry := newLuaTable(8, 0)
	registry.put(RidxMainThread, ls)
	registry.put(RidxGlobals, newLuaTable(0, 20))

	ls.registry = registry
	ls.pushLuaStack(newLuaStack(MinStack, ls))
	return ls
}

func (self *luaState) isMainThread() bool {
	return self.registry.get(RidxMainThread) == self
}

func (self *luaState) pushLuaStack(stack *luaStack) {
	stack.prev = self.stack
	self.stack = stack
}

func (self *luaState) popLuaStack() {
	stack := self.stack
	self.stack = stack.prev
	stack.prev = nil
}
