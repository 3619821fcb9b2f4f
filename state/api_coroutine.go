package state

import . "github.com/katsu-lua/lua54/api"

// [-0, +1, m]
// http://www.lua.org/manual/5.4/manual.html#lua_newthread
func (self *luaState) NewThread() State {
	t := &luaState{registry: self.registry}
	t.pushLuaStack(newLuaStack(MinStack, t))
	self.stack.push(t)
	return t
}

// [-?, +?, –]
// http://www.lua.org/manual/5.4/manual.html#lua_resume
// Coroutines run on their own goroutine; resume/yield hand off via an
// unbuffered channel so only one side runs at a time.
func (self *luaState) Resume(from State, nArgs int) Status {
	lsFrom := from.(*luaState)
	if lsFrom.coChan == nil {
		lsFrom.coChan = make(chan int)
	}

	self.coCaller = lsFrom

	if self.coChan == nil {
		// start coroutine
		self.coChan = make(chan int)
		go func() {
			self.coStatus = self.PCall(nArgs, -1, 0)
			self.coCaller.coChan <- 1
		}()
	} else {
		// resume coroutine
		if self.coStatus != Yield {
			self.stack.push("cannot resume non-suspended coroutine")
			return ErrRun
		}
		self.coStatus = OK
		self.coChan <- 1
	}

	<-lsFrom.coChan // wait for coroutine to finish or yield
	return self.coStatus
}

// [-?, +?, e]
// http://www.lua.org/manual/5.4/manual.html#lua_yield
func (self *luaState) Yield(nResults int) Status {
	if self.coCaller == nil {
		panic("attempt to yield from outside a coroutine")
	}
	self.coStatus = Yield
	self.coCaller.coChan <- 1
	<-self.coChan
	return Status(self.GetTop())
}

// [-0, +0, –]
// http://www.lua.org/manual/5.4/manual.html#lua_isyieldable
func (self *luaState) IsYieldable() bool {
	if self.isMainThread() {
		return false
	}
	return self.coStatus != Yield
}

// [-0, +0, –]
// http://www.lua.org/manual/5.4/manual.html#lua_status
func (self *luaState) Status() Status {
	return self.coStatus
}

// debug
func (self *luaState) GetStack() bool {
	return self.stack.prev != nil
}
