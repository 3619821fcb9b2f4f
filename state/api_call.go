package state

import (
	"fmt"

	. "github.com/katsu-lua/lua54/api"
	"github.com/katsu-lua/lua54/binchunk"
	"github.com/katsu-lua/lua54/compiler"
	"github.com/katsu-lua/lua54/vm"
)

// [-0, +1, –]
// http://www.lua.org/manual/5.4/manual.html#lua_load
// A chunk that round-trips our binary-chunk signature is treated as
// precompiled (string.dump output); anything else is source text.
func (self *luaState) Load(chunk []byte, chunkName, mode string) Status {
	var proto *binchunk.Prototype
	if ok, p := binchunk.IsJsonChunk(chunk); ok {
		proto = p
	} else {
		var err error
		proto, err = safeCompile(string(chunk), chunkName)
		if err != nil {
			self.stack.push(err.Error())
			return ErrSyntax
		}
	}

	c := newLuaClosure(proto)
	self.stack.push(c)
	if len(proto.Upvalues) > 0 {
		env := self.registry.get(RidxGlobals)
		uv := &upvalue{}
		uv.closed = env
		c.upVals[0] = uv
	}
	return OK
}

func safeCompile(chunk, chunkName string) (proto *binchunk.Prototype, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	proto = compiler.Compile(chunk, chunkName)
	return
}

// [-(nargs+1), +nresults, e]
// http://www.lua.org/manual/5.4/manual.html#lua_call
func (self *luaState) Call(nArgs, nResults int) {
	val := self.stack.get(-(nArgs + 1))

	c, ok := val.(*closure)
	if !ok {
		if mf := getMetafield(val, "__call", self); mf != nil {
			if c, ok = mf.(*closure); ok {
				self.stack.push(val)
				self.Insert(-(nArgs + 2))
				nArgs += 1
			}
		}
	}

	if !ok {
		panic(fmt.Sprintf("attempt to call a %s value", self.TypeName(typeOf(val))))
	}

	if c.proto != nil {
		self.callLuaClosure(nArgs, nResults, c)
	} else {
		self.callGoClosure(nArgs, nResults, c)
	}
}

func (self *luaState) callGoClosure(nArgs, nResults int, c *closure) {
	// create new lua stack
	newStack := newLuaStack(nArgs+MinStack, self)
	newStack.closure = c

	// pass args, pop func
	if nArgs > 0 {
		args := self.stack.popN(nArgs)
		newStack.pushN(args, nArgs)
	}
	self.stack.pop()

	// run closure
	self.pushLuaStack(newStack)
	r := c.goFunc(self)
	self.popLuaStack()

	// return results
	if nResults != 0 {
		results := newStack.popN(r)
		self.stack.check(len(results))
		self.stack.pushN(results, nResults)
	}
}

func (self *luaState) callLuaClosure(nArgs, nResults int, c *closure) {
	nRegs := int(c.proto.MaxStackSize)
	nParams := int(c.proto.NumParams)
	isVararg := c.proto.IsVararg == 1

	// create new lua stack
	newStack := newLuaStack(nRegs+MinStack, self)
	newStack.closure = c

	// pass args, pop func
	funcAndArgs := self.stack.popN(nArgs + 1)
	newStack.pushN(funcAndArgs[1:], nParams)
	newStack.top = nRegs
	if nArgs > nParams && isVararg {
		newStack.varargs = funcAndArgs[nParams+1:]
	}

	// run closure. popTBCFrom must run even if the closure panics (a Lua
	// error or a host panic unwinding through PCall), so every <close>
	// variable still gets its __close call before the error propagates.
	self.pushLuaStack(newStack)
	func() {
		defer func() {
			cause := recover()
			newStack.popTBCFrom(0, cause, self)
			if cause != nil {
				panic(cause)
			}
		}()
		self.runLuaClosure()
	}()
	self.popLuaStack()

	// return results
	if nResults != 0 {
		results := newStack.popN(newStack.top - nRegs)
		self.stack.check(len(results))
		self.stack.pushN(results, nResults)
	}
}

func (self *luaState) runLuaClosure() {
	for {
		inst := vm.Instruction(self.Fetch())
		if self.hook != nil && self.hookMask&HookLine != 0 {
			self.fireLineHook()
		}
		inst.Execute(self)
		if inst.Opcode() == vm.OP_RETURN {
			break
		}
	}
}

// [-(nargs+1), +(nresults|1), –]
// http://www.lua.org/manual/5.4/manual.html#lua_pcall
func (self *luaState) PCall(nArgs, nResults, msgh int) (status Status) {
	caller := self.stack
	status = ErrRun

	defer func() {
		if err := recover(); err != nil {
			if msgh != 0 {
				panic(err)
			}
			for self.stack != caller {
				self.popLuaStack()
			}
			self.stack.push(err)
		}
	}()

	self.Call(nArgs, nResults)
	status = OK
	return
}

// CatchAndPrint recovers a panicking Lua error at the top level (main
// chunk, REPL line) and prints it to stdout with a traceback; isRepl
// suppresses the traceback noise for one-line REPL evaluations.
func (self *luaState) CatchAndPrint(isRepl bool) {
	if err := recover(); err != nil {
		msg := self.errorToString(err)
		if !isRepl {
			msg = self.Traceback(msg, 1)
		}
		fmt.Println(msg)
	}
}

func (self *luaState) errorToString(err any) string {
	switch x := err.(type) {
	case string:
		return x
	case error:
		return x.Error()
	default:
		return fmt.Sprintf("%v", x)
	}
}
