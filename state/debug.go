package state

import (
	"fmt"
	"strings"

	. "github.com/katsu-lua/lua54/api"
)

func (self *luaState) frameAt(level int) *luaStack {
	s := self.stack
	for ; level > 0 && s != nil; level-- {
		s = s.prev
	}
	return s
}

func (self *luaState) currentLine(s *luaStack) int {
	if s.closure == nil || s.closure.proto == nil {
		return -1
	}
	lineInfo := s.closure.proto.LineInfo
	pc := s.lastPC
	if pc < 0 || pc >= len(lineInfo) {
		return -1
	}
	return int(lineInfo[pc])
}

// [-0, +0, –]
// http://www.lua.org/manual/5.4/manual.html#lua_getinfo
func (self *luaState) GetInfo(level int, what string) (*DebugInfo, bool) {
	s := self.frameAt(level)
	if s == nil {
		return nil, false
	}

	info := &DebugInfo{}
	if s.closure == nil {
		info.What = "main"
		return info, true
	}

	if s.closure.proto != nil {
		p := s.closure.proto
		info.Source = p.Source
		info.ShortSrc = p.Source
		info.LineDefined = int(p.LineDefined)
		info.LastLineDefined = int(p.LastLineDefined)
		info.NumParams = int(p.NumParams)
		info.IsVararg = p.IsVararg == 1
		info.NumUpvalues = len(p.Upvalues)
		info.CurrentLine = self.currentLine(s)
		if p.LineDefined == 0 {
			info.What = "main"
		} else {
			info.What = "Lua"
		}
	} else {
		info.What = "Go"
		info.ShortSrc = "[C]"
		info.CurrentLine = -1
	}
	return info, true
}

// [-0, +(0|1), –]
// http://www.lua.org/manual/5.4/manual.html#lua_getlocal
func (self *luaState) GetLocal(level, n int) (string, bool) {
	s := self.frameAt(level)
	if s == nil || s.closure == nil || s.closure.proto == nil {
		return "", false
	}
	for _, lv := range s.closure.proto.LocVars {
		if int(lv.StartPC) <= s.pc && s.pc <= int(lv.EndPC) {
			n--
			if n == 0 {
				self.stack.push(s.slots[lv.Reg])
				return lv.VarName, true
			}
		}
	}
	return "", false
}

// [-(0|1), +0, –]
// http://www.lua.org/manual/5.4/manual.html#lua_setlocal
func (self *luaState) SetLocal(level, n int) (string, bool) {
	s := self.frameAt(level)
	if s == nil || s.closure == nil || s.closure.proto == nil {
		return "", false
	}
	val := self.stack.pop()
	for _, lv := range s.closure.proto.LocVars {
		if int(lv.StartPC) <= s.pc && s.pc <= int(lv.EndPC) {
			n--
			if n == 0 {
				s.slots[lv.Reg] = val
				return lv.VarName, true
			}
		}
	}
	return "", false
}

// [-0, +0, –]
// http://www.lua.org/manual/5.4/manual.html#lua_getupvalue
func (self *luaState) GetUpvalueName(fnIdx, n int) (string, bool) {
	val := self.stack.get(fnIdx)
	c, ok := val.(*closure)
	if !ok || c.proto == nil || n < 1 || n > len(c.proto.UpvalueNames) {
		return "", false
	}
	return c.proto.UpvalueNames[n-1], true
}

// [-(0|1), +0, –]
// http://www.lua.org/manual/5.4/manual.html#lua_setupvalue
func (self *luaState) SetUpvalueValue(fnIdx, n int) (string, bool) {
	val := self.stack.get(fnIdx)
	c, ok := val.(*closure)
	if !ok || n < 1 || n > len(c.upVals) {
		return "", false
	}
	newVal := self.stack.pop()
	c.upVals[n-1].set(newVal)
	name := ""
	if c.proto != nil && n <= len(c.proto.UpvalueNames) {
		name = c.proto.UpvalueNames[n-1]
	}
	return name, true
}

// [-0, +0, –]
// http://www.lua.org/manual/5.4/manual.html#lua_sethook
func (self *luaState) SetHook(hook Hook, mask int, count int) {
	self.hook = hook
	self.hookMask = mask
	self.hookCount = count
}

// [-0, +0, –]
// http://www.lua.org/manual/5.4/manual.html#lua_gethook
func (self *luaState) GetHook() (Hook, int, int) {
	return self.hook, self.hookMask, self.hookCount
}

// fireLineHook invokes the installed line hook for the current instruction,
// guarding against reentrant firing while the hook itself is running.
func (self *luaState) fireLineHook() {
	if self.inHook {
		return
	}
	self.inHook = true
	defer func() { self.inHook = false }()
	self.hook(self, HookLine, self.currentLine(self.stack))
}

// [-0, +1, m]
// http://www.lua.org/manual/5.4/manual.html#luaL_traceback
func (self *luaState) Traceback(msg string, level int) string {
	var b strings.Builder
	if msg != "" {
		b.WriteString(msg)
		b.WriteString("\n")
	}
	b.WriteString("stack traceback:")
	for s := self.frameAt(level); s != nil; s = s.prev {
		var where string
		if s.closure == nil {
			where = "in main chunk"
		} else if s.closure.proto == nil {
			where = "in function <Go>"
		} else {
			where = fmt.Sprintf("in function <%s:%d>", s.closure.proto.Source, s.closure.proto.LineDefined)
		}
		line := self.currentLine(s)
		src := "?"
		if s.closure != nil && s.closure.proto != nil {
			src = s.closure.proto.Source
		}
		if line > 0 {
			b.WriteString(fmt.Sprintf("\n\t%s:%d: %s", src, line, where))
		} else {
			b.WriteString("\n\t" + where)
		}
	}
	return b.String()
}
