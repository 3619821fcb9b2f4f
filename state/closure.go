package state

import (
	"fmt"

	. "github.com/katsu-lua/lua54/api"
	"github.com/katsu-lua/lua54/binchunk"
)

type closure struct {
	proto  *binchunk.Prototype // lua closure
	goFunc GoFunction          // go closure
	upVals []*upvalue
}

func newLuaClosure(proto *binchunk.Prototype) *closure {
	c := &closure{proto: proto}
	if nUpvals := len(proto.Upvalues); nUpvals > 0 {
		c.upVals = make([]*upvalue, nUpvals)
	}
	return c
}

func newGoClosure(f GoFunction, nUpvals int) *closure {
	c := &closure{goFunc: f}
	if nUpvals > 0 {
		c.upVals = make([]*upvalue, nUpvals)
	}
	return c
}

func (c *closure) String() string {
	if c.goFunc != nil {
		return fmt.Sprintf("builtin: %p", c.goFunc)
	}
	return fmt.Sprintf("function: %p", c.proto)
}
