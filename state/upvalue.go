package state

// upvalue is either open (still aliases a live register in an enclosing
// frame's stack) or closed (holds its own copy after that frame returned).
// Lua upvalues are shared: two closures capturing the same local see each
// other's writes until the variable goes out of scope and the upvalue closes.
type upvalue struct {
	open   *any
	closed any
}

func newOpenUpvalue(slot *any) *upvalue {
	return &upvalue{open: slot}
}

func (uv *upvalue) get() any {
	if uv.open != nil {
		return *uv.open
	}
	return uv.closed
}

func (uv *upvalue) set(val any) {
	if uv.open != nil {
		*uv.open = val
		return
	}
	uv.closed = val
}

// close copies the current value out of the register and severs the link,
// so subsequent writes through this upvalue no longer touch the (dead) stack.
func (uv *upvalue) close() {
	if uv.open != nil {
		uv.closed = *uv.open
		uv.open = nil
	}
}
