package vm

import (
	"fmt"

	"github.com/katsu-lua/lua54/binchunk"
)

// nameHintWindow bounds how far back NameHint scans looking for the write
// that produced a register's value (spec §4.5).
const nameHintWindow = 20

// NameHint implements the bytecode name-hint resolver: given the Proto
// currently executing, the pc of the instruction that raised the error, and
// the 0-based register whose value was bad, it returns a "<kind> '<name>'"
// description (or "" if none applies). VM-raised type errors append this in
// parentheses.
func NameHint(proto *binchunk.Prototype, pc, reg int) string {
	if proto == nil || reg < 0 {
		return ""
	}

	if name, ok := activeLocalName(proto, pc, reg); ok {
		return fmt.Sprintf("local '%s'", name)
	}

	start := pc - nameHintWindow
	if start < 0 {
		start = 0
	}

	testedBetween := func(from int) bool {
		for k := from; k < pc; k++ {
			if k < 0 || k >= len(proto.Code) {
				continue
			}
			ins := Instruction(proto.Code[k])
			if op := ins.Opcode(); op == OP_TEST || op == OP_TESTSET {
				a, _, _ := ins.ABC()
				if a == reg {
					return true
				}
			}
		}
		return false
	}

	for k := pc - 1; k >= start; k-- {
		if k >= len(proto.Code) {
			continue
		}
		ins := Instruction(proto.Code[k])
		op := ins.Opcode()
		a, b, c := ins.ABC()
		if a != reg {
			continue
		}

		switch op {
		case OP_GETUPVAL:
			if b >= len(proto.UpvalueNames) {
				return ""
			}
			name := proto.UpvalueNames[b]
			if name == "_ENV" || testedBetween(k) {
				return ""
			}
			return fmt.Sprintf("upvalue '%s'", name)

		case OP_GETTABUP:
			if testedBetween(k) {
				return ""
			}
			if b < len(proto.UpvalueNames) && proto.UpvalueNames[b] == "_ENV" {
				return fmt.Sprintf("global '%s'", constString(proto, c))
			}
			return fmt.Sprintf("field '%s'", constString(proto, c))

		case OP_GETTABLE:
			if testedBetween(k) {
				return ""
			}
			return fmt.Sprintf("field '%s'", constString(proto, c))

		case OP_SELF:
			if testedBetween(k) {
				return ""
			}
			return fmt.Sprintf("method '%s'", constString(proto, c))

		case OP_MOVE:
			return NameHint(proto, k, b)

		default:
			return ""
		}
	}
	return ""
}

// ActiveLocalName exposes activeLocalName for callers outside this package
// (the TBC protocol's "got a non-closable value" error names the variable).
func ActiveLocalName(proto *binchunk.Prototype, pc, reg int) (string, bool) {
	return activeLocalName(proto, pc, reg)
}

// activeLocalName reports the declared local variable occupying reg at pc,
// if any — checked first per spec §4.5 priority (i).
func activeLocalName(proto *binchunk.Prototype, pc, reg int) (string, bool) {
	for _, lv := range proto.LocVars {
		if int(lv.Reg) == reg && int(lv.StartPC) <= pc && pc < int(lv.EndPC) {
			return lv.VarName, true
		}
	}
	return "", false
}

// constString reads a constant-pool string referenced by an RK operand (this
// implementation's RK encoding: values > 0xFF select Constants[v&0xFF]);
// register operands carry no nameable key, so they resolve to "".
func constString(proto *binchunk.Prototype, rk int) string {
	if rk <= 0xFF {
		return ""
	}
	idx := rk & 0xFF
	if idx < 0 || idx >= len(proto.Constants) {
		return ""
	}
	if s, ok := proto.Constants[idx].(string); ok {
		return s
	}
	return fmt.Sprintf("%v", proto.Constants[idx])
}
