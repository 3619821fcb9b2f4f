// Package binchunk implements the "binary chunk" representation consumed
// by string.dump/load: a compiled Prototype tree serialized as JSON via
// jsoniter rather than a byte-exact port of the reference implementation's
// custom ChunkWriter/ChunkReader layout (see DESIGN.md's Open Question
// decision — the two are only required to be semantically round-trippable
// within one implementation, not byte-compatible with each other).
package binchunk

import (
	"bytes"
	"math"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Local-variable attribute kinds, from `local x <const>`/`local x <close>`.
const (
	AttribNone byte = iota
	AttribConst
	AttribClose
)

const (
	version   = 1
	signature = "\x1bLua"
)

// Prototype is the compiled representation of a single Lua function,
// including its nested functions (GLOSSARY: Proto).
type Prototype struct {
	Source          string        `json:"s"` // debug
	LineDefined     uint32        `json:"ld"`
	LastLineDefined uint32        `json:"lld"`
	NumParams       byte          `json:"np"`
	IsVararg        byte          `json:"iv"`
	MaxStackSize    byte          `json:"ms"`
	Code            []uint32      `json:"c"`
	Constants       []interface{} `json:"cs"`
	Upvalues        []Upvalue     `json:"us"`
	Protos          []*Prototype  `json:"ps"`
	LineInfo        []uint32      `json:"li"`  // debug: pc -> source line
	LocVars         []LocVar      `json:"lvs"` // debug
	UpvalueNames    []string      `json:"uns"` // debug
}

// Upvalue is a nested function's upvalue descriptor: either a reference to
// a register in the immediately enclosing function's frame (InStack) or to
// one of that function's own upvalues.
type Upvalue struct {
	InStack byte `json:"is"`
	Idx     byte `json:"idx"`
}

// LocVar records one local variable's lifetime and register for the
// name-hint resolver and the debug library. The code generator leaves
// Attrib at AttribNone; <const>/<close> attributes are not recorded here.
type LocVar struct {
	VarName string `json:"vn"`
	StartPC uint32 `json:"spc"`
	EndPC   uint32 `json:"epc"`
	Attrib  byte   `json:"at"`
	Reg     byte   `json:"rg"`
}

// IsJsonChunk reports whether data begins with this implementation's binary
// chunk signature and, if so, decodes the trailing Prototype.
func IsJsonChunk(data []byte) (bool, *Prototype) {
	if len(data) < len(signature)+1 {
		return false, nil
	}
	if !bytes.HasPrefix(data, []byte(signature)) {
		return false, nil
	}
	data = data[len(signature)+1:]
	var proto Prototype
	err := json.Unmarshal(data, &proto)
	if err != nil {
		return false, nil
	}
	return true, &proto
}

// Dump serializes proto as a binary chunk. Upvalue *values* are never
// captured here — only the descriptors — so a subsequent Load always
// produces closures whose upvalues are freshly nil, matching reference Lua.
func (proto *Prototype) Dump() ([]byte, error) {
	data, err := json.Marshal(proto)
	if err != nil {
		return nil, err
	}
	out := []byte(signature)
	out = append(out, byte(version))
	out = append(out, data...)
	return out, nil
}

// Undump parses a binary chunk previously produced by Dump.
func Undump(data []byte) (*Prototype, error) {
	ok, proto := IsJsonChunk(data)
	if !ok {
		var fresh Prototype
		if err := json.Unmarshal(data, &fresh); err != nil {
			return nil, err
		}
		return &fresh, nil
	}
	return proto, nil
}

var _ = math.Float64bits // retained: version tag kept numeric-compatible with earlier tooling
