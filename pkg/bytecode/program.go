package bytecode

import (
	"github.com/vibescript/vibescript/pkg/diag"
	"github.com/vibescript/vibescript/pkg/ids"
)

// FunctionMeta describes one compiled function's entry point and frame
// shape. Exactly one FunctionMeta per Program has IsEntry set.
type FunctionMeta struct {
	ID         ids.FunctionID
	Name       string
	EntryIndex int
	Arity      int
	LocalCount int
	IsEntry    bool
}

// StructField is one field of a registered struct layout, in declaration
// order.
type StructField struct {
	ID       ids.FieldID
	Name     string
	TypeHint string
}

// StructLayout is the registered shape of a struct type. Field order is
// declaration order and determines positional construction order.
type StructLayout struct {
	ID     ids.TypeID
	Name   string
	Fields []StructField
}

// Program is the immutable assembled output of the compiler: a decoded
// instruction list (the VM's execution model), the byte-encoded form of the
// same instructions (for serialization/inspection), the constant pool, the
// function and struct tables, and the sparse instruction-to-span map.
type Program struct {
	Code         []byte
	Instructions []Instruction
	Constants    *ConstantPool
	Functions    []FunctionMeta
	Structs      []StructLayout
	Spans        diag.SpanMap
}

// EntryFunction returns the function marked IsEntry, falling back to the
// first function if none is marked (defensive; the compiler always marks
// exactly one).
func (p *Program) EntryFunction() (FunctionMeta, bool) {
	for _, f := range p.Functions {
		if f.IsEntry {
			return f, true
		}
	}
	if len(p.Functions) > 0 {
		return p.Functions[0], true
	}
	return FunctionMeta{}, false
}

// FunctionByID looks up a function by its FunctionID.
func (p *Program) FunctionByID(id ids.FunctionID) (FunctionMeta, bool) {
	for _, f := range p.Functions {
		if f.ID == id {
			return f, true
		}
	}
	return FunctionMeta{}, false
}

// StructByID looks up a struct layout by its TypeID.
func (p *Program) StructByID(id ids.TypeID) (StructLayout, bool) {
	for _, s := range p.Structs {
		if s.ID == id {
			return s, true
		}
	}
	return StructLayout{}, false
}

// SpanFor returns the span recorded for an instruction index, if any.
func (p *Program) SpanFor(instructionIndex int) (diag.Span, bool) {
	sp, ok := p.Spans[instructionIndex]
	return sp, ok
}
