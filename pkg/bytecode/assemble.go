package bytecode

import "github.com/vibescript/vibescript/pkg/diag"

// AssembleProgram builds the final immutable Program from the compiler's
// merged instruction list, constant pool, function/struct tables, and span
// map. It computes Code by byte-encoding Instructions so both
// representations stay consistent.
func AssembleProgram(instructions []Instruction, constants *ConstantPool, functions []FunctionMeta, structs []StructLayout, spans diag.SpanMap) *Program {
	return &Program{
		Code:         AssembleAll(instructions),
		Instructions: instructions,
		Constants:    constants,
		Functions:    functions,
		Structs:      structs,
		Spans:        spans,
	}
}
