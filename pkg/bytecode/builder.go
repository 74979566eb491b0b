package bytecode

import "github.com/pkg/errors"

// ErrUnboundLabel is returned by Finish when a label was created but never
// marked.
var ErrUnboundLabel = errors.New("bytecode: label created but never marked")

// Label is an opaque forward-reference handle returned by CreateLabel.
type Label int

// fixup records a pending jump operand that must be patched once its
// target label is marked.
type fixup struct {
	instrIndex int // index into instructions of the jump
	label      Label
}

// InstructionBuilder emits opcodes and operands into a growable
// instruction list, supporting forward labels for jumps: emit a jump before
// its target is known, then Mark the label once the target position is
// reached, and Finish resolves every pending fixup.
type InstructionBuilder struct {
	instructions []Instruction
	labelTarget  map[Label]int
	nextLabel    Label
	fixups       []fixup
}

// NewInstructionBuilder returns an empty builder.
func NewInstructionBuilder() *InstructionBuilder {
	return &InstructionBuilder{labelTarget: make(map[Label]int)}
}

// Emit appends an instruction with the given opcode and operands, returning
// its index.
func (b *InstructionBuilder) Emit(op Opcode, operands ...int64) int {
	idx := len(b.instructions)
	b.instructions = append(b.instructions, Instruction{Op: op, Operands: operands})
	return idx
}

// CreateLabel allocates a new, as-yet-unmarked label.
func (b *InstructionBuilder) CreateLabel() Label {
	l := b.nextLabel
	b.nextLabel++
	return l
}

// Mark binds label to the instruction index that will be emitted next.
func (b *InstructionBuilder) Mark(label Label) {
	b.labelTarget[label] = len(b.instructions)
}

// EmitJump emits an unconditional jump to label, to be fixed up on Finish.
func (b *InstructionBuilder) EmitJump(label Label) int { return b.emitLabeledJump(OpJump, label) }

// EmitJumpIfFalse emits a conditional jump (pop, jump if not truthy).
func (b *InstructionBuilder) EmitJumpIfFalse(label Label) int {
	return b.emitLabeledJump(OpJumpIfFalse, label)
}

// EmitJumpIfTrue emits a conditional jump (pop, jump if truthy).
func (b *InstructionBuilder) EmitJumpIfTrue(label Label) int {
	return b.emitLabeledJump(OpJumpIfTrue, label)
}

func (b *InstructionBuilder) emitLabeledJump(op Opcode, label Label) int {
	idx := b.Emit(op, 0) // placeholder target, patched in Finish
	b.fixups = append(b.fixups, fixup{instrIndex: idx, label: label})
	return idx
}

// Len returns the number of instructions emitted so far (the next
// instruction's index).
func (b *InstructionBuilder) Len() int { return len(b.instructions) }

// Finish resolves every pending jump fixup against its label's marked
// position and returns the final instruction list. An unmarked label is an
// error.
func (b *InstructionBuilder) Finish() ([]Instruction, error) {
	for _, fx := range b.fixups {
		target, ok := b.labelTarget[fx.label]
		if !ok {
			return nil, errors.Wrapf(ErrUnboundLabel, "label %d referenced by instruction %d", fx.label, fx.instrIndex)
		}
		b.instructions[fx.instrIndex].Operands = []int64{int64(target)}
	}
	return b.instructions, nil
}

// Offset rebases every absolute jump target in instructions by delta — used
// while merging per-function instruction blocks into one program-wide
// stream.
func Offset(instructions []Instruction, delta int) {
	for i := range instructions {
		switch instructions[i].Op {
		case OpJump, OpJumpIfFalse, OpJumpIfTrue:
			if len(instructions[i].Operands) == 1 {
				instructions[i].Operands[0] += int64(delta)
			}
		}
	}
}
