// This file implements the byte-stream encoding of an instruction list:
// each instruction is written as a one-byte opcode, an unsigned varint
// operand count, then that many ZigZag-varint operands. It mirrors the
// teacher interpreter's pkg/bytecode/format.go, which does the equivalent
// job for its own fixed-one-operand instructions, generalized to
// variable-arity operand lists.
package bytecode

import (
	"io"

	"github.com/pkg/errors"
)

// ErrInvalidOpcode is returned by Decode when a byte does not correspond to
// any known opcode.
var ErrInvalidOpcode = errors.New("bytecode: invalid opcode")

// Assemble writes one instruction's byte encoding to buf and returns the
// extended slice.
func Assemble(buf []byte, instr Instruction) []byte {
	buf = append(buf, byte(instr.Op))
	buf = EncodeUvarint(buf, uint64(len(instr.Operands)))
	for _, operand := range instr.Operands {
		buf = EncodeVarint(buf, operand)
	}
	return buf
}

// AssembleAll encodes a full instruction list into a single byte stream.
func AssembleAll(instructions []Instruction) []byte {
	var buf []byte
	for _, instr := range instructions {
		buf = Assemble(buf, instr)
	}
	return buf
}

// Disassemble decodes instructions from a byte stream until EOF,
// reconstructing the list Assemble produced. This is used by the
// `disassemble` CLI subcommand and by round-trip tests; the VM itself
// executes the decoded Instructions slice directly rather than
// re-decoding Code on every run.
func Disassemble(code []byte) ([]Instruction, error) {
	br := NewByteReader(code)
	var out []Instruction
	for {
		opByte, err := br.ReadByte()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		op := Opcode(opByte)
		if !validOpcode(op) {
			return nil, errors.Wrapf(ErrInvalidOpcode, "byte 0x%02x", opByte)
		}
		count, err := DecodeUvarint(br)
		if err != nil {
			return nil, err
		}
		var operands []int64
		if count > 0 {
			operands = make([]int64, 0, count)
		}
		for i := uint64(0); i < count; i++ {
			v, err := DecodeVarint(br)
			if err != nil {
				return nil, err
			}
			operands = append(operands, v)
		}
		out = append(out, Instruction{Op: op, Operands: operands})
	}
}

func validOpcode(op Opcode) bool {
	return op <= OpSetField
}
