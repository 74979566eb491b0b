package bytecode

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAssembleDisassembleRoundTrip(t *testing.T) {
	instrs := []Instruction{
		{Op: OpPushConst, Operands: []int64{0}},
		{Op: OpLoadLocal, Operands: []int64{1}},
		{Op: OpCallBridge, Operands: []int64{5, 2, 1}},
		{Op: OpMakeStruct, Operands: []int64{9, 2, 11, 12}},
		{Op: OpReturnValue},
	}
	code := AssembleAll(instrs)
	decoded, err := Disassemble(code)
	require.NoError(t, err)
	require.Equal(t, instrs, decoded)
}

func TestDisassembleInvalidOpcode(t *testing.T) {
	_, err := Disassemble([]byte{0xFF, 0x00})
	require.ErrorIs(t, err, ErrInvalidOpcode)
}

func TestAssemblyDeterministic(t *testing.T) {
	instrs := []Instruction{{Op: OpPushConst, Operands: []int64{3}}, {Op: OpReturnValue}}
	require.Equal(t, AssembleAll(instrs), AssembleAll(instrs))
}
