package bytecode

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuilderResolvesForwardLabel(t *testing.T) {
	b := NewInstructionBuilder()
	end := b.CreateLabel()
	b.EmitJumpIfFalse(end)
	b.Emit(OpPushConst, 0)
	b.Mark(end)
	b.Emit(OpReturnValue)

	instrs, err := b.Finish()
	require.NoError(t, err)
	require.Len(t, instrs, 3)
	require.Equal(t, OpJumpIfFalse, instrs[0].Op)
	require.Equal(t, []int64{2}, instrs[0].Operands)
}

func TestBuilderUnboundLabelIsError(t *testing.T) {
	b := NewInstructionBuilder()
	loop := b.CreateLabel()
	b.EmitJump(loop)
	_, err := b.Finish()
	require.ErrorIs(t, err, ErrUnboundLabel)
}

func TestOffsetRebasesJumpTargets(t *testing.T) {
	instrs := []Instruction{
		{Op: OpJump, Operands: []int64{3}},
		{Op: OpPushConst, Operands: []int64{0}},
	}
	Offset(instrs, 10)
	require.Equal(t, int64(13), instrs[0].Operands[0])
	require.Equal(t, int64(0), instrs[1].Operands[0], "non-jump operands must be untouched")
}
