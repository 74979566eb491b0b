package guard

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestDefaultLimits(t *testing.T) {
	l := DefaultLimits()
	require.Equal(t, 250_000, l.InstructionBudget)
	require.Equal(t, 128, l.MaxCallDepth)
	require.Equal(t, 2048, l.MaxValueStackDepth)
	require.Equal(t, time.Second, l.WallClock)
}

func TestInstructionBudgetMonotonicAndExceeded(t *testing.T) {
	g := New(ExecutionLimits{InstructionBudget: 2, MaxCallDepth: 10, MaxValueStackDepth: 10, WallClock: time.Minute})

	require.NoError(t, g.OnInstruction())
	require.Equal(t, 1, g.Executed())
	require.NoError(t, g.OnInstruction())
	require.Equal(t, 2, g.Executed())

	err := g.OnInstruction()
	require.Error(t, err)
	var ge *Error
	require.True(t, errors.As(err, &ge))
	require.Equal(t, KindInstructionBudgetExceeded, ge.Kind)
}

func TestCallDepthExceeded(t *testing.T) {
	g := New(ExecutionLimits{InstructionBudget: 100, MaxCallDepth: 1, MaxValueStackDepth: 100, WallClock: time.Minute})
	require.NoError(t, g.EnsureCallDepth(1))
	err := g.EnsureCallDepth(2)
	require.Error(t, err)
}

func TestValueStackExceeded(t *testing.T) {
	g := New(ExecutionLimits{InstructionBudget: 100, MaxCallDepth: 100, MaxValueStackDepth: 1, WallClock: time.Minute})
	require.NoError(t, g.EnsureValueStackDepth(1))
	require.Error(t, g.EnsureValueStackDepth(2))
}

func TestWallClockExceeded(t *testing.T) {
	g := New(ExecutionLimits{InstructionBudget: 1_000_000, MaxCallDepth: 100, MaxValueStackDepth: 100, WallClock: time.Nanosecond})
	time.Sleep(time.Millisecond)
	err := g.OnInstruction()
	require.Error(t, err)
	var ge *Error
	require.True(t, errors.As(err, &ge))
	require.Equal(t, KindTimeLimitExceeded, ge.Kind)
}
