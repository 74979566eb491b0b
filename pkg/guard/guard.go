// Package guard implements the VM's resource guard: per-run counters for
// executed instructions, elapsed wall-clock, call depth, and value-stack
// depth, each checked at the point in execution where it can first be
// violated.
package guard

import (
	"time"

	"github.com/pkg/errors"
)

// ExecutionLimits bounds a single run.
type ExecutionLimits struct {
	InstructionBudget  int
	MaxCallDepth       int
	MaxValueStackDepth int
	WallClock          time.Duration
}

// DefaultLimits returns the default limits: budget 250,000, call depth
// 128, value stack depth 2,048, wall clock 1s. The embedded trusted and
// sandboxed presets carry the same values; config presets take their
// limits from TOML only and do not fall back to these.
func DefaultLimits() ExecutionLimits {
	return ExecutionLimits{
		InstructionBudget:  250_000,
		MaxCallDepth:       128,
		MaxValueStackDepth: 2_048,
		WallClock:          time.Second,
	}
}

// Kind enumerates the resource-error taxonomy a breached limit raises.
type Kind int

const (
	KindInstructionBudgetExceeded Kind = iota
	KindCallDepthExceeded
	KindValueStackExceeded
	KindTimeLimitExceeded
)

func (k Kind) String() string {
	switch k {
	case KindInstructionBudgetExceeded:
		return "instruction_budget_exceeded"
	case KindCallDepthExceeded:
		return "call_depth_exceeded"
	case KindValueStackExceeded:
		return "value_stack_exceeded"
	case KindTimeLimitExceeded:
		return "time_limit_exceeded"
	default:
		return "unknown_resource_error"
	}
}

// Error is the typed resource error the guard raises on a breach.
type Error struct {
	Kind  Kind
	Limit int64
}

func (e *Error) Error() string { return e.Kind.String() }

// Guard tracks the four per-run counters and enforces ExecutionLimits.
type Guard struct {
	limits   ExecutionLimits
	executed int
	start    time.Time
}

// New creates a Guard bound to limits, starting its wall-clock timer now.
func New(limits ExecutionLimits) *Guard {
	return &Guard{limits: limits, start: time.Now()}
}

// Executed returns the number of instructions counted so far, exposed for
// the "budget monotonicity" property under test.
func (g *Guard) Executed() int { return g.executed }

// OnInstruction must be called before every instruction dispatch. It
// increments the executed count first, then checks the instruction budget,
// then the wall clock.
func (g *Guard) OnInstruction() error {
	g.executed++
	if g.executed > g.limits.InstructionBudget {
		return errors.WithStack(&Error{Kind: KindInstructionBudgetExceeded, Limit: int64(g.limits.InstructionBudget)})
	}
	if g.limits.WallClock > 0 && time.Since(g.start) > g.limits.WallClock {
		return errors.WithStack(&Error{Kind: KindTimeLimitExceeded, Limit: int64(g.limits.WallClock)})
	}
	return nil
}

// EnsureCallDepth is called after each push of a user-function frame.
func (g *Guard) EnsureCallDepth(depth int) error {
	if depth > g.limits.MaxCallDepth {
		return errors.WithStack(&Error{Kind: KindCallDepthExceeded, Limit: int64(g.limits.MaxCallDepth)})
	}
	return nil
}

// EnsureValueStackDepth is called after every push onto the value stack.
func (g *Guard) EnsureValueStackDepth(depth int) error {
	if depth > g.limits.MaxValueStackDepth {
		return errors.WithStack(&Error{Kind: KindValueStackExceeded, Limit: int64(g.limits.MaxValueStackDepth)})
	}
	return nil
}
