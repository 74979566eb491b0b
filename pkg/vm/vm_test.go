package vm_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/vibescript/vibescript/pkg/bridge"
	"github.com/vibescript/vibescript/pkg/capability"
	"github.com/vibescript/vibescript/pkg/compiler"
	"github.com/vibescript/vibescript/pkg/guard"
	"github.com/vibescript/vibescript/pkg/parser"
	"github.com/vibescript/vibescript/pkg/value"
	"github.com/vibescript/vibescript/pkg/vm"
)

func run(t *testing.T, src string, caps capability.Set) (vm.Result, error) {
	t.Helper()
	p := parser.New(src)
	prog, err := p.Parse()
	require.NoError(t, err, "parse errors: %v", p.Errors())
	program, err := compiler.New().Compile(prog)
	require.NoError(t, err)
	machine := vm.New(program, bridge.NewDefaultRuntime())
	return machine.Run(caps, guard.DefaultLimits())
}

var fullCaps = capability.NewSet(
	capability.CapFoundationBasic,
	capability.CapDateFormatting,
	capability.CapUIBasic,
	capability.CapDiagnostics,
)

func TestRunArithmetic(t *testing.T) {
	result, err := run(t, `let x = 1 + 2 * 3; return x`, fullCaps)
	require.NoError(t, err)
	require.Equal(t, value.I64(7), result.Value)
}

func TestRunUserFunctionCall(t *testing.T) {
	result, err := run(t, `
		func add(a, b) { return a + b }
		let x = add(3, 4)
		return x
	`, fullCaps)
	require.NoError(t, err)
	require.Equal(t, value.I64(7), result.Value)
}

func TestRunIfElse(t *testing.T) {
	result, err := run(t, `
		func classify(x) {
			if x > 0 {
				return 1
			} else {
				return 0
			}
		}
		let x = classify(5)
		return x
	`, fullCaps)
	require.NoError(t, err)
	require.Equal(t, value.I64(1), result.Value)
}

func TestRunWhileLoop(t *testing.T) {
	result, err := run(t, `
		func countdown() {
			var x = 3
			var total = 0
			while x {
				total = total + x
				x = x - 1
			}
			return total
		}
		let x = countdown()
		return x
	`, fullCaps)
	require.NoError(t, err)
	require.Equal(t, value.I64(6), result.Value)
}

func TestRunStructFieldRoundtrip(t *testing.T) {
	result, err := run(t, `
		struct Point { x, y }
		func f() {
			var p = Point(1, 2)
			p.x = p.x + p.y
			return p.x
		}
		let x = f()
		return x
	`, fullCaps)
	require.NoError(t, err)
	require.Equal(t, value.I64(3), result.Value)
}

func TestRunPrintAppendsOutput(t *testing.T) {
	result, err := run(t, `let x = print("hello")`, fullCaps)
	require.NoError(t, err)
	require.Equal(t, []string{"hello"}, result.Output)
}

func TestRunBridgeCallDeniedWithoutCapability(t *testing.T) {
	_, err := run(t, `let x = print("hello")`, capability.NewSet())
	require.Error(t, err)
}

func TestRunMissingStructFieldIsError(t *testing.T) {
	_, err := run(t, `
		struct Point { x, y }
		func f() {
			var p = Point(1)
			return p.y
		}
		let x = f()
	`, fullCaps)
	require.Error(t, err)
}

func TestRunInstructionBudgetExceeded(t *testing.T) {
	p := parser.New(`
		func loop() {
			var x = 0
			while 1 {
				x = x + 1
			}
			return x
		}
		let x = loop()
	`)
	prog, err := p.Parse()
	require.NoError(t, err)
	program, err := compiler.New().Compile(prog)
	require.NoError(t, err)
	machine := vm.New(program, bridge.NewDefaultRuntime())
	_, err = machine.Run(fullCaps, guard.ExecutionLimits{
		InstructionBudget:  100,
		MaxCallDepth:       128,
		MaxValueStackDepth: 2048,
		WallClock:          time.Second,
	})
	require.Error(t, err)
}

func TestRunDeepRecursionHitsCallDepthLimit(t *testing.T) {
	p := parser.New(`
		func recurse(n) {
			return recurse(n + 1)
		}
		let x = recurse(0)
	`)
	prog, err := p.Parse()
	require.NoError(t, err)
	program, err := compiler.New().Compile(prog)
	require.NoError(t, err)
	machine := vm.New(program, bridge.NewDefaultRuntime())
	_, err = machine.Run(fullCaps, guard.ExecutionLimits{
		InstructionBudget:  1_000_000,
		MaxCallDepth:       16,
		MaxValueStackDepth: 2048,
		WallClock:          time.Second,
	})
	require.Error(t, err)
}
