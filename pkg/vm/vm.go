package vm

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/vibescript/vibescript/pkg/bridge"
	"github.com/vibescript/vibescript/pkg/bytecode"
	"github.com/vibescript/vibescript/pkg/capability"
	"github.com/vibescript/vibescript/pkg/guard"
	"github.com/vibescript/vibescript/pkg/ids"
	"github.com/vibescript/vibescript/pkg/value"
)

// Frame is one call-stack entry: the function that is executing, where to
// resume the caller, and the frame's own local slots. The entry
// function's frame has ReturnPC and CallSitePC both nil.
type Frame struct {
	FunctionID   ids.FunctionID
	FunctionName string
	ReturnPC     *int
	CallSitePC   *int
	Locals       []value.Value
}

// Result is what a completed Run returns: the entry function's return
// value plus everything the program printed along the way.
type Result struct {
	Value  value.Value
	Output []string
}

// VM executes one assembled Program against a fixed capability set and
// resource limits. A VM instance is single-use: construct one per Run.
type VM struct {
	program       *bytecode.Program
	valueStack    []value.Value
	callStack     []Frame
	outputBuffer  []string
	inlineCaches  *InlineCacheSet
	guard         *guard.Guard
	bridgeRuntime *bridge.Runtime
	pc            int
	ctx           context.Context
	debugger      *Debugger

	log logrus.FieldLogger
}

// New constructs a VM ready to run program with the given bridge runtime.
func New(program *bytecode.Program, bridgeRuntime *bridge.Runtime) *VM {
	return &VM{
		program:       program,
		bridgeRuntime: bridgeRuntime,
		inlineCaches:  NewInlineCacheSet(),
		log:           logrus.StandardLogger(),
		ctx:           context.Background(),
	}
}

// WithLogger overrides the VM's logger (default logrus.StandardLogger()).
func (vm *VM) WithLogger(l logrus.FieldLogger) *VM {
	vm.log = l
	return vm
}

// WithContext overrides the context.Context carried into every bridge
// dispatch (default context.Background()). A host embedding the VM across
// several evaluations of the same session — the REPL, for instance — uses
// this to thread one bridge.ScriptContext across all of them.
func (vm *VM) WithContext(ctx context.Context) *VM {
	vm.ctx = ctx
	return vm
}

// WithDebugger attaches an interactive debugger; Run pauses and calls
// d.Prompt() whenever d.ShouldPause() reports true for the instruction
// about to execute.
func (vm *VM) WithDebugger(d *Debugger) *VM {
	vm.debugger = d
	return vm
}

// Run executes the program's entry function to completion under caps and
// limits.
func (vm *VM) Run(caps capability.Set, limits guard.ExecutionLimits) (Result, error) {
	entry, ok := vm.program.EntryFunction()
	if !ok {
		return Result{}, vm.newRuntimeError(ErrUnknownFunctionID, "program has no entry function")
	}

	vm.guard = guard.New(limits)
	vm.pc = entry.EntryIndex
	vm.callStack = []Frame{{
		FunctionID:   entry.ID,
		FunctionName: entry.Name,
		Locals:       make([]value.Value, entry.LocalCount),
	}}

	for {
		if vm.pc < 0 || vm.pc >= len(vm.program.Instructions) {
			return Result{}, vm.newRuntimeError(ErrUnknownFunctionID, "program counter ran off the end of the instruction stream")
		}
		instr := vm.program.Instructions[vm.pc]

		if err := vm.guard.OnInstruction(); err != nil {
			return Result{}, vm.newRuntimeError(err, err.Error())
		}
		if vm.guard.Executed()%10000 == 0 {
			vm.log.WithFields(logrus.Fields{"instructions": vm.guard.Executed(), "pc": vm.pc}).Debug("instruction budget checkpoint")
		}

		if vm.debugger != nil && vm.debugger.ShouldPause() {
			if !vm.debugger.Prompt() {
				return Result{}, vm.newRuntimeError(ErrAborted, "execution aborted from the debugger")
			}
		}

		result, halted, err := vm.step(instr, caps)
		if err != nil {
			return Result{}, err
		}
		if halted {
			return result, nil
		}
	}
}

// step executes one instruction, advancing vm.pc. It returns (result,
// true, nil) only when execution is complete (the outermost frame
// returned or an explicit halt was reached).
func (vm *VM) step(instr bytecode.Instruction, caps capability.Set) (Result, bool, error) {
	switch instr.Op {
	case bytecode.OpNop:
		vm.pc++
		return Result{}, false, nil

	case bytecode.OpHalt:
		v := value.None
		if len(vm.valueStack) > 0 {
			v = vm.top()
		}
		return Result{Value: v, Output: vm.outputBuffer}, true, nil

	case bytecode.OpPushConst:
		idx, err := vm.operand(instr, 0)
		if err != nil {
			return Result{}, false, err
		}
		c, ok := vm.program.Constants.Get(int(idx))
		if !ok {
			return Result{}, false, vm.newRuntimeError(ErrInvalidConstIndex, "invalid constant index")
		}
		if err := vm.push(constantToValue(c)); err != nil {
			return Result{}, false, err
		}
		vm.pc++
		return Result{}, false, nil

	case bytecode.OpPop:
		if _, err := vm.pop(); err != nil {
			return Result{}, false, err
		}
		vm.pc++
		return Result{}, false, nil

	case bytecode.OpDup:
		if len(vm.valueStack) == 0 {
			return Result{}, false, vm.newRuntimeError(ErrStackUnderflow, "dup on empty stack")
		}
		if err := vm.push(vm.top()); err != nil {
			return Result{}, false, err
		}
		vm.pc++
		return Result{}, false, nil

	case bytecode.OpLoadLocal:
		idx, err := vm.operand(instr, 0)
		if err != nil {
			return Result{}, false, err
		}
		locals := vm.currentFrame().Locals
		if idx < 0 || int(idx) >= len(locals) {
			return Result{}, false, vm.newRuntimeError(ErrInvalidLocalIndex, "invalid local index")
		}
		if err := vm.push(locals[idx]); err != nil {
			return Result{}, false, err
		}
		vm.pc++
		return Result{}, false, nil

	case bytecode.OpStoreLocal:
		idx, err := vm.operand(instr, 0)
		if err != nil {
			return Result{}, false, err
		}
		v, err := vm.pop()
		if err != nil {
			return Result{}, false, err
		}
		locals := vm.currentFrame().Locals
		if idx < 0 || int(idx) >= len(locals) {
			return Result{}, false, vm.newRuntimeError(ErrInvalidLocalIndex, "invalid local index")
		}
		locals[idx] = v
		vm.pc++
		return Result{}, false, nil

	case bytecode.OpJump:
		target, err := vm.operand(instr, 0)
		if err != nil {
			return Result{}, false, err
		}
		vm.pc = int(target)
		return Result{}, false, nil

	case bytecode.OpJumpIfFalse, bytecode.OpJumpIfTrue:
		target, err := vm.operand(instr, 0)
		if err != nil {
			return Result{}, false, err
		}
		v, err := vm.pop()
		if err != nil {
			return Result{}, false, err
		}
		truthy := value.Truthy(v)
		if instr.Op == bytecode.OpJumpIfFalse {
			truthy = !truthy
		}
		if truthy {
			vm.pc = int(target)
		} else {
			vm.pc++
		}
		return Result{}, false, nil

	case bytecode.OpReturnValue:
		return vm.execReturn()

	case bytecode.OpCallUser:
		if err := vm.execCallUser(instr); err != nil {
			return Result{}, false, err
		}
		return Result{}, false, nil

	case bytecode.OpCallBridge, bytecode.OpCallInit:
		if err := vm.execCallBridge(instr, caps); err != nil {
			return Result{}, false, err
		}
		vm.pc++
		return Result{}, false, nil

	case bytecode.OpMakeStruct:
		if err := vm.execMakeStruct(instr); err != nil {
			return Result{}, false, err
		}
		vm.pc++
		return Result{}, false, nil

	case bytecode.OpGetField:
		if err := vm.execGetField(instr); err != nil {
			return Result{}, false, err
		}
		vm.pc++
		return Result{}, false, nil

	case bytecode.OpSetField:
		if err := vm.execSetField(instr); err != nil {
			return Result{}, false, err
		}
		vm.pc++
		return Result{}, false, nil

	default:
		return Result{}, false, vm.newRuntimeError(ErrMissingOperand, "unknown opcode")
	}
}

func (vm *VM) execReturn() (Result, bool, error) {
	v, err := vm.pop()
	if err != nil {
		return Result{}, false, err
	}
	if len(vm.callStack) == 0 {
		return Result{}, false, vm.newRuntimeError(ErrEmptyCallStack, "return with empty call stack")
	}
	frame := vm.callStack[len(vm.callStack)-1]
	vm.callStack = vm.callStack[:len(vm.callStack)-1]

	if len(vm.callStack) == 0 {
		return Result{Value: v, Output: vm.outputBuffer}, true, nil
	}
	if err := vm.push(v); err != nil {
		return Result{}, false, err
	}
	vm.pc = *frame.ReturnPC
	return Result{}, false, nil
}

func (vm *VM) currentFrame() *Frame { return &vm.callStack[len(vm.callStack)-1] }

// push appends v to the value stack and enforces the guard's value-stack
// depth limit: checked at every push.
func (vm *VM) push(v value.Value) error {
	vm.valueStack = append(vm.valueStack, v)
	if vm.guard != nil {
		if err := vm.guard.EnsureValueStackDepth(len(vm.valueStack)); err != nil {
			return vm.newRuntimeError(err, err.Error())
		}
	}
	return nil
}

func (vm *VM) top() value.Value { return vm.valueStack[len(vm.valueStack)-1] }

func (vm *VM) pop() (value.Value, error) {
	if len(vm.valueStack) == 0 {
		return value.None, vm.newRuntimeError(ErrStackUnderflow, "value stack underflow")
	}
	v := vm.valueStack[len(vm.valueStack)-1]
	vm.valueStack = vm.valueStack[:len(vm.valueStack)-1]
	return v, nil
}

func (vm *VM) operand(instr bytecode.Instruction, i int) (int64, error) {
	if i >= len(instr.Operands) {
		return 0, vm.newRuntimeError(ErrMissingOperand, "instruction missing required operand")
	}
	return instr.Operands[i], nil
}

func constantToValue(c bytecode.Constant) value.Value {
	switch c.Kind {
	case bytecode.ConstNone:
		return value.None
	case bytecode.ConstI64:
		return value.I64(c.I64)
	case bytecode.ConstF64:
		return value.F64(c.F64)
	case bytecode.ConstBool:
		return value.Bool(c.Bool)
	case bytecode.ConstString:
		return value.String(c.Str)
	case bytecode.ConstSymbol, bytecode.ConstType, bytecode.ConstField, bytecode.ConstFunction:
		return value.I64(int64(c.ID))
	default:
		return value.None
	}
}
