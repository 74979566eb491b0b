package vm

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/vibescript/vibescript/pkg/value"
)

// Debugger provides an interactive stepping session over a VM: breakpoints
// by instruction index, single-step mode, and inspection of the stack,
// locals, and call stack at the pause point.
type Debugger struct {
	vm          *VM
	breakpoints map[int]bool
	stepMode    bool
	in          io.Reader
	out         io.Writer
}

// NewDebugger creates a debugger attached to vm, reading commands from in
// and writing output to out.
func NewDebugger(vm *VM, in io.Reader, out io.Writer) *Debugger {
	return &Debugger{
		vm:          vm,
		breakpoints: make(map[int]bool),
		in:          in,
		out:         out,
	}
}

// AddBreakpoint pauses execution just before the instruction at pc runs.
func (d *Debugger) AddBreakpoint(pc int) {
	d.breakpoints[pc] = true
}

// RemoveBreakpoint clears a previously set breakpoint.
func (d *Debugger) RemoveBreakpoint(pc int) {
	delete(d.breakpoints, pc)
}

// ShouldPause reports whether the VM should stop before executing the
// instruction at its current pc.
func (d *Debugger) ShouldPause() bool {
	if d.stepMode {
		return true
	}
	return d.breakpoints[d.vm.pc]
}

func (d *Debugger) showCurrentInstruction() {
	instrs := d.vm.program.Instructions
	if d.vm.pc < 0 || d.vm.pc >= len(instrs) {
		fmt.Fprintln(d.out, "no current instruction")
		return
	}
	instr := instrs[d.vm.pc]
	fmt.Fprintf(d.out, "  %4d: %-14s %v\n", d.vm.pc, instr.Op, instr.Operands)
}

func (d *Debugger) showStack() {
	fmt.Fprintln(d.out, "value stack (top to bottom):")
	if len(d.vm.valueStack) == 0 {
		fmt.Fprintln(d.out, "  (empty)")
		return
	}
	for i := len(d.vm.valueStack) - 1; i >= 0; i-- {
		fmt.Fprintf(d.out, "  [%d] %s\n", i, value.Inspect(d.vm.valueStack[i]))
	}
}

func (d *Debugger) showLocals() {
	fmt.Fprintln(d.out, "locals:")
	frame := d.vm.currentFrame()
	if len(frame.Locals) == 0 {
		fmt.Fprintln(d.out, "  (none)")
		return
	}
	for i, v := range frame.Locals {
		fmt.Fprintf(d.out, "  [%d] %s\n", i, value.Inspect(v))
	}
}

func (d *Debugger) showCallStack() {
	fmt.Fprintln(d.out, "call stack (top to bottom):")
	for i := len(d.vm.callStack) - 1; i >= 0; i-- {
		frame := d.vm.callStack[i]
		if frame.CallSitePC != nil {
			fmt.Fprintf(d.out, "  %s (called from pc %d)\n", frame.FunctionName, *frame.CallSitePC)
		} else {
			fmt.Fprintf(d.out, "  %s (entry)\n", frame.FunctionName)
		}
	}
}

func (d *Debugger) listInstructions() {
	for i, instr := range d.vm.program.Instructions {
		marker := "  "
		if i == d.vm.pc {
			marker = "->"
		} else if d.breakpoints[i] {
			marker = "* "
		}
		fmt.Fprintf(d.out, "%s %4d: %-14s %v\n", marker, i, instr.Op, instr.Operands)
	}
}

// Prompt pauses execution and drives an interactive command loop, returning
// false if the user asked to abort the run entirely.
func (d *Debugger) Prompt() bool {
	fmt.Fprintln(d.out, "--- paused ---")
	d.showCurrentInstruction()
	scanner := bufio.NewScanner(d.in)

	for {
		fmt.Fprint(d.out, "debug> ")
		if !scanner.Scan() {
			return false
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		parts := strings.Fields(line)
		switch parts[0] {
		case "help", "h", "?":
			d.printHelp()
		case "continue", "c":
			d.stepMode = false
			return true
		case "step", "s":
			d.stepMode = true
			return true
		case "stack", "st":
			d.showStack()
		case "locals", "l":
			d.showLocals()
		case "callstack", "cs":
			d.showCallStack()
		case "instruction", "i":
			d.showCurrentInstruction()
		case "list", "ls":
			d.listInstructions()
		case "break", "b":
			if len(parts) < 2 {
				fmt.Fprintln(d.out, "usage: break <pc>")
				continue
			}
			pc, err := strconv.Atoi(parts[1])
			if err != nil {
				fmt.Fprintln(d.out, "invalid pc")
				continue
			}
			d.AddBreakpoint(pc)
			fmt.Fprintf(d.out, "breakpoint set at %d\n", pc)
		case "delete", "d":
			if len(parts) < 2 {
				fmt.Fprintln(d.out, "usage: delete <pc>")
				continue
			}
			pc, err := strconv.Atoi(parts[1])
			if err != nil {
				fmt.Fprintln(d.out, "invalid pc")
				continue
			}
			d.RemoveBreakpoint(pc)
			fmt.Fprintf(d.out, "breakpoint removed at %d\n", pc)
		case "quit", "q":
			return false
		default:
			fmt.Fprintf(d.out, "unknown command: %s (type 'help')\n", parts[0])
		}
	}
}

func (d *Debugger) printHelp() {
	fmt.Fprintln(d.out, "commands:")
	fmt.Fprintln(d.out, "  help, h, ?        show this help")
	fmt.Fprintln(d.out, "  continue, c       resume until the next breakpoint")
	fmt.Fprintln(d.out, "  step, s           run one instruction and pause again")
	fmt.Fprintln(d.out, "  stack, st         show the value stack")
	fmt.Fprintln(d.out, "  locals, l         show the current frame's locals")
	fmt.Fprintln(d.out, "  callstack, cs     show the call stack")
	fmt.Fprintln(d.out, "  instruction, i    show the current instruction")
	fmt.Fprintln(d.out, "  list, ls          list the full instruction stream")
	fmt.Fprintln(d.out, "  break <pc>, b     set a breakpoint at an instruction index")
	fmt.Fprintln(d.out, "  delete <pc>, d    remove a breakpoint")
	fmt.Fprintln(d.out, "  quit, q           abort the run")
}
