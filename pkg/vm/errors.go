// Package vm implements vibescript's stack-based bytecode interpreter.
package vm

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/vibescript/vibescript/pkg/diag"
)

// StackFrame is a call-stack entry snapshotted into a RuntimeError after
// the live Frame that produced it may have already been popped.
type StackFrame struct {
	FunctionName string
	CallSitePC   int
	Span         *diag.Span
}

// RuntimeError decorates a VM-raised error with the failing instruction's
// span and the call stack at the point of failure, formatted the way the
// teacher interpreter's RuntimeError does: message, then a stack trace,
// innermost frame first.
type RuntimeError struct {
	Message                 string
	FailingInstructionIndex int
	Span                    *diag.Span
	CallStack               []StackFrame
	cause                   error
}

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if e.Span != nil {
		fmt.Fprintf(&b, " (line %d, column %d)", e.Span.Start.Line, e.Span.Start.Column)
	}
	if len(e.CallStack) > 0 {
		b.WriteString("\n\nStack trace:")
		for i := len(e.CallStack) - 1; i >= 0; i-- {
			f := e.CallStack[i]
			fmt.Fprintf(&b, "\n  at %s", f.FunctionName)
			if f.Span != nil {
				fmt.Fprintf(&b, " [line %d:%d]", f.Span.Start.Line, f.Span.Start.Column)
			}
			fmt.Fprintf(&b, " [pc=%d]", f.CallSitePC)
		}
	}
	return b.String()
}

// Cause returns the wrapped underlying error so callers can use
// errors.Cause/errors.Is to unwrap to the sentinel cause.
func (e *RuntimeError) Cause() error  { return e.cause }
func (e *RuntimeError) Unwrap() error { return e.cause }

// Sentinel causes for the VM's runtime-error taxonomy: value stack
// underflow, missing operand, invalid local index, invalid constant index,
// unknown function id, get_field/set_field on non-struct, make_struct with
// mismatched operands, return with empty call stack, aborted execution. A
// missing field surfaces as value.ErrMissingField.
var (
	ErrStackUnderflow     = errors.New("value stack underflow")
	ErrMissingOperand     = errors.New("instruction missing required operand")
	ErrInvalidLocalIndex  = errors.New("invalid local index")
	ErrInvalidConstIndex  = errors.New("invalid constant index")
	ErrUnknownFunctionID  = errors.New("unknown function id")
	ErrNotAStruct         = errors.New("get_field/set_field on non-struct value")
	ErrMismatchedOperands = errors.New("make_struct called with mismatched operands")
	ErrEmptyCallStack     = errors.New("return with empty call stack")
	ErrAborted            = errors.New("execution aborted")
)

// newRuntimeError builds a RuntimeError for cause, decorated with the
// current instruction's span and a snapshot of the live call stack.
func (vm *VM) newRuntimeError(cause error, message string) error {
	var span *diag.Span
	if sp, ok := vm.program.SpanFor(vm.pc); ok {
		span = &sp
	}
	stack := make([]StackFrame, 0, len(vm.callStack))
	for _, fr := range vm.callStack {
		callSitePC := -1
		if fr.CallSitePC != nil {
			callSitePC = *fr.CallSitePC
		}
		var frSpan *diag.Span
		if fr.CallSitePC != nil {
			if sp, ok := vm.program.SpanFor(*fr.CallSitePC); ok {
				frSpan = &sp
			}
		}
		stack = append(stack, StackFrame{FunctionName: fr.FunctionName, CallSitePC: callSitePC, Span: frSpan})
	}
	return errors.WithStack(&RuntimeError{
		Message:                 message,
		FailingInstructionIndex: vm.pc,
		Span:                    span,
		CallStack:               stack,
		cause:                   cause,
	})
}
