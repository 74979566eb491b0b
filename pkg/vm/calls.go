package vm

import (
	"github.com/vibescript/vibescript/pkg/bridge"
	"github.com/vibescript/vibescript/pkg/bytecode"
	"github.com/vibescript/vibescript/pkg/capability"
	"github.com/vibescript/vibescript/pkg/ids"
	"github.com/vibescript/vibescript/pkg/value"
)

// execCallUser pops fn's arguments (in push order), pushes a new frame with
// a zeroed local slab, and enforces the guard's call-depth limit.
func (vm *VM) execCallUser(instr bytecode.Instruction) error {
	fnID, err := vm.operand(instr, 0)
	if err != nil {
		return err
	}
	argc, err := vm.operand(instr, 1)
	if err != nil {
		return err
	}
	meta, ok := vm.program.FunctionByID(ids.FunctionID(fnID))
	if !ok {
		return vm.newRuntimeError(ErrUnknownFunctionID, "call_user: unknown function id")
	}

	args := make([]value.Value, argc)
	for i := int(argc) - 1; i >= 0; i-- {
		v, err := vm.pop()
		if err != nil {
			return err
		}
		args[i] = v
	}

	locals := make([]value.Value, meta.LocalCount)
	copy(locals, args)

	returnPC := vm.pc + 1
	callSitePC := vm.pc
	vm.callStack = append(vm.callStack, Frame{
		FunctionID:   meta.ID,
		FunctionName: meta.Name,
		ReturnPC:     &returnPC,
		CallSitePC:   &callSitePC,
		Locals:       locals,
	})
	if err := vm.guard.EnsureCallDepth(len(vm.callStack)); err != nil {
		return vm.newRuntimeError(err, err.Error())
	}
	vm.pc = meta.EntryIndex
	return nil
}

// execCallBridge pops argc arguments, then an optional receiver, and
// dispatches through the bridge runtime, recording an inline-cache entry
// keyed by the call site.
func (vm *VM) execCallBridge(instr bytecode.Instruction, caps capability.Set) error {
	symRaw, err := vm.operand(instr, 0)
	if err != nil {
		return err
	}
	argc, err := vm.operand(instr, 1)
	if err != nil {
		return err
	}
	hasReceiver, err := vm.operand(instr, 2)
	if err != nil {
		return err
	}

	args := make([]value.Value, argc)
	for i := int(argc) - 1; i >= 0; i-- {
		v, err := vm.pop()
		if err != nil {
			return err
		}
		args[i] = v
	}

	var receiver *value.Value
	if hasReceiver != 0 {
		v, err := vm.pop()
		if err != nil {
			return err
		}
		receiver = &v
	}

	sym := ids.SymbolID(symRaw)
	vm.inlineCaches.RecordCallSite(vm.pc, receiverTypeName(receiver))

	result, err := vm.bridgeRuntime.Dispatch(sym, &bridge.InvocationContext{
		Context:      vm.ctx,
		Receiver:     receiver,
		Args:         args,
		Capabilities: caps,
		Print: func(s string) {
			vm.outputBuffer = append(vm.outputBuffer, s)
		},
	})
	if err != nil {
		return vm.newRuntimeError(err, err.Error())
	}
	return vm.push(result)
}

func receiverTypeName(v *value.Value) string {
	if v == nil {
		return ""
	}
	return v.Kind.String()
}

// execMakeStruct pops fieldc values (in push order) onto the declared
// field ids and pushes the new struct_instance.
func (vm *VM) execMakeStruct(instr bytecode.Instruction) error {
	typeRaw, err := vm.operand(instr, 0)
	if err != nil {
		return err
	}
	fieldc, err := vm.operand(instr, 1)
	if err != nil {
		return err
	}
	if len(instr.Operands) != int(2+fieldc) {
		return vm.newRuntimeError(ErrMismatchedOperands, "make_struct: operand count does not match fieldc")
	}

	values := make([]value.Value, fieldc)
	for i := int(fieldc) - 1; i >= 0; i-- {
		v, err := vm.pop()
		if err != nil {
			return err
		}
		values[i] = v
	}

	inst := value.NewStructInstance(ids.TypeID(typeRaw))
	for i := 0; i < int(fieldc); i++ {
		fieldID := ids.FieldID(instr.Operands[2+i])
		inst.Fields[fieldID] = values[i]
	}
	return vm.push(value.Struct(inst))
}

// execGetField reads a field off a struct_instance popped from the stack.
func (vm *VM) execGetField(instr bytecode.Instruction) error {
	fieldRaw, err := vm.operand(instr, 0)
	if err != nil {
		return err
	}
	base, err := vm.pop()
	if err != nil {
		return err
	}
	if base.Kind != value.KindStruct {
		return vm.newRuntimeError(ErrNotAStruct, "get_field on non-struct value")
	}
	vm.inlineCaches.RecordFieldSite(vm.pc, base.Struct.Type)
	v, err := base.Struct.GetField(ids.FieldID(fieldRaw))
	if err != nil {
		return vm.newRuntimeError(err, err.Error())
	}
	return vm.push(v)
}

// execSetField pops the new value then the struct_instance base, pushing
// a copy-on-write updated instance: set_field never mutates a shared
// instance in place.
func (vm *VM) execSetField(instr bytecode.Instruction) error {
	fieldRaw, err := vm.operand(instr, 0)
	if err != nil {
		return err
	}
	newValue, err := vm.pop()
	if err != nil {
		return err
	}
	base, err := vm.pop()
	if err != nil {
		return err
	}
	if base.Kind != value.KindStruct {
		return vm.newRuntimeError(ErrNotAStruct, "set_field on non-struct value")
	}
	vm.inlineCaches.RecordFieldSite(vm.pc, base.Struct.Type)
	updated := base.Struct.WithField(ids.FieldID(fieldRaw), newValue)
	return vm.push(value.Struct(updated))
}
