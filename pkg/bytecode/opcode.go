// Package bytecode defines vibescript's bytecode format: opcodes, the
// variable-length instruction encoding, the constant pool, and the
// assembled Program model the VM consumes.
//
// The bytecode is the intermediate representation between the compiler
// (pkg/compiler) and the VM (pkg/vm). It is stack-based, and every
// instruction is encoded with a leading unsigned-varint operand count
// (format.go), which makes the encoding self-describing. The opcodes that
// take more than one operand (call_user, call_bridge, call_init,
// make_struct) are the ones IsVariadic reports.
package bytecode

// Opcode is a single bytecode instruction's operation, byte-tagged for a
// compact encoding.
type Opcode byte

// The fixed opcode set.
const (
	OpNop Opcode = iota
	OpHalt
	OpPushConst
	OpPop
	OpDup
	OpLoadLocal
	OpStoreLocal
	OpJump
	OpJumpIfFalse
	OpJumpIfTrue
	OpReturnValue
	OpCallUser
	OpCallBridge
	OpCallInit
	OpMakeStruct
	OpGetField
	OpSetField
)

func (op Opcode) String() string {
	switch op {
	case OpNop:
		return "NOP"
	case OpHalt:
		return "HALT"
	case OpPushConst:
		return "PUSH_CONST"
	case OpPop:
		return "POP"
	case OpDup:
		return "DUP"
	case OpLoadLocal:
		return "LOAD_LOCAL"
	case OpStoreLocal:
		return "STORE_LOCAL"
	case OpJump:
		return "JUMP"
	case OpJumpIfFalse:
		return "JUMP_IF_FALSE"
	case OpJumpIfTrue:
		return "JUMP_IF_TRUE"
	case OpReturnValue:
		return "RETURN_VALUE"
	case OpCallUser:
		return "CALL_USER"
	case OpCallBridge:
		return "CALL_BRIDGE"
	case OpCallInit:
		return "CALL_INIT"
	case OpMakeStruct:
		return "MAKE_STRUCT"
	case OpGetField:
		return "GET_FIELD"
	case OpSetField:
		return "SET_FIELD"
	default:
		return "UNKNOWN"
	}
}

// IsVariadic reports whether op is one of the multi-operand call/construct
// opcodes rather than a zero- or one-operand opcode. The encoding does not
// depend on it: every instruction carries its own operand count.
func (op Opcode) IsVariadic() bool {
	switch op {
	case OpCallUser, OpCallBridge, OpCallInit, OpMakeStruct:
		return true
	default:
		return false
	}
}

// Instruction is a single decoded bytecode instruction: an opcode plus its
// operands. Operand count and meaning depend on Op:
//
//	push_const        i
//	load_local        i
//	store_local       i
//	jump              t
//	jump_if_false     t
//	jump_if_true      t
//	call_user         fn_id, argc
//	call_bridge       sym_id, argc, has_receiver
//	call_init         sym_id, argc, has_receiver
//	make_struct       type_id, fieldc, field_id...fieldc
//	get_field         field_id
//	set_field         field_id
//	nop/halt/pop/dup/return_value   (none)
type Instruction struct {
	Op       Opcode
	Operands []int64
}
