// Package value implements the VM's runtime value model: a closed sum over
// none, i64, f64, bool, string, array, dict, native, and struct_instance.
//
// native(opaque) and struct_instance are first-class with well-defined
// truthiness and copy-on-write semantics, so Value is a tagged struct
// rather than an empty interface. Exhaustive switches over Kind are the
// intended dispatch style (see Truthy, and pkg/bridge's builtins).
package value

import (
	"fmt"
	"sort"

	"github.com/vibescript/vibescript/pkg/ids"
)

// Kind tags the active field of a Value.
type Kind int

const (
	KindNone Kind = iota
	KindI64
	KindF64
	KindBool
	KindString
	KindArray
	KindDict
	KindNative
	KindStruct
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindI64:
		return "i64"
	case KindF64:
		return "f64"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindDict:
		return "dict"
	case KindNative:
		return "native"
	case KindStruct:
		return "struct_instance"
	default:
		return "unknown"
	}
}

// StructInstance is a value with a type id and a field-id-keyed map of
// values. Field ids present in Fields must appear in the layout registered
// for Type — the compiler is responsible for only ever emitting make_struct
// with field ids drawn from that layout.
type StructInstance struct {
	Type   ids.TypeID
	Fields map[ids.FieldID]Value
}

// Value is the VM's closed runtime value sum.
type Value struct {
	Kind   Kind
	I64    int64
	F64    float64
	Bool   bool
	Str    string
	Array  []Value
	Dict   map[string]Value
	Native interface{}
	Struct *StructInstance
}

// None is the singular absent value.
var None = Value{Kind: KindNone}

func I64(v int64) Value     { return Value{Kind: KindI64, I64: v} }
func F64(v float64) Value   { return Value{Kind: KindF64, F64: v} }
func Bool(v bool) Value     { return Value{Kind: KindBool, Bool: v} }
func String(v string) Value { return Value{Kind: KindString, Str: v} }
func Array(v []Value) Value { return Value{Kind: KindArray, Array: v} }
func Dict(v map[string]Value) Value { return Value{Kind: KindDict, Dict: v} }
func Native(v interface{}) Value    { return Value{Kind: KindNative, Native: v} }

// Struct wraps a StructInstance as a Value.
func Struct(s *StructInstance) Value { return Value{Kind: KindStruct, Struct: s} }

// NewStructInstance builds an instance with no fields set; the caller
// (typically the VM's make_struct handler) populates Fields afterward.
func NewStructInstance(t ids.TypeID) *StructInstance {
	return &StructInstance{Type: t, Fields: make(map[ids.FieldID]Value)}
}

// ErrMissingField is returned by GetField when the requested field id was
// never set on the instance. Missing trailing constructor arguments leave
// fields unset rather than defaulted to none, and reading them is an error
// (see DESIGN.md).
type ErrMissingField struct {
	Type  ids.TypeID
	Field ids.FieldID
}

func (e *ErrMissingField) Error() string {
	return fmt.Sprintf("missing field %s on instance of %s", e.Field, e.Type)
}

// GetField reads a field, returning ErrMissingField if unset.
func (s *StructInstance) GetField(f ids.FieldID) (Value, error) {
	v, ok := s.Fields[f]
	if !ok {
		return None, &ErrMissingField{Type: s.Type, Field: f}
	}
	return v, nil
}

// WithField returns a new StructInstance with f set to v, copying the
// existing field map — copy-on-write, so no other holder of the old
// instance observes the mutation. This realizes set_field's value-level
// semantics.
func (s *StructInstance) WithField(f ids.FieldID, v Value) *StructInstance {
	fields := make(map[ids.FieldID]Value, len(s.Fields)+1)
	for k, existing := range s.Fields {
		fields[k] = existing
	}
	fields[f] = v
	return &StructInstance{Type: s.Type, Fields: fields}
}

// Truthy implements the value model's truthiness table:
//
//	none = false; bool as itself; i64/f64 != 0 = true;
//	non-empty string/array/dict = true; native/struct_instance always true.
func Truthy(v Value) bool {
	switch v.Kind {
	case KindNone:
		return false
	case KindBool:
		return v.Bool
	case KindI64:
		return v.I64 != 0
	case KindF64:
		return v.F64 != 0
	case KindString:
		return v.Str != ""
	case KindArray:
		return len(v.Array) > 0
	case KindDict:
		return len(v.Dict) > 0
	case KindNative, KindStruct:
		return true
	default:
		return false
	}
}

// Inspect renders a human-readable form of v, used by the print bridge and
// by debug tooling. It is never used for equality.
func Inspect(v Value) string {
	switch v.Kind {
	case KindNone:
		return "nil"
	case KindI64:
		return fmt.Sprintf("%d", v.I64)
	case KindF64:
		return fmt.Sprintf("%g", v.F64)
	case KindBool:
		return fmt.Sprintf("%t", v.Bool)
	case KindString:
		return v.Str
	case KindArray:
		out := "["
		for i, el := range v.Array {
			if i > 0 {
				out += ", "
			}
			out += Inspect(el)
		}
		return out + "]"
	case KindDict:
		keys := make([]string, 0, len(v.Dict))
		for k := range v.Dict {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := "{"
		for i, k := range keys {
			if i > 0 {
				out += ", "
			}
			out += fmt.Sprintf("%s: %s", k, Inspect(v.Dict[k]))
		}
		return out + "}"
	case KindNative:
		return fmt.Sprintf("<native %v>", v.Native)
	case KindStruct:
		return fmt.Sprintf("<struct %s>", v.Struct.Type)
	default:
		return "<invalid>"
	}
}
