package bytecode

import "fmt"

// ConstKind tags the active field of a Constant.
type ConstKind int

const (
	ConstNone ConstKind = iota
	ConstI64
	ConstF64
	ConstBool
	ConstString
	ConstSymbol
	ConstType
	ConstField
	ConstFunction
)

// Constant is a closed sum over the nine constant kinds the pool stores.
// Symbol/type/field/function constants carry a raw 32-bit ID, converted to
// i64 at push time.
type Constant struct {
	Kind ConstKind
	I64  int64
	F64  float64
	Bool bool
	Str  string
	ID   uint32
}

// key returns a canonical, comparable encoding of c suitable for use as a
// map key in the pool's dedup table.
func (c Constant) key() interface{} {
	switch c.Kind {
	case ConstNone:
		return [2]interface{}{c.Kind, nil}
	case ConstI64, ConstSymbol, ConstType, ConstField, ConstFunction:
		if c.Kind == ConstI64 {
			return [2]interface{}{c.Kind, c.I64}
		}
		return [2]interface{}{c.Kind, c.ID}
	case ConstF64:
		return [2]interface{}{c.Kind, c.F64}
	case ConstBool:
		return [2]interface{}{c.Kind, c.Bool}
	case ConstString:
		return [2]interface{}{c.Kind, c.Str}
	default:
		return [2]interface{}{c.Kind, nil}
	}
}

func NoneConstant() Constant           { return Constant{Kind: ConstNone} }
func I64Constant(v int64) Constant     { return Constant{Kind: ConstI64, I64: v} }
func F64Constant(v float64) Constant   { return Constant{Kind: ConstF64, F64: v} }
func BoolConstant(v bool) Constant     { return Constant{Kind: ConstBool, Bool: v} }
func StringConstant(v string) Constant { return Constant{Kind: ConstString, Str: v} }
func SymbolConstant(id uint32) Constant { return Constant{Kind: ConstSymbol, ID: id} }
func TypeConstant(id uint32) Constant    { return Constant{Kind: ConstType, ID: id} }
func FieldConstant(id uint32) Constant   { return Constant{Kind: ConstField, ID: id} }
func FunctionConstant(id uint32) Constant { return Constant{Kind: ConstFunction, ID: id} }

func (c ConstKind) String() string {
	switch c {
	case ConstNone:
		return "none"
	case ConstI64:
		return "i64"
	case ConstF64:
		return "f64"
	case ConstBool:
		return "bool"
	case ConstString:
		return "string"
	case ConstSymbol:
		return "symbol"
	case ConstType:
		return "type"
	case ConstField:
		return "field"
	case ConstFunction:
		return "function"
	default:
		return "unknown"
	}
}

func (c Constant) String() string {
	switch c.Kind {
	case ConstNone:
		return "none"
	case ConstI64:
		return fmt.Sprintf("i64(%d)", c.I64)
	case ConstF64:
		return fmt.Sprintf("f64(%g)", c.F64)
	case ConstBool:
		return fmt.Sprintf("bool(%t)", c.Bool)
	case ConstString:
		return fmt.Sprintf("string(%q)", c.Str)
	case ConstSymbol, ConstType, ConstField, ConstFunction:
		return fmt.Sprintf("%s(%08x)", c.Kind, c.ID)
	default:
		return "invalid"
	}
}

// ConstantPool is a deduplicating vector of Constant with a reverse map
// from canonical encoding to index.
type ConstantPool struct {
	values  []Constant
	indices map[interface{}]int
}

// NewConstantPool returns an empty pool.
func NewConstantPool() *ConstantPool {
	return &ConstantPool{indices: make(map[interface{}]int)}
}

// Intern returns a stable index for c, reusing an existing entry when c was
// already interned: intern(c) == intern(d) iff c == d.
func (p *ConstantPool) Intern(c Constant) int {
	key := c.key()
	if idx, ok := p.indices[key]; ok {
		return idx
	}
	idx := len(p.values)
	p.values = append(p.values, c)
	p.indices[key] = idx
	return idx
}

// Get returns the constant at idx.
func (p *ConstantPool) Get(idx int) (Constant, bool) {
	if idx < 0 || idx >= len(p.values) {
		return Constant{}, false
	}
	return p.values[idx], true
}

// Len returns the number of distinct constants interned.
func (p *ConstantPool) Len() int { return len(p.values) }

// All returns the pool's constants in index order. Callers must not mutate
// the returned slice.
func (p *ConstantPool) All() []Constant { return p.values }
