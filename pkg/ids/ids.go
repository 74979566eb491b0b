// Package ids implements the symbol and ID hashing scheme shared by the
// compiler, the bytecode program model, and the bridge catalog.
//
// Every function, type, field, bridge routine, and operator is named once
// as a human-readable string and hashed down to a compact 32-bit ID. IDs
// flow through the bytecode as plain operands and, when pushed as values,
// as plain i64s (see pkg/bytecode) — there is no separate "handle" kind.
//
// Hashing is deterministic FNV-1a32 over "<namespace>::<name>", so the same
// source always produces the same IDs (required for assembly determinism).
// Collisions are not expected in practice; the bridge catalog is static and
// any clash is a programming error resolved by renaming, not by runtime
// disambiguation.
package ids

import "fmt"

// Namespace partitions the ID space so that, e.g., a function and a type
// sharing a name never collide.
type Namespace string

// The five fixed namespaces.
const (
	NamespaceFunction Namespace = "fn"
	NamespaceType     Namespace = "type"
	NamespaceField    Namespace = "field"
	NamespaceBridge   Namespace = "bridge"
	NamespaceOperator Namespace = "op"
)

// FNV-1a32 parameters.
const (
	fnvOffset32 uint32 = 0x811c9dc5
	fnvPrime32  uint32 = 0x01000193
)

// Hash computes the stable 32-bit ID for a name within a namespace.
func Hash(ns Namespace, name string) uint32 {
	h := fnvOffset32
	for i := 0; i < len(ns); i++ {
		h ^= uint32(ns[i])
		h *= fnvPrime32
	}
	h ^= ':'
	h *= fnvPrime32
	h ^= ':'
	h *= fnvPrime32
	for i := 0; i < len(name); i++ {
		h ^= uint32(name[i])
		h *= fnvPrime32
	}
	return h
}

// SymbolID identifies a bridge routine or an operator symbol.
type SymbolID uint32

// TypeID identifies a struct type.
type TypeID uint32

// FieldID identifies a struct field, scoped to its owning struct.
type FieldID uint32

// FunctionID identifies a user-defined function.
type FunctionID uint32

// NewFunctionID hashes a function name in the function namespace.
func NewFunctionID(name string) FunctionID { return FunctionID(Hash(NamespaceFunction, name)) }

// NewTypeID hashes a struct type name in the type namespace.
func NewTypeID(name string) TypeID { return TypeID(Hash(NamespaceType, name)) }

// NewFieldID hashes a field, scoped by its declaring struct: the field name
// alone is not unique across structs, so the key is "<StructName>.<field>".
func NewFieldID(structName, fieldName string) FieldID {
	return FieldID(Hash(NamespaceField, structName+"."+fieldName))
}

// NewBridgeSymbolID hashes a bridge routine name in the bridge namespace.
func NewBridgeSymbolID(name string) SymbolID { return SymbolID(Hash(NamespaceBridge, name)) }

// NewOperatorSymbolID hashes an operator's literal text in the operator
// namespace, e.g. NewOperatorSymbolID("+").
func NewOperatorSymbolID(op string) SymbolID { return SymbolID(Hash(NamespaceOperator, op)) }

// SymbolTable caches name-to-ID resolutions per namespace for the duration
// of a single compilation, avoiding repeated hashing of the same name.
type SymbolTable struct {
	cache map[Namespace]map[string]uint32
}

// NewSymbolTable returns an empty table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{cache: make(map[Namespace]map[string]uint32)}
}

// Intern returns the hashed ID for name in ns, computing and caching it on
// first use.
func (t *SymbolTable) Intern(ns Namespace, name string) uint32 {
	byName, ok := t.cache[ns]
	if !ok {
		byName = make(map[string]uint32)
		t.cache[ns] = byName
	}
	if id, ok := byName[name]; ok {
		return id
	}
	id := Hash(ns, name)
	byName[name] = id
	return id
}

// Lookup returns a previously interned ID, if any.
func (t *SymbolTable) Lookup(ns Namespace, name string) (uint32, bool) {
	byName, ok := t.cache[ns]
	if !ok {
		return 0, false
	}
	id, ok := byName[name]
	return id, ok
}

func (n Namespace) String() string { return string(n) }

func (id SymbolID) String() string   { return fmt.Sprintf("sym:%08x", uint32(id)) }
func (id TypeID) String() string     { return fmt.Sprintf("type:%08x", uint32(id)) }
func (id FieldID) String() string    { return fmt.Sprintf("field:%08x", uint32(id)) }
func (id FunctionID) String() string { return fmt.Sprintf("fn:%08x", uint32(id)) }
