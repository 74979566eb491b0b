package ids

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashDeterministic(t *testing.T) {
	a := Hash(NamespaceFunction, "add")
	b := Hash(NamespaceFunction, "add")
	require.Equal(t, a, b)
}

func TestHashNamespacesDoNotCollideByConstruction(t *testing.T) {
	fn := NewFunctionID("Point")
	ty := NewTypeID("Point")
	// Not a correctness guarantee in general, but for this exact pair the
	// namespace prefix must produce different hash inputs.
	require.NotEqual(t, uint32(fn), uint32(ty))
}

func TestNewFieldIDScopesByStruct(t *testing.T) {
	a := NewFieldID("Point", "x")
	b := NewFieldID("Line", "x")
	require.NotEqual(t, a, b)
}

func TestSymbolTableCaches(t *testing.T) {
	st := NewSymbolTable()
	id1 := st.Intern(NamespaceBridge, "print")
	id2 := st.Intern(NamespaceBridge, "print")
	require.Equal(t, id1, id2)

	got, ok := st.Lookup(NamespaceBridge, "print")
	require.True(t, ok)
	require.Equal(t, id1, got)

	_, ok = st.Lookup(NamespaceBridge, "missing")
	require.False(t, ok)
}

func TestOperatorSymbolIDsAreStable(t *testing.T) {
	require.Equal(t, NewOperatorSymbolID("+"), NewOperatorSymbolID("+"))
	require.NotEqual(t, NewOperatorSymbolID("+"), NewOperatorSymbolID("-"))
}
