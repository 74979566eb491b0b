package bytecode

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConstantPoolDedup(t *testing.T) {
	p := NewConstantPool()
	i1 := p.Intern(I64Constant(42))
	i2 := p.Intern(I64Constant(42))
	require.Equal(t, i1, i2)

	i3 := p.Intern(StringConstant("42"))
	require.NotEqual(t, i1, i3, "different kinds holding the same textual value must not collide")

	i4 := p.Intern(I64Constant(7))
	require.NotEqual(t, i1, i4)
	require.Equal(t, 3, p.Len())
}

func TestConstantPoolGetOutOfRange(t *testing.T) {
	p := NewConstantPool()
	p.Intern(I64Constant(1))
	_, ok := p.Get(5)
	require.False(t, ok)
}
