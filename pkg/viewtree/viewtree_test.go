package viewtree_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vibescript/vibescript/pkg/value"
	"github.com/vibescript/vibescript/pkg/viewtree"
)

func TestFromValuePrimitives(t *testing.T) {
	require.Equal(t, viewtree.IntIR(5), viewtree.FromValue(value.I64(5)))
	require.Equal(t, viewtree.StringIR("hi"), viewtree.FromValue(value.String("hi")))
	require.Equal(t, viewtree.BoolIR(true), viewtree.FromValue(value.Bool(true)))
}

func TestFromValueBindingAndStateRefs(t *testing.T) {
	binding := value.Dict(map[string]value.Value{"$binding": value.String("counter")})
	require.Equal(t, viewtree.BindingRef("counter"), viewtree.FromValue(binding))

	state := value.Dict(map[string]value.Value{"$state": value.String("counter")})
	require.Equal(t, viewtree.StateRef("counter"), viewtree.FromValue(state))
}

func TestFromValueNativeAndStructAreAbsent(t *testing.T) {
	require.Equal(t, viewtree.Absent(), viewtree.FromValue(value.Native(struct{}{})))
	require.Equal(t, viewtree.Absent(), viewtree.FromValue(value.Struct(&value.StructInstance{})))
}

func TestToValuePrimitivesAndRefs(t *testing.T) {
	require.Equal(t, value.I64(5), viewtree.ToValue(viewtree.IntIR(5)))
	require.Equal(t, value.String("hi"), viewtree.ToValue(viewtree.StringIR("hi")))
	require.Equal(t, value.Bool(true), viewtree.ToValue(viewtree.BoolIR(true)))
	require.Equal(t, value.None, viewtree.ToValue(viewtree.Null()))
	require.Equal(t, value.None, viewtree.ToValue(viewtree.Absent()))

	binding := value.Dict(map[string]value.Value{"$binding": value.String("counter")})
	require.Equal(t, binding, viewtree.ToValue(viewtree.BindingRef("counter")))

	state := value.Dict(map[string]value.Value{"$state": value.String("counter")})
	require.Equal(t, state, viewtree.ToValue(viewtree.StateRef("counter")))
}

func TestRoundTripPreservesPrimitivesArraysAndObjects(t *testing.T) {
	in := value.Dict(map[string]value.Value{
		"label":   value.String("hi"),
		"count":   value.I64(3),
		"enabled": value.Bool(true),
		"ratio":   value.F64(0.5),
		"tags":    value.Array([]value.Value{value.String("a"), value.String("b")}),
	})
	out := viewtree.ToValue(viewtree.FromValue(in))
	require.Equal(t, in, out)
}

func TestRoundTripPreservesBindingAndStateRefs(t *testing.T) {
	binding := value.Dict(map[string]value.Value{"$binding": value.String("counter")})
	require.Equal(t, binding, viewtree.ToValue(viewtree.FromValue(binding)))

	state := value.Dict(map[string]value.Value{"$state": value.String("counter")})
	require.Equal(t, state, viewtree.ToValue(viewtree.FromValue(state)))
}

func TestFromBareNodeShapeUsesDefaults(t *testing.T) {
	tree, err := viewtree.From(map[string]interface{}{
		"type": "Text",
	}, viewtree.ViewTree{IRVersion: 2, Capabilities: []string{"ui_basic"}})
	require.NoError(t, err)
	require.Equal(t, 2, tree.IRVersion)
	require.Equal(t, []string{"ui_basic"}, tree.Capabilities)
	require.Equal(t, "Text", tree.Root.Type)
	require.NotEmpty(t, tree.Root.ID)
}

func TestFromFullPayload(t *testing.T) {
	tree, err := viewtree.From(map[string]interface{}{
		"root": map[string]interface{}{
			"type": "VStack",
			"children": []interface{}{
				map[string]interface{}{"type": "Text"},
			},
		},
	}, viewtree.ViewTree{})
	require.NoError(t, err)
	require.Equal(t, 1, tree.IRVersion)
	require.Len(t, tree.Root.Children, 1)
}

func TestFromMissingTypeIsError(t *testing.T) {
	_, err := viewtree.From(map[string]interface{}{}, viewtree.ViewTree{})
	require.Error(t, err)
}

func TestSynthesizedIDsAreStableAcrossCalls(t *testing.T) {
	payload := map[string]interface{}{"type": "Text"}
	a, err := viewtree.From(payload, viewtree.ViewTree{})
	require.NoError(t, err)
	b, err := viewtree.From(payload, viewtree.ViewTree{})
	require.NoError(t, err)
	require.Equal(t, a.Root.ID, b.Root.ID)
}
