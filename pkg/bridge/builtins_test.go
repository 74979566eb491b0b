package bridge_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vibescript/vibescript/pkg/bridge"
	"github.com/vibescript/vibescript/pkg/capability"
	"github.com/vibescript/vibescript/pkg/ids"
	"github.com/vibescript/vibescript/pkg/value"
)

func TestDispatchOperatorAddition(t *testing.T) {
	rt := bridge.NewDefaultRuntime()
	result, err := rt.Dispatch(ids.NewOperatorSymbolID("+"), &bridge.InvocationContext{
		Args:         []value.Value{value.I64(2), value.I64(3)},
		Capabilities: capability.NewSet(capability.CapFoundationBasic),
	})
	require.NoError(t, err)
	require.Equal(t, value.I64(5), result)
}

func TestDispatchDeniedWithoutCapability(t *testing.T) {
	rt := bridge.NewDefaultRuntime()
	_, err := rt.Dispatch(ids.NewBridgeSymbolID("print"), &bridge.InvocationContext{
		Args:         []value.Value{value.String("x")},
		Capabilities: capability.NewSet(),
	})
	require.Error(t, err)
}

func TestDispatchUnknownSymbol(t *testing.T) {
	rt := bridge.NewRuntime(capability.DefaultCatalog, capability.DefaultPolicy)
	_, err := rt.Dispatch(ids.NewBridgeSymbolID("totally.unregistered"), &bridge.InvocationContext{
		Capabilities: capability.NewSet(capability.CapFoundationBasic),
	})
	require.Error(t, err)
}

func TestPrintAppendsToSink(t *testing.T) {
	rt := bridge.NewDefaultRuntime()
	var out []string
	_, err := rt.Dispatch(ids.NewBridgeSymbolID("print"), &bridge.InvocationContext{
		Args:         []value.Value{value.String("hi")},
		Capabilities: capability.NewSet(capability.CapFoundationBasic),
		Print:        func(s string) { out = append(out, s) },
	})
	require.NoError(t, err)
	require.Equal(t, []string{"hi"}, out)
}

func TestStringMethods(t *testing.T) {
	rt := bridge.NewDefaultRuntime()
	receiver := value.String("Hello")
	caps := capability.NewSet(capability.CapFoundationBasic)

	upper, err := rt.Dispatch(ids.NewBridgeSymbolID("String.uppercased"), &bridge.InvocationContext{Receiver: &receiver, Capabilities: caps})
	require.NoError(t, err)
	require.Equal(t, value.String("HELLO"), upper)

	contains, err := rt.Dispatch(ids.NewBridgeSymbolID("String.contains"), &bridge.InvocationContext{
		Receiver: &receiver, Args: []value.Value{value.String("ell")}, Capabilities: caps,
	})
	require.NoError(t, err)
	require.Equal(t, value.Bool(true), contains)
}

func TestDateNowRequiresDateFormattingCapability(t *testing.T) {
	rt := bridge.NewDefaultRuntime()
	_, err := rt.Dispatch(ids.NewBridgeSymbolID("Date.now"), &bridge.InvocationContext{
		Capabilities: capability.NewSet(capability.CapFoundationBasic, capability.CapDiagnostics),
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "not allowed")

	v, err := rt.Dispatch(ids.NewBridgeSymbolID("Date.now"), &bridge.InvocationContext{
		Capabilities: capability.NewSet(capability.CapDateFormatting),
	})
	require.NoError(t, err)
	require.Equal(t, value.KindNative, v.Kind)
}

func TestViewComponentBuildsDictNode(t *testing.T) {
	rt := bridge.NewDefaultRuntime()
	v, err := rt.Dispatch(ids.NewBridgeSymbolID("Text"), &bridge.InvocationContext{
		Args:         []value.Value{value.String("hi")},
		Capabilities: capability.NewSet(capability.CapUIBasic),
	})
	require.NoError(t, err)
	require.Equal(t, value.KindDict, v.Kind)
	require.Equal(t, value.String("Text"), v.Dict["__view"])
}

func TestModifierChainsOntoReceiver(t *testing.T) {
	rt := bridge.NewDefaultRuntime()
	caps := capability.NewSet(capability.CapUIBasic)
	text, err := rt.Dispatch(ids.NewBridgeSymbolID("Text"), &bridge.InvocationContext{
		Args: []value.Value{value.String("hi")}, Capabilities: caps,
	})
	require.NoError(t, err)

	padded, err := rt.Dispatch(ids.NewBridgeSymbolID("padding"), &bridge.InvocationContext{
		Receiver: &text, Args: []value.Value{value.I64(8)}, Capabilities: caps,
	})
	require.NoError(t, err)
	mods := padded.Dict["__modifiers"].Array
	require.Len(t, mods, 1)
	require.Equal(t, value.String("padding"), mods[0].Dict["type"])
}
