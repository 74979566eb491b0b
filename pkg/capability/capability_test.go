package capability

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vibescript/vibescript/pkg/ids"
)

func TestSetHasAndUnion(t *testing.T) {
	s := NewSet(CapFoundationBasic)
	require.True(t, s.Has(CapFoundationBasic))
	require.False(t, s.Has(CapUIBasic))

	merged := s.Union(NewSet(CapUIBasic))
	require.True(t, merged.Has(CapFoundationBasic))
	require.True(t, merged.Has(CapUIBasic))
}

func TestPolicyDeniesUnknownSymbol(t *testing.T) {
	unknown := ids.NewBridgeSymbolID("totally.unregistered")
	require.False(t, DefaultPolicy.IsAllowed(unknown, NewSet(CapFoundationBasic, CapUIBasic, CapDateFormatting, CapDiagnostics)))
}

func TestPolicyGatesOnRequiredCapability(t *testing.T) {
	dateNow := ids.NewBridgeSymbolID("Date.now")
	require.False(t, DefaultPolicy.IsAllowed(dateNow, NewSet(CapFoundationBasic)))
	require.True(t, DefaultPolicy.IsAllowed(dateNow, NewSet(CapDateFormatting)))
}

func TestDefaultCatalogCoversOperators(t *testing.T) {
	for _, op := range operatorNames {
		sym := ids.NewOperatorSymbolID(op)
		_, ok := DefaultCatalog.Lookup(sym)
		require.True(t, ok, "missing catalog entry for operator %q", op)
	}
}

func TestParseCapabilityRoundTrip(t *testing.T) {
	c, ok := ParseCapability("ui_basic")
	require.True(t, ok)
	require.Equal(t, CapUIBasic, c)

	_, ok = ParseCapability("nonexistent")
	require.False(t, ok)
}
