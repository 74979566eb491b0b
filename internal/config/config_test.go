package config

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vibescript/vibescript/pkg/capability"
)

func TestLoadDefaultPresets(t *testing.T) {
	presets, err := Load("")
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"trusted", "sandboxed", "preview-only"}, presets.Names())
}

func TestTrustedPresetGrantsEveryCapability(t *testing.T) {
	presets, err := Load("")
	require.NoError(t, err)
	trusted, err := presets.Get("trusted")
	require.NoError(t, err)
	require.True(t, trusted.Capabilities.Has(capability.CapFoundationBasic))
	require.True(t, trusted.Capabilities.Has(capability.CapDateFormatting))
	require.True(t, trusted.Capabilities.Has(capability.CapUIBasic))
	require.True(t, trusted.Capabilities.Has(capability.CapDiagnostics))
	require.Equal(t, 250_000, trusted.Limits.InstructionBudget)
}

func TestSandboxedPresetExcludesDateFormatting(t *testing.T) {
	presets, err := Load("")
	require.NoError(t, err)
	sandboxed, err := presets.Get("sandboxed")
	require.NoError(t, err)
	require.True(t, sandboxed.Capabilities.Has(capability.CapFoundationBasic))
	require.False(t, sandboxed.Capabilities.Has(capability.CapDateFormatting))
}

func TestGetUnknownPresetIsError(t *testing.T) {
	presets, err := Load("")
	require.NoError(t, err)
	_, err = presets.Get("does-not-exist")
	require.Error(t, err)
}
