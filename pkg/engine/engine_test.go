package engine_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vibescript/vibescript/pkg/capability"
	"github.com/vibescript/vibescript/pkg/engine"
	"github.com/vibescript/vibescript/pkg/guard"
	"github.com/vibescript/vibescript/pkg/value"
	"github.com/vibescript/vibescript/pkg/viewtree"
)

var fullCaps = capability.NewSet(
	capability.CapFoundationBasic,
	capability.CapDateFormatting,
	capability.CapUIBasic,
	capability.CapDiagnostics,
)

func TestCompileAndRun(t *testing.T) {
	result, err := engine.CompileAndRun(engine.Request{
		Source:       `func add(a, b) { return a + b } let x = add(2, 3); return x`,
		FileName:     "inline.vbs",
		Capabilities: fullCaps,
		Limits:       guard.DefaultLimits(),
	})
	require.NoError(t, err)
	require.Equal(t, value.I64(5), result.Value)
}

func TestCompileAndRunSurfacesParseErrors(t *testing.T) {
	_, err := engine.CompileAndRun(engine.Request{
		Source:       `func (`,
		FileName:     "bad.vbs",
		Capabilities: fullCaps,
		Limits:       guard.DefaultLimits(),
	})
	require.Error(t, err)
}

func TestBuildPreviewNeverErrors(t *testing.T) {
	preview := engine.BuildPreview(engine.Request{
		Source:       `let x = print("hi")`,
		FileName:     "preview.vbs",
		Capabilities: capability.NewSet(),
	})
	require.True(t, preview.VMCompilationSucceeded)
	require.NotEmpty(t, preview.UsedSymbols)
	require.NotEmpty(t, preview.BlockedSymbols, "print requires foundation_basic, which was not granted")
}

func TestBuildPreviewReportsFailedCompilation(t *testing.T) {
	preview := engine.BuildPreview(engine.Request{
		Source:       `let x = y`,
		FileName:     "unresolved.vbs",
		Capabilities: fullCaps,
	})
	require.False(t, preview.VMCompilationSucceeded)
	require.NotEmpty(t, preview.CompilationDiagnostics)
}

func TestDiffViewTreesReportsNoDiffForEqualTrees(t *testing.T) {
	a, err := viewtree.From(map[string]interface{}{"type": "Text"}, viewtree.ViewTree{})
	require.NoError(t, err)
	b, err := viewtree.From(map[string]interface{}{"type": "Text"}, viewtree.ViewTree{})
	require.NoError(t, err)
	require.Empty(t, engine.DiffViewTrees(a, b))
}
