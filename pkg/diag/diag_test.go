package diag

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSpanMapCoversValidRanges(t *testing.T) {
	m := SpanMap{
		0: {Start: Position{Line: 1, Column: 1}, End: Position{Line: 1, Column: 5}},
		1: {Start: Position{Line: 2, Column: 1}, End: Position{Line: 2, Column: 1}},
	}
	require.True(t, m.CoversValidRanges())

	m[2] = Span{Start: Position{Line: 3, Column: 5}, End: Position{Line: 3, Column: 1}}
	require.False(t, m.CoversValidRanges())
}

func TestDiagnosticStringWithAndWithoutSpan(t *testing.T) {
	d := Diagnostic{Severity: SeverityError, Message: "unknown identifier"}
	require.Contains(t, d.String(), "unknown identifier")

	sp := Span{Start: Position{Line: 4, Column: 2}}
	d2 := Diagnostic{Severity: SeverityWarning, Message: "shadowed", Span: &sp}
	require.Contains(t, d2.String(), "line 4")
}
