package engine

import (
	"github.com/google/go-cmp/cmp"
	"github.com/vibescript/vibescript/pkg/viewtree"
)

// DiffViewTrees renders a readable diff between two view trees, for
// integration tests and interactive debugging of preview output.
func DiffViewTrees(a, b *viewtree.ViewTree) string {
	return cmp.Diff(a, b)
}
