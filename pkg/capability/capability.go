// Package capability implements the bridge symbol catalog and the
// coarse-grained permission bitset that gates which bridge routines a run
// may call.
package capability

import (
	"strings"

	"github.com/vibescript/vibescript/pkg/ids"
)

// Capability is a single named permission bit.
type Capability uint32

const (
	CapFoundationBasic Capability = 1 << iota
	CapDateFormatting
	CapUIBasic
	CapDiagnostics
)

var names = []struct {
	bit  Capability
	name string
}{
	{CapFoundationBasic, "foundation_basic"},
	{CapDateFormatting, "date_formatting"},
	{CapUIBasic, "ui_basic"},
	{CapDiagnostics, "diagnostics"},
}

func (c Capability) String() string {
	for _, n := range names {
		if n.bit == c {
			return n.name
		}
	}
	return "unknown"
}

// ParseCapability maps a config/flag name back to its bit, for
// internal/config and the CLI.
func ParseCapability(name string) (Capability, bool) {
	for _, n := range names {
		if n.name == name {
			return n.bit, true
		}
	}
	return 0, false
}

// Set is a bitset over the fixed capability tags.
type Set struct {
	bits Capability
}

// NewSet builds a Set from zero or more capabilities.
func NewSet(caps ...Capability) Set {
	var s Set
	for _, c := range caps {
		s.bits |= c
	}
	return s
}

// Has reports whether c is present in the set.
func (s Set) Has(c Capability) bool { return s.bits&c != 0 }

// Union returns a new Set containing both sets' bits.
func (s Set) Union(other Set) Set { return Set{bits: s.bits | other.bits} }

// With returns a new Set with c added.
func (s Set) With(c Capability) Set { return Set{bits: s.bits | c} }

// String renders the set for logging, e.g. "foundation_basic|ui_basic".
func (s Set) String() string {
	var parts []string
	for _, n := range names {
		if s.bits&n.bit != 0 {
			parts = append(parts, n.name)
		}
	}
	if len(parts) == 0 {
		return "(none)"
	}
	return strings.Join(parts, "|")
}

// CatalogEntry binds one bridge symbol to the capability required to call
// it.
type CatalogEntry struct {
	Symbol   ids.SymbolID
	Name     string
	Required Capability
}

// Catalog is the static table of every bridge symbol the VM may dispatch
// to. It is read-only after package init and safe to share across runs.
type Catalog struct {
	bySymbol map[ids.SymbolID]CatalogEntry
}

// Lookup returns the catalog entry for sym, if registered.
func (c *Catalog) Lookup(sym ids.SymbolID) (CatalogEntry, bool) {
	e, ok := c.bySymbol[sym]
	return e, ok
}

// NewCatalog builds a Catalog from an explicit entry list, deduplicating by
// symbol (later entries win, matching the "static table keyed by SymbolID"
// description — a name registered twice is a configuration bug the caller
// should fix, not the catalog's job to detect).
func NewCatalog(entries []CatalogEntry) *Catalog {
	c := &Catalog{bySymbol: make(map[ids.SymbolID]CatalogEntry, len(entries))}
	for _, e := range entries {
		c.bySymbol[e.Symbol] = e
	}
	return c
}

// Policy admits bridge calls according to a simple gate rule: a symbol is
// allowed iff it has a catalog entry and that entry's capability is in the
// run's capability set. Any symbol absent from the catalog is denied.
type Policy struct {
	catalog *Catalog
}

// NewPolicy binds a Policy to a catalog.
func NewPolicy(catalog *Catalog) *Policy { return &Policy{catalog: catalog} }

// IsAllowed implements SymbolPolicy.is_allowed.
func (p *Policy) IsAllowed(sym ids.SymbolID, caps Set) bool {
	entry, ok := p.catalog.Lookup(sym)
	if !ok {
		return false
	}
	return caps.Has(entry.Required)
}
