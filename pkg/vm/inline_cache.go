package vm

import "github.com/vibescript/vibescript/pkg/ids"

// InlineCacheSet records, for each call_bridge/get_field/set_field site,
// the last-seen shape observed there. It is informative only: vibescript
// never lets a cache hit short-circuit the capability/catalog or
// struct-layout lookup it would otherwise perform (see DESIGN.md).
// CallSite and FieldSite read entries back; the VM does not hand its set
// out, and nothing in the engine or the tests reads it.
type InlineCacheSet struct {
	callSites  map[int]string
	fieldSites map[int]ids.TypeID
}

// NewInlineCacheSet returns an empty set.
func NewInlineCacheSet() *InlineCacheSet {
	return &InlineCacheSet{
		callSites:  make(map[int]string),
		fieldSites: make(map[int]ids.TypeID),
	}
}

// RecordCallSite remembers the receiver's type name last observed at a
// call_bridge instruction index. An empty receiverType marks a
// receiverless call.
func (s *InlineCacheSet) RecordCallSite(instructionIndex int, receiverType string) {
	s.callSites[instructionIndex] = receiverType
}

// RecordFieldSite remembers the struct type id last observed at a
// get_field/set_field instruction index.
func (s *InlineCacheSet) RecordFieldSite(instructionIndex int, t ids.TypeID) {
	s.fieldSites[instructionIndex] = t
}

// CallSite returns the last-seen receiver type name at a call_bridge site.
func (s *InlineCacheSet) CallSite(instructionIndex int) (string, bool) {
	v, ok := s.callSites[instructionIndex]
	return v, ok
}

// FieldSite returns the last-seen struct type id at a get_field/set_field site.
func (s *InlineCacheSet) FieldSite(instructionIndex int) (ids.TypeID, bool) {
	v, ok := s.fieldSites[instructionIndex]
	return v, ok
}
