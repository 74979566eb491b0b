package compiler

// LexicalScope is a chained block scope within one function compilation.
// Local slot numbers are monotonic across the whole function (no slot
// reuse across sibling blocks), matching the simplest frame layout the VM
// can index with a flat []value.Value.
type LexicalScope struct {
	parent     *LexicalScope
	locals     map[string]int
	localTypes map[string]string // struct type name hint, for member lowering
	next       *int              // shared counter, pointer so children and siblings see the same value
}

func newRootScope() *LexicalScope {
	n := 0
	return &LexicalScope{locals: make(map[string]int), localTypes: make(map[string]string), next: &n}
}

func (s *LexicalScope) child() *LexicalScope {
	return &LexicalScope{parent: s, locals: make(map[string]int), localTypes: make(map[string]string), next: s.next}
}

// Declare allocates a fresh local slot for name in this scope, shadowing
// any outer binding of the same name.
func (s *LexicalScope) Declare(name string) int {
	slot := *s.next
	*s.next++
	s.locals[name] = slot
	return slot
}

// DeclareTyped is Declare plus a recorded struct-type hint, used so a later
// `ident.field` can resolve to a known FieldID instead of the wildcard
// member path.
func (s *LexicalScope) DeclareTyped(name, structType string) int {
	slot := s.Declare(name)
	if structType != "" {
		s.localTypes[name] = structType
	}
	return slot
}

// Resolve walks outward from s looking for name, returning its slot.
func (s *LexicalScope) Resolve(name string) (int, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if slot, ok := sc.locals[name]; ok {
			return slot, true
		}
	}
	return 0, false
}

// TypeOf reports the struct type hint recorded for name, if any.
func (s *LexicalScope) TypeOf(name string) (string, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if _, ok := sc.locals[name]; ok {
			t, ok := sc.localTypes[name]
			return t, ok
		}
	}
	return "", false
}
