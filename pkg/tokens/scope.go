package tokens

// Scope is a chain of lexical frames, innermost first. Each frame holds the
// names one block body declared with `as |name ...|`. Frames are immutable:
// Push returns a new scope and never mutates the receiver, so a scope
// snapshot taken when a node is scheduled for traversal stays valid no matter
// what is pushed afterwards, and concurrent extractions share nothing.
//
// The zero value is the empty scope; a nil *Scope is valid and binds nothing.
type Scope struct {
	parent *Scope
	names  map[string]struct{}
}

// Push returns a scope with a new innermost frame binding names. Pushing an
// empty name list is a no-op returning the receiver: a body that declares no
// params is indistinguishable from a non-block body for scoping purposes.
func (s *Scope) Push(names []string) *Scope {
	if len(names) == 0 {
		return s
	}
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return &Scope{parent: s, names: set}
}

// Parent returns the scope without its innermost frame.
func (s *Scope) Parent() *Scope {
	if s == nil {
		return nil
	}
	return s.parent
}

// IsBound reports whether head exactly matches a bound name in any frame,
// searched innermost to outermost. Matching is case-sensitive and applies no
// normalization.
func (s *Scope) IsBound(head string) bool {
	for f := s; f != nil; f = f.parent {
		if _, ok := f.names[head]; ok {
			return true
		}
	}
	return false
}

// Depth returns the number of frames in the chain.
func (s *Scope) Depth() int {
	n := 0
	for f := s; f != nil; f = f.parent {
		n++
	}
	return n
}
