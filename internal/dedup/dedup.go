// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dedup tracks URLs seen within a single collection run. The set is
// created per adapter invocation and never persisted; duplicates across runs
// are the downstream sink's concern.
package dedup

// Set records URLs first-come. Not safe for concurrent use; each adapter
// invocation owns its own Set and the fetch loop is sequential.
type Set struct {
	seen map[string]struct{}
}

// NewSet returns an empty run-scoped URL set.
func NewSet() *Set {
	return &Set{seen: make(map[string]struct{})}
}

// Add records url and reports whether this is its first occurrence. Later
// occurrences return false so callers drop them silently; routine overlap
// between category feeds is not a fault.
func (s *Set) Add(url string) bool {
	if _, ok := s.seen[url]; ok {
		return false
	}
	s.seen[url] = struct{}{}
	return true
}

// Len returns the number of distinct URLs recorded.
func (s *Set) Len() int {
	return len(s.seen)
}
