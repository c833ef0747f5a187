package model

import (
	"sort"
	"strings"
)

// JobSet is an order-insensitive set of backup job names.
// The zero value is an empty, read-only set; use NewJobSet to build one.
type JobSet map[string]struct{}

// NewJobSet builds a set from names. Duplicates collapse.
func NewJobSet(names ...string) JobSet {
	s := make(JobSet, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// Add inserts name into the set.
func (s JobSet) Add(name string) {
	s[name] = struct{}{}
}

// Contains reports whether name is in the set.
func (s JobSet) Contains(name string) bool {
	_, ok := s[name]
	return ok
}

// Len returns the number of distinct names.
func (s JobSet) Len() int {
	return len(s)
}

// Sorted returns the names in ascending order.
func (s JobSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Equal reports set equality.
func (s JobSet) Equal(other JobSet) bool {
	if len(s) != len(other) {
		return false
	}
	for n := range s {
		if !other.Contains(n) {
			return false
		}
	}
	return true
}

// SymmetricDifference returns the names present in exactly one of the two sets.
func (s JobSet) SymmetricDifference(other JobSet) JobSet {
	diff := make(JobSet)
	for n := range s {
		if !other.Contains(n) {
			diff.Add(n)
		}
	}
	for n := range other {
		if !s.Contains(n) {
			diff.Add(n)
		}
	}
	return diff
}

// String renders the set as a sorted bracketed list, e.g. [db1 db2].
func (s JobSet) String() string {
	return "[" + strings.Join(s.Sorted(), " ") + "]"
}
