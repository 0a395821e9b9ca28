// Package models defines the data carried between the extraction passes:
// the trace identifier set built by discovery, the per-identifier aggregated
// records built by aggregation, and the rows of the final report.
package models

import (
	"sort"
	"strings"
)

// TraceID is the opaque token correlating the log lines of one transaction.
type TraceID string

// IdentifierSet is the set of trace ids discovered in pass 1.
// It is filled only by discovery and is read-only afterwards.
type IdentifierSet struct {
	ids map[TraceID]struct{}
}

// NewIdentifierSet returns an empty set.
func NewIdentifierSet() *IdentifierSet {
	return &IdentifierSet{ids: make(map[TraceID]struct{})}
}

// Add inserts id and reports whether it was not already present.
func (s *IdentifierSet) Add(id TraceID) bool {
	if _, ok := s.ids[id]; ok {
		return false
	}
	s.ids[id] = struct{}{}
	return true
}

// Contains reports whether id is in the set.
func (s *IdentifierSet) Contains(id TraceID) bool {
	if s == nil {
		return false
	}
	_, ok := s.ids[id]
	return ok
}

// Len returns the number of distinct ids.
func (s *IdentifierSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.ids)
}

// IDs returns the ids sorted with CompareTraceIDs.
func (s *IdentifierSet) IDs() []TraceID {
	out := make([]TraceID, 0, s.Len())
	if s == nil {
		return out
	}
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool {
		return CompareTraceIDs(out[i], out[j]) < 0
	})
	return out
}

// CompareTraceIDs orders numeric ids by value and falls back to byte order
// for everything else. Ids that differ only in leading zeros are ordered by
// their raw text so the order stays total.
func CompareTraceIDs(a, b TraceID) int {
	if isDigits(string(a)) && isDigits(string(b)) {
		ta := strings.TrimLeft(string(a), "0")
		tb := strings.TrimLeft(string(b), "0")
		if len(ta) != len(tb) {
			if len(ta) < len(tb) {
				return -1
			}
			return 1
		}
		if c := strings.Compare(ta, tb); c != 0 {
			return c
		}
	}
	return strings.Compare(string(a), string(b))
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
