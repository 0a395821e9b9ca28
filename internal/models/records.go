package models

import "strings"

// AggregatedRecords maps each tracked trace id to the concatenation, in file
// order, of every line carrying it. Keys iterate in first-seen order.
type AggregatedRecords struct {
	order []TraceID
	text  map[TraceID]*strings.Builder
}

// NewAggregatedRecords returns an empty record map.
func NewAggregatedRecords() *AggregatedRecords {
	return &AggregatedRecords{text: make(map[TraceID]*strings.Builder)}
}

// Append adds line to the record of id, creating it on first use, and
// reports whether a new record was created. Lines are joined without a
// separator.
func (r *AggregatedRecords) Append(id TraceID, line string) bool {
	b, ok := r.text[id]
	if !ok {
		b = &strings.Builder{}
		r.text[id] = b
		r.order = append(r.order, id)
	}
	b.WriteString(line)
	return !ok
}

// Len returns the number of records.
func (r *AggregatedRecords) Len() int {
	if r == nil {
		return 0
	}
	return len(r.order)
}

// Text returns the accumulated text of id.
func (r *AggregatedRecords) Text(id TraceID) (string, bool) {
	if r == nil {
		return "", false
	}
	b, ok := r.text[id]
	if !ok {
		return "", false
	}
	return b.String(), true
}

// Keys returns the ids in first-seen order.
func (r *AggregatedRecords) Keys() []TraceID {
	if r == nil {
		return nil
	}
	out := make([]TraceID, len(r.order))
	copy(out, r.order)
	return out
}

// Each calls fn for every record in first-seen order.
func (r *AggregatedRecords) Each(fn func(id TraceID, text string)) {
	if r == nil {
		return
	}
	for _, id := range r.order {
		fn(id, r.text[id].String())
	}
}
