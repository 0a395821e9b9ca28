package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregatedRecords_AppendConcatenatesInOrder(t *testing.T) {
	records := NewAggregatedRecords()

	assert.True(t, records.Append("7", "first  line "))
	assert.False(t, records.Append("7", "second\tline"))
	assert.True(t, records.Append("3", "other"))

	text, ok := records.Text("7")
	require.True(t, ok)
	assert.Equal(t, "first  line second\tline", text)
	assert.Equal(t, 2, records.Len())
}

func TestAggregatedRecords_KeysInFirstSeenOrder(t *testing.T) {
	records := NewAggregatedRecords()
	records.Append("30", "a")
	records.Append("4", "b")
	records.Append("30", "c")
	records.Append("12", "d")

	assert.Equal(t, []TraceID{"30", "4", "12"}, records.Keys())

	var seen []TraceID
	var texts []string
	records.Each(func(id TraceID, text string) {
		seen = append(seen, id)
		texts = append(texts, text)
	})
	assert.Equal(t, []TraceID{"30", "4", "12"}, seen)
	assert.Equal(t, []string{"ac", "b", "d"}, texts)
}

func TestAggregatedRecords_Missing(t *testing.T) {
	records := NewAggregatedRecords()
	_, ok := records.Text("1")
	assert.False(t, ok)

	var nilRecords *AggregatedRecords
	assert.Equal(t, 0, nilRecords.Len())
	assert.Nil(t, nilRecords.Keys())
	nilRecords.Each(func(TraceID, string) { t.Fatal("unexpected record") })
}
