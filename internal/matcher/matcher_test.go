package matcher_test

import (
	"testing"

	"fjacquet/ud-extract/internal/extracterror"
	"fjacquet/ud-extract/internal/matcher"
	"fjacquet/ud-extract/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustPatterns(t *testing.T, merchant, product string) *matcher.Patterns {
	t.Helper()
	p, err := matcher.New(merchant, product)
	require.NoError(t, err)
	return p
}

func TestNew_RejectsEmptyIDs(t *testing.T) {
	_, err := matcher.New("", "productX")
	assert.ErrorIs(t, err, extracterror.ErrInvalidArguments)

	_, err = matcher.New("merchantA", "")
	assert.ErrorIs(t, err, extracterror.ErrInvalidArguments)
}

func TestMatchesFilter(t *testing.T) {
	p := mustPatterns(t, "merchantA", "productX")

	tests := []struct {
		name     string
		line     string
		expected bool
	}{
		{name: "merchant then product", line: "merchantA order for productX, traceId: 42,", expected: true},
		{name: "adjacent", line: "merchantAproductX", expected: true},
		{name: "product before merchant", line: "productX sold by merchantA", expected: false},
		{name: "merchant only", line: "merchantA traceId: 1,", expected: false},
		{name: "empty line", line: "", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, p.MatchesFilter(tt.line))
		})
	}
}

func TestMatchesFilter_IDsAreLiteral(t *testing.T) {
	p := mustPatterns(t, "m.1", "p+")

	assert.True(t, p.MatchesFilter("m.1 buys p+"))
	assert.False(t, p.MatchesFilter("mx1 buys pp"))
	assert.Equal(t, "m.1", p.MerchantID())
	assert.Equal(t, "p+", p.ProductID())
}

func TestTraceID(t *testing.T) {
	p := mustPatterns(t, "m", "p")

	tests := []struct {
		name     string
		line     string
		expected models.TraceID
		ok       bool
	}{
		{name: "with space and comma", line: "x traceId: 42, y", expected: "42", ok: true},
		{name: "no whitespace", line: "traceId:7", expected: "7", ok: true},
		{name: "several spaces", line: "traceId:   900 end", expected: "900", ok: true},
		{name: "first occurrence wins", line: "traceId: 1, traceId: 2,", expected: "1", ok: true},
		{name: "no digits", line: "traceId: abc", ok: false},
		{name: "absent", line: "nothing here", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := p.TraceID(tt.line)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, id)
		})
	}
}

func TestStatusAndRetCode(t *testing.T) {
	p := mustPatterns(t, "m", "p")

	tests := []struct {
		name       string
		text       string
		status     string
		hasStatus  bool
		retCode    string
		hasRetCode bool
	}{
		{
			name:   "loose key value",
			text:   `merchantA order for productX, traceId: 42, status: "200", retCode 0`,
			status: "200", hasStatus: true, retCode: "0", hasRetCode: true,
		},
		{
			name:   "json like",
			text:   `{"status":"404","retCode":17}`,
			status: "404", hasStatus: true, retCode: "17", hasRetCode: true,
		},
		{
			name:    "unquoted status does not match",
			text:    `status: 200 retCode=3`,
			retCode: "3", hasRetCode: true,
		},
		{
			name: "neither field",
			text: `traceId: 5, done`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, ok := p.Status(tt.text)
			assert.Equal(t, tt.hasStatus, ok)
			assert.Equal(t, tt.status, status)

			retCode, ok := p.RetCode(tt.text)
			assert.Equal(t, tt.hasRetCode, ok)
			assert.Equal(t, tt.retCode, retCode)
		})
	}
}
