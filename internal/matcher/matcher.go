// Package matcher holds the text patterns used to select and correlate log
// lines: the merchant/product filter, the trace id extractor and the status
// and return-code extractors applied to aggregated records.
package matcher

import (
	"fmt"
	"regexp"

	"fjacquet/ud-extract/internal/extracterror"
	"fjacquet/ud-extract/internal/models"
)

// Fixed patterns. A malformed one is a programmer error, so they panic at init.
var (
	traceIDPattern = regexp.MustCompile(`traceId:\s*(\d+)`)
	statusPattern  = regexp.MustCompile(`status[^\d]*"(\d+)"`)
	retCodePattern = regexp.MustCompile(`retCode[^\d]*(\d+)`)
)

// Patterns is the compiled pattern set for one merchant/product pair.
type Patterns struct {
	merchantID string
	productID  string
	filter     *regexp.Regexp
}

// New compiles the filter for merchantID followed, anywhere later on the
// same line, by productID. Both ids are matched literally.
func New(merchantID, productID string) (*Patterns, error) {
	if merchantID == "" {
		return nil, fmt.Errorf("%w: merchant id must not be empty", extracterror.ErrInvalidArguments)
	}
	if productID == "" {
		return nil, fmt.Errorf("%w: product id must not be empty", extracterror.ErrInvalidArguments)
	}

	expr := regexp.QuoteMeta(merchantID) + ".*" + regexp.QuoteMeta(productID)
	filter, err := regexp.Compile(expr)
	if err != nil {
		return nil, &extracterror.PatternError{Pattern: expr, Err: err}
	}

	return &Patterns{
		merchantID: merchantID,
		productID:  productID,
		filter:     filter,
	}, nil
}

// MerchantID returns the merchant the filter was built for.
func (p *Patterns) MerchantID() string { return p.merchantID }

// ProductID returns the product the filter was built for.
func (p *Patterns) ProductID() string { return p.productID }

// MatchesFilter reports whether line mentions the merchant and then the product.
func (p *Patterns) MatchesFilter(line string) bool {
	return p.filter.MatchString(line)
}

// TraceID extracts the digits following "traceId:".
func (p *Patterns) TraceID(line string) (models.TraceID, bool) {
	v, ok := capture(traceIDPattern, line)
	return models.TraceID(v), ok
}

// Status extracts the quoted digits of the first status field in text.
func (p *Patterns) Status(text string) (string, bool) {
	return capture(statusPattern, text)
}

// RetCode extracts the digits of the first retCode field in text.
func (p *Patterns) RetCode(text string) (string, bool) {
	return capture(retCodePattern, text)
}

func capture(re *regexp.Regexp, s string) (string, bool) {
	matches := re.FindStringSubmatch(s)
	if len(matches) < 2 {
		return "", false
	}
	return matches[1], true
}
