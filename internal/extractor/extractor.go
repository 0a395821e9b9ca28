// Package extractor implements the two-pass semi-join over a log file.
//
// Pass 1 (Discover) collects the trace ids of lines matching the
// merchant/product filter. Pass 2 (Aggregate) re-reads the whole input and
// concatenates every line whose trace id was discovered, whether or not the
// line itself mentions the merchant or product.
package extractor

import (
	"context"
	"fmt"
	"time"

	"fjacquet/ud-extract/internal/extracterror"
	"fjacquet/ud-extract/internal/linesource"
	"fjacquet/ud-extract/internal/logging"
	"fjacquet/ud-extract/internal/matcher"
	"fjacquet/ud-extract/internal/models"
)

// DefaultProgressInterval is the size step between progress diagnostics.
const DefaultProgressInterval = 1000

// Options tunes the passes.
type Options struct {
	// Strict aborts discovery when a filter-matched line has no trace id.
	// Otherwise the line is reported and skipped.
	Strict bool

	// ProgressInterval is the set/record count step at which progress is
	// logged. Zero or less means DefaultProgressInterval.
	ProgressInterval int
}

// Extractor runs the discovery and aggregation passes for one
// merchant/product pair.
type Extractor struct {
	patterns *matcher.Patterns
	logger   logging.Logger
	opts     Options
}

// Result bundles the output of both passes.
type Result struct {
	IDs     *models.IdentifierSet
	Records *models.AggregatedRecords
}

// New creates an Extractor. A nil logger discards diagnostics.
func New(patterns *matcher.Patterns, logger logging.Logger, opts Options) *Extractor {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	if opts.ProgressInterval <= 0 {
		opts.ProgressInterval = DefaultProgressInterval
	}
	return &Extractor{
		patterns: patterns,
		logger: logger.WithFields(
			logging.F(logging.FieldMerchant, patterns.MerchantID()),
			logging.F(logging.FieldProduct, patterns.ProductID()),
		),
		opts: opts,
	}
}

// Run executes Discover then Aggregate on src. Pass 2 starts only after
// pass 1 has consumed the whole input.
func (e *Extractor) Run(ctx context.Context, src linesource.Source) (*Result, error) {
	ids, err := e.Discover(ctx, src)
	if err != nil {
		return nil, err
	}

	records, err := e.Aggregate(ctx, src, ids)
	if err != nil {
		return nil, err
	}

	return &Result{IDs: ids, Records: records}, nil
}

// Discover scans src and returns the distinct trace ids found on lines
// matching the merchant/product filter.
func (e *Extractor) Discover(ctx context.Context, src linesource.Source) (*models.IdentifierSet, error) {
	log := e.logger.WithFields(
		logging.F(logging.FieldPass, 1),
		logging.F(logging.FieldInputFile, src.Name()),
	)
	log.Info("Starting discovery pass")
	start := time.Now()

	ids := models.NewIdentifierSet()
	lineNumber := 0
	skipped := 0

	err := src.Scan(ctx, func(line string) error {
		lineNumber++
		if !e.patterns.MatchesFilter(line) {
			return nil
		}

		id, ok := e.patterns.TraceID(line)
		if !ok {
			if e.opts.Strict {
				return &extracterror.DataExtractionError{
					FilePath:       src.Name(),
					LineNumber:     lineNumber,
					FieldName:      "traceId",
					RawDataSnippet: line,
					Err:            extracterror.ErrMissingTraceID,
				}
			}
			skipped++
			log.Warn("Filter-matched line has no trace id, skipping",
				logging.F(logging.FieldLineNumber, lineNumber),
				logging.F(logging.FieldLine, extracterror.Snippet(line)))
			return nil
		}

		if ids.Add(id) && ids.Len()%e.opts.ProgressInterval == 0 {
			log.Info("Trace ids stored", logging.F(logging.FieldCount, ids.Len()))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discovery pass: %w", err)
	}

	log.Info("Discovery pass done",
		logging.F(logging.FieldCount, ids.Len()),
		logging.F(logging.FieldLines, lineNumber),
		logging.F("skipped", skipped),
		logging.F(logging.FieldDuration, time.Since(start).Milliseconds()))

	return ids, nil
}

// Aggregate scans src again and appends every line whose trace id is in ids
// to that id's record, in file order. Lines without a trace id, or with an
// untracked one, are ignored.
func (e *Extractor) Aggregate(ctx context.Context, src linesource.Source, ids *models.IdentifierSet) (*models.AggregatedRecords, error) {
	log := e.logger.WithFields(
		logging.F(logging.FieldPass, 2),
		logging.F(logging.FieldInputFile, src.Name()),
	)
	log.Info("Starting aggregation pass", logging.F("tracked_ids", ids.Len()))
	start := time.Now()

	records := models.NewAggregatedRecords()
	lineNumber := 0
	matched := 0

	err := src.Scan(ctx, func(line string) error {
		lineNumber++
		id, ok := e.patterns.TraceID(line)
		if !ok || !ids.Contains(id) {
			return nil
		}

		matched++
		if records.Append(id, line) && records.Len()%e.opts.ProgressInterval == 0 {
			log.Info("Records stored", logging.F(logging.FieldCount, records.Len()))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("aggregation pass: %w", err)
	}

	log.Info("Aggregation pass done",
		logging.F(logging.FieldCount, records.Len()),
		logging.F(logging.FieldLines, lineNumber),
		logging.F("matched_lines", matched),
		logging.F(logging.FieldDuration, time.Since(start).Milliseconds()))

	return records, nil
}
