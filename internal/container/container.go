// Package container wires the extraction pipeline from a configuration:
// logger, line source, pattern set, extractor and report generator.
package container

import (
	"context"
	"fmt"
	"os"

	"fjacquet/ud-extract/internal/config"
	"fjacquet/ud-extract/internal/extractor"
	"fjacquet/ud-extract/internal/linesource"
	"fjacquet/ud-extract/internal/logging"
	"fjacquet/ud-extract/internal/matcher"
	"fjacquet/ud-extract/internal/models"
	"fjacquet/ud-extract/internal/report"
)

// Request names the input and the merchant/product pair to extract.
type Request struct {
	InputFile  string
	MerchantID string
	ProductID  string
}

// Container holds the application dependencies. It is immutable after
// creation.
type Container struct {
	logger logging.Logger
	config *config.Config
}

// NewContainer creates a container logging to stderr as configured.
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	return NewContainerWithLogger(cfg, cfg.NewLogger(os.Stderr))
}

// NewContainerWithLogger creates a container around an existing logger.
func NewContainerWithLogger(cfg *config.Config, logger logging.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	logger.Debug("Container initialized",
		logging.F("in_memory", cfg.Input.InMemory),
		logging.F("strict", cfg.Extract.Strict),
		logging.F(logging.FieldFormat, cfg.Output.Format))

	return &Container{logger: logger, config: cfg}, nil
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// NewSource returns the line source for path: a file re-opened on every pass,
// or the whole decoded file held in memory when input.in_memory is set.
func (c *Container) NewSource(path string) (linesource.Source, error) {
	opts := c.config.LineSourceOptions()
	if !c.config.Input.InMemory {
		return linesource.NewFileSource(path, opts), nil
	}

	src, err := linesource.LoadMemorySource(path, opts)
	if err != nil {
		return nil, err
	}
	c.logger.Info("Input loaded into memory",
		logging.F(logging.FieldInputFile, path),
		logging.F("bytes", src.Size()))
	return src, nil
}

// NewExtractor builds the two-pass extractor for patterns.
func (c *Container) NewExtractor(patterns *matcher.Patterns) *extractor.Extractor {
	return extractor.New(patterns, c.logger, extractor.Options{
		Strict:           c.config.Extract.Strict,
		ProgressInterval: c.config.Extract.ProgressInterval,
	})
}

// NewReportGenerator builds the report generator for patterns.
func (c *Container) NewReportGenerator(patterns *matcher.Patterns) *report.Generator {
	return report.NewGenerator(patterns, c.logger)
}

// Extract runs both passes over the request input and returns the report
// rows, sorted by id when output.sort is set.
func (c *Container) Extract(ctx context.Context, req Request) ([]models.ReportRow, error) {
	patterns, src, err := c.prepare(req)
	if err != nil {
		return nil, err
	}

	result, err := c.NewExtractor(patterns).Run(ctx, src)
	if err != nil {
		return nil, err
	}

	rows := c.NewReportGenerator(patterns).Generate(result.Records)
	if c.config.Output.Sort {
		report.SortRows(rows)
	}
	return rows, nil
}

// DiscoverIDs runs only the discovery pass and returns the sorted ids.
func (c *Container) DiscoverIDs(ctx context.Context, req Request) ([]models.TraceID, error) {
	patterns, src, err := c.prepare(req)
	if err != nil {
		return nil, err
	}

	ids, err := c.NewExtractor(patterns).Discover(ctx, src)
	if err != nil {
		return nil, err
	}
	return ids.IDs(), nil
}

func (c *Container) prepare(req Request) (*matcher.Patterns, linesource.Source, error) {
	patterns, err := matcher.New(req.MerchantID, req.ProductID)
	if err != nil {
		return nil, nil, err
	}

	src, err := c.NewSource(req.InputFile)
	if err != nil {
		return nil, nil, err
	}
	return patterns, src, nil
}
