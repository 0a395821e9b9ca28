// Package udextract exposes the two-pass log extraction as a library call.
package udextract

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"fjacquet/ud-extract/internal/config"
	"fjacquet/ud-extract/internal/container"
	"fjacquet/ud-extract/internal/extractor"
	"fjacquet/ud-extract/internal/linesource"
	"fjacquet/ud-extract/internal/logging"
	"fjacquet/ud-extract/internal/report"

	"github.com/sirupsen/logrus"
)

// Options tunes an extraction. The zero value reads the file twice with
// automatic decompression and writes the text report.
type Options struct {
	// Format is text, csv, json or yaml. Empty means text.
	Format string
	// Compression is auto, none, gzip or zstd. Empty means auto.
	Compression string
	// MaxLineBytes bounds a single input line. Zero means 20 MiB.
	MaxLineBytes int
	// InMemory reads the input once and scans the buffer for both passes.
	InMemory bool
	// Strict aborts on a matching line without a trace id.
	Strict bool
	// Sort orders the report by trace id instead of first appearance.
	Sort bool
	// Logger receives progress and warnings. Nil discards them.
	Logger *logrus.Logger
}

func (o Options) config() (*config.Config, error) {
	format, err := report.ParseFormat(o.Format)
	if err != nil {
		return nil, err
	}
	compression, err := linesource.ParseCompression(o.Compression)
	if err != nil {
		return nil, err
	}
	if o.MaxLineBytes < 0 {
		return nil, fmt.Errorf("max line bytes must not be negative, got: %d", o.MaxLineBytes)
	}
	maxLine := o.MaxLineBytes
	if maxLine == 0 {
		maxLine = linesource.DefaultMaxLineBytes
	}

	return &config.Config{
		Log: config.LogConfig{Level: "info", Format: "text"},
		Input: config.InputConfig{
			MaxLineBytes: maxLine,
			Compression:  string(compression),
			InMemory:     o.InMemory,
		},
		Extract: config.ExtractConfig{
			Strict:           o.Strict,
			ProgressInterval: extractor.DefaultProgressInterval,
		},
		Output: config.OutputConfig{Format: string(format), Sort: o.Sort},
	}, nil
}

func (o Options) logger() logging.Logger {
	if o.Logger == nil {
		return logging.NewDiscardLogger()
	}
	return logging.NewLogrusAdapterFromLogger(o.Logger)
}

// Extract runs both passes over the log at path for the merchant/product
// pair and writes the report to w. Nothing is written when an error occurs.
func Extract(ctx context.Context, path, merchant, product string, w io.Writer, opts Options) error {
	cfg, err := opts.config()
	if err != nil {
		return err
	}

	app, err := container.NewContainerWithLogger(cfg, opts.logger())
	if err != nil {
		return err
	}

	rows, err := app.Extract(ctx, container.Request{InputFile: path, MerchantID: merchant, ProductID: product})
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := report.Write(&buf, rows, cfg.ReportFormat()); err != nil {
		return err
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("error writing report: %w", err)
	}
	return nil
}
