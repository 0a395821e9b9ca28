// Package linesource turns a log file into a restartable, forward-only
// sequence of lines. Every Scan starts again from the first line, so the
// extraction passes can each read the whole input independently.
package linesource

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"fjacquet/ud-extract/internal/extracterror"
)

// DefaultMaxLineBytes is the longest line accepted by default (20 MiB).
const DefaultMaxLineBytes = 20 * 1024 * 1024

// cancelCheckInterval is how many lines are read between context checks.
const cancelCheckInterval = 4096

// LineFunc receives each line with its terminator stripped. Returning an
// error stops the scan and is passed through unchanged.
type LineFunc func(line string) error

// Source is a re-readable sequence of lines.
type Source interface {
	// Scan reads the input from the start and calls fn for every line in
	// order. Resources acquired for the scan are released before it returns.
	Scan(ctx context.Context, fn LineFunc) error

	// Name identifies the input in diagnostics.
	Name() string
}

// Options controls how a file is decoded.
type Options struct {
	Compression  Compression
	MaxLineBytes int
}

// DefaultOptions returns auto-detected compression and the default line limit.
func DefaultOptions() Options {
	return Options{
		Compression:  CompressionAuto,
		MaxLineBytes: DefaultMaxLineBytes,
	}
}

func (o Options) withDefaults() Options {
	if o.Compression == "" {
		o.Compression = CompressionAuto
	}
	if o.MaxLineBytes <= 0 {
		o.MaxLineBytes = DefaultMaxLineBytes
	}
	return o
}

// scanLines feeds every line of r to fn. Scanner failures (including lines
// above maxLineBytes) are reported as read errors on name.
func scanLines(ctx context.Context, r io.Reader, name string, maxLineBytes int, fn LineFunc) error {
	initial := 64 * 1024
	if maxLineBytes < initial {
		initial = maxLineBytes
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, initial), maxLineBytes)

	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		if lineNumber%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		if err := fn(scanner.Text()); err != nil {
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		return &extracterror.InputError{
			FilePath: name,
			Op:       "read",
			Err:      fmt.Errorf("after line %d: %w", lineNumber, err),
		}
	}
	return ctx.Err()
}

// StringSource serves lines from an in-memory string. Useful for tests and
// for callers that already hold the log text.
type StringSource struct {
	name string
	text string
}

// NewStringSource returns a Source over text.
func NewStringSource(name, text string) *StringSource {
	return &StringSource{name: name, text: text}
}

// Scan implements Source.
func (s *StringSource) Scan(ctx context.Context, fn LineFunc) error {
	return scanLines(ctx, strings.NewReader(s.text), s.name, DefaultMaxLineBytes, fn)
}

// Name implements Source.
func (s *StringSource) Name() string { return s.name }
