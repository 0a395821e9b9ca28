package linesource

import (
	"bytes"
	"context"
	"errors"
	"io"

	"fjacquet/ud-extract/internal/extracterror"
	"fjacquet/ud-extract/internal/fileutils"
)

// FileSource re-opens its file on every Scan.
type FileSource struct {
	path string
	opts Options
}

// NewFileSource returns a Source reading path.
func NewFileSource(path string, opts Options) *FileSource {
	return &FileSource{path: path, opts: opts.withDefaults()}
}

// Name implements Source.
func (s *FileSource) Name() string { return s.path }

// Scan implements Source. The file handle is closed before Scan returns.
func (s *FileSource) Scan(ctx context.Context, fn LineFunc) (err error) {
	r, closeFn, err := openDecoded(s.path, s.opts.Compression)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeFn(); cerr != nil && err == nil {
			err = &extracterror.InputError{FilePath: s.path, Op: "close", Err: cerr}
		}
	}()

	return scanLines(ctx, r, s.path, s.opts.MaxLineBytes, fn)
}

// MemorySource holds the decoded file in memory and replays it on every Scan.
type MemorySource struct {
	path string
	data []byte
	opts Options
}

// LoadMemorySource reads and decodes path once.
func LoadMemorySource(path string, opts Options) (*MemorySource, error) {
	opts = opts.withDefaults()

	r, closeFn, err := openDecoded(path, opts.Compression)
	if err != nil {
		return nil, err
	}

	data, err := io.ReadAll(r)
	cerr := closeFn()
	if err != nil {
		return nil, &extracterror.InputError{FilePath: path, Op: "read", Err: err}
	}
	if cerr != nil {
		return nil, &extracterror.InputError{FilePath: path, Op: "close", Err: cerr}
	}

	return &MemorySource{path: path, data: data, opts: opts}, nil
}

// Name implements Source.
func (s *MemorySource) Name() string { return s.path }

// Size returns the number of decoded bytes held.
func (s *MemorySource) Size() int { return len(s.data) }

// Scan implements Source.
func (s *MemorySource) Scan(ctx context.Context, fn LineFunc) error {
	return scanLines(ctx, bytes.NewReader(s.data), s.path, s.opts.MaxLineBytes, fn)
}

// openDecoded opens path and layers the decoder on top. The returned close
// function releases both.
func openDecoded(path string, c Compression) (io.Reader, func() error, error) {
	f, err := fileutils.OpenFile(path)
	if err != nil {
		return nil, nil, &extracterror.InputError{FilePath: path, Op: "open", Err: err}
	}

	r, closeDecoder, err := decoder(f, c)
	if err != nil {
		_ = f.Close()
		return nil, nil, &extracterror.InputError{FilePath: path, Op: "decompress", Err: err}
	}

	return r, func() error {
		return errors.Join(closeDecoder(), f.Close())
	}, nil
}
