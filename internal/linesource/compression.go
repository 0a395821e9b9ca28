package linesource

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Compression selects how the input bytes are decoded.
type Compression string

const (
	CompressionAuto Compression = "auto"
	CompressionNone Compression = "none"
	CompressionGzip Compression = "gzip"
	CompressionZstd Compression = "zstd"
)

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// ParseCompression validates a compression name. Empty means auto.
func ParseCompression(s string) (Compression, error) {
	switch c := Compression(strings.ToLower(strings.TrimSpace(s))); c {
	case "":
		return CompressionAuto, nil
	case CompressionAuto, CompressionNone, CompressionGzip, CompressionZstd:
		return c, nil
	default:
		return "", fmt.Errorf("unsupported compression %q (must be auto, none, gzip or zstd)", s)
	}
}

// detectCompression sniffs the magic bytes at the head of br.
func detectCompression(br *bufio.Reader) (Compression, error) {
	head, err := br.Peek(len(zstdMagic))
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	switch {
	case bytes.HasPrefix(head, gzipMagic):
		return CompressionGzip, nil
	case bytes.HasPrefix(head, zstdMagic):
		return CompressionZstd, nil
	default:
		return CompressionNone, nil
	}
}

// decoder wraps r according to c. The returned close function releases the
// decoder only; the underlying reader is owned by the caller.
func decoder(r io.Reader, c Compression) (io.Reader, func() error, error) {
	br := bufio.NewReader(r)
	noop := func() error { return nil }

	if c == CompressionAuto || c == "" {
		detected, err := detectCompression(br)
		if err != nil {
			return nil, nil, err
		}
		c = detected
	}

	switch c {
	case CompressionGzip:
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, nil, fmt.Errorf("gzip: %w", err)
		}
		return zr, zr.Close, nil
	case CompressionZstd:
		zr, err := zstd.NewReader(br)
		if err != nil {
			return nil, nil, fmt.Errorf("zstd: %w", err)
		}
		return zr, func() error { zr.Close(); return nil }, nil
	case CompressionNone:
		return br, noop, nil
	default:
		return nil, nil, fmt.Errorf("unsupported compression %q", c)
	}
}
