package document

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"unicode/utf8"
)

// DefaultMaxBytes bounds how much of an upload is read.
const DefaultMaxBytes = 20 << 20

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// PlainTextExtractor reads UTF-8 text and Markdown files as-is.
type PlainTextExtractor struct {
	// MaxBytes caps the read size. Zero means DefaultMaxBytes.
	MaxBytes int64
}

func (p *PlainTextExtractor) Extract(_ context.Context, r io.Reader) (string, error) {
	limit := p.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxBytes
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	if int64(len(data)) > limit {
		return "", fmt.Errorf("%w: larger than %d bytes", ErrUnreadable, limit)
	}
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: not valid UTF-8 text", ErrUnreadable)
	}
	return requireText(string(data))
}
