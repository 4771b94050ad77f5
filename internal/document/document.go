// Package document turns uploaded study material into plain text.
package document

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnreadable is returned when no text can be recovered from a document.
// It is an input error and never worth retrying.
var ErrUnreadable = errors.New("document is unreadable")

// Extractor pulls the text out of one document.
type Extractor interface {
	Extract(ctx context.Context, r io.Reader) (string, error)
}

// ForFile picks an extractor from the file extension.
func ForFile(name string) (Extractor, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return NewPDFExtractor(), nil
	case ".txt", ".text", ".md", ".markdown":
		return &PlainTextExtractor{}, nil
	default:
		return nil, fmt.Errorf("%w: unsupported file type %q", ErrUnreadable, filepath.Ext(name))
	}
}

// ExtractFile opens path and extracts its text.
func ExtractFile(ctx context.Context, path string) (string, error) {
	ex, err := ForFile(path)
	if err != nil {
		return "", err
	}
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ex.Extract(ctx, f)
}

func requireText(text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: no extractable text", ErrUnreadable)
	}
	return text, nil
}
