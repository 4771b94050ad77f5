package document

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

var pdfMagic = []byte("%PDF-")

// runFunc converts the PDF at path into text.
type runFunc func(ctx context.Context, path string) ([]byte, error)

// PDFExtractor shells out to poppler's pdftotext.
type PDFExtractor struct {
	// Command is the pdftotext binary name or path.
	Command string

	run runFunc
}

// NewPDFExtractor creates an extractor that runs pdftotext from PATH.
func NewPDFExtractor() *PDFExtractor {
	p := &PDFExtractor{Command: "pdftotext"}
	p.run = p.pdftotext
	return p
}

// Extract copies the PDF to a temporary file, converts it and joins the
// pages in order with one newline between them.
func (p *PDFExtractor) Extract(ctx context.Context, r io.Reader) (string, error) {
	br := bufio.NewReader(r)
	head, _ := br.Peek(len(pdfMagic))
	if !bytes.Equal(head, pdfMagic) {
		return "", fmt.Errorf("%w: not a PDF file", ErrUnreadable)
	}

	tmp, err := os.CreateTemp("", "talas-*.pdf")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	_, err = io.Copy(tmp, br)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", fmt.Errorf("buffer PDF: %w", err)
	}

	out, err := p.run(ctx, tmp.Name())
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	return requireText(joinPages(string(out)))
}

func (p *PDFExtractor) pdftotext(ctx context.Context, path string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, p.Command, "-enc", "UTF-8", path, "-")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return nil, fmt.Errorf("%s not found in PATH (install poppler-utils)", p.Command)
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%s failed: %w: %s", p.Command, err, msg)
		}
		return nil, fmt.Errorf("%s failed: %w", p.Command, err)
	}
	return out, nil
}

// joinPages splits pdftotext output on form feeds and joins the pages with
// a single newline.
func joinPages(out string) string {
	pages := strings.Split(out, "\f")
	if n := len(pages); n > 1 && strings.TrimSpace(pages[n-1]) == "" {
		pages = pages[:n-1]
	}
	for i, pg := range pages {
		pages[i] = strings.TrimRight(pg, "\n")
	}
	return strings.Join(pages, "\n")
}
