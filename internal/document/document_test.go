package document

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestForFile(t *testing.T) {
	ex, err := ForFile("notes/Biology.PDF")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := ex.(*PDFExtractor); !ok {
		t.Errorf("ForFile(.PDF) = %T, want *PDFExtractor", ex)
	}

	ex, err = ForFile("chapter.md")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := ex.(*PlainTextExtractor); !ok {
		t.Errorf("ForFile(.md) = %T, want *PlainTextExtractor", ex)
	}

	if _, err = ForFile("slides.pptx"); !errors.Is(err, ErrUnreadable) {
		t.Errorf("ForFile(.pptx) err = %v, want ErrUnreadable", err)
	}
}

func TestPlainTextExtractor(t *testing.T) {
	ex := &PlainTextExtractor{}

	text, err := ex.Extract(context.Background(), strings.NewReader("\xEF\xBB\xBFCells are the unit of life."))
	if err != nil {
		t.Fatal(err)
	}
	if text != "Cells are the unit of life." {
		t.Errorf("text = %q, want BOM stripped", text)
	}

	for _, in := range []string{"\xff\xfe\x00bad", "  \n\n "} {
		if _, err := ex.Extract(context.Background(), strings.NewReader(in)); !errors.Is(err, ErrUnreadable) {
			t.Errorf("Extract(%q) err = %v, want ErrUnreadable", in, err)
		}
	}
}

func TestPlainTextExtractor_MaxBytes(t *testing.T) {
	ex := &PlainTextExtractor{MaxBytes: 4}

	if _, err := ex.Extract(context.Background(), strings.NewReader("too long")); !errors.Is(err, ErrUnreadable) {
		t.Errorf("oversized input err = %v, want ErrUnreadable", err)
	}

	text, err := ex.Extract(context.Background(), strings.NewReader("fits"))
	if err != nil {
		t.Fatal(err)
	}
	if text != "fits" {
		t.Errorf("text = %q, want %q", text, "fits")
	}
}

func fakePDF(out string, err error) *PDFExtractor {
	return &PDFExtractor{
		Command: "pdftotext",
		run: func(context.Context, string) ([]byte, error) {
			return []byte(out), err
		},
	}
}

func TestPDFExtractor_JoinsPages(t *testing.T) {
	ex := fakePDF("Page one\n\fPage two\n\fPage three\n\f", nil)

	text, err := ex.Extract(context.Background(), strings.NewReader("%PDF-1.7 body"))
	if err != nil {
		t.Fatal(err)
	}
	if want := "Page one\nPage two\nPage three"; text != want {
		t.Errorf("text = %q, want %q", text, want)
	}
}

func TestPDFExtractor_Unreadable(t *testing.T) {
	tests := []struct {
		name  string
		ex    *PDFExtractor
		input string
	}{
		{"not a pdf", fakePDF("never used", nil), "plain text"},
		{"no text", fakePDF("\f\f", nil), "%PDF-1.4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.ex.Extract(context.Background(), strings.NewReader(tt.input)); !errors.Is(err, ErrUnreadable) {
				t.Errorf("err = %v, want ErrUnreadable", err)
			}
		})
	}
}

func TestPDFExtractor_ToolFailure(t *testing.T) {
	ex := fakePDF("", errors.New("Syntax Error: Couldn't find trailer dictionary"))

	_, err := ex.Extract(context.Background(), strings.NewReader("%PDF-1.4 broken"))
	if !errors.Is(err, ErrUnreadable) {
		t.Fatalf("err = %v, want ErrUnreadable", err)
	}
	if !strings.Contains(err.Error(), "trailer dictionary") {
		t.Errorf("err = %v, want the tool's message kept", err)
	}
}

func TestJoinPages(t *testing.T) {
	if got := joinPages("only"); got != "only" {
		t.Errorf("joinPages(single) = %q", got)
	}
	if got := joinPages("a\n\f\nb\n\f"); got != "a\n\nb" {
		t.Errorf("joinPages(two) = %q, want %q", got, "a\n\nb")
	}
}
