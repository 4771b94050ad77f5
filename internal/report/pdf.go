package report

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
)

const (
	pageMargin = 20.0
	lineHeight = 6.0
)

type rgb struct{ r, g, b int }

var (
	colorText    = rgb{30, 30, 30}
	colorCorrect = rgb{22, 128, 61}
	colorWrong   = rgb{185, 28, 28}
	colorMuted   = rgb{90, 90, 90}
)

// WritePDF renders rep as an A4 PDF. Long content flows onto new pages.
func WritePDF(w io.Writer, rep Report) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.SetTitle(rep.Title, true)
	pdf.AddPage()

	// Core fonts are cp1252; translate so accented text survives.
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pageW, _ := pdf.GetPageSize()
	textW := pageW - 2*pageMargin

	setColor(pdf, colorText)
	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(textW, 12, tr(rep.Title), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 14)
	pdf.CellFormat(textW, 10, tr(rep.Summary), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	for _, e := range rep.Entries {
		setColor(pdf, colorText)
		pdf.SetFont("Helvetica", "B", 11)
		pdf.MultiCell(textW, lineHeight, tr(fmt.Sprintf("%d. %s", e.Number, e.Question)), "", "L", false)

		pdf.SetFont("Helvetica", "", 11)
		if e.Correct {
			setColor(pdf, colorCorrect)
		} else {
			setColor(pdf, colorWrong)
		}
		pdf.MultiCell(textW, lineHeight, tr(e.AnswerLine()), "", "L", false)

		if !e.Correct {
			setColor(pdf, colorMuted)
			pdf.MultiCell(textW, lineHeight, tr("Correct Answer: "+e.CorrectAnswer), "", "L", false)
		}
		pdf.Ln(3)
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func setColor(pdf *fpdf.Fpdf, c rgb) {
	pdf.SetTextColor(c.r, c.g, c.b)
}
