package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

const (
	pdfMargin     = 10.0
	pdfLineHeight = 5.0
	pdfMaxWeight  = 40
)

// PDFRenderer lays the dataset out as a landscape A4 table. Long cells wrap and the
// header row repeats on every page.
type PDFRenderer struct {
	now func() time.Time
}

// NewPDFRenderer constructs a PDF renderer.
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{now: time.Now}
}

// ContentType implements Renderer.
func (r *PDFRenderer) ContentType() string { return "application/pdf" }

// Extension implements Renderer.
func (r *PDFRenderer) Extension() string { return "pdf" }

// Render implements Renderer.
func (r *PDFRenderer) Render(data Dataset) ([]byte, error) {
	if err := data.validate(); err != nil {
		return nil, err
	}
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(false, pdfMargin)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-pdfMargin)
		pdf.SetFont("Arial", "I", 8)
		pdf.CellFormat(0, pdfLineHeight, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "R", false, 0, "")
	})
	pdf.AddPage()

	if data.Title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 8, tr(data.Title), "", 1, "L", false, 0, "")
	}
	pdf.SetFont("Arial", "", 8)
	pdf.CellFormat(0, pdfLineHeight, "Generated "+r.now().UTC().Format("2006-01-02 15:04 MST"), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pageWidth, pageHeight := pdf.GetPageSize()
	widths := columnWidths(data, pageWidth-2*pdfMargin)

	header := func() {
		pdf.SetFont("Arial", "B", 9)
		pdf.SetFillColor(230, 230, 230)
		writeRow(pdf, widths, translateAll(tr, data.Headers), true)
		pdf.SetFont("Arial", "", 8)
	}
	header()

	bottom := pageHeight - 2*pdfMargin
	for _, row := range data.Rows {
		cells := translateAll(tr, row)
		if pdf.GetY()+rowHeight(pdf, widths, cells) > bottom {
			pdf.AddPage()
			header()
		}
		writeRow(pdf, widths, cells, false)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// columnWidths splits the usable width in proportion to each column's longest cell,
// capped so one verbose column cannot starve the rest.
func columnWidths(data Dataset, usable float64) []float64 {
	weights := make([]int, len(data.Headers))
	total := 0
	for i, h := range data.Headers {
		w := clampWeight(len(h))
		for _, row := range data.Rows {
			if l := clampWeight(len(row[i])); l > w {
				w = l
			}
		}
		weights[i] = w
		total += w
	}
	widths := make([]float64, len(weights))
	for i, w := range weights {
		widths[i] = usable * float64(w) / float64(total)
	}
	return widths
}

func clampWeight(n int) int {
	switch {
	case n < 4:
		return 4
	case n > pdfMaxWeight:
		return pdfMaxWeight
	default:
		return n
	}
}

func rowHeight(pdf *gofpdf.Fpdf, widths []float64, cells []string) float64 {
	lines := 1
	for i, cell := range cells {
		if n := len(pdf.SplitLines([]byte(cell), widths[i]-2)); n > lines {
			lines = n
		}
	}
	return float64(lines) * pdfLineHeight
}

func writeRow(pdf *gofpdf.Fpdf, widths []float64, cells []string, fill bool) {
	height := rowHeight(pdf, widths, cells)
	x, y := pdf.GetXY()
	for i, cell := range cells {
		style := "D"
		if fill {
			style = "FD"
		}
		pdf.Rect(x, y, widths[i], height, style)
		pdf.SetXY(x, y)
		pdf.MultiCell(widths[i], pdfLineHeight, cell, "", "L", false)
		x += widths[i]
	}
	pdf.SetXY(pdfMargin, y+height)
}

func translateAll(tr func(string) string, values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = tr(v)
	}
	return out
}
