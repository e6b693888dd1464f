// Package pdftext reads the native text layer of a PDF and hands the
// extraction pipeline one RawPage per physical page. Besides the plain
// text it reconstructs one coarse table per page by splitting text rows
// on large horizontal gaps, which is enough for the label/value header
// rows and the numbered detail rows of tabular invoices.
package pdftext

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"belegexport/internal/extract"
	"belegexport/internal/logger"
)

// cellGapPoints is the horizontal gap (in text-space units) treated as
// a column boundary when rebuilding table cells.
const cellGapPoints = 30.0

// ReadFile extracts all pages of a PDF. Pages whose text layer cannot
// be decoded are returned empty; only a document that cannot be opened
// at all is a hard failure.
func ReadFile(path string) ([]extract.RawPage, error) {
	const op = "ReadFile"
	log := logger.WithComponent("pdftext")

	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to open %s: %w", op, path, err)
	}
	defer f.Close()

	pages := make([]extract.RawPage, 0, reader.NumPage())
	for i := 1; i <= reader.NumPage(); i++ {
		page := extract.RawPage{Number: i, Confidence: 100}

		p := reader.Page(i)
		if p.V.IsNull() {
			log.Warn().Int("page", i).Str("file", path).Msg("Seite ohne Inhalt")
			pages = append(pages, page)
			continue
		}

		rows, err := p.GetTextByRow()
		if err != nil {
			log.Warn().Int("page", i).Str("file", path).Err(err).Msg("Textebene nicht lesbar")
			pages = append(pages, page)
			continue
		}

		text, table := renderRows(rows)
		page.Text = text
		if len(table) > 0 {
			page.Tables = [][][]string{table}
		}
		pages = append(pages, page)
	}

	return pages, nil
}

// HasText reports whether any page carries native text. Documents
// without a text layer go to the OCR service instead.
func HasText(pages []extract.RawPage) bool {
	for _, p := range pages {
		if strings.TrimSpace(p.Text) != "" {
			return true
		}
	}
	return false
}

// renderRows turns the position-sorted text rows into page text plus a
// coarse table. Rows that split into more than one cell become table
// rows; all rows contribute to the text.
func renderRows(rows pdf.Rows) (string, [][]string) {
	sorted := append(pdf.Rows(nil), rows...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Position > sorted[j].Position
	})

	var lines []string
	var table [][]string
	for _, row := range sorted {
		cells := splitRowCells(row.Content)
		if len(cells) == 0 {
			continue
		}
		lines = append(lines, strings.Join(cells, " "))
		if len(cells) > 1 {
			table = append(table, cells)
		}
	}
	return strings.Join(lines, "\n"), table
}

func splitRowCells(content pdf.TextHorizontal) []string {
	texts := append([]pdf.Text(nil), content...)
	sort.SliceStable(texts, func(i, j int) bool {
		return texts[i].X < texts[j].X
	})

	var cells []string
	var cell strings.Builder
	var prevEnd float64
	for i, t := range texts {
		if i > 0 && t.X-prevEnd > cellGapPoints {
			if c := strings.TrimSpace(cell.String()); c != "" {
				cells = append(cells, c)
			}
			cell.Reset()
		}
		cell.WriteString(t.S)
		prevEnd = t.X + t.W
	}
	if c := strings.TrimSpace(cell.String()); c != "" {
		cells = append(cells, c)
	}
	return cells
}
