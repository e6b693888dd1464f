package pdftext

import (
	"testing"

	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"belegexport/internal/extract"
)

func textAt(x, w float64, s string) pdf.Text {
	return pdf.Text{X: x, W: w, S: s}
}

func TestSplitRowCells(t *testing.T) {
	// "Rechnungsnummer" and "123456789" separated by a wide gap.
	cells := splitRowCells(pdf.TextHorizontal{
		textAt(50, 80, "Rechnungsnummer"),
		textAt(300, 60, "123456789"),
	})
	assert.Equal(t, []string{"Rechnungsnummer", "123456789"}, cells)

	// Adjacent fragments merge into one cell.
	cells = splitRowCells(pdf.TextHorizontal{
		textAt(50, 30, "Rech"),
		textAt(80, 50, "nungsnummer"),
	})
	assert.Equal(t, []string{"Rechnungsnummer"}, cells)

	assert.Empty(t, splitRowCells(nil))
}

func TestRenderRows(t *testing.T) {
	rows := pdf.Rows{
		// Lower position = further down the page.
		&pdf.Row{Position: 700, Content: pdf.TextHorizontal{
			textAt(50, 80, "Rechnungsnummer"),
			textAt(300, 60, "123456789"),
		}},
		&pdf.Row{Position: 650, Content: pdf.TextHorizontal{
			textAt(50, 200, "Durchführung einer Lernförderung für:"),
		}},
	}

	text, table := renderRows(rows)

	assert.Equal(t, "Rechnungsnummer 123456789\nDurchführung einer Lernförderung für:", text)
	require.Len(t, table, 1)
	assert.Equal(t, []string{"Rechnungsnummer", "123456789"}, table[0])
}

func TestHasText(t *testing.T) {
	assert.False(t, HasText([]extract.RawPage{{Number: 1, Text: "  "}}))
	assert.True(t, HasText([]extract.RawPage{{Number: 1}, {Number: 2, Text: "Rechnung"}}))
}
