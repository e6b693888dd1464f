package extract

import "strings"

var (
	lernfoerderungMarkers = []string{
		"Lernförderung",
		"Zeitstunden",
		"Durchführung einer Lernförderung",
	}

	bereitschaftMarkers = []string{
		"Folgende Leistungen wurden erbracht",
		"Bereitschaftspflege",
	}
)

// DetectFormat classifies a page by its format-specific keywords.
// Lernförderung markers win over care-invoice markers; any other page
// with text is treated as an OCR scan, since the heuristic OCR parser
// is the catch-all strategy.
func DetectFormat(page RawPage) InvoiceFormat {
	if strings.TrimSpace(page.Text) == "" && len(page.Tables) == 0 {
		return FormatUnknown
	}

	for _, marker := range lernfoerderungMarkers {
		if strings.Contains(page.Text, marker) {
			return FormatLernfoerderung
		}
	}
	if containsInTables(page.Tables, lernfoerderungMarkers) {
		return FormatLernfoerderung
	}

	for _, marker := range bereitschaftMarkers {
		if strings.Contains(page.Text, marker) {
			return FormatBereitschaft
		}
	}

	if strings.TrimSpace(page.Text) == "" {
		return FormatUnknown
	}
	return FormatOCRScan
}

func containsInTables(tables [][][]string, markers []string) bool {
	for _, table := range tables {
		for _, row := range table {
			for _, cell := range row {
				for _, marker := range markers {
					if strings.Contains(cell, marker) {
						return true
					}
				}
			}
		}
	}
	return false
}
