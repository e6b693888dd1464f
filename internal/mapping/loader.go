package mapping

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"belegexport/internal/logger"
)

// Column aliases as they appear across the reference-table exports.
// Matched case-insensitively after trimming.
var (
	firmaAliases      = []string{"FIRMA"}
	debtorAliases     = []string{"DEBI_KREDI", "Personenkonto", "Kundennummer", "Debitoren"}
	costCenterAliases = []string{"KOSTTRAGER", "Kostenträger", "Kostentraeger"}
	descAliases       = []string{"Kostenträgerbezeichnung", "Kostenträger Bezeichnung", "Bezeichnung"}
)

// Load reads a reference mapping table from a spreadsheet. The first
// sheet's first row is the header; legacy column aliases are accepted.
// Rows without a debtor number are skipped with a warning.
func Load(path string) (*Table, error) {
	const op = "Load"
	log := logger.WithComponent("mapping")

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to open %s: %w", op, path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%s: %s contains no sheets", op, path)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read sheet %s: %w", op, sheets[0], err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("%s: %s has no data rows", op, path)
	}

	header := rows[0]
	firmaCol := findColumn(header, firmaAliases)
	debtorCol := findColumn(header, debtorAliases)
	costCol := findColumn(header, costCenterAliases)
	descCol := findColumn(header, descAliases)

	if debtorCol < 0 {
		return nil, fmt.Errorf("%s: %s has no debtor column (expected one of %v)", op, path, debtorAliases)
	}

	var entries []Entry
	for i, row := range rows[1:] {
		entry := Entry{
			Firma:       cellAt(row, firmaCol),
			Debtor:      cellAt(row, debtorCol),
			CostCenter:  cellAt(row, costCol),
			Description: cellAt(row, descCol),
		}
		if entry.Debtor == "" {
			log.Warn().
				Int("row", i+2).
				Msg("Zeile ohne Debitorennummer übersprungen")
			continue
		}
		entries = append(entries, entry)
	}

	log.Info().
		Int("entries", len(entries)).
		Bool("firma_column", firmaCol >= 0).
		Str("file", path).
		Msg("Referenztabelle geladen")

	return NewTable(entries, firmaCol >= 0), nil
}

func findColumn(header []string, aliases []string) int {
	for _, alias := range aliases {
		for i, cell := range header {
			if strings.EqualFold(strings.TrimSpace(cell), alias) {
				return i
			}
		}
	}
	return -1
}

func cellAt(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}
