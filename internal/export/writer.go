package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Sheet1"

// WriteXLSX writes the export spreadsheet: the 23 column headers in
// fixed order, one row per line item, no index column.
func WriteXLSX(path string, rows []Row) error {
	const op = "WriteXLSX"

	f := excelize.NewFile()
	defer f.Close()

	headers := toInterfaces(Columns())
	if err := f.SetSheetRow(sheetName, "A1", &headers); err != nil {
		return fmt.Errorf("%s: failed to write header row: %w", op, err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("%s: failed to compute cell for row %d: %w", op, i+2, err)
		}
		values := row.Values()
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return fmt.Errorf("%s: failed to write row %d: %w", op, i+2, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("%s: failed to save %s: %w", op, path, err)
	}
	return nil
}

func toInterfaces(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
