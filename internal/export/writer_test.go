package export

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"belegexport/internal/extract"
)

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.xlsx")

	rows := []Row{
		Assemble(testItem(), extract.InvoiceMetadata{}, Config{Firma: "9251"}),
	}
	require.NoError(t, WriteXLSX(path, rows))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	got, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "SATZART", got[0][0])
	assert.Equal(t, "AbgBenutzerdefiniert", got[0][22])
	assert.Len(t, got[0], 23)

	assert.Equal(t, "D", got[1][0])
	assert.Equal(t, "9251", got[1][1])
	assert.Equal(t, "123456789", got[1][2])
	assert.Equal(t, "123456", got[1][9])
}

func TestWriteXLSXEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.xlsx")
	require.NoError(t, WriteXLSX(path, nil))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	got, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Len(t, got[0], 23)
}
