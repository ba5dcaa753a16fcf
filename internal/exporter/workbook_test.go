package exporter

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"ratecli/internal/series"
	"ratecli/internal/shared/testutil"
)

func TestWorkbookWriter_WriteDataset(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)
	writer := NewWorkbookWriter(logger)
	ds := parseDataset(t, testutil.RateFileLines(), series.KeyByDate)
	path := filepath.Join(t.TempDir(), "rates.xlsx")

	require.NoError(t, writer.WriteDataset(path, ds))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{DefaultSheetName}, f.GetSheetList())
	rows, err := f.GetRows(DefaultSheetName)
	require.NoError(t, err)
	require.Len(t, rows, 8)
	assert.Equal(t, []string{"date", "low", "high"}, rows[0])
	assert.Equal(t, "2024-01-02", rows[1][0])
	assert.Equal(t, "2024-01-15", rows[7][0])

	value, err := f.GetCellValue(DefaultSheetName, "B3")
	require.NoError(t, err)
	assert.Equal(t, "1.02", value)

	testutil.AssertLogAttr(t, handler, "rows", int64(8))
}

func TestWorkbookWriter_Headerless(t *testing.T) {
	writer := NewWorkbookWriter(nil)
	ds := parseDataset(t, testutil.TransactionFileLines(), series.KeyByDatetime)
	path := filepath.Join(t.TempDir(), "tx.xlsx")

	require.NoError(t, writer.WriteDataset(path, ds))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(DefaultSheetName)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"02.01.2024 09:00", "Salary", "2500"}, rows[0])
	assert.Equal(t, "Coffee, large", rows[1][1])
}

func TestWorkbookWriter_BadPath(t *testing.T) {
	writer := NewWorkbookWriter(nil)
	ds := parseDataset(t, testutil.RateFileLines(), series.KeyByDate)

	err := writer.WriteDataset(filepath.Join(t.TempDir(), "missing", "rates.xlsx"), ds)

	assert.Error(t, err)
}
