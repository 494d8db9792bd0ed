package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/cdma-ap/cmsnr-directory/internal/domain/staff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleRows() []staff.DisplayRecord {
	return []staff.DisplayRecord{
		{ID: 1, Name: "Venkata Rao", Department: "guntur", CFMSID: "14410936", Birthday: "1988-06-15", Responsibilities: "Regular"},
		{ID: 2, Name: "Employee 2", Birthday: "1970-01-01", RetirementDate: ""},
	}
}

func TestParseFormat(t *testing.T) {
	f, ok := ParseFormat("")
	assert.True(t, ok)
	assert.Equal(t, FormatXLSX, f)

	f, ok = ParseFormat(" CSV ")
	assert.True(t, ok)
	assert.Equal(t, FormatCSV, f)

	_, ok = ParseFormat("pdf")
	assert.False(t, ok)

	day := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "CDMA_Directory_20250615.csv", FormatCSV.Filename(day))
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleRows()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, Headers(), records[0])
	assert.Equal(t, "S.No", records[0][0])

	first := records[1]
	assert.Equal(t, "1", first[0])
	assert.Equal(t, "Venkata Rao", first[1])
	assert.Equal(t, "Guntur", first[3])
	assert.Equal(t, "15 Jun 1988", first[10])
	assert.Equal(t, "", records[2][11])
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, sampleRows()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, SheetName, f.GetSheetName(0))
	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Name", rows[0][1])
	assert.Equal(t, "14410936", rows[1][4])
	assert.Equal(t, "Employee 2", rows[2][1])
}
