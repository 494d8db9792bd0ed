package importer

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/cdma-ap/cmsnr-directory/internal/domain/directory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const seedCSV = `2607211,14410936,SHAIK,ALEEM BASHA,01/06/1966,Male,Regional Director,Municipal Administration Department,Guntur,Working,31/05/2026,7093320018,
1150335,14298841,NAMA,KANAKA RAO,27/05/1966,Male,Municipal Comm Gr-II,Municipal Administration Department,Kakinada,Leave,31/05/2028,6281735519,
,,,,,,,,,,,,
bad!id,1,X,Y,01/01/1970,Male,,,,,,,
9999999,14410936,DUP,ROW,01/01/1970,Male,,,,Working,,,
`

func TestParseRows_Headerless(t *testing.T) {
	rows, err := ReadRows(bytes.NewReader([]byte(seedCSV)), "dir.csv")
	require.NoError(t, err)

	entries, invalid := ParseRows(rows)
	require.Len(t, entries, 2)

	first := entries[0]
	assert.Equal(t, "14410936", first.CFMSID)
	assert.Equal(t, "2607211", first.EmployeeID)
	assert.Equal(t, "ALEEM BASHA SHAIK", first.EmployeeName)
	assert.Equal(t, "ALEEM BASHA", first.FirstName)
	assert.Equal(t, "SHAIK", first.SirName)
	assert.Equal(t, directory.DefaultStatus, first.Status)
	require.NotNil(t, first.DOB)
	assert.Equal(t, "1966-06-01", *first.DOB)
	require.NotNil(t, first.DOR)
	assert.Equal(t, "2026-05-31", *first.DOR)
	assert.Equal(t, "7093320018", first.MobileNo)

	assert.Equal(t, "ON LEAVE", entries[1].Status)

	require.Len(t, invalid, 2)
	assert.Equal(t, 4, invalid[0].Line)
	assert.Contains(t, invalid[0].Reason, "employee_id")
	assert.Equal(t, 5, invalid[1].Line)
	assert.Contains(t, invalid[1].Reason, "duplicate cfms_id")
}

func TestParseRows_HeaderWithAliases(t *testing.T) {
	rows := [][]string{
		{"CFMS ID", "First Name", "Sir Name", "DOB", "Mobile No", "Status"},
		{"C1", "Lakshmi", "Devi", "31/02/2000", "", ""},
		{"C2", "Ravi", "Kumar", "1980-04-15", "+91 98765 43210", "leave"},
	}
	entries, invalid := ParseRows(rows)

	require.Len(t, invalid, 1)
	assert.Equal(t, 2, invalid[0].Line)
	assert.Contains(t, invalid[0].Reason, "dob")

	require.Len(t, entries, 1)
	assert.Equal(t, "Ravi Kumar", entries[0].EmployeeName)
	assert.Equal(t, "9876543210", entries[0].MobileNo)
	assert.Equal(t, "ON LEAVE", entries[0].Status)
}

func TestToUTF8(t *testing.T) {
	plain, err := ToUTF8([]byte("cfms_id,name\n"))
	require.NoError(t, err)
	assert.Equal(t, "cfms_id,name\n", plain)

	withBOM, err := ToUTF8(append([]byte{0xEF, 0xBB, 0xBF}, []byte("cfms_id")...))
	require.NoError(t, err)
	assert.Equal(t, "cfms_id", withBOM)

	utf16, _, err := transform.Bytes(unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder(), []byte("Rāo"))
	require.NoError(t, err)
	decoded, err := ToUTF8(utf16)
	require.NoError(t, err)
	assert.Equal(t, "Rāo", decoded)

	latin1, err := ToUTF8([]byte{'J', 'o', 's', 0xE9})
	require.NoError(t, err)
	assert.Equal(t, "José", latin1)
}

func TestReadRows_XLSX(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"cfms_id", "firstname", "surname"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"C1", "Venkata", "Rao"}))
	var buf bytes.Buffer
	_, err := f.WriteTo(&buf)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	rows, err := ReadRows(&buf, "dir.xlsx")
	require.NoError(t, err)
	entries, invalid := ParseRows(rows)
	assert.Empty(t, invalid)
	require.Len(t, entries, 1)
	assert.Equal(t, "Venkata Rao", entries[0].EmployeeName)
}

func TestReadRows_Empty(t *testing.T) {
	_, err := ReadRows(bytes.NewReader(nil), "dir.csv")
	assert.ErrorIs(t, err, ErrEmptyFile)
}

type upsertRepo struct {
	directory.EntryRepository
	existing map[string]bool
	upserted []string
	failOn   string
}

func (r *upsertRepo) GetByCFMSID(ctx context.Context, cfmsID string) (directory.Entry, error) {
	if r.existing[cfmsID] {
		return directory.Entry{CFMSID: cfmsID}, nil
	}
	return directory.Entry{}, directory.ErrEntryNotFound
}

func (r *upsertRepo) Upsert(ctx context.Context, e directory.Entry) (bool, error) {
	if e.CFMSID == r.failOn {
		return false, errors.New("unique violation")
	}
	r.upserted = append(r.upserted, e.CFMSID)
	return !r.existing[e.CFMSID], nil
}

type recordingTx struct{ calls int }

func (t *recordingTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.calls++
	return fn(ctx)
}

func seedRows(t *testing.T) [][]string {
	rows, err := ReadRows(bytes.NewReader([]byte(seedCSV)), "dir.csv")
	require.NoError(t, err)
	return rows
}

func TestRun_DryRun(t *testing.T) {
	repo := &upsertRepo{existing: map[string]bool{"14410936": true}}
	tx := &recordingTx{}

	summary, err := New(repo, tx).Run(context.Background(), seedRows(t), false)
	require.NoError(t, err)

	assert.False(t, summary.Applied)
	assert.NotEmpty(t, summary.RunID)
	assert.Equal(t, 4, summary.Rows)
	assert.Equal(t, 1, summary.Inserted)
	assert.Equal(t, 1, summary.Updated)
	assert.Len(t, summary.Invalid, 2)
	assert.Empty(t, repo.upserted)
	assert.Zero(t, tx.calls)
}

func TestRun_Apply(t *testing.T) {
	repo := &upsertRepo{existing: map[string]bool{"14410936": true}}
	tx := &recordingTx{}

	summary, err := New(repo, tx).Run(context.Background(), seedRows(t), true)
	require.NoError(t, err)

	assert.True(t, summary.Applied)
	assert.Equal(t, 1, tx.calls)
	assert.Equal(t, []string{"14410936", "14298841"}, repo.upserted)
	assert.Equal(t, 1, summary.Inserted)
	assert.Equal(t, 1, summary.Updated)
}

func TestRun_ApplyFailureReturnsError(t *testing.T) {
	repo := &upsertRepo{existing: map[string]bool{}, failOn: "14298841"}

	_, err := New(repo, &recordingTx{}).Run(context.Background(), seedRows(t), true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "14298841")
}
