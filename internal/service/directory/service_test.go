package directory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cdma-ap/cmsnr-directory/internal/domain/directory"
	"github.com/cdma-ap/cmsnr-directory/internal/domain/master"
	"github.com/cdma-ap/cmsnr-directory/internal/domain/staff"
	"github.com/cdma-ap/cmsnr-directory/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEntryRepo struct {
	mu      sync.Mutex
	entries map[string]directory.Entry
	nextSNo int64
	stats   staff.Stats
	listErr error
}

func newFakeEntryRepo(entries ...directory.Entry) *fakeEntryRepo {
	r := &fakeEntryRepo{entries: map[string]directory.Entry{}}
	for _, e := range entries {
		r.nextSNo++
		e.SNo = r.nextSNo
		r.entries[e.CFMSID] = e
	}
	return r
}

func (r *fakeEntryRepo) sorted() []directory.Entry {
	out := make([]directory.Entry, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SNo < out[j].SNo })
	return out
}

func (r *fakeEntryRepo) List(ctx context.Context, f staff.Filter, now time.Time) (staff.Page[directory.Entry], error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return staff.Page[directory.Entry]{}, r.listErr
	}
	var matched []directory.Entry
	for _, e := range r.sorted() {
		if f.Search != "" && !strings.Contains(strings.ToLower(e.EmployeeName), strings.ToLower(f.Search)) &&
			e.CFMSID != f.Search && e.EmployeeID != f.Search {
			continue
		}
		matched = append(matched, e)
	}
	page := staff.Page[directory.Entry]{Total: int64(len(matched))}
	start := f.Offset()
	if start < len(matched) {
		end := min(start+f.Limit, len(matched))
		page.Rows = matched[start:end]
	}
	return page, nil
}

func (r *fakeEntryRepo) Stats(ctx context.Context, now time.Time) (staff.Stats, error) {
	return r.stats, nil
}

func (r *fakeEntryRepo) GetByEmployeeID(ctx context.Context, employeeID string) (directory.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.entries {
		if e.EmployeeID == employeeID {
			return e, nil
		}
	}
	return directory.Entry{}, directory.ErrEntryNotFound
}

func (r *fakeEntryRepo) GetByCFMSID(ctx context.Context, cfmsID string) (directory.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[cfmsID]; ok {
		return e, nil
	}
	return directory.Entry{}, directory.ErrEntryNotFound
}

func (r *fakeEntryRepo) ExistsByCFMSIDOrEmployeeID(ctx context.Context, cfmsID, employeeID string) (bool, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, cfmsTaken := r.entries[cfmsID]
	employeeTaken := false
	for _, e := range r.entries {
		if e.EmployeeID == employeeID {
			employeeTaken = true
		}
	}
	return cfmsTaken, employeeTaken, nil
}

// Create enforces both unique keys atomically, like the table constraints.
func (r *fakeEntryRepo) Create(ctx context.Context, e directory.Entry) (directory.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[e.CFMSID]; ok {
		return directory.Entry{}, directory.ErrCFMSIDExists
	}
	for _, existing := range r.entries {
		if existing.EmployeeID == e.EmployeeID {
			return directory.Entry{}, directory.ErrEmployeeIDExists
		}
	}
	r.nextSNo++
	e.SNo = r.nextSNo
	r.entries[e.CFMSID] = e
	return e, nil
}

func (r *fakeEntryRepo) Upsert(ctx context.Context, e directory.Entry) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, exists := r.entries[e.CFMSID]
	r.entries[e.CFMSID] = e
	return !exists, nil
}

func (r *fakeEntryRepo) DeleteByCFMSID(ctx context.Context, cfmsID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[cfmsID]; !ok {
		return directory.ErrEntryNotFound
	}
	delete(r.entries, cfmsID)
	return nil
}

type fakeStaffRepo struct {
	records []master.StaffRecord
	stats   staff.Stats
	err     error
}

func (r *fakeStaffRepo) page(f staff.Filter) staff.Page[master.StaffRecord] {
	var matched []master.StaffRecord
	for _, rec := range r.records {
		if f.Search != "" && !strings.Contains(strings.ToLower(rec.FullName()), strings.ToLower(f.Search)) &&
			rec.CFMSID != f.Search && rec.EmployeeID != f.Search {
			continue
		}
		matched = append(matched, rec)
	}
	p := staff.Page[master.StaffRecord]{Total: int64(len(matched))}
	start := f.Offset()
	if start < len(matched) {
		p.Rows = matched[start:min(start+f.Limit, len(matched))]
	}
	return p
}

func (r *fakeStaffRepo) List(ctx context.Context, f staff.Filter, now time.Time) (staff.Page[master.StaffRecord], error) {
	if r.err != nil {
		return staff.Page[master.StaffRecord]{}, r.err
	}
	return r.page(f), nil
}

func (r *fakeStaffRepo) SearchAll(ctx context.Context, f staff.Filter, now time.Time) (staff.Page[master.StaffRecord], error) {
	return r.List(ctx, f, now)
}

func (r *fakeStaffRepo) Stats(ctx context.Context, now time.Time) (staff.Stats, error) {
	return r.stats, nil
}

func (r *fakeStaffRepo) GetByEmployeeID(ctx context.Context, employeeID string) (master.StaffRecord, error) {
	for _, rec := range r.records {
		if rec.EmployeeID == employeeID {
			return rec, nil
		}
	}
	return master.StaffRecord{}, master.ErrStaffNotFound
}

func (r *fakeStaffRepo) GetByCFMSID(ctx context.Context, cfmsID string) (master.StaffRecord, error) {
	if r.err != nil {
		return master.StaffRecord{}, r.err
	}
	for _, rec := range r.records {
		if rec.CFMSID == cfmsID {
			return rec, nil
		}
	}
	return master.StaffRecord{}, master.ErrStaffNotFound
}

type passThroughTx struct{ calls atomic.Int32 }

func (p *passThroughTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	p.calls.Add(1)
	return fn(ctx)
}

var fixedNow = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

func newTestService(entries *fakeEntryRepo, records *fakeStaffRepo) (*DirectoryServiceImpl, *passThroughTx) {
	tx := &passThroughTx{}
	svc := NewDirectoryService(entries, records, tx, time.UTC).(*DirectoryServiceImpl)
	svc.now = func() time.Time { return fixedNow }
	return svc, tx
}

func strPtr(s string) *string { return &s }

func masterRao() master.StaffRecord {
	return master.StaffRecord{
		EmployeeID:     "1001",
		CFMSID:         "C1",
		Name:           "Venkata",
		Surname:        "Rao",
		Designation:    "Commissioner",
		DepartmentName: "Municipal Administration",
		DistName:       "Guntur",
		MobileNo:       "9876543210",
		EmployeeStatus: "Regular",
		DOB:            "15/06/1970",
	}
}

func TestAddEntry_CopiesMasterRecordAndOverridesFromBody(t *testing.T) {
	entries := newFakeEntryRepo()
	svc, tx := newTestService(entries, &fakeStaffRepo{records: []master.StaffRecord{masterRao()}})

	created, err := svc.AddEntry(context.Background(), directory.AddEntryRequest{
		CFMSID:   " C1 ",
		MobileNo: "9000000001",
	})
	require.NoError(t, err)

	assert.Equal(t, int32(1), tx.calls.Load())
	assert.Equal(t, "C1", created.CFMSID)
	assert.Equal(t, "1001", created.EmployeeID)
	assert.Equal(t, "Venkata Rao", created.EmployeeName)
	assert.Equal(t, "9000000001", created.MobileNo)
	assert.Equal(t, "Regular", created.Status)
	require.NotNil(t, created.DOB)
	assert.Equal(t, "1970-06-15", *created.DOB)
	require.NotNil(t, created.Age)
	assert.Equal(t, 55, *created.Age)
}

func TestAddEntry_GeneratesEmployeeIDAndDefaults(t *testing.T) {
	entries := newFakeEntryRepo()
	svc, _ := newTestService(entries, &fakeStaffRepo{})

	created, err := svc.AddEntry(context.Background(), directory.AddEntryRequest{
		CFMSID:    "C9",
		FirstName: "Lakshmi",
		SirName:   "Devi",
	})
	require.NoError(t, err)

	assert.Equal(t, fmt.Sprintf("EMP%d", fixedNow.UnixMilli()), created.EmployeeID)
	assert.Equal(t, "Lakshmi Devi", created.EmployeeName)
	assert.Equal(t, directory.DefaultStatus, created.Status)
	assert.Equal(t, staff.StatusRegular, created.StatusCategory)
}

func TestAddEntry_Conflicts(t *testing.T) {
	entries := newFakeEntryRepo(directory.Entry{CFMSID: "C1", EmployeeID: "1001", EmployeeName: "Venkata Rao"})
	svc, _ := newTestService(entries, &fakeStaffRepo{})

	_, err := svc.AddEntry(context.Background(), directory.AddEntryRequest{CFMSID: "C1"})
	assert.ErrorIs(t, err, directory.ErrCFMSIDExists)

	_, err = svc.AddEntry(context.Background(), directory.AddEntryRequest{CFMSID: "C2", EmployeeID: "1001"})
	assert.ErrorIs(t, err, directory.ErrEmployeeIDExists)

	assert.Len(t, entries.entries, 1)
}

func TestAddEntry_ValidationFailsBeforeAnyWrite(t *testing.T) {
	entries := newFakeEntryRepo()
	svc, tx := newTestService(entries, &fakeStaffRepo{})

	_, err := svc.AddEntry(context.Background(), directory.AddEntryRequest{Email: "nope"})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "cfms_id")
	assert.Contains(t, verrs.ToMap(), "email")
	assert.Equal(t, int32(0), tx.calls.Load())
}

func TestAddEntry_MasterReadErrorAborts(t *testing.T) {
	entries := newFakeEntryRepo()
	svc, _ := newTestService(entries, &fakeStaffRepo{err: staff.ErrPoolExhausted})

	_, err := svc.AddEntry(context.Background(), directory.AddEntryRequest{CFMSID: "C1"})
	assert.ErrorIs(t, err, staff.ErrPoolExhausted)
	assert.Empty(t, entries.entries)
}

func TestAddEntry_ConcurrentSameCFMSID(t *testing.T) {
	entries := newFakeEntryRepo()
	svc, _ := newTestService(entries, &fakeStaffRepo{records: []master.StaffRecord{masterRao()}})

	const workers = 8
	var (
		wg        sync.WaitGroup
		successes atomic.Int32
		conflicts atomic.Int32
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.AddEntry(context.Background(), directory.AddEntryRequest{CFMSID: "C1"})
			switch {
			case err == nil:
				successes.Add(1)
			case errors.Is(err, directory.ErrCFMSIDExists):
				conflicts.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), successes.Load())
	assert.Equal(t, int32(workers-1), conflicts.Load())
}

func TestRemoveEntry(t *testing.T) {
	entries := newFakeEntryRepo(directory.Entry{CFMSID: "C1", EmployeeID: "1001"})
	svc, _ := newTestService(entries, &fakeStaffRepo{})

	assert.ErrorIs(t, svc.RemoveEntry(context.Background(), "  "), directory.ErrCFMSIDRequired)
	require.NoError(t, svc.RemoveEntry(context.Background(), " C1 "))
	assert.ErrorIs(t, svc.RemoveEntry(context.Background(), "C1"), directory.ErrEntryNotFound)
}

func TestValidateCFMSID(t *testing.T) {
	entries := newFakeEntryRepo(directory.Entry{CFMSID: "C1", EmployeeID: "1001", EmployeeName: "Venkata Rao"})
	svc, _ := newTestService(entries, &fakeStaffRepo{})

	res, err := svc.ValidateCFMSID(context.Background(), "C1")
	require.NoError(t, err)
	assert.True(t, res.Exists)
	require.NotNil(t, res.Existing)
	assert.Equal(t, "1001", res.Existing.EmployeeID)

	res, err = svc.ValidateCFMSID(context.Background(), "C2")
	require.NoError(t, err)
	assert.False(t, res.Exists)
	assert.Nil(t, res.Existing)

	_, err = svc.ValidateCFMSID(context.Background(), "")
	assert.ErrorIs(t, err, directory.ErrCFMSIDRequired)
}

func TestLookup_States(t *testing.T) {
	entries := newFakeEntryRepo(directory.Entry{CFMSID: "C1", EmployeeID: "1001", EmployeeName: "Venkata Rao"})
	records := &fakeStaffRepo{records: []master.StaffRecord{
		masterRao(),
		{EmployeeID: "2002", CFMSID: "C2", Name: "Lakshmi", Surname: "Devi"},
	}}
	svc, _ := newTestService(entries, records)
	ctx := context.Background()

	res, err := svc.Lookup(ctx, "C1")
	require.NoError(t, err)
	assert.Equal(t, directory.LookupExists, res.State)
	require.Len(t, res.Existing, 1)
	assert.Equal(t, "1001", res.Existing[0].EmployeeID)

	res, err = svc.Lookup(ctx, "rao")
	require.NoError(t, err)
	assert.Equal(t, directory.LookupExists, res.State)

	res, err = svc.Lookup(ctx, "Lakshmi")
	require.NoError(t, err)
	assert.Equal(t, directory.LookupFound, res.State)
	require.Len(t, res.Candidates, 1)
	assert.Equal(t, "C2", res.Candidates[0].CFMSID)

	res, err = svc.Lookup(ctx, "nobody")
	require.NoError(t, err)
	assert.Equal(t, directory.LookupNotFound, res.State)
	assert.NotNil(t, res.Candidates)

	_, err = svc.Lookup(ctx, " ")
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}

func TestGetEntry_FallsBackToCFMSID(t *testing.T) {
	entries := newFakeEntryRepo(directory.Entry{CFMSID: "C1", EmployeeID: "1001", Status: "Incharge"})
	svc, _ := newTestService(entries, &fakeStaffRepo{})

	byEmp, err := svc.GetEntry(context.Background(), "1001")
	require.NoError(t, err)
	byCFMS, err := svc.GetEntry(context.Background(), "C1")
	require.NoError(t, err)
	assert.Equal(t, byEmp.SNo, byCFMS.SNo)
	assert.Equal(t, staff.StatusIncharge, byCFMS.StatusCategory)

	_, err = svc.GetEntry(context.Background(), "missing")
	assert.ErrorIs(t, err, directory.ErrEntryNotFound)
}

func TestProfile_MasterRecord(t *testing.T) {
	svc, _ := newTestService(newFakeEntryRepo(), &fakeStaffRepo{records: []master.StaffRecord{masterRao()}})

	res, err := svc.Profile(context.Background(), directory.SourceMaster, "1001")
	require.NoError(t, err)
	assert.Equal(t, "Venkata Rao", res.Record.Name)
	assert.Equal(t, "1970-06-15", res.Record.Birthday)
	assert.Equal(t, 1, res.Record.ID)

	_, err = svc.Profile(context.Background(), directory.SourceMaster, "nobody")
	assert.ErrorIs(t, err, master.ErrStaffNotFound)
}

func TestStats_SelectsSourceAndZeroesLeave(t *testing.T) {
	entries := newFakeEntryRepo()
	entries.stats = staff.Stats{Total: 3, OnLeaveToday: 9}
	svc, _ := newTestService(entries, &fakeStaffRepo{stats: staff.Stats{Total: 40}})

	s, err := svc.Stats(context.Background(), directory.SourceDirectory)
	require.NoError(t, err)
	assert.Equal(t, int64(3), s.Total)
	assert.Zero(t, s.OnLeaveToday)

	s, err = svc.Stats(context.Background(), directory.SourceMaster)
	require.NoError(t, err)
	assert.Equal(t, int64(40), s.Total)
}

func TestListEntries_AppliesDefaultsAndDerivedFields(t *testing.T) {
	entries := newFakeEntryRepo(directory.Entry{CFMSID: "C1", EmployeeID: "1001", DOB: strPtr("1970-06-15"), DOR: strPtr("2030-06-30")})
	svc, _ := newTestService(entries, &fakeStaffRepo{})

	page, err := svc.ListEntries(context.Background(), staff.Filter{})
	require.NoError(t, err)
	require.Len(t, page.Rows, 1)
	assert.Equal(t, int64(1), page.Total)
	require.NotNil(t, page.Rows[0].Age)
	assert.Equal(t, 55, *page.Rows[0].Age)
	assert.NotEmpty(t, page.Rows[0].TimeToRetire)

	entries.listErr = staff.ErrPoolExhausted
	_, err = svc.ListEntries(context.Background(), staff.Filter{})
	assert.ErrorIs(t, err, staff.ErrPoolExhausted)
}

func TestSearchAll_Paging(t *testing.T) {
	var records []master.StaffRecord
	for i := 0; i < 5; i++ {
		records = append(records, master.StaffRecord{EmployeeID: fmt.Sprint(i), Name: "Rao"})
	}
	svc, _ := newTestService(newFakeEntryRepo(), &fakeStaffRepo{records: records})

	res, err := svc.SearchAll(context.Background(), staff.Filter{Search: "rao", Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(5), res.Total)
	assert.Equal(t, 2, res.RowsReturned)
	assert.True(t, res.HasMore)

	res, err = svc.SearchAll(context.Background(), staff.Filter{Search: "rao", Page: 3, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 1, res.RowsReturned)
	assert.False(t, res.HasMore)
}

func TestExportRows_WalksEveryPage(t *testing.T) {
	var seed []directory.Entry
	for i := 0; i < staff.MaxLimit+5; i++ {
		seed = append(seed, directory.Entry{CFMSID: fmt.Sprintf("C%d", i), EmployeeID: fmt.Sprint(i), EmployeeName: "Person"})
	}
	svc, _ := newTestService(newFakeEntryRepo(seed...), &fakeStaffRepo{})

	rows, err := svc.ExportRows(context.Background(), directory.SourceDirectory, staff.Filter{Page: 4, Limit: 1})
	require.NoError(t, err)
	require.Len(t, rows, staff.MaxLimit+5)
	assert.Equal(t, 1, rows[0].ID)
	assert.Equal(t, staff.MaxLimit+5, rows[len(rows)-1].ID)
	assert.Equal(t, "1970-01-01", rows[0].Birthday)
}
