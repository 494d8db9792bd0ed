package directory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cdma-ap/cmsnr-directory/internal/domain/directory"
	"github.com/cdma-ap/cmsnr-directory/internal/domain/master"
	"github.com/cdma-ap/cmsnr-directory/internal/domain/staff"
	"github.com/cdma-ap/cmsnr-directory/internal/pkg/validator"
)

const (
	lookupDirectoryLimit = 10
	lookupMasterLimit    = 20
	// MaxExportRows bounds one export.
	MaxExportRows = 50000
)

type DirectoryServiceImpl struct {
	entryRepo directory.EntryRepository
	staffRepo master.StaffRepository
	txRunner  directory.TxRunner
	loc       *time.Location
	now       func() time.Time
}

func NewDirectoryService(entryRepo directory.EntryRepository, staffRepo master.StaffRepository, txRunner directory.TxRunner, loc *time.Location) directory.Service {
	if loc == nil {
		loc = time.UTC
	}
	return &DirectoryServiceImpl{
		entryRepo: entryRepo,
		staffRepo: staffRepo,
		txRunner:  txRunner,
		loc:       loc,
		now:       time.Now,
	}
}

func (s *DirectoryServiceImpl) today() time.Time {
	return s.now().In(s.loc)
}

// ListEntries implements directory.Service.
func (s *DirectoryServiceImpl) ListEntries(ctx context.Context, filter staff.Filter) (staff.Page[directory.Entry], error) {
	now := s.today()
	page, err := s.entryRepo.List(ctx, filter.WithDefaults(), now)
	if err != nil {
		return staff.Page[directory.Entry]{}, fmt.Errorf("failed to list directory: %w", err)
	}
	for i := range page.Rows {
		page.Rows[i] = page.Rows[i].WithDerived(now)
	}
	if page.Rows == nil {
		page.Rows = []directory.Entry{}
	}
	return page, nil
}

// ListStaff implements directory.Service.
func (s *DirectoryServiceImpl) ListStaff(ctx context.Context, filter staff.Filter) (staff.Page[master.StaffRecord], error) {
	page, err := s.staffRepo.List(ctx, filter.WithDefaults(), s.today())
	if err != nil {
		return staff.Page[master.StaffRecord]{}, fmt.Errorf("failed to list staff: %w", err)
	}
	if page.Rows == nil {
		page.Rows = []master.StaffRecord{}
	}
	return page, nil
}

// Stats implements directory.Service.
func (s *DirectoryServiceImpl) Stats(ctx context.Context, source directory.Source) (staff.Stats, error) {
	var (
		stats staff.Stats
		err   error
	)
	if source == directory.SourceMaster {
		stats, err = s.staffRepo.Stats(ctx, s.today())
	} else {
		stats, err = s.entryRepo.Stats(ctx, s.today())
	}
	if err != nil {
		return staff.Stats{}, fmt.Errorf("failed to compute stats: %w", err)
	}
	// No leave data source exists.
	stats.OnLeaveToday, stats.LeaveTomorrow, stats.UpcomingLeaves = 0, 0, 0
	return stats, nil
}

// GetEntry implements directory.Service. id may be an employee id or a CFMS id.
func (s *DirectoryServiceImpl) GetEntry(ctx context.Context, id string) (directory.Entry, error) {
	id = strings.TrimSpace(id)
	e, err := s.entryRepo.GetByEmployeeID(ctx, id)
	if errors.Is(err, directory.ErrEntryNotFound) {
		e, err = s.entryRepo.GetByCFMSID(ctx, id)
	}
	if err != nil {
		return directory.Entry{}, err
	}
	return e.WithDerived(s.today()), nil
}

// GetStaff implements directory.Service.
func (s *DirectoryServiceImpl) GetStaff(ctx context.Context, id string) (master.StaffRecord, error) {
	id = strings.TrimSpace(id)
	rec, err := s.staffRepo.GetByEmployeeID(ctx, id)
	if errors.Is(err, master.ErrStaffNotFound) {
		rec, err = s.staffRepo.GetByCFMSID(ctx, id)
	}
	if err != nil {
		return master.StaffRecord{}, err
	}
	return rec, nil
}

// Profile implements directory.Service.
func (s *DirectoryServiceImpl) Profile(ctx context.Context, source directory.Source, id string) (staff.DisplayResult, error) {
	var src staff.DisplaySource
	if source == directory.SourceMaster {
		rec, err := s.GetStaff(ctx, id)
		if err != nil {
			return staff.DisplayResult{}, err
		}
		src = rec.DisplaySource()
	} else {
		e, err := s.GetEntry(ctx, id)
		if err != nil {
			return staff.DisplayResult{}, err
		}
		src = e.DisplaySource()
	}

	result := staff.ToDisplay(src, 0)
	if result.Defaulted() {
		slog.Debug("profile mapped with defaults", "id", id, "warnings", result.Warnings)
	}
	return result, nil
}

// ValidateCFMSID implements directory.Service.
func (s *DirectoryServiceImpl) ValidateCFMSID(ctx context.Context, cfmsID string) (directory.ValidateResult, error) {
	cfmsID = strings.TrimSpace(cfmsID)
	if cfmsID == "" {
		return directory.ValidateResult{}, directory.ErrCFMSIDRequired
	}

	e, err := s.entryRepo.GetByCFMSID(ctx, cfmsID)
	if errors.Is(err, directory.ErrEntryNotFound) {
		return directory.ValidateResult{Exists: false}, nil
	}
	if err != nil {
		return directory.ValidateResult{}, fmt.Errorf("failed to validate cfms id: %w", err)
	}
	return directory.ValidateResult{Exists: true, Existing: &e}, nil
}

// SearchAll implements directory.Service.
func (s *DirectoryServiceImpl) SearchAll(ctx context.Context, filter staff.Filter) (directory.SearchAllResult, error) {
	filter = filter.WithDefaults()
	page, err := s.staffRepo.SearchAll(ctx, filter, s.today())
	if err != nil {
		return directory.SearchAllResult{}, fmt.Errorf("failed to search staff: %w", err)
	}
	return directory.NewSearchAllResult(page, filter), nil
}

// Lookup implements directory.Service.
func (s *DirectoryServiceImpl) Lookup(ctx context.Context, key string) (directory.LookupResult, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return directory.LookupResult{}, validator.ValidationErrors{{Field: "key", Message: "key is required"}}
	}

	existing, err := s.findInDirectory(ctx, key)
	if err != nil {
		return directory.LookupResult{}, err
	}
	if len(existing) > 0 {
		return directory.LookupResult{
			State:      directory.LookupExists,
			Existing:   existing,
			Candidates: []master.StaffRecord{},
		}, nil
	}

	page, err := s.staffRepo.SearchAll(ctx, staff.Filter{Search: key, Page: 1, Limit: lookupMasterLimit}, s.today())
	if err != nil {
		return directory.LookupResult{}, fmt.Errorf("failed to search staff: %w", err)
	}
	if len(page.Rows) == 0 {
		return directory.LookupResult{State: directory.LookupNotFound, Candidates: []master.StaffRecord{}}, nil
	}
	return directory.LookupResult{State: directory.LookupFound, Candidates: page.Rows}, nil
}

// findInDirectory tries an exact identifier match first, then the name search.
func (s *DirectoryServiceImpl) findInDirectory(ctx context.Context, key string) ([]directory.Entry, error) {
	e, err := s.GetEntry(ctx, key)
	if err == nil {
		return []directory.Entry{e}, nil
	}
	if !errors.Is(err, directory.ErrEntryNotFound) {
		return nil, fmt.Errorf("failed to look up directory: %w", err)
	}

	page, err := s.entryRepo.List(ctx, staff.Filter{Search: key, Page: 1, Limit: lookupDirectoryLimit}, s.today())
	if err != nil {
		return nil, fmt.Errorf("failed to search directory: %w", err)
	}
	return page.Rows, nil
}

// AddEntry implements directory.Service.
func (s *DirectoryServiceImpl) AddEntry(ctx context.Context, req directory.AddEntryRequest) (directory.Entry, error) {
	if err := req.Validate(); err != nil {
		return directory.Entry{}, err
	}

	now := s.today()
	var created directory.Entry
	err := s.txRunner.RunInTx(ctx, func(ctx context.Context) error {
		base := directory.Entry{}
		rec, err := s.staffRepo.GetByCFMSID(ctx, req.CFMSID)
		switch {
		case err == nil:
			base = directory.FromStaffRecord(rec)
		case errors.Is(err, master.ErrStaffNotFound):
			slog.Debug("no master record for new directory entry", "cfms_id", req.CFMSID)
		default:
			return fmt.Errorf("failed to read master record: %w", err)
		}

		entry := req.Apply(base)
		if strings.TrimSpace(entry.Status) == "" {
			entry.Status = directory.DefaultStatus
		}
		if entry.EmployeeID == "" {
			entry.EmployeeID = fmt.Sprintf("EMP%d", s.now().UnixMilli())
		}
		if strings.TrimSpace(entry.EmployeeName) == "" {
			entry.EmployeeName = strings.TrimSpace(entry.FirstName + " " + entry.SirName)
		}

		cfmsTaken, employeeTaken, err := s.entryRepo.ExistsByCFMSIDOrEmployeeID(ctx, entry.CFMSID, entry.EmployeeID)
		if err != nil {
			return err
		}
		if cfmsTaken {
			return directory.ErrCFMSIDExists
		}
		if employeeTaken {
			return directory.ErrEmployeeIDExists
		}

		// The unique constraints catch a concurrent insert that passed the check.
		created, err = s.entryRepo.Create(ctx, entry)
		return err
	})
	if err != nil {
		return directory.Entry{}, err
	}

	slog.Info("directory entry added", "cfms_id", created.CFMSID, "employee_id", created.EmployeeID)
	return created.WithDerived(now), nil
}

// RemoveEntry implements directory.Service.
func (s *DirectoryServiceImpl) RemoveEntry(ctx context.Context, cfmsID string) error {
	cfmsID = strings.TrimSpace(cfmsID)
	if cfmsID == "" {
		return directory.ErrCFMSIDRequired
	}
	if err := s.entryRepo.DeleteByCFMSID(ctx, cfmsID); err != nil {
		return err
	}
	slog.Info("directory entry removed", "cfms_id", cfmsID)
	return nil
}

// ExportRows implements directory.Service.
func (s *DirectoryServiceImpl) ExportRows(ctx context.Context, source directory.Source, filter staff.Filter) ([]staff.DisplayRecord, error) {
	filter.Page = 1
	filter.Limit = staff.MaxLimit
	now := s.today()

	rows := []staff.DisplayRecord{}
	for len(rows) < MaxExportRows {
		sources, total, err := s.exportPage(ctx, source, filter, now)
		if err != nil {
			return nil, err
		}
		for _, src := range sources {
			rows = append(rows, staff.ToDisplay(src, len(rows)).Record)
		}
		if len(sources) == 0 || int64(filter.Offset()+len(sources)) >= total {
			break
		}
		filter.Page++
	}

	if len(rows) > MaxExportRows {
		rows = rows[:MaxExportRows]
	}
	return rows, nil
}

func (s *DirectoryServiceImpl) exportPage(ctx context.Context, source directory.Source, filter staff.Filter, now time.Time) ([]staff.DisplaySource, int64, error) {
	if source == directory.SourceMaster {
		page, err := s.staffRepo.List(ctx, filter, now)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to export staff: %w", err)
		}
		out := make([]staff.DisplaySource, 0, len(page.Rows))
		for _, r := range page.Rows {
			out = append(out, r.DisplaySource())
		}
		return out, page.Total, nil
	}

	page, err := s.entryRepo.List(ctx, filter, now)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to export directory: %w", err)
	}
	out := make([]staff.DisplaySource, 0, len(page.Rows))
	for _, e := range page.Rows {
		out = append(out, e.DisplaySource())
	}
	return out, page.Total, nil
}
