package directory

import (
	"context"

	"github.com/cdma-ap/cmsnr-directory/internal/domain/master"
	"github.com/cdma-ap/cmsnr-directory/internal/domain/staff"
)

// Service covers the directory reads and the add/remove flows.
type Service interface {
	// ListEntries and ListStaff run the filter against the directory and master tables.
	ListEntries(ctx context.Context, filter staff.Filter) (staff.Page[Entry], error)
	ListStaff(ctx context.Context, filter staff.Filter) (staff.Page[master.StaffRecord], error)

	// Stats computes the card counts over the whole selected table.
	Stats(ctx context.Context, source Source) (staff.Stats, error)

	GetEntry(ctx context.Context, id string) (Entry, error)
	GetStaff(ctx context.Context, id string) (master.StaffRecord, error)

	// Profile returns the display view of one record.
	Profile(ctx context.Context, source Source, id string) (staff.DisplayResult, error)

	// ValidateCFMSID reports whether the CFMS ID is already in the directory.
	ValidateCFMSID(ctx context.Context, cfmsID string) (ValidateResult, error)

	// SearchAll is the broad master search used to find add candidates.
	SearchAll(ctx context.Context, filter staff.Filter) (SearchAllResult, error)

	// Lookup runs the add/remove search: directory first, then master.
	Lookup(ctx context.Context, key string) (LookupResult, error)

	AddEntry(ctx context.Context, req AddEntryRequest) (Entry, error)
	RemoveEntry(ctx context.Context, cfmsID string) error

	// ExportRows returns every filtered record as display rows, ignoring paging.
	ExportRows(ctx context.Context, source Source, filter staff.Filter) ([]staff.DisplayRecord, error)
}
