package master

import (
	"context"
	"time"

	"github.com/cdma-ap/cmsnr-directory/internal/domain/staff"
)

type StaffRepository interface {
	// List applies the directory filter vocabulary; now anchors the month and year buckets.
	List(ctx context.Context, filter staff.Filter, now time.Time) (staff.Page[StaffRecord], error)
	// SearchAll matches the search term loosely across names, identifiers and postings.
	SearchAll(ctx context.Context, filter staff.Filter, now time.Time) (staff.Page[StaffRecord], error)
	Stats(ctx context.Context, now time.Time) (staff.Stats, error)
	GetByEmployeeID(ctx context.Context, employeeID string) (StaffRecord, error)
	GetByCFMSID(ctx context.Context, cfmsID string) (StaffRecord, error)
}
