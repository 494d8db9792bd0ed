package directory

import (
	"context"
	"time"

	"github.com/cdma-ap/cmsnr-directory/internal/domain/staff"
)

type EntryRepository interface {
	// List applies the filter; now anchors the month and year buckets.
	List(ctx context.Context, filter staff.Filter, now time.Time) (staff.Page[Entry], error)
	Stats(ctx context.Context, now time.Time) (staff.Stats, error)
	GetByEmployeeID(ctx context.Context, employeeID string) (Entry, error)
	GetByCFMSID(ctx context.Context, cfmsID string) (Entry, error)
	// ExistsByCFMSIDOrEmployeeID reports which of the two identifiers is already taken.
	ExistsByCFMSIDOrEmployeeID(ctx context.Context, cfmsID, employeeID string) (cfmsTaken bool, employeeTaken bool, err error)
	// Create inserts e. A unique violation is reported as ErrCFMSIDExists or ErrEmployeeIDExists.
	Create(ctx context.Context, e Entry) (Entry, error)
	// Upsert inserts e or overwrites the entry with the same CFMS ID.
	Upsert(ctx context.Context, e Entry) (inserted bool, err error)
	// DeleteByCFMSID returns ErrEntryNotFound when nothing was deleted.
	DeleteByCFMSID(ctx context.Context, cfmsID string) error
}

// TxRunner runs fn in one database transaction. Repositories called with the
// ctx passed to fn take part in it.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}
