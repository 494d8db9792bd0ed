package mysql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cdma-ap/cmsnr-directory/internal/domain/directory"
	"github.com/cdma-ap/cmsnr-directory/internal/domain/staff"
	"github.com/cdma-ap/cmsnr-directory/internal/pkg/database"
	"github.com/cdma-ap/cmsnr-directory/internal/repository/query"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type directoryRepository struct {
	db *gorm.DB
}

func NewDirectoryRepository(db *gorm.DB) directory.EntryRepository {
	return &directoryRepository{db}
}

func (r *directoryRepository) List(ctx context.Context, filter staff.Filter, now time.Time) (staff.Page[directory.Entry], error) {
	filter = filter.WithDefaults()
	cols := query.DirectoryColumns
	b := query.New(query.MySQL).ApplyFilter(cols, filter, now)

	base := getDB(ctx, r.db).Model(&directoryRow{})
	if expr := b.Expr(); expr != "" {
		base = base.Where(expr, b.Args()...)
	}
	base = base.Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return staff.Page[directory.Entry]{}, fmt.Errorf("failed to count directory entries: %w", wrapErr(err))
	}

	var rows []directoryRow
	err := base.Order(cols.DefaultOrder).Limit(filter.Limit).Offset(filter.Offset()).Find(&rows).Error
	if err != nil {
		return staff.Page[directory.Entry]{}, fmt.Errorf("failed to list directory entries: %w", wrapErr(err))
	}

	entries := make([]directory.Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, row.entry())
	}
	return staff.Page[directory.Entry]{Total: total, Rows: entries}, nil
}

func (r *directoryRepository) Stats(ctx context.Context, now time.Time) (staff.Stats, error) {
	return scanStats(getDB(ctx, r.db), query.DirectoryColumns, now)
}

func (r *directoryRepository) GetByEmployeeID(ctx context.Context, employeeID string) (directory.Entry, error) {
	return r.getOne(ctx, "employee_id = ?", employeeID)
}

func (r *directoryRepository) GetByCFMSID(ctx context.Context, cfmsID string) (directory.Entry, error) {
	return r.getOne(ctx, "cfms_id = ?", cfmsID)
}

func (r *directoryRepository) getOne(ctx context.Context, cond string, value string) (directory.Entry, error) {
	var row directoryRow
	err := getDB(ctx, r.db).Where(cond, value).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return directory.Entry{}, directory.ErrEntryNotFound
		}
		return directory.Entry{}, fmt.Errorf("failed to get directory entry: %w", wrapErr(err))
	}
	return row.entry(), nil
}

func (r *directoryRepository) ExistsByCFMSIDOrEmployeeID(ctx context.Context, cfmsID, employeeID string) (bool, bool, error) {
	db := getDB(ctx, r.db)

	var cfmsCount int64
	if err := db.Model(&directoryRow{}).Where("cfms_id = ?", cfmsID).Count(&cfmsCount).Error; err != nil {
		return false, false, fmt.Errorf("failed to check cfms id: %w", wrapErr(err))
	}

	var employeeCount int64
	if employeeID != "" {
		if err := db.Model(&directoryRow{}).Where("employee_id = ?", employeeID).Count(&employeeCount).Error; err != nil {
			return false, false, fmt.Errorf("failed to check employee id: %w", wrapErr(err))
		}
	}

	return cfmsCount > 0, employeeCount > 0, nil
}

func (r *directoryRepository) Create(ctx context.Context, e directory.Entry) (directory.Entry, error) {
	row := newDirectoryRow(e)
	row.SNo = 0
	if err := getDB(ctx, r.db).Create(&row).Error; err != nil {
		if constraint, ok := database.UniqueViolation(err); ok {
			return directory.Entry{}, duplicateErr(constraint)
		}
		return directory.Entry{}, fmt.Errorf("failed to create directory entry: %w", wrapErr(err))
	}
	return row.entry(), nil
}

func (r *directoryRepository) Upsert(ctx context.Context, e directory.Entry) (bool, error) {
	row := newDirectoryRow(e)
	row.SNo = 0
	res := getDB(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "cfms_id"}},
		DoUpdates: clause.AssignmentColumns(directoryUpsertColumns),
	}).Create(&row)
	if err := res.Error; err != nil {
		if constraint, ok := database.UniqueViolation(err); ok {
			return false, duplicateErr(constraint)
		}
		return false, fmt.Errorf("failed to upsert directory entry: %w", wrapErr(err))
	}
	// ON DUPLICATE KEY UPDATE reports 1 for an insert, 2 or 0 for an update.
	return res.RowsAffected == 1, nil
}

func (r *directoryRepository) DeleteByCFMSID(ctx context.Context, cfmsID string) error {
	res := getDB(ctx, r.db).Where("cfms_id = ?", cfmsID).Delete(&directoryRow{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete directory entry: %w", wrapErr(res.Error))
	}
	if res.RowsAffected == 0 {
		return directory.ErrEntryNotFound
	}
	return nil
}

func duplicateErr(constraint string) error {
	if constraint == "uq_directory_employee_id" {
		return directory.ErrEmployeeIDExists
	}
	return directory.ErrCFMSIDExists
}

func scanStats(db *gorm.DB, cols query.Columns, now time.Time) (staff.Stats, error) {
	sql, args := query.StatsSQL(query.MySQL, cols, now)

	var s staff.Stats
	err := db.Raw(sql, args...).Row().Scan(
		&s.Total,
		&s.Regular,
		&s.Incharge,
		&s.Suspended,
		&s.BirthdaysThisMonth,
		&s.BirthdaysNextMonth,
		&s.RetiringThisYear,
	)
	if err != nil {
		return staff.Stats{}, fmt.Errorf("failed to compute stats: %w", wrapErr(err))
	}
	return s, nil
}
