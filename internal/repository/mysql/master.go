package mysql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cdma-ap/cmsnr-directory/internal/domain/birthday"
	"github.com/cdma-ap/cmsnr-directory/internal/domain/master"
	"github.com/cdma-ap/cmsnr-directory/internal/domain/staff"
	"github.com/cdma-ap/cmsnr-directory/internal/repository/query"
	"gorm.io/gorm"
)

type staffRepository struct {
	db *gorm.DB
}

func NewStaffRepository(db *gorm.DB) master.StaffRepository {
	return &staffRepository{db}
}

func NewCandidateRepository(db *gorm.DB) birthday.CandidateRepository {
	return &staffRepository{db}
}

func (r *staffRepository) List(ctx context.Context, filter staff.Filter, now time.Time) (staff.Page[master.StaffRecord], error) {
	filter = filter.WithDefaults()
	b := query.New(query.MySQL).ApplyFilter(query.MasterColumns, filter, now)
	return r.page(ctx, b, filter, query.MasterColumns.DefaultOrder)
}

func (r *staffRepository) SearchAll(ctx context.Context, filter staff.Filter, now time.Time) (staff.Page[master.StaffRecord], error) {
	filter = filter.WithDefaults()
	b := query.New(query.MySQL).ApplyBroadFilter(query.MasterColumns, filter, now)
	return r.page(ctx, b, filter, query.MasterColumns.BroadOrder)
}

func (r *staffRepository) page(ctx context.Context, b *query.Builder, filter staff.Filter, order string) (staff.Page[master.StaffRecord], error) {
	base := getDB(ctx, r.db).Model(&staffRow{})
	if expr := b.Expr(); expr != "" {
		base = base.Where(expr, b.Args()...)
	}
	base = base.Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return staff.Page[master.StaffRecord]{}, fmt.Errorf("failed to count staff: %w", wrapErr(err))
	}

	var rows []staffRow
	if err := base.Order(order).Limit(filter.Limit).Offset(filter.Offset()).Find(&rows).Error; err != nil {
		return staff.Page[master.StaffRecord]{}, fmt.Errorf("failed to list staff: %w", wrapErr(err))
	}

	records := make([]master.StaffRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.record())
	}
	return staff.Page[master.StaffRecord]{Total: total, Rows: records}, nil
}

func (r *staffRepository) Stats(ctx context.Context, now time.Time) (staff.Stats, error) {
	return scanStats(getDB(ctx, r.db), query.MasterColumns, now)
}

func (r *staffRepository) GetByEmployeeID(ctx context.Context, employeeID string) (master.StaffRecord, error) {
	return r.getOne(ctx, "employeeid = ?", employeeID)
}

func (r *staffRepository) GetByCFMSID(ctx context.Context, cfmsID string) (master.StaffRecord, error) {
	return r.getOne(ctx, "cfms_id = ?", cfmsID)
}

func (r *staffRepository) getOne(ctx context.Context, cond, value string) (master.StaffRecord, error) {
	var row staffRow
	err := getDB(ctx, r.db).Where(cond, value).Order("employeeid").First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return master.StaffRecord{}, master.ErrStaffNotFound
		}
		return master.StaffRecord{}, fmt.Errorf("failed to get staff: %w", wrapErr(err))
	}
	return row.record(), nil
}

func (r *staffRepository) ListByDayMonth(ctx context.Context, month time.Month, day int) ([]birthday.Candidate, error) {
	b := query.New(query.MySQL)
	b.Where("dob_on IS NOT NULL")
	b.Where(b.MonthOf("dob_on") + " = " + b.Arg(int(month)))
	b.Where(b.DayOf("dob_on") + " = " + b.Arg(day))

	var rows []staffRow
	err := getDB(ctx, r.db).
		Select("name", "surname", "mobileno", "employeeid").
		Where(b.Expr(), b.Args()...).
		Order("employeeid ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list birthdays: %w", wrapErr(err))
	}

	candidates := make([]birthday.Candidate, 0, len(rows))
	for _, row := range rows {
		candidates = append(candidates, row.candidate())
	}
	return candidates, nil
}
