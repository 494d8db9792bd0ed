package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cdma-ap/cmsnr-directory/internal/domain/birthday"
	"github.com/cdma-ap/cmsnr-directory/internal/domain/master"
	"github.com/cdma-ap/cmsnr-directory/internal/domain/staff"
	"github.com/cdma-ap/cmsnr-directory/internal/pkg/database"
	"github.com/cdma-ap/cmsnr-directory/internal/repository/query"
	"github.com/jackc/pgx/v5"
)

const staffColumns = `
	employeeid, cfms_id, name, surname, fathername, designation, desgcode,
	dept_id, department_name, department_code, distcode, distname,
	description_long, mobileno, email1, doj, dor, dob, basicpay, gross,
	gender_desc, employee_status, position_name`

type staffRepositoryImpl struct {
	db *database.DB
}

func NewStaffRepository(db *database.DB) master.StaffRepository {
	return &staffRepositoryImpl{db: db}
}

// NewCandidateRepository reads birthday candidates from the master table.
func NewCandidateRepository(db *database.DB) birthday.CandidateRepository {
	return &staffRepositoryImpl{db: db}
}

// List implements master.StaffRepository.
func (r *staffRepositoryImpl) List(ctx context.Context, filter staff.Filter, now time.Time) (staff.Page[master.StaffRecord], error) {
	filter = filter.WithDefaults()
	b := query.New(query.Postgres).ApplyFilter(query.MasterColumns, filter, now)
	return r.page(ctx, b, filter, query.MasterColumns.DefaultOrder)
}

// SearchAll implements master.StaffRepository.
func (r *staffRepositoryImpl) SearchAll(ctx context.Context, filter staff.Filter, now time.Time) (staff.Page[master.StaffRecord], error) {
	filter = filter.WithDefaults()
	b := query.New(query.Postgres).ApplyBroadFilter(query.MasterColumns, filter, now)
	return r.page(ctx, b, filter, query.MasterColumns.BroadOrder)
}

func (r *staffRepositoryImpl) page(ctx context.Context, b *query.Builder, filter staff.Filter, order string) (staff.Page[master.StaffRecord], error) {
	q := GetQuerier(ctx, r.db)
	table := query.MasterColumns.Table

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM "+table+b.WhereClause(), b.Args()...).Scan(&total); err != nil {
		return staff.Page[master.StaffRecord]{}, fmt.Errorf("failed to count staff: %w", wrapErr(err))
	}

	listSQL := "SELECT" + staffColumns + " FROM " + table + b.WhereClause() +
		" ORDER BY " + order + b.Page(filter.Limit, filter.Offset())

	rows, err := q.Query(ctx, listSQL, b.Args()...)
	if err != nil {
		return staff.Page[master.StaffRecord]{}, fmt.Errorf("failed to list staff: %w", wrapErr(err))
	}
	defer rows.Close()

	records := make([]master.StaffRecord, 0, filter.Limit)
	for rows.Next() {
		rec, err := scanStaff(rows)
		if err != nil {
			return staff.Page[master.StaffRecord]{}, fmt.Errorf("failed to scan staff: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return staff.Page[master.StaffRecord]{}, fmt.Errorf("rows iteration error: %w", wrapErr(err))
	}

	return staff.Page[master.StaffRecord]{Total: total, Rows: records}, nil
}

// Stats implements master.StaffRepository.
func (r *staffRepositoryImpl) Stats(ctx context.Context, now time.Time) (staff.Stats, error) {
	return scanStats(ctx, GetQuerier(ctx, r.db), query.MasterColumns, now)
}

// GetByEmployeeID implements master.StaffRepository.
func (r *staffRepositoryImpl) GetByEmployeeID(ctx context.Context, employeeID string) (master.StaffRecord, error) {
	return r.getOne(ctx, "employeeid", employeeID)
}

// GetByCFMSID implements master.StaffRepository.
func (r *staffRepositoryImpl) GetByCFMSID(ctx context.Context, cfmsID string) (master.StaffRecord, error) {
	return r.getOne(ctx, "cfms_id", cfmsID)
}

func (r *staffRepositoryImpl) getOne(ctx context.Context, column, value string) (master.StaffRecord, error) {
	q := GetQuerier(ctx, r.db)

	// cfms_id is not unique in the loaded data; take the first by employeeid.
	sql := "SELECT" + staffColumns + " FROM master_staff WHERE " + column + " = $1 ORDER BY employeeid LIMIT 1"
	rec, err := scanStaff(q.QueryRow(ctx, sql, value))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return master.StaffRecord{}, master.ErrStaffNotFound
		}
		return master.StaffRecord{}, fmt.Errorf("failed to get staff: %w", wrapErr(err))
	}
	return rec, nil
}

// ListByDayMonth implements birthday.CandidateRepository.
func (r *staffRepositoryImpl) ListByDayMonth(ctx context.Context, month time.Month, day int) ([]birthday.Candidate, error) {
	q := GetQuerier(ctx, r.db)

	b := query.New(query.Postgres)
	b.Where("dob_on IS NOT NULL")
	b.Where(b.MonthOf("dob_on") + " = " + b.Arg(int(month)))
	b.Where(b.DayOf("dob_on") + " = " + b.Arg(day))

	sql := "SELECT name, surname, mobileno, employeeid FROM master_staff" + b.WhereClause() + " ORDER BY employeeid ASC"

	rows, err := q.Query(ctx, sql, b.Args()...)
	if err != nil {
		return nil, fmt.Errorf("failed to list birthdays: %w", wrapErr(err))
	}
	defer rows.Close()

	candidates := []birthday.Candidate{}
	for rows.Next() {
		var c birthday.Candidate
		if err := rows.Scan(&c.Name, &c.Surname, &c.MobileNo, &c.EmployeeID); err != nil {
			return nil, fmt.Errorf("failed to scan birthday candidate: %w", err)
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", wrapErr(err))
	}

	return candidates, nil
}

func scanStaff(row pgx.Row) (master.StaffRecord, error) {
	var rec master.StaffRecord
	var basicPay, gross string
	err := row.Scan(
		&rec.EmployeeID,
		&rec.CFMSID,
		&rec.Name,
		&rec.Surname,
		&rec.FatherName,
		&rec.Designation,
		&rec.DesgCode,
		&rec.DeptID,
		&rec.DepartmentName,
		&rec.DepartmentCode,
		&rec.DistCode,
		&rec.DistName,
		&rec.DescriptionLong,
		&rec.MobileNo,
		&rec.Email1,
		&rec.DOJ,
		&rec.DOR,
		&rec.DOB,
		&basicPay,
		&gross,
		&rec.GenderDesc,
		&rec.EmployeeStatus,
		&rec.PositionName,
	)
	if err != nil {
		return master.StaffRecord{}, err
	}
	rec.BasicPay = master.ParsePay(basicPay)
	rec.Gross = master.ParsePay(gross)
	rec.StatusCategory = staff.ClassifyStatus(rec.EmployeeStatus)
	return rec, nil
}
