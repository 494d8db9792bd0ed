package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cdma-ap/cmsnr-directory/internal/domain/directory"
	"github.com/cdma-ap/cmsnr-directory/internal/domain/staff"
	"github.com/cdma-ap/cmsnr-directory/internal/pkg/database"
	"github.com/cdma-ap/cmsnr-directory/internal/pkg/datefmt"
	"github.com/cdma-ap/cmsnr-directory/internal/repository/query"
	"github.com/jackc/pgx/v5"
)

const directoryColumns = `
	sno, cfms_id, employee_id, employee_name, sir_name, first_name,
	mobile_no, email, position, role, designation, department, district,
	distcode, dept_id, gender, status, dob, dor, doj, created_at`

type directoryRepositoryImpl struct {
	db *database.DB
}

func NewDirectoryRepository(db *database.DB) directory.EntryRepository {
	return &directoryRepositoryImpl{db: db}
}

// List implements directory.EntryRepository.
func (r *directoryRepositoryImpl) List(ctx context.Context, filter staff.Filter, now time.Time) (staff.Page[directory.Entry], error) {
	q := GetQuerier(ctx, r.db)
	filter = filter.WithDefaults()
	cols := query.DirectoryColumns

	b := query.New(query.Postgres).ApplyFilter(cols, filter, now)

	var total int64
	countSQL := "SELECT COUNT(*) FROM " + cols.Table + b.WhereClause()
	if err := q.QueryRow(ctx, countSQL, b.Args()...).Scan(&total); err != nil {
		return staff.Page[directory.Entry]{}, fmt.Errorf("failed to count directory entries: %w", wrapErr(err))
	}

	listSQL := "SELECT" + directoryColumns + " FROM " + cols.Table + b.WhereClause() +
		" ORDER BY " + cols.DefaultOrder + b.Page(filter.Limit, filter.Offset())

	rows, err := q.Query(ctx, listSQL, b.Args()...)
	if err != nil {
		return staff.Page[directory.Entry]{}, fmt.Errorf("failed to list directory entries: %w", wrapErr(err))
	}
	defer rows.Close()

	entries := make([]directory.Entry, 0, filter.Limit)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return staff.Page[directory.Entry]{}, fmt.Errorf("failed to scan directory entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return staff.Page[directory.Entry]{}, fmt.Errorf("rows iteration error: %w", wrapErr(err))
	}

	return staff.Page[directory.Entry]{Total: total, Rows: entries}, nil
}

// Stats implements directory.EntryRepository.
func (r *directoryRepositoryImpl) Stats(ctx context.Context, now time.Time) (staff.Stats, error) {
	return scanStats(ctx, GetQuerier(ctx, r.db), query.DirectoryColumns, now)
}

// GetByEmployeeID implements directory.EntryRepository.
func (r *directoryRepositoryImpl) GetByEmployeeID(ctx context.Context, employeeID string) (directory.Entry, error) {
	return r.getOne(ctx, "employee_id", employeeID)
}

// GetByCFMSID implements directory.EntryRepository.
func (r *directoryRepositoryImpl) GetByCFMSID(ctx context.Context, cfmsID string) (directory.Entry, error) {
	return r.getOne(ctx, "cfms_id", cfmsID)
}

func (r *directoryRepositoryImpl) getOne(ctx context.Context, column, value string) (directory.Entry, error) {
	q := GetQuerier(ctx, r.db)

	sql := "SELECT" + directoryColumns + " FROM commissioner_directory WHERE " + column + " = $1"
	e, err := scanEntry(q.QueryRow(ctx, sql, value))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return directory.Entry{}, directory.ErrEntryNotFound
		}
		return directory.Entry{}, fmt.Errorf("failed to get directory entry: %w", wrapErr(err))
	}
	return e, nil
}

// ExistsByCFMSIDOrEmployeeID implements directory.EntryRepository.
func (r *directoryRepositoryImpl) ExistsByCFMSIDOrEmployeeID(ctx context.Context, cfmsID, employeeID string) (bool, bool, error) {
	q := GetQuerier(ctx, r.db)

	sql := `
		SELECT
			EXISTS (SELECT 1 FROM commissioner_directory WHERE cfms_id = $1::text),
			$2::text <> '' AND EXISTS (SELECT 1 FROM commissioner_directory WHERE employee_id = $2::text)
	`

	var cfmsTaken, employeeTaken bool
	if err := q.QueryRow(ctx, sql, cfmsID, employeeID).Scan(&cfmsTaken, &employeeTaken); err != nil {
		return false, false, fmt.Errorf("failed to check directory identifiers: %w", wrapErr(err))
	}
	return cfmsTaken, employeeTaken, nil
}

// Create implements directory.EntryRepository.
func (r *directoryRepositoryImpl) Create(ctx context.Context, e directory.Entry) (directory.Entry, error) {
	q := GetQuerier(ctx, r.db)

	sql := `
		INSERT INTO commissioner_directory (
			cfms_id, employee_id, employee_name, sir_name, first_name,
			mobile_no, email, position, role, designation, department, district,
			distcode, dept_id, gender, status, dob, dor, doj
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		RETURNING sno, created_at
	`

	err := q.QueryRow(ctx, sql, entryArgs(e)...).Scan(&e.SNo, &e.CreatedAt)
	if err != nil {
		if constraint, ok := database.UniqueViolation(err); ok {
			return directory.Entry{}, duplicateErr(constraint)
		}
		return directory.Entry{}, fmt.Errorf("failed to create directory entry: %w", wrapErr(err))
	}

	return e, nil
}

// Upsert implements directory.EntryRepository.
func (r *directoryRepositoryImpl) Upsert(ctx context.Context, e directory.Entry) (bool, error) {
	q := GetQuerier(ctx, r.db)

	sql := `
		INSERT INTO commissioner_directory (
			cfms_id, employee_id, employee_name, sir_name, first_name,
			mobile_no, email, position, role, designation, department, district,
			distcode, dept_id, gender, status, dob, dor, doj
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		ON CONFLICT (cfms_id) DO UPDATE SET
			employee_id = EXCLUDED.employee_id,
			employee_name = EXCLUDED.employee_name,
			sir_name = EXCLUDED.sir_name,
			first_name = EXCLUDED.first_name,
			mobile_no = EXCLUDED.mobile_no,
			email = EXCLUDED.email,
			position = EXCLUDED.position,
			role = EXCLUDED.role,
			designation = EXCLUDED.designation,
			department = EXCLUDED.department,
			district = EXCLUDED.district,
			distcode = EXCLUDED.distcode,
			dept_id = EXCLUDED.dept_id,
			gender = EXCLUDED.gender,
			status = EXCLUDED.status,
			dob = EXCLUDED.dob,
			dor = EXCLUDED.dor,
			doj = EXCLUDED.doj
		RETURNING (xmax = 0)
	`

	var inserted bool
	if err := q.QueryRow(ctx, sql, entryArgs(e)...).Scan(&inserted); err != nil {
		if constraint, ok := database.UniqueViolation(err); ok {
			return false, duplicateErr(constraint)
		}
		return false, fmt.Errorf("failed to upsert directory entry: %w", wrapErr(err))
	}
	return inserted, nil
}

// DeleteByCFMSID implements directory.EntryRepository.
func (r *directoryRepositoryImpl) DeleteByCFMSID(ctx context.Context, cfmsID string) error {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `DELETE FROM commissioner_directory WHERE cfms_id = $1`, cfmsID)
	if err != nil {
		return fmt.Errorf("failed to delete directory entry: %w", wrapErr(err))
	}

	if commandTag.RowsAffected() == 0 {
		return directory.ErrEntryNotFound
	}

	return nil
}

func scanEntry(row pgx.Row) (directory.Entry, error) {
	var e directory.Entry
	var dob, dor, doj *time.Time
	err := row.Scan(
		&e.SNo,
		&e.CFMSID,
		&e.EmployeeID,
		&e.EmployeeName,
		&e.SirName,
		&e.FirstName,
		&e.MobileNo,
		&e.Email,
		&e.Position,
		&e.Role,
		&e.Designation,
		&e.Department,
		&e.District,
		&e.DistCode,
		&e.DeptID,
		&e.Gender,
		&e.Status,
		&dob,
		&dor,
		&doj,
		&e.CreatedAt,
	)
	if err != nil {
		return directory.Entry{}, err
	}
	e.DOB = datefmt.NormalizePtr(dob)
	e.DOR = datefmt.NormalizePtr(dor)
	e.DOJ = datefmt.NormalizePtr(doj)
	return e, nil
}

func entryArgs(e directory.Entry) []any {
	return []any{
		e.CFMSID,
		e.EmployeeID,
		e.EmployeeName,
		e.SirName,
		e.FirstName,
		e.MobileNo,
		e.Email,
		e.Position,
		e.Role,
		e.Designation,
		e.Department,
		e.District,
		e.DistCode,
		e.DeptID,
		e.Gender,
		e.Status,
		dateArg(e.DOB),
		dateArg(e.DOR),
		dateArg(e.DOJ),
	}
}

// dateArg binds a canonical date string as a DATE parameter.
func dateArg(v *string) *time.Time {
	t, ok := datefmt.Parse(v)
	if !ok {
		return nil
	}
	return &t
}

func duplicateErr(constraint string) error {
	if constraint == "uq_directory_employee_id" {
		return directory.ErrEmployeeIDExists
	}
	return directory.ErrCFMSIDExists
}

func scanStats(ctx context.Context, q database.Querier, cols query.Columns, now time.Time) (staff.Stats, error) {
	sql, args := query.StatsSQL(query.Postgres, cols, now)

	var s staff.Stats
	err := q.QueryRow(ctx, sql, args...).Scan(
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
