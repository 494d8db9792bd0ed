// Package query composes the parameterized WHERE clauses shared by the
// PostgreSQL and MySQL repositories.
package query

import (
	"fmt"
	"strings"
	"time"

	"github.com/cdma-ap/cmsnr-directory/internal/domain/staff"
)

type Dialect int

const (
	Postgres Dialect = iota
	MySQL
)

// Builder accumulates AND-ed conditions and their bound arguments.
type Builder struct {
	dialect    Dialect
	conditions []string
	args       []any
}

func New(d Dialect) *Builder {
	return &Builder{dialect: d}
}

// Arg binds v and returns its placeholder.
func (b *Builder) Arg(v any) string {
	b.args = append(b.args, v)
	if b.dialect == Postgres {
		return fmt.Sprintf("$%d", len(b.args))
	}
	return "?"
}

// Where adds one condition. Conditions are joined with AND.
func (b *Builder) Where(cond string) *Builder {
	b.conditions = append(b.conditions, cond)
	return b
}

// WhereClause renders " WHERE ..." or an empty string.
func (b *Builder) WhereClause() string {
	if len(b.conditions) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(b.conditions, " AND ")
}

// Expr is the AND-ed conditions without the WHERE keyword.
func (b *Builder) Expr() string {
	return strings.Join(b.conditions, " AND ")
}

// Conditions returns the number of conditions added so far.
func (b *Builder) Conditions() int {
	return len(b.conditions)
}

// Args returns a copy of the bound arguments.
func (b *Builder) Args() []any {
	out := make([]any, len(b.args))
	copy(out, b.args)
	return out
}

// Page appends LIMIT/OFFSET placeholders.
func (b *Builder) Page(limit, offset int) string {
	return fmt.Sprintf(" LIMIT %s OFFSET %s", b.Arg(limit), b.Arg(offset))
}

func (b *Builder) MonthOf(col string) string {
	if b.dialect == Postgres {
		return fmt.Sprintf("EXTRACT(MONTH FROM %s)::int", col)
	}
	return fmt.Sprintf("MONTH(%s)", col)
}

func (b *Builder) DayOf(col string) string {
	if b.dialect == Postgres {
		return fmt.Sprintf("EXTRACT(DAY FROM %s)::int", col)
	}
	return fmt.Sprintf("DAYOFMONTH(%s)", col)
}

func (b *Builder) YearOf(col string) string {
	if b.dialect == Postgres {
		return fmt.Sprintf("EXTRACT(YEAR FROM %s)::int", col)
	}
	return fmt.Sprintf("YEAR(%s)", col)
}

// ApplyFilter adds one predicate per filter dimension present in f.
func (b *Builder) ApplyFilter(cols Columns, f staff.Filter, now time.Time) *Builder {
	if f.Search != "" {
		b.Where(b.searchPredicate(cols, f.Search))
	}
	b.applyDimensions(cols, f, now)
	return b
}

// ApplyBroadFilter is ApplyFilter with the search term matched loosely
// against every broad column.
func (b *Builder) ApplyBroadFilter(cols Columns, f staff.Filter, now time.Time) *Builder {
	if f.Search != "" {
		pattern := likePattern(f.Search)
		parts := make([]string, 0, len(cols.BroadColumns))
		for _, c := range cols.BroadColumns {
			parts = append(parts, fmt.Sprintf("LOWER(%s) LIKE %s", c, b.Arg(pattern)))
		}
		b.Where("(" + strings.Join(parts, " OR ") + ")")
	}
	b.applyDimensions(cols, f, now)
	return b
}

func (b *Builder) applyDimensions(cols Columns, f staff.Filter, now time.Time) {
	if v := strings.TrimSpace(f.DistCode); v != "" {
		b.Where(fmt.Sprintf("%s = %s", cols.DistCode, b.Arg(v)))
	}
	if v := strings.TrimSpace(f.DeptID); v != "" {
		b.Where(fmt.Sprintf("%s = %s", cols.DeptID, b.Arg(v)))
	}
	if v := strings.TrimSpace(f.Designation); v != "" {
		b.Where(fmt.Sprintf("%s = %s", cols.Designation, b.Arg(v)))
	}
	if v := strings.TrimSpace(f.Department); v != "" {
		b.Where(fmt.Sprintf("LOWER(%s) LIKE %s", cols.Department, b.Arg(likePattern(v))))
	}
	if v := strings.TrimSpace(f.District); v != "" {
		b.Where(fmt.Sprintf("LOWER(%s) LIKE %s", cols.District, b.Arg(likePattern(v))))
	}
	if f.CommissionersOnly {
		b.Where(b.CommissionerPredicate(cols))
	}
	if f.Status.Valid() {
		b.Where(b.StatusPredicate(cols, f.Status))
	}
	if month, ok := BirthdayMonth(f.BirthdayMonth, now); ok {
		b.Where(fmt.Sprintf("%s IS NOT NULL AND %s = %s", cols.DOB, b.MonthOf(cols.DOB), b.Arg(month)))
	}
	if f.RetiringYear == staff.YearCurrent {
		b.Where(fmt.Sprintf("%s IS NOT NULL AND %s = %s", cols.DOR, b.YearOf(cols.DOR), b.Arg(now.Year())))
	}
}

// Names by substring, identifiers by exact value only.
func (b *Builder) searchPredicate(cols Columns, term string) string {
	pattern := likePattern(term)
	parts := make([]string, 0, len(cols.NameColumns)+len(cols.IdentifierColumns))
	for _, c := range cols.NameColumns {
		parts = append(parts, fmt.Sprintf("LOWER(%s) LIKE %s", c, b.Arg(pattern)))
	}
	for _, c := range cols.IdentifierColumns {
		parts = append(parts, fmt.Sprintf("%s = %s", c, b.Arg(term)))
	}
	return "(" + strings.Join(parts, " OR ") + ")"
}

// StatusPredicate matches every legacy encoding of category c.
func (b *Builder) StatusPredicate(cols Columns, c staff.StatusCategory) string {
	enc := c.Encoding()
	parts := make([]string, 0, len(enc.Contains)+1)
	for _, sub := range enc.Contains {
		parts = append(parts, fmt.Sprintf("UPPER(%s) LIKE %s", cols.Status, b.Arg("%"+sub+"%")))
	}
	if len(enc.Exact) > 0 {
		ph := make([]string, 0, len(enc.Exact))
		for _, e := range enc.Exact {
			ph = append(ph, b.Arg(e))
		}
		parts = append(parts, fmt.Sprintf("UPPER(TRIM(%s)) IN (%s)", cols.Status, strings.Join(ph, ", ")))
	}
	return "(" + strings.Join(parts, " OR ") + ")"
}

// CommissionerPredicate restricts to commissioner and director postings.
func (b *Builder) CommissionerPredicate(cols Columns) string {
	return fmt.Sprintf("(UPPER(%s) LIKE %s OR UPPER(%s) LIKE %s)",
		cols.Position, b.Arg("%COMMISSIONER%"),
		cols.Position, b.Arg("%DIRECTOR%"),
	)
}

// BirthdayMonth resolves a bucket to a calendar month; December's next is January.
func BirthdayMonth(bucket staff.MonthBucket, now time.Time) (int, bool) {
	switch bucket {
	case staff.MonthCurrent:
		return int(now.Month()), true
	case staff.MonthNext:
		return int(now.Month())%12 + 1, true
	default:
		return 0, false
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(term string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(strings.TrimSpace(term))) + "%"
}
