package query

import (
	"fmt"
	"strings"
	"time"

	"github.com/cdma-ap/cmsnr-directory/internal/domain/staff"
)

// StatsSQL builds the single-pass aggregate behind the summary cards. The
// selected columns are, in order: total, regular, incharge, suspended,
// birthdays_this_month, birthdays_next_month, retiring_this_year.
func StatsSQL(d Dialect, cols Columns, now time.Time) (string, []any) {
	b := New(d)
	sum := func(pred string) string {
		return fmt.Sprintf("COALESCE(SUM(CASE WHEN %s THEN 1 ELSE 0 END), 0)", pred)
	}

	thisMonth, _ := BirthdayMonth(staff.MonthCurrent, now)
	nextMonth, _ := BirthdayMonth(staff.MonthNext, now)

	selects := []string{
		"COUNT(*) AS total",
		sum(b.StatusPredicate(cols, staff.StatusRegular)) + " AS regular",
		sum(b.StatusPredicate(cols, staff.StatusIncharge)) + " AS incharge",
		sum(b.StatusPredicate(cols, staff.StatusSuspended)) + " AS suspended",
		sum(fmt.Sprintf("%s IS NOT NULL AND %s = %s", cols.DOB, b.MonthOf(cols.DOB), b.Arg(thisMonth))) + " AS birthdays_this_month",
		sum(fmt.Sprintf("%s IS NOT NULL AND %s = %s", cols.DOB, b.MonthOf(cols.DOB), b.Arg(nextMonth))) + " AS birthdays_next_month",
		sum(fmt.Sprintf("%s IS NOT NULL AND %s = %s", cols.DOR, b.YearOf(cols.DOR), b.Arg(now.Year()))) + " AS retiring_this_year",
	}

	sql := fmt.Sprintf("SELECT\n\t%s\nFROM %s", strings.Join(selects, ",\n\t"), cols.Table)
	return sql, b.Args()
}
