package staff

import (
	"math"
	"strings"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 200
)

// MonthBucket selects birthdays relative to the current month.
type MonthBucket string

const (
	MonthAny     MonthBucket = ""
	MonthCurrent MonthBucket = "current"
	MonthNext    MonthBucket = "next"
)

func ParseMonthBucket(s string) MonthBucket {
	switch MonthBucket(strings.ToLower(strings.TrimSpace(s))) {
	case MonthCurrent:
		return MonthCurrent
	case MonthNext:
		return MonthNext
	default:
		return MonthAny
	}
}

// YearBucket selects retirements relative to the current year.
type YearBucket string

const (
	YearAny     YearBucket = ""
	YearCurrent YearBucket = "current"
)

func ParseYearBucket(s string) YearBucket {
	if YearBucket(strings.ToLower(strings.TrimSpace(s))) == YearCurrent {
		return YearCurrent
	}
	return YearAny
}

// Filter is the optional filter set accepted by directory and master queries.
// Zero values mean "not filtered". Unknown values in the bucket fields are
// dropped by the parse helpers, which leaves that dimension unfiltered.
type Filter struct {
	Search            string
	DistCode          string
	DeptID            string
	Designation       string
	Department        string
	District          string
	Status            StatusCategory
	BirthdayMonth     MonthBucket
	RetiringYear      YearBucket
	CommissionersOnly bool

	Page  int
	Limit int
}

// WithDefaults clamps paging to sane values.
func (f Filter) WithDefaults() Filter {
	if f.Page < 1 {
		f.Page = DefaultPage
	}
	if f.Limit < 1 {
		f.Limit = DefaultLimit
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}
	// Keeps Offset within a non-negative int32 on every platform and driver.
	if maxPage := math.MaxInt32/f.Limit + 1; f.Page > maxPage {
		f.Page = maxPage
	}
	f.Search = strings.TrimSpace(f.Search)
	return f
}

func (f Filter) Offset() int {
	return (f.Page - 1) * f.Limit
}

// Page is one window of a filtered result set. Total counts every match,
// not only the rows in this window.
type Page[T any] struct {
	Total int64
	Rows  []T
}
