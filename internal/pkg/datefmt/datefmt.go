// Package datefmt turns the inconsistent date values found in staff records
// (DD/MM/YYYY text, ISO text, native times, empty values) into canonical
// calendar dates. None of its functions return errors: an unusable value is
// reported as absent.
package datefmt

import (
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	// ISOLayout is the canonical string form of a date.
	ISOLayout = "2006-01-02"
	// DisplayLayout matches the en-IN short form, e.g. "05 Mar 1988".
	DisplayLayout = "02 Jan 2006"

	minYear = 1900
	maxYear = 2100
)

// Day/month order is always DD/MM, never MM/DD.
var dayMonthYearRe = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)

// Layouts tried in order when the value is not DD/MM/YYYY.
var fallbackLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	ISOLayout,
	"2006/01/02",
	DisplayLayout,
	"2 Jan 2006",
	"02-Jan-2006",
	"Jan 2, 2006",
	"January 2, 2006",
	time.RFC1123,
	time.RFC1123Z,
}

// Parse returns the calendar date carried by v, at midnight UTC.
// Accepted inputs are string, *string, time.Time, *time.Time and nil.
func Parse(v any) (time.Time, bool) {
	switch val := v.(type) {
	case nil:
		return time.Time{}, false
	case string:
		return parseString(val)
	case *string:
		if val == nil {
			return time.Time{}, false
		}
		return parseString(*val)
	case time.Time:
		return fromTime(val)
	case *time.Time:
		if val == nil {
			return time.Time{}, false
		}
		return fromTime(*val)
	default:
		slog.Warn("datefmt: unexpected date value type", "type", fmt.Sprintf("%T", v))
		return time.Time{}, false
	}
}

// Normalize returns v as a YYYY-MM-DD string, or ok=false when v holds no usable date.
func Normalize(v any) (string, bool) {
	t, ok := Parse(v)
	if !ok {
		return "", false
	}
	return t.Format(ISOLayout), true
}

// Format renders v as "02 Jan 2006", or fallback when v holds no usable date.
func Format(v any, fallback string) string {
	t, ok := Parse(v)
	if !ok {
		return fallback
	}
	return t.Format(DisplayLayout)
}

// NormalizePtr is Normalize for nullable columns.
func NormalizePtr(v any) *string {
	s, ok := Normalize(v)
	if !ok {
		return nil
	}
	return &s
}

func parseString(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	if m := dayMonthYearRe.FindStringSubmatch(s); m != nil {
		return fromDayMonthYear(m[1], m[2], m[3])
	}

	for _, layout := range fallbackLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return fromTime(t)
		}
	}

	slog.Debug("datefmt: unparseable date", "value", s)
	return time.Time{}, false
}

func fromDayMonthYear(ds, ms, ys string) (time.Time, bool) {
	day, _ := strconv.Atoi(ds)
	month, _ := strconv.Atoi(ms)
	year, _ := strconv.Atoi(ys)

	if day < 1 || day > 31 || month < 1 || month > 12 || year < minYear || year > maxYear {
		return time.Time{}, false
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date rolls 31/02 over into March; reject instead of rounding.
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

func fromTime(t time.Time) (time.Time, bool) {
	if t.IsZero() {
		return time.Time{}, false
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true
}
