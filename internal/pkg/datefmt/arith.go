package datefmt

import (
	"fmt"
	"time"
)

// Age returns completed years between dob and now.
func Age(dob, now time.Time) int {
	return completedYears(dob, now)
}

// YearsOfService returns completed years between the joining date and now.
func YearsOfService(doj, now time.Time) int {
	return completedYears(doj, now)
}

// DaysUntilAnniversary returns the days from now until the next occurrence of
// date's day and month; 0 when that is today. 29 Feb falls on 1 Mar in
// non-leap years.
func DaysUntilAnniversary(date, now time.Time) int {
	today := dateOnly(now)
	next := time.Date(today.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	if next.Before(today) {
		next = time.Date(today.Year()+1, date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	}
	return int(next.Sub(today).Hours() / 24)
}

// DaysUntil returns the signed number of days from now to date.
func DaysUntil(date, now time.Time) int {
	return int(dateOnly(date).Sub(dateOnly(now)).Hours() / 24)
}

// TimeToRetire renders the span until dor as "N years M months", or
// "Retired" once dor has passed.
func TimeToRetire(dor, now time.Time) string {
	from, to := dateOnly(now), dateOnly(dor)
	if to.Before(from) {
		return "Retired"
	}
	months := (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
	if to.Day() < from.Day() {
		months--
	}
	return fmt.Sprintf("%d years %d months", months/12, months%12)
}

func completedYears(from, now time.Time) int {
	f, n := dateOnly(from), dateOnly(now)
	years := n.Year() - f.Year()
	if n.Month() < f.Month() || (n.Month() == f.Month() && n.Day() < f.Day()) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
