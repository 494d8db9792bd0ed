package http

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/cdma-ap/cmsnr-directory/internal/domain/staff"
)

// parseFilter reads the list filter vocabulary from query params. Unknown
// status, bucket and card values leave their dimension unfiltered. A card
// supersedes every other dimension.
func parseFilter(q url.Values) staff.Filter {
	state := staff.FilterState{
		Search:        strings.TrimSpace(q.Get("search")),
		DistCode:      strings.TrimSpace(q.Get("distcode")),
		DeptID:        strings.TrimSpace(q.Get("dept_id")),
		Designation:   strings.TrimSpace(q.Get("designation")),
		BirthdayMonth: staff.ParseMonthBucket(q.Get("birthdayMonth")),
		RetiringYear:  staff.ParseYearBucket(q.Get("retiringYear")),
		Page:          atoi(q.Get("page")),
		Limit:         atoi(q.Get("limit")),
	}
	if status, ok := staff.ParseStatusCategory(q.Get("status")); ok {
		state.Status = status
	}

	if card, ok := staff.ParseCard(q.Get("card")); ok && card != staff.CardNone {
		state = staff.Reduce(state, staff.CardClicked{Card: card})
		return state.Filter()
	}

	f := state.Filter()
	f.Department = strings.TrimSpace(q.Get("department"))
	f.District = strings.TrimSpace(q.Get("district"))
	f.CommissionersOnly = strings.EqualFold(strings.TrimSpace(q.Get("position")), "commissioner")
	return f
}

func atoi(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
