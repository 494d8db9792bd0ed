package staff

import "errors"

// ErrPoolExhausted reports that the store refused a connection because its
// connection limit was reached.
var ErrPoolExhausted = errors.New("database connection limit reached")

// Stats is the summary snapshot behind the dashboard cards. Leave counts have
// no data source and are always zero.
type Stats struct {
	Total              int64 `json:"total"`
	Regular            int64 `json:"regular"`
	Incharge           int64 `json:"incharge"`
	Suspended          int64 `json:"suspended"`
	BirthdaysThisMonth int64 `json:"birthdaysThisMonth"`
	BirthdaysNextMonth int64 `json:"birthdaysNextMonth"`
	RetiringThisYear   int64 `json:"retiringThisYear"`
	OnLeaveToday       int64 `json:"onLeaveToday"`
	LeaveTomorrow      int64 `json:"leaveTomorrow"`
	UpcomingLeaves     int64 `json:"upcomingLeaves"`
}
