package birthday

import (
	"context"
	"time"
)

type CandidateRepository interface {
	// ListByDayMonth returns staff whose date of birth falls on day/month in any year.
	ListByDayMonth(ctx context.Context, month time.Month, day int) ([]Candidate, error)
}
