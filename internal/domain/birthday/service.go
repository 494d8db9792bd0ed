package birthday

import "context"

type Service interface {
	// Today lists today's candidates without sending anything.
	Today(ctx context.Context) ([]Candidate, error)
	// SendToday messages every candidate in turn and reports the outcomes.
	SendToday(ctx context.Context, trigger Trigger) (Summary, error)
}

// Sender delivers one message to one mobile number.
type Sender interface {
	Send(ctx context.Context, receiver, content string) error
}

// SummaryNotifier reports a finished run to administrators.
type SummaryNotifier interface {
	NotifySummary(ctx context.Context, summary Summary) error
}
