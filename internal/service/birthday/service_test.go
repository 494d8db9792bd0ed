package birthday

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cdma-ap/cmsnr-directory/internal/domain/birthday"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCandidateRepo struct {
	byDay map[string][]birthday.Candidate
	err   error
	asked []string
}

func (f *fakeCandidateRepo) ListByDayMonth(ctx context.Context, month time.Month, day int) ([]birthday.Candidate, error) {
	key := time.Date(2000, month, day, 0, 0, 0, 0, time.UTC).Format("01-02")
	f.asked = append(f.asked, key)
	if f.err != nil {
		return nil, f.err
	}
	return f.byDay[key], nil
}

type sentMessage struct {
	receiver string
	content  string
}

type fakeSender struct {
	mu     sync.Mutex
	sent   []sentMessage
	failOn map[string]error
}

func (f *fakeSender) Send(ctx context.Context, receiver, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failOn[receiver]; ok {
		return err
	}
	f.sent = append(f.sent, sentMessage{receiver: receiver, content: content})
	return nil
}

type fakeNotifier struct {
	summaries []birthday.Summary
	err       error
}

func (f *fakeNotifier) NotifySummary(ctx context.Context, s birthday.Summary) error {
	f.summaries = append(f.summaries, s)
	return f.err
}

func newTestService(repo birthday.CandidateRepository, sender birthday.Sender, notifier birthday.SummaryNotifier, now time.Time) (*BirthdayServiceImpl, *[]time.Duration) {
	svc := NewBirthdayService(repo, sender, Config{
		Location: time.UTC,
		Delay:    DefaultSendDelay,
		Notifier: notifier,
	}).(*BirthdayServiceImpl)

	var sleeps []time.Duration
	svc.now = func() time.Time { return now }
	svc.sleep = func(ctx context.Context, d time.Duration) error {
		sleeps = append(sleeps, d)
		return ctx.Err()
	}
	svc.newID = func() string { return "run-1" }
	return svc, &sleeps
}

var june15 = time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)

func TestToday_UsesLocalCalendarDay(t *testing.T) {
	repo := &fakeCandidateRepo{}
	ist, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	svc := NewBirthdayService(repo, &fakeSender{}, Config{Location: ist}).(*BirthdayServiceImpl)
	// 20:00 UTC on the 14th is already the 15th in India
	svc.now = func() time.Time { return time.Date(2025, 6, 14, 20, 0, 0, 0, time.UTC) }

	_, err = svc.Today(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"06-15"}, repo.asked)
}

func TestSendToday_Outcomes(t *testing.T) {
	repo := &fakeCandidateRepo{byDay: map[string][]birthday.Candidate{
		"06-15": {
			{Name: "Anil", Surname: "Rao", MobileNo: " 9876543210 ", EmployeeID: "1"},
			{Name: "Bhanu", MobileNo: "", EmployeeID: "2"},
			{Name: "Chandra", Surname: "Sekhar", MobileNo: "9000000000", EmployeeID: "3"},
		},
	}}
	sender := &fakeSender{failOn: map[string]error{"9000000000": errors.New("status 502")}}
	notifier := &fakeNotifier{}

	svc, sleeps := newTestService(repo, sender, notifier, june15)
	summary, err := svc.SendToday(context.Background(), birthday.TriggerManual)
	require.NoError(t, err)

	assert.Equal(t, "run-1", summary.RunID)
	assert.Equal(t, birthday.TriggerManual, summary.Trigger)
	assert.Equal(t, 1, summary.Sent)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 1, summary.Skipped)
	require.Len(t, summary.Results, 3)

	assert.True(t, summary.Results[0].Success)
	assert.Equal(t, "Anil Rao", summary.Results[0].Name)
	assert.Equal(t, "9876543210", summary.Results[0].Mobile)

	assert.True(t, summary.Results[1].Skipped())
	assert.Equal(t, birthday.ReasonNoMobile, summary.Results[1].Reason)

	assert.False(t, summary.Results[2].Success)
	assert.Equal(t, "status 502", summary.Results[2].Reason)

	// No call was made for the skipped candidate.
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "9876543210", sender.sent[0].receiver)
	assert.Contains(t, sender.sent[0].content, "Dear Anil Rao,")

	assert.Equal(t, []time.Duration{DefaultSendDelay, DefaultSendDelay}, *sleeps)
	require.Len(t, notifier.summaries, 1)
	assert.Equal(t, 1, notifier.summaries[0].Sent)
}

func TestSendToday_NoCandidates(t *testing.T) {
	svc, sleeps := newTestService(&fakeCandidateRepo{}, &fakeSender{}, nil, june15)

	summary, err := svc.SendToday(context.Background(), birthday.TriggerScheduled)
	require.NoError(t, err)
	assert.Zero(t, summary.Sent+summary.Failed+summary.Skipped)
	assert.NotNil(t, summary.Results)
	assert.Empty(t, *sleeps)
}

func TestSendToday_RepositoryError(t *testing.T) {
	svc, _ := newTestService(&fakeCandidateRepo{err: errors.New("db down")}, &fakeSender{}, nil, june15)

	_, err := svc.SendToday(context.Background(), birthday.TriggerManual)
	assert.ErrorContains(t, err, "db down")
}

func TestSendToday_NotifierErrorIgnored(t *testing.T) {
	repo := &fakeCandidateRepo{byDay: map[string][]birthday.Candidate{
		"06-15": {{Name: "Anil", MobileNo: "9876543210", EmployeeID: "1"}},
	}}
	svc, _ := newTestService(repo, &fakeSender{}, &fakeNotifier{err: errors.New("telegram down")}, june15)

	summary, err := svc.SendToday(context.Background(), birthday.TriggerManual)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Sent)
}

func TestSendToday_CancelledBetweenCandidates(t *testing.T) {
	repo := &fakeCandidateRepo{byDay: map[string][]birthday.Candidate{
		"06-15": {
			{Name: "A", MobileNo: "9876543210", EmployeeID: "1"},
			{Name: "B", MobileNo: "9876543211", EmployeeID: "2"},
		},
	}}
	sender := &fakeSender{}
	svc, _ := newTestService(repo, sender, nil, june15)

	ctx, cancel := context.WithCancel(context.Background())
	svc.sleep = func(context.Context, time.Duration) error {
		cancel()
		return context.Canceled
	}

	summary, err := svc.SendToday(ctx, birthday.TriggerManual)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, summary.Sent)
	assert.Len(t, sender.sent, 1)
}

func TestSleepContext(t *testing.T) {
	assert.NoError(t, sleepContext(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sleepContext(ctx, time.Hour), context.Canceled)
}
