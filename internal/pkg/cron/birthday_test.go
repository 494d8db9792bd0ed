package cron

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

type countingBirthdayService struct {
	mu       sync.Mutex
	calls    int
	triggers []birthday.Trigger
	err      error
}

func (s *countingBirthdayService) Today(ctx context.Context) ([]birthday.Candidate, error) {
	return nil, nil
}

func (s *countingBirthdayService) SendToday(ctx context.Context, trigger birthday.Trigger) (birthday.Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.triggers = append(s.triggers, trigger)
	if s.err != nil {
		return birthday.Summary{}, s.err
	}
	return birthday.Summary{RunID: "run", Sent: 1}, nil
}

func TestBirthdayJobs_OnlyAtConfiguredHour(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	svc := &countingBirthdayService{}
	jobs := NewBirthdayJobs(svc, 9, loc)

	jobs.now = func() time.Time { return time.Date(2025, 6, 15, 8, 59, 0, 0, loc) }
	require.NoError(t, jobs.SendBirthdayGreetings(context.Background()))
	assert.Equal(t, 0, svc.calls)

	jobs.now = func() time.Time { return time.Date(2025, 6, 15, 9, 5, 0, 0, loc) }
	require.NoError(t, jobs.SendBirthdayGreetings(context.Background()))
	require.NoError(t, jobs.SendBirthdayGreetings(context.Background()))
	assert.Equal(t, 1, svc.calls)
	assert.Equal(t, []birthday.Trigger{birthday.TriggerScheduled}, svc.triggers)

	jobs.now = func() time.Time { return time.Date(2025, 6, 16, 9, 0, 0, 0, loc) }
	require.NoError(t, jobs.SendBirthdayGreetings(context.Background()))
	assert.Equal(t, 2, svc.calls)
}

func TestBirthdayJobs_UsesLocalHour(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	svc := &countingBirthdayService{}
	jobs := NewBirthdayJobs(svc, 9, loc)

	// 03:30 UTC is 09:00 IST
	jobs.now = func() time.Time { return time.Date(2025, 6, 15, 3, 30, 0, 0, time.UTC) }
	require.NoError(t, jobs.SendBirthdayGreetings(context.Background()))
	assert.Equal(t, 1, svc.calls)
}

func TestBirthdayJobs_RetriesAfterFailure(t *testing.T) {
	svc := &countingBirthdayService{err: errors.New("db down")}
	jobs := NewBirthdayJobs(svc, 9, time.UTC)
	jobs.now = func() time.Time { return time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC) }

	assert.Error(t, jobs.SendBirthdayGreetings(context.Background()))

	svc.err = nil
	require.NoError(t, jobs.SendBirthdayGreetings(context.Background()))
	assert.Equal(t, 2, svc.calls)
}

func TestScheduler_RegisterAndRunOnce(t *testing.T) {
	s := NewScheduler()
	svc := &countingBirthdayService{}
	jobs := NewBirthdayJobs(svc, 9, time.UTC)
	jobs.now = func() time.Time { return time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC) }
	jobs.RegisterJobs(s)

	assert.Equal(t, []string{"birthday_greetings"}, s.Jobs())

	s.RunOnce(context.Background())
	assert.Equal(t, 1, svc.calls)
}

func TestScheduler_StartRunsImmediately(t *testing.T) {
	s := NewScheduler()
	ran := make(chan struct{}, 1)
	s.AddJob("immediate", time.Hour, func(ctx context.Context) error {
		select {
		case ran <- struct{}{}:
		default:
		}
		return nil
	})

	s.Start()
	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run on start")
	}
	s.Stop()
}

func TestBirthdayJobs_FailedRunRetriedWithinHour(t *testing.T) {
	s := NewScheduler()
	svc := &countingBirthdayService{err: errors.New("db down")}
	jobs := NewBirthdayJobs(svc, 9, time.UTC)
	jobs.RegisterJobs(s)

	require.Len(t, s.jobs, 1)
	interval := s.jobs[0].Interval
	assert.GreaterOrEqual(t, int(time.Hour/interval), 2, "at least two ticks must land in the configured hour")

	// Walk the ticks of one hour: the first fails, the next succeeds, later ones are no-ops.
	start := time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)
	for at := start; at.Before(start.Add(time.Hour)); at = at.Add(interval) {
		tick := at
		jobs.now = func() time.Time { return tick }
		_ = jobs.SendBirthdayGreetings(context.Background())
		svc.mu.Lock()
		svc.err = nil
		svc.mu.Unlock()
	}
	assert.Equal(t, 2, svc.calls)
}
