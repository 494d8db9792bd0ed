package cron

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cdma-ap/cmsnr-directory/internal/domain/birthday"
)

// Several ticks fall inside the configured hour, so a failed run is retried
// before the hour ends.
const birthdayTick = 10 * time.Minute

type BirthdayJobs struct {
	birthdaySvc birthday.Service
	hour        int
	loc         *time.Location
	now         func() time.Time

	mu      sync.Mutex
	lastRun string
}

// NewBirthdayJobs fires the greeting run once per local day at hour.
func NewBirthdayJobs(birthdaySvc birthday.Service, hour int, loc *time.Location) *BirthdayJobs {
	if loc == nil {
		loc = time.UTC
	}
	return &BirthdayJobs{
		birthdaySvc: birthdaySvc,
		hour:        hour,
		loc:         loc,
		now:         time.Now,
	}
}

func (j *BirthdayJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("birthday_greetings", birthdayTick, j.SendBirthdayGreetings)
}

func (j *BirthdayJobs) SendBirthdayGreetings(ctx context.Context) error {
	now := j.now().In(j.loc)
	// Only run during the configured local hour
	if now.Hour() != j.hour {
		return nil
	}

	today := now.Format("2006-01-02")
	j.mu.Lock()
	if j.lastRun == today {
		j.mu.Unlock()
		return nil
	}
	j.lastRun = today
	j.mu.Unlock()

	slog.Info("Cron: Starting birthday greetings job", "date", today)

	summary, err := j.birthdaySvc.SendToday(ctx, birthday.TriggerScheduled)
	if err != nil {
		// Clear the guard so the next tick within the hour retries.
		j.mu.Lock()
		j.lastRun = ""
		j.mu.Unlock()
		return fmt.Errorf("failed to send birthday greetings: %w", err)
	}

	slog.Info("Cron: Birthday greetings job completed",
		"run_id", summary.RunID,
		"sent", summary.Sent,
		"failed", summary.Failed,
		"skipped", summary.Skipped,
	)
	return nil
}
