package birthday

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cdma-ap/cmsnr-directory/internal/domain/birthday"
	"github.com/google/uuid"
)

const DefaultSendDelay = 500 * time.Millisecond

type Config struct {
	// Location defines which calendar day is "today".
	Location *time.Location
	// Delay is the pause between two consecutive candidates.
	Delay time.Duration
	// Notifier, when set, receives the summary of every run.
	Notifier birthday.SummaryNotifier
	// Clock overrides time.Now.
	Clock func() time.Time
}

type BirthdayServiceImpl struct {
	candidateRepo birthday.CandidateRepository
	sender        birthday.Sender
	notifier      birthday.SummaryNotifier
	loc           *time.Location
	delay         time.Duration

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
	newID func() string
}

func NewBirthdayService(candidateRepo birthday.CandidateRepository, sender birthday.Sender, cfg Config) birthday.Service {
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	delay := cfg.Delay
	if delay < 0 {
		delay = DefaultSendDelay
	}
	now := cfg.Clock
	if now == nil {
		now = time.Now
	}
	return &BirthdayServiceImpl{
		candidateRepo: candidateRepo,
		sender:        sender,
		notifier:      cfg.Notifier,
		loc:           loc,
		delay:         delay,
		now:           now,
		sleep:         sleepContext,
		newID:         uuid.NewString,
	}
}

// Today implements birthday.Service.
func (s *BirthdayServiceImpl) Today(ctx context.Context) ([]birthday.Candidate, error) {
	now := s.now().In(s.loc)
	candidates, err := s.candidateRepo.ListByDayMonth(ctx, now.Month(), now.Day())
	if err != nil {
		return nil, fmt.Errorf("failed to list birthday candidates: %w", err)
	}
	return candidates, nil
}

// SendToday implements birthday.Service.
func (s *BirthdayServiceImpl) SendToday(ctx context.Context, trigger birthday.Trigger) (birthday.Summary, error) {
	summary := birthday.Summary{
		RunID:     s.newID(),
		Trigger:   trigger,
		StartedAt: s.now(),
		Results:   []birthday.Result{},
	}
	log := slog.With("run_id", summary.RunID, "trigger", string(trigger))

	candidates, err := s.Today(ctx)
	if err != nil {
		return birthday.Summary{}, err
	}
	log.Info("Birthday run started", "candidates", len(candidates))

	var runErr error
	for i, c := range candidates {
		if i > 0 && s.delay > 0 {
			if err := s.sleep(ctx, s.delay); err != nil {
				log.Warn("Birthday run interrupted", "processed", i, "error", err)
				runErr = err
				break
			}
		}

		result := s.sendOne(ctx, c)
		switch {
		case result.Success:
			log.Info("Birthday greeting sent", "employeeid", result.EmployeeID, "name", result.Name, "mobile", result.Mobile)
		case result.Skipped():
			log.Warn("Birthday greeting skipped, no mobile number", "employeeid", result.EmployeeID, "name", result.Name)
		default:
			log.Error("Birthday greeting failed", "employeeid", result.EmployeeID, "name", result.Name, "mobile", result.Mobile, "error", result.Reason)
		}
		summary.Results = append(summary.Results, result)
	}

	summary.Tally()
	summary.FinishedAt = s.now()
	log.Info("Birthday run complete",
		"sent", summary.Sent,
		"failed", summary.Failed,
		"skipped", summary.Skipped,
		"duration", summary.FinishedAt.Sub(summary.StartedAt),
	)

	if s.notifier != nil {
		if err := s.notifier.NotifySummary(ctx, summary); err != nil {
			log.Error("Failed to notify birthday summary", "error", err)
		}
	}

	return summary, runErr
}

func (s *BirthdayServiceImpl) sendOne(ctx context.Context, c birthday.Candidate) birthday.Result {
	name := c.FullName()
	mobile := strings.TrimSpace(c.MobileNo)

	if mobile == "" {
		return birthday.Result{
			Reason:     birthday.ReasonNoMobile,
			EmployeeID: c.EmployeeID,
			Name:       name,
		}
	}

	if err := s.sender.Send(ctx, mobile, birthday.RenderGreeting(name)); err != nil {
		return birthday.Result{
			Reason:     err.Error(),
			EmployeeID: c.EmployeeID,
			Name:       name,
			Mobile:     mobile,
		}
	}

	return birthday.Result{
		Success:    true,
		EmployeeID: c.EmployeeID,
		Name:       name,
		Mobile:     mobile,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
