package birthday

import (
	"strings"
	"time"
)

// ReasonNoMobile marks a candidate skipped for lack of a contact number.
const ReasonNoMobile = "no_mobile"

// Trigger records what started a run.
type Trigger string

const (
	TriggerScheduled Trigger = "scheduled"
	TriggerManual    Trigger = "manual"
)

// Candidate is a master staff member whose birthday is today.
type Candidate struct {
	Name       string `json:"name"`
	Surname    string `json:"surname"`
	MobileNo   string `json:"mobileno"`
	EmployeeID string `json:"employeeid"`
}

func (c Candidate) FullName() string {
	parts := make([]string, 0, 2)
	for _, p := range []string{c.Name, c.Surname} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// Result is the outcome for one candidate. A failed send carries the error
// text in Reason.
type Result struct {
	Success    bool   `json:"success"`
	Reason     string `json:"reason,omitempty"`
	EmployeeID string `json:"employeeid"`
	Name       string `json:"name"`
	Mobile     string `json:"mobile,omitempty"`
}

func (r Result) Skipped() bool {
	return !r.Success && r.Reason == ReasonNoMobile
}

// Summary describes a completed run.
type Summary struct {
	RunID      string    `json:"run_id"`
	Trigger    Trigger   `json:"trigger"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Sent       int       `json:"sent"`
	Failed     int       `json:"failed"`
	Skipped    int       `json:"skipped"`
	Results    []Result  `json:"results"`
}

// Tally recomputes the sent/failed/skipped counts from Results.
func (s *Summary) Tally() {
	s.Sent, s.Failed, s.Skipped = 0, 0, 0
	for _, r := range s.Results {
		switch {
		case r.Success:
			s.Sent++
		case r.Skipped():
			s.Skipped++
		default:
			s.Failed++
		}
	}
}

// Greeting is the message sent to each candidate; {{name}} is replaced by the full name.
const Greeting = `Dear {{name}},
On behalf of the Commissioner & Director of Municipal Administration (CDMA), we wish you a very Happy Birthday! 🎂
May this year bring you continued health, happiness, and success in your professional journey. We appreciate your dedicated efforts and commitment toward the growth and excellence of the Department.
Warm Regards,
Director,
CDMA, MA&UD Department.`

func RenderGreeting(fullName string) string {
	return strings.Replace(Greeting, "{{name}}", fullName, 1)
}
