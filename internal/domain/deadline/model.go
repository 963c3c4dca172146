package deadline

import (
	"fmt"
	"time"
)

const (
	PassedMessage   = "Deadline has passed"
	timestampLayout = "2006-01-02T15:04:05.000Z07:00"
)

// Contest holds the contest deadline and the grace window that follows it.
type Contest struct {
	Deadline    time.Time
	GracePeriod time.Duration
}

// Status is the deadline state at one instant.
type Status struct {
	DeadlinePassed    bool
	DeadlineTimestamp string
	TimeRemaining     string
	GracePeriodActive bool
	GracePeriodEnd    string
}

func (c Contest) Passed(now time.Time) bool {
	return !now.Before(c.Deadline)
}

func (c Contest) GraceEnd() time.Time {
	return c.Deadline.Add(c.GracePeriod)
}

// InGracePeriod reports whether lineup edits are paused after the deadline.
func (c Contest) InGracePeriod(now time.Time) bool {
	return c.GracePeriod > 0 && c.Passed(now) && now.Before(c.GraceEnd())
}

func (c Contest) StatusAt(now time.Time) Status {
	status := Status{
		DeadlinePassed:    c.Passed(now),
		DeadlineTimestamp: c.Deadline.UTC().Format(timestampLayout),
		TimeRemaining:     FormatRemaining(c.Deadline.Sub(now)),
		GracePeriodActive: c.InGracePeriod(now),
	}
	if c.GracePeriod > 0 {
		status.GracePeriodEnd = c.GraceEnd().UTC().Format(timestampLayout)
	}
	return status
}

// FormatRemaining renders a countdown as whole days, hours and minutes.
func FormatRemaining(d time.Duration) string {
	if d <= 0 {
		return PassedMessage
	}
	days := int(d / (24 * time.Hour))
	hours := int(d % (24 * time.Hour) / time.Hour)
	minutes := int(d % time.Hour / time.Minute)
	return fmt.Sprintf("%d days, %d hours, %d minutes", days, hours, minutes)
}
