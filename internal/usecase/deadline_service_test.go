package usecase

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/Joona374/BracketChallenge2.0/internal/domain/deadline"
)

func TestDeadlineService_Status(t *testing.T) {
	clock := clockwork.NewFakeClockAt(testDeadline.Add(-25*time.Hour - 30*time.Minute))
	svc := NewDeadlineService(deadline.Contest{Deadline: testDeadline, GracePeriod: time.Hour}, clock)

	status := svc.Status(t.Context())
	if status.DeadlinePassed || status.TimeRemaining != "1 days, 1 hours, 30 minutes" {
		t.Fatalf("unexpected status before deadline: %+v", status)
	}
	if status.DeadlineTimestamp != "2025-04-19T18:00:00.000Z" {
		t.Fatalf("unexpected deadline timestamp: %s", status.DeadlineTimestamp)
	}

	clock.Advance(26 * time.Hour)
	if !svc.Passed() || !svc.InGracePeriod() {
		t.Fatalf("expected grace period 30 minutes after the deadline")
	}
	status = svc.Status(t.Context())
	if !status.GracePeriodActive || status.TimeRemaining != deadline.PassedMessage {
		t.Fatalf("unexpected status in grace period: %+v", status)
	}

	clock.Advance(time.Hour)
	if !svc.Passed() || svc.InGracePeriod() {
		t.Fatalf("grace period must end an hour after the deadline")
	}
}
