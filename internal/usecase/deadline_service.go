package usecase

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/Joona374/BracketChallenge2.0/internal/domain/deadline"
)

// DeadlineService answers contest clock questions against an injected clock.
type DeadlineService struct {
	contest deadline.Contest
	clock   clockwork.Clock
}

func NewDeadlineService(contest deadline.Contest, clock clockwork.Clock) *DeadlineService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &DeadlineService{contest: contest, clock: clock}
}

func (s *DeadlineService) Status(ctx context.Context) deadline.Status {
	_, span := startUsecaseSpan(ctx, "usecase.DeadlineService.Status")
	defer span.End()

	return s.contest.StatusAt(s.clock.Now())
}

func (s *DeadlineService) Passed() bool {
	return s.contest.Passed(s.clock.Now())
}

func (s *DeadlineService) InGracePeriod() bool {
	return s.contest.InGracePeriod(s.clock.Now())
}

func (s *DeadlineService) Now() time.Time {
	return s.clock.Now()
}
