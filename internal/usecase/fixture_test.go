package usecase

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/Joona374/BracketChallenge2.0/internal/domain/deadline"
	"github.com/Joona374/BracketChallenge2.0/internal/domain/lineup"
	"github.com/Joona374/BracketChallenge2.0/internal/infrastructure/repository/memory"
	"github.com/Joona374/BracketChallenge2.0/internal/platform/logging"
)

var testDeadline = time.Date(2025, 4, 19, 18, 0, 0, 0, time.UTC)

type testEnv struct {
	clock       *clockwork.FakeClock
	deadline    *DeadlineService
	publisher   *recordingPublisher
	teams       *memory.TeamRepository
	users       *memory.UserRepository
	players     *memory.PlayerRepository
	gameLogs    *memory.GameLogRepository
	matchups    *memory.MatchupRepository
	results     *memory.ResultRepository
	picks       *memory.PicksRepository
	lineups     *memory.LineupRepository
	predictions *memory.PredictionRepository
	scores      *memory.ScoringRepository
}

func newTestEnv(t *testing.T, now time.Time, grace time.Duration) *testEnv {
	t.Helper()

	clock := clockwork.NewFakeClockAt(now)
	return &testEnv{
		clock:       clock,
		deadline:    NewDeadlineService(deadline.Contest{Deadline: testDeadline, GracePeriod: grace}, clock),
		publisher:   &recordingPublisher{},
		teams:       memory.NewTeamRepository(memory.SeedTeams()),
		users:       memory.NewUserRepository(memory.SeedUsers()),
		players:     memory.NewPlayerRepository(memory.SeedPlayers()),
		gameLogs:    memory.NewGameLogRepository(),
		matchups:    memory.NewMatchupRepository(memory.SeedMatchups()),
		results:     memory.NewResultRepository(),
		picks:       memory.NewPicksRepository(),
		lineups:     memory.NewLineupRepository(),
		predictions: memory.NewPredictionRepository(),
		scores:      memory.NewScoringRepository(),
	}
}

func (e *testEnv) bracketService() *BracketService {
	return NewBracketService(e.matchups, e.results, e.picks, e.teams, e.users, nil, e.publisher, logging.NewNop())
}

func (e *testEnv) lineupService(logger *logging.Logger) *LineupService {
	if logger == nil {
		logger = logging.NewNop()
	}
	return NewLineupService(e.players, e.gameLogs, e.lineups, e.users, e.deadline, lineup.DefaultRules(), &sequenceIDs{}, e.publisher, logger)
}

func (e *testEnv) leaderboardService() *LeaderboardService {
	return NewLeaderboardService(LeaderboardDeps{
		Users:       e.users,
		Results:     e.results,
		Picks:       e.picks,
		Lineups:     e.lineups,
		Predictions: e.predictions,
		Players:     e.players,
		GameLogs:    e.gameLogs,
		Scores:      e.scores,
	}, LeaderboardConfig{
		PointsPerPick: 1,
		MaxWorkers:    2,
		Events:        e.publisher,
		Logger:        logging.NewNop(),
		Now:           e.clock.Now,
	})
}

type recordingPublisher struct {
	mu       sync.Mutex
	subjects []string
	payloads []any
	err      error
}

func (p *recordingPublisher) Publish(_ context.Context, subject string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.subjects = append(p.subjects, subject)
	p.payloads = append(p.payloads, payload)
	return p.err
}

func (p *recordingPublisher) published(subject string) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	count := 0
	for _, s := range p.subjects {
		if s == subject {
			count++
		}
	}
	return count
}

type sequenceIDs struct {
	mu   sync.Mutex
	next int
}

func (g *sequenceIDs) NewID() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.next++
	return fmt.Sprintf("trade-%d", g.next), nil
}
