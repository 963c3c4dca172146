package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/sourcegraph/conc/pool"

	"github.com/Joona374/BracketChallenge2.0/internal/domain/bracket"
	"github.com/Joona374/BracketChallenge2.0/internal/domain/leaderboard"
	"github.com/Joona374/BracketChallenge2.0/internal/domain/lineup"
	"github.com/Joona374/BracketChallenge2.0/internal/domain/player"
	"github.com/Joona374/BracketChallenge2.0/internal/domain/prediction"
	"github.com/Joona374/BracketChallenge2.0/internal/domain/scoring"
	"github.com/Joona374/BracketChallenge2.0/internal/domain/user"
	"github.com/Joona374/BracketChallenge2.0/internal/platform/logging"
)

const defaultScoringWorkers = 8

type LeaderboardDeps struct {
	Users       user.Repository
	Results     bracket.ResultRepository
	Picks       bracket.PicksRepository
	Lineups     lineup.Repository
	Predictions prediction.Repository
	Players     player.Repository
	GameLogs    player.GameLogRepository
	Scores      scoring.Repository
}

type LeaderboardConfig struct {
	BracketWeights bracket.Weights
	PointsPerPick  int
	MaxWorkers     int
	Events         EventPublisher
	Logger         *logging.Logger
	Now            func() time.Time
}

type RecomputeResult struct {
	Users        int
	Failed       int
	CalculatedAt time.Time
}

type LeaderboardService struct {
	deps    LeaderboardDeps
	weights bracket.Weights
	perPick int
	workers int
	events  EventPublisher
	logger  *logging.Logger
	now     func() time.Time
}

func NewLeaderboardService(deps LeaderboardDeps, cfg LeaderboardConfig) *LeaderboardService {
	if cfg.BracketWeights == nil {
		cfg.BracketWeights = bracket.DefaultWeights()
	}
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = defaultScoringWorkers
	}
	if cfg.Events == nil {
		cfg.Events = NoopPublisher()
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &LeaderboardService{
		deps:    deps,
		weights: cfg.BracketWeights,
		perPick: cfg.PointsPerPick,
		workers: cfg.MaxWorkers,
		events:  cfg.Events,
		logger:  cfg.Logger,
		now:     cfg.Now,
	}
}

func (s *LeaderboardService) List(ctx context.Context) ([]leaderboard.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.List")
	defer span.End()

	users, err := s.deps.Users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	points, err := s.deps.Scores.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list user points: %w", err)
	}

	return leaderboard.Build(users, points), nil
}

type scoringSnapshot struct {
	users       []user.User
	results     []bracket.Result
	picks       map[string]bracket.Picks
	lineups     map[string]lineup.Record
	predictions map[string]prediction.Picks
	players     []player.Player
	playerByID  map[string]player.Player
	logs        []player.GameLog
}

// Recompute scores every user and stores the totals. Reference data loads
// concurrently; per-user scoring runs on a bounded worker pool.
func (s *LeaderboardService) Recompute(ctx context.Context) (RecomputeResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.Recompute")
	defer span.End()

	snap, err := s.loadSnapshot(ctx)
	if err != nil {
		return RecomputeResult{}, err
	}

	calculatedAt := s.now().UTC()
	workerCount := min(s.workers, max(1, len(snap.users)))
	workers, err := ants.NewPool(workerCount)
	if err != nil {
		return RecomputeResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer workers.Release()

	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		points = make([]scoring.UserPoints, 0, len(snap.users))
		failed int
	)
	for _, u := range snap.users {
		u := u
		wg.Add(1)
		if err := workers.Submit(func() {
			defer wg.Done()

			item, err := s.scoreUser(ctx, u.ID, snap)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed++
				s.logger.WarnContext(ctx, "score user failed", "user_id", u.ID, "error", err)
				return
			}
			item.CalculatedAt = calculatedAt
			points = append(points, item)
		}); err != nil {
			wg.Done()
			return RecomputeResult{}, fmt.Errorf("submit scoring task: %w", err)
		}
	}
	wg.Wait()

	sort.Slice(points, func(i, j int) bool { return points[i].UserID < points[j].UserID })
	if err := s.deps.Scores.UpsertMany(ctx, points); err != nil {
		return RecomputeResult{}, fmt.Errorf("upsert user points: %w", err)
	}

	result := RecomputeResult{Users: len(points), Failed: failed, CalculatedAt: calculatedAt}
	s.logger.InfoContext(ctx, "leaderboard recomputed", "users", result.Users, "failed", result.Failed)
	publishBestEffort(ctx, s.events, s.logger, EventLeaderboardRecomputed, LeaderboardRecomputedEvent{
		Users:        result.Users,
		CalculatedAt: calculatedAt.Format(time.RFC3339),
	})
	return result, nil
}

func (s *LeaderboardService) loadSnapshot(ctx context.Context) (scoringSnapshot, error) {
	var snap scoringSnapshot
	loads := pool.New().WithContext(ctx).WithCancelOnError()

	loads.Go(func(ctx context.Context) error {
		items, err := s.deps.Users.List(ctx)
		if err != nil {
			return fmt.Errorf("list users: %w", err)
		}
		snap.users = items
		return nil
	})
	loads.Go(func(ctx context.Context) error {
		items, err := s.deps.Results.List(ctx)
		if err != nil {
			return fmt.Errorf("list results: %w", err)
		}
		snap.results = items
		return nil
	})
	loads.Go(func(ctx context.Context) error {
		items, err := s.deps.Picks.ListAll(ctx)
		if err != nil {
			return fmt.Errorf("list picks: %w", err)
		}
		snap.picks = make(map[string]bracket.Picks, len(items))
		for _, item := range items {
			snap.picks[item.UserID] = item.Picks
		}
		return nil
	})
	loads.Go(func(ctx context.Context) error {
		items, err := s.deps.Lineups.ListAll(ctx)
		if err != nil {
			return fmt.Errorf("list lineups: %w", err)
		}
		snap.lineups = make(map[string]lineup.Record, len(items))
		for _, item := range items {
			snap.lineups[item.UserID] = item
		}
		return nil
	})
	loads.Go(func(ctx context.Context) error {
		items, err := s.deps.Predictions.ListAll(ctx)
		if err != nil {
			return fmt.Errorf("list predictions: %w", err)
		}
		snap.predictions = make(map[string]prediction.Picks, len(items))
		for _, item := range items {
			snap.predictions[item.UserID] = item.Picks
		}
		return nil
	})
	loads.Go(func(ctx context.Context) error {
		items, err := s.deps.Players.List(ctx, player.Filter{})
		if err != nil {
			return fmt.Errorf("list players: %w", err)
		}
		snap.players = items
		snap.playerByID = make(map[string]player.Player, len(items))
		for _, p := range items {
			snap.playerByID[p.ID] = p
		}
		return nil
	})
	loads.Go(func(ctx context.Context) error {
		if s.deps.GameLogs == nil {
			return nil
		}
		items, err := s.deps.GameLogs.ListAll(ctx)
		if err != nil {
			return fmt.Errorf("list game logs: %w", err)
		}
		snap.logs = items
		return nil
	})

	if err := loads.Wait(); err != nil {
		return scoringSnapshot{}, err
	}
	return snap, nil
}

func (s *LeaderboardService) scoreUser(ctx context.Context, userID string, snap scoringSnapshot) (scoring.UserPoints, error) {
	out := scoring.UserPoints{UserID: userID}

	if picks, ok := snap.picks[userID]; ok {
		score := bracket.ScorePicks(bracket.Derive(picks), snap.results, s.weights)
		out.BracketRounds = score.Rounds
		out.BracketPoints = score.Total
	}

	if _, ok := snap.lineups[userID]; ok {
		history, err := s.deps.Lineups.ListHistory(ctx, userID)
		if err != nil {
			return scoring.UserPoints{}, fmt.Errorf("list lineup history: %w", err)
		}
		out.LineupPoints = lineup.GameLogPoints(history, snap.logs, snap.playerByID)
	}

	if picks, ok := snap.predictions[userID]; ok {
		out.PredictionPoints = prediction.Summarize(picks, snap.players).Points(s.perPick)
	}

	return out.Sum(), nil
}
