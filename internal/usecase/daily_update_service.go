package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/Joona374/BracketChallenge2.0/internal/domain/player"
	"github.com/Joona374/BracketChallenge2.0/internal/platform/logging"
)

// GameLogSource fetches a player's playoff game logs from the stats provider.
type GameLogSource interface {
	PlayerGameLogs(ctx context.Context, apiID int64) ([]player.GameLog, error)
}

type leaderboardRecomputer interface {
	Recompute(ctx context.Context) (RecomputeResult, error)
}

type DailyUpdateResult struct {
	Players      int
	GameLogs     int
	PriceChanges int
	Failed       int
	Duration     time.Duration
	Leaderboard  *RecomputeResult
}

// DailyUpdateService pulls new game logs, moves prices after each new game
// and refreshes the leaderboard.
type DailyUpdateService struct {
	source      GameLogSource
	playerRepo  player.Repository
	gameLogRepo player.GameLogRepository
	leaderboard leaderboardRecomputer
	workers     int
	logger      *logging.Logger
	now         func() time.Time
}

func NewDailyUpdateService(
	source GameLogSource,
	playerRepo player.Repository,
	gameLogRepo player.GameLogRepository,
	leaderboard leaderboardRecomputer,
	workers int,
	logger *logging.Logger,
) *DailyUpdateService {
	if workers <= 0 {
		workers = defaultScoringWorkers
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &DailyUpdateService{
		source:      source,
		playerRepo:  playerRepo,
		gameLogRepo: gameLogRepo,
		leaderboard: leaderboard,
		workers:     workers,
		logger:      logger,
		now:         time.Now,
	}
}

type playerLogs struct {
	player player.Player
	logs   []player.GameLog
}

func (s *DailyUpdateService) Run(ctx context.Context) (DailyUpdateResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DailyUpdateService.Run")
	defer span.End()

	if s.source == nil {
		return DailyUpdateResult{}, fmt.Errorf("%w: stats provider is disabled", ErrDependencyUnavailable)
	}

	start := s.now()
	players, err := s.playerRepo.List(ctx, player.Filter{})
	if err != nil {
		return DailyUpdateResult{}, fmt.Errorf("list players: %w", err)
	}

	fetched, failed, err := s.fetchAll(ctx, players)
	if err != nil {
		return DailyUpdateResult{}, err
	}

	result := DailyUpdateResult{Players: len(players), Failed: failed}
	var logs []player.GameLog
	var repriced []player.Player
	for _, item := range fetched {
		logs = append(logs, item.logs...)
		latest, ok := player.LatestGameLog(item.logs)
		if !ok {
			continue
		}
		if next, changed := player.AdjustPrice(item.player, latest); changed {
			repriced = append(repriced, next)
		}
	}

	if len(logs) > 0 {
		if err := s.gameLogRepo.Upsert(ctx, logs); err != nil {
			return DailyUpdateResult{}, fmt.Errorf("upsert game logs: %w", err)
		}
	}
	if len(repriced) > 0 {
		if err := s.playerRepo.UpdatePrices(ctx, repriced); err != nil {
			return DailyUpdateResult{}, fmt.Errorf("update player prices: %w", err)
		}
	}
	result.GameLogs = len(logs)
	result.PriceChanges = len(repriced)

	if s.leaderboard != nil {
		recomputed, err := s.leaderboard.Recompute(ctx)
		if err != nil {
			return DailyUpdateResult{}, fmt.Errorf("recompute leaderboard: %w", err)
		}
		result.Leaderboard = &recomputed
	}

	result.Duration = s.now().Sub(start)
	s.logger.InfoContext(ctx, "daily update finished",
		"players", result.Players,
		"game_logs", result.GameLogs,
		"price_changes", result.PriceChanges,
		"failed", result.Failed,
		"duration_ms", result.Duration.Milliseconds(),
	)
	return result, nil
}

// fetchAll pulls logs per player on a worker pool. A failed player is
// logged and counted, never fatal.
func (s *DailyUpdateService) fetchAll(ctx context.Context, players []player.Player) ([]playerLogs, int, error) {
	workers, err := ants.NewPool(min(s.workers, max(1, len(players))))
	if err != nil {
		return nil, 0, fmt.Errorf("create worker pool: %w", err)
	}
	defer workers.Release()

	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		out    = make([]playerLogs, 0, len(players))
		failed int
	)
	for _, p := range players {
		if p.APIID == 0 {
			continue
		}
		p := p
		wg.Add(1)
		if err := workers.Submit(func() {
			defer wg.Done()

			logs, err := s.source.PlayerGameLogs(ctx, p.APIID)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed++
				s.logger.WarnContext(ctx, "fetch game logs failed", "player_id", p.ID, "api_id", p.APIID, "error", err)
				return
			}
			for i := range logs {
				logs[i].PlayerID = p.ID
				logs[i].IsGoalie = p.IsGoalie()
			}
			out = append(out, playerLogs{player: p, logs: logs})
		}); err != nil {
			wg.Done()
			return nil, 0, fmt.Errorf("submit fetch task: %w", err)
		}
	}
	wg.Wait()

	return out, failed, nil
}
