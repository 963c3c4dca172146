package scheduler

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/jonboulle/clockwork"

	"github.com/Joona374/BracketChallenge2.0/internal/platform/logging"
	"github.com/Joona374/BracketChallenge2.0/internal/usecase"
)

const (
	JobLeaderboard = "leaderboard-recompute"
	JobDailyUpdate = "daily-stats-update"
)

type LeaderboardRecomputer interface {
	Recompute(ctx context.Context) (usecase.RecomputeResult, error)
}

type DailyUpdater interface {
	Run(ctx context.Context) (usecase.DailyUpdateResult, error)
}

type Config struct {
	LeaderboardInterval time.Duration
	// DailyUpdateAt is HH:MM in Location. Empty disables the daily job.
	DailyUpdateAt string
	Location      *time.Location
	JobTimeout    time.Duration
	Clock         clockwork.Clock
}

// Scheduler runs the periodic leaderboard recompute and the daily stats
// update. Jobs never overlap with themselves.
type Scheduler struct {
	s           gocron.Scheduler
	cfg         Config
	leaderboard LeaderboardRecomputer
	daily       DailyUpdater
	logger      *logging.Logger

	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
	jobs   map[string]gocron.Job
}

func New(cfg Config, leaderboard LeaderboardRecomputer, daily DailyUpdater, logger *logging.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = 10 * time.Minute
	}

	s, err := gocron.NewScheduler(
		gocron.WithLocation(cfg.Location),
		gocron.WithClock(cfg.Clock),
		gocron.WithLogger(logger.Named("gocron")),
		gocron.WithGlobalJobOptions(gocron.WithSingletonMode(gocron.LimitModeReschedule)),
	)
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		s:           s,
		cfg:         cfg,
		leaderboard: leaderboard,
		daily:       daily,
		logger:      logger,
		ctx:         ctx,
		cancel:      cancel,
		jobs:        make(map[string]gocron.Job, 2),
	}, nil
}

// Start registers the configured jobs and starts the scheduler.
func (s *Scheduler) Start() error {
	if s.leaderboard != nil && s.cfg.LeaderboardInterval > 0 {
		job, err := s.s.NewJob(
			gocron.DurationJob(s.cfg.LeaderboardInterval),
			gocron.NewTask(s.runLeaderboard),
			gocron.WithName(JobLeaderboard),
		)
		if err != nil {
			return fmt.Errorf("create leaderboard job: %w", err)
		}
		s.track(JobLeaderboard, job)
	}

	if s.daily != nil && strings.TrimSpace(s.cfg.DailyUpdateAt) != "" {
		hour, minute, err := ParseClock(s.cfg.DailyUpdateAt)
		if err != nil {
			return err
		}
		job, err := s.s.NewJob(
			gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(hour, minute, 0))),
			gocron.NewTask(s.runDailyUpdate),
			gocron.WithName(JobDailyUpdate),
		)
		if err != nil {
			return fmt.Errorf("create daily update job: %w", err)
		}
		s.track(JobDailyUpdate, job)
	}

	s.s.Start()
	s.logger.Info("scheduler started",
		"leaderboard_interval", s.cfg.LeaderboardInterval.String(),
		"daily_update_at", s.cfg.DailyUpdateAt,
		"location", s.cfg.Location.String(),
	)
	return nil
}

// RunNow triggers a registered job outside its schedule.
func (s *Scheduler) RunNow(name string) error {
	s.mu.Lock()
	job, ok := s.jobs[name]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("job %q is not scheduled", name)
	}
	return job.RunNow()
}

// NextRun reports when a registered job runs next.
func (s *Scheduler) NextRun(name string) (time.Time, error) {
	s.mu.Lock()
	job, ok := s.jobs[name]
	s.mu.Unlock()
	if !ok {
		return time.Time{}, fmt.Errorf("job %q is not scheduled", name)
	}
	return job.NextRun()
}

func (s *Scheduler) Stop() error {
	s.cancel()
	if err := s.s.Shutdown(); err != nil {
		return fmt.Errorf("shutdown scheduler: %w", err)
	}
	return nil
}

func (s *Scheduler) track(name string, job gocron.Job) {
	s.mu.Lock()
	s.jobs[name] = job
	s.mu.Unlock()
}

func (s *Scheduler) runLeaderboard() {
	ctx, cancel := context.WithTimeout(s.ctx, s.cfg.JobTimeout)
	defer cancel()

	result, err := s.leaderboard.Recompute(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "scheduled leaderboard recompute failed", "error", err)
		return
	}
	s.logger.InfoContext(ctx, "scheduled leaderboard recompute done", "users", result.Users, "failed", result.Failed)
}

func (s *Scheduler) runDailyUpdate() {
	ctx, cancel := context.WithTimeout(s.ctx, s.cfg.JobTimeout)
	defer cancel()

	result, err := s.daily.Run(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "scheduled daily update failed", "error", err)
		return
	}
	s.logger.InfoContext(ctx, "scheduled daily update done",
		"players", result.Players,
		"game_logs", result.GameLogs,
		"price_changes", result.PriceChanges,
		"failed", result.Failed,
	)
}

// ParseClock parses an HH:MM wall clock time.
func ParseClock(raw string) (uint, uint, error) {
	parts := strings.Split(strings.TrimSpace(raw), ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid clock %q: expected HH:MM", raw)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid clock %q: hour must be 00-23", raw)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid clock %q: minute must be 00-59", raw)
	}
	return uint(hour), uint(minute), nil
}
