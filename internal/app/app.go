package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/jonboulle/clockwork"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/Joona374/BracketChallenge2.0/external/nhlapi"
	"github.com/Joona374/BracketChallenge2.0/internal/config"
	"github.com/Joona374/BracketChallenge2.0/internal/domain/bracket"
	"github.com/Joona374/BracketChallenge2.0/internal/domain/deadline"
	"github.com/Joona374/BracketChallenge2.0/internal/domain/lineup"
	"github.com/Joona374/BracketChallenge2.0/internal/domain/player"
	"github.com/Joona374/BracketChallenge2.0/internal/domain/prediction"
	"github.com/Joona374/BracketChallenge2.0/internal/domain/scoring"
	"github.com/Joona374/BracketChallenge2.0/internal/domain/team"
	"github.com/Joona374/BracketChallenge2.0/internal/domain/user"
	"github.com/Joona374/BracketChallenge2.0/internal/infrastructure/events"
	"github.com/Joona374/BracketChallenge2.0/internal/infrastructure/repository/cache"
	"github.com/Joona374/BracketChallenge2.0/internal/infrastructure/repository/memory"
	"github.com/Joona374/BracketChallenge2.0/internal/infrastructure/repository/postgres"
	"github.com/Joona374/BracketChallenge2.0/internal/infrastructure/scheduler"
	"github.com/Joona374/BracketChallenge2.0/internal/interfaces/httpapi"
	basecache "github.com/Joona374/BracketChallenge2.0/internal/platform/cache"
	"github.com/Joona374/BracketChallenge2.0/internal/platform/id"
	"github.com/Joona374/BracketChallenge2.0/internal/platform/logging"
	"github.com/Joona374/BracketChallenge2.0/internal/platform/resilience"
	"github.com/Joona374/BracketChallenge2.0/internal/usecase"
)

const dbPingTimeout = 5 * time.Second

// App owns the HTTP server and everything it depends on.
type App struct {
	Server    *http.Server
	Scheduler *scheduler.Scheduler

	logger  *logging.Logger
	closers []func() error
	started bool
}

type repositories struct {
	teams       team.Repository
	users       user.Repository
	players     player.Repository
	gameLogs    player.GameLogRepository
	matchups    bracket.MatchupRepository
	results     bracket.ResultRepository
	picks       bracket.PicksRepository
	lineups     lineup.Repository
	predictions prediction.Repository
	scores      scoring.Repository
}

// New wires repositories, use cases, the router and the optional background
// jobs. Call Close when done, even if Start was never called.
func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	a := &App{logger: logger}

	repos, err := a.openRepositories(ctx, cfg)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	publisher, err := a.openPublisher(cfg)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	clock := clockwork.NewRealClock()
	weights := roundWeights(cfg.BracketRoundPoints)

	deadlineSvc := usecase.NewDeadlineService(deadline.Contest{
		Deadline:    cfg.ContestDeadline.In(cfg.ContestLocation),
		GracePeriod: cfg.ContestGracePeriod,
	}, clock)
	bracketSvc := usecase.NewBracketService(
		repos.matchups,
		repos.results,
		repos.picks,
		repos.teams,
		repos.users,
		weights,
		publisher,
		logger.Named("bracket"),
	)
	lineupSvc := usecase.NewLineupService(
		repos.players,
		repos.gameLogs,
		repos.lineups,
		repos.users,
		deadlineSvc,
		lineup.Rules{TotalBudget: cfg.LineupTotalBudget, MaxTrades: cfg.LineupMaxTrades},
		id.NewUUIDGenerator(),
		publisher,
		logger.Named("lineup"),
	)
	predictionSvc := usecase.NewPredictionService(repos.predictions, repos.players, repos.users, cfg.PredictionPointsPerPick)
	leaderboardSvc := usecase.NewLeaderboardService(usecase.LeaderboardDeps{
		Users:       repos.users,
		Results:     repos.results,
		Picks:       repos.picks,
		Lineups:     repos.lineups,
		Predictions: repos.predictions,
		Players:     repos.players,
		GameLogs:    repos.gameLogs,
		Scores:      repos.scores,
	}, usecase.LeaderboardConfig{
		BracketWeights: weights,
		PointsPerPick:  cfg.PredictionPointsPerPick,
		MaxWorkers:     cfg.WorkerPoolSize,
		Events:         publisher,
		Logger:         logger.Named("leaderboard"),
		Now:            clock.Now,
	})

	var dailySvc *usecase.DailyUpdateService
	if cfg.NHLAPIEnabled {
		client := nhlapi.NewClient(nhlapi.ClientConfig{
			BaseURL:    cfg.NHLAPIBaseURL,
			Season:     cfg.NHLAPISeason,
			Timeout:    cfg.NHLAPITimeout,
			MaxRetries: cfg.NHLAPIMaxRetries,
			Logger:     logger.Named("nhlapi"),
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.NHLAPICircuitEnabled,
				FailureThreshold: cfg.NHLAPICircuitFailures,
				OpenTimeout:      cfg.NHLAPICircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.NHLAPICircuitHalfOpenMax,
			},
		})
		dailySvc = usecase.NewDailyUpdateService(client, repos.players, repos.gameLogs, leaderboardSvc, cfg.WorkerPoolSize, logger.Named("daily_update"))
	} else {
		logger.Info("nhl api disabled", "reason", "NHLAPI_ENABLED=false")
	}

	if cfg.JobsEnabled {
		jobCfg := scheduler.Config{
			LeaderboardInterval: cfg.JobLeaderboardInterval,
			DailyUpdateAt:       cfg.JobDailyUpdateAt,
			Location:            cfg.ContestLocation,
			Clock:               clock,
		}
		var daily scheduler.DailyUpdater
		if dailySvc != nil {
			daily = dailySvc
		}
		sched, err := scheduler.New(jobCfg, leaderboardSvc, daily, logger.Named("scheduler"))
		if err != nil {
			_ = a.Close()
			return nil, err
		}
		a.Scheduler = sched
	}

	handler := httpapi.NewHandler(
		bracketSvc,
		lineupSvc,
		predictionSvc,
		leaderboardSvc,
		deadlineSvc,
		usecase.NewPlayerService(repos.players),
		usecase.NewTeamService(repos.teams),
		usecase.NewUserService(repos.users),
		dailySvc,
		logger.Named("http"),
	)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.AdminToken)
	if cfg.AdminToken == "" {
		logger.Warn("admin routes disabled", "reason", "ADMIN_TOKEN empty")
	}

	a.Server = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return a, nil
}

// Start launches the background jobs. The HTTP server is started by the
// caller.
func (a *App) Start() error {
	if a.Scheduler == nil {
		return nil
	}
	if err := a.Scheduler.Start(); err != nil {
		return err
	}
	a.started = true
	return nil
}

// Close stops the jobs and releases connections in reverse open order.
func (a *App) Close() error {
	var firstErr error
	if a.Scheduler != nil && a.started {
		if err := a.Scheduler.Stop(); err != nil {
			firstErr = err
		}
		a.started = false
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	a.closers = nil
	return firstErr
}

func (a *App) openRepositories(ctx context.Context, cfg config.Config) (repositories, error) {
	var repos repositories
	if cfg.InMemory() {
		a.logger.Info("using in-memory repositories", "reason", "DB_URL empty")
		repos = repositories{
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
	} else {
		db, err := a.openDB(ctx, cfg)
		if err != nil {
			return repositories{}, err
		}
		repos = repositories{
			teams:       postgres.NewTeamRepository(db),
			users:       postgres.NewUserRepository(db),
			players:     postgres.NewPlayerRepository(db),
			gameLogs:    postgres.NewGameLogRepository(db),
			matchups:    postgres.NewMatchupRepository(db),
			results:     postgres.NewResultRepository(db),
			picks:       postgres.NewPicksRepository(db),
			lineups:     postgres.NewLineupRepository(db),
			predictions: postgres.NewPredictionRepository(db),
			scores:      postgres.NewScoringRepository(db),
		}
	}

	if !cfg.CacheEnabled {
		return repos, nil
	}

	store := basecache.NewStore(cfg.CacheTTL)
	repos.teams = cache.NewTeamRepository(repos.teams, store)
	repos.users = cache.NewUserRepository(repos.users, store)
	repos.players = cache.NewPlayerRepository(repos.players, store)
	repos.matchups = cache.NewMatchupRepository(repos.matchups, store)
	repos.results = cache.NewResultRepository(repos.results, store)
	a.logger.Info("repository cache enabled", "ttl", cfg.CacheTTL.String())
	return repos, nil
}

func (a *App) openDB(ctx context.Context, cfg config.Config) (*sqlx.DB, error) {
	dbName := dbNameFromURL(cfg.DBURL)
	db, err := otelsqlx.Open(
		"postgres",
		DatabaseURL(cfg),
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbName),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	a.closers = append(a.closers, db.Close)

	pingCtx, cancel := context.WithTimeout(ctx, dbPingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if err := postgres.BootstrapSeed(ctx, db); err != nil {
		return nil, fmt.Errorf("bootstrap seed: %w", err)
	}

	a.logger.Info("postgres connected", "db_name", dbName)
	return db, nil
}

func (a *App) openPublisher(cfg config.Config) (usecase.EventPublisher, error) {
	if !cfg.NATSEnabled {
		a.logger.Info("nats disabled", "reason", "NATS_ENABLED=false")
		return usecase.NoopPublisher(), nil
	}

	publisher, err := events.NewNATSPublisher(events.NATSConfig{
		URL:           cfg.NATSURL,
		SubjectPrefix: cfg.NATSSubjectPrefix,
		ClientName:    cfg.ServiceName,
		MaxReconnects: -1,
	}, a.logger.Named("events"))
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	a.closers = append(a.closers, publisher.Close)
	return publisher, nil
}

func roundWeights(points []int) bracket.Weights {
	if len(points) != 4 {
		return bracket.DefaultWeights()
	}
	return bracket.Weights{
		bracket.RoundOne:   points[0],
		bracket.RoundTwo:   points[1],
		bracket.RoundThree: points[2],
		bracket.RoundFinal: points[3],
	}
}
