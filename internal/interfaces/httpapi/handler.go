package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/Joona374/BracketChallenge2.0/internal/platform/logging"
	"github.com/Joona374/BracketChallenge2.0/internal/usecase"
)

type Handler struct {
	bracketService     *usecase.BracketService
	lineupService      *usecase.LineupService
	predictionService  *usecase.PredictionService
	leaderboardService *usecase.LeaderboardService
	deadlineService    *usecase.DeadlineService
	playerService      *usecase.PlayerService
	teamService        *usecase.TeamService
	userService        *usecase.UserService
	dailyUpdateService *usecase.DailyUpdateService
	logger             *logging.Logger
	validator          *validator.Validate
}

// NewHandler wires the use cases behind the REST surface. dailyUpdateService
// may be nil when the stats provider is disabled.
func NewHandler(
	bracketService *usecase.BracketService,
	lineupService *usecase.LineupService,
	predictionService *usecase.PredictionService,
	leaderboardService *usecase.LeaderboardService,
	deadlineService *usecase.DeadlineService,
	playerService *usecase.PlayerService,
	teamService *usecase.TeamService,
	userService *usecase.UserService,
	dailyUpdateService *usecase.DailyUpdateService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		bracketService:     bracketService,
		lineupService:      lineupService,
		predictionService:  predictionService,
		leaderboardService: leaderboardService,
		deadlineService:    deadlineService,
		playerService:      playerService,
		teamService:        teamService,
		userService:        userService,
		dailyUpdateService: dailyUpdateService,
		logger:             logger,
		validator:          validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

// decodeAndValidate reads a strict JSON body into req and runs its
// validation tags.
func (h *Handler) decodeAndValidate(ctx context.Context, r *http.Request, req any) error {
	if err := decodeJSON(r, req); err != nil {
		return err
	}
	return h.validateRequest(ctx, req)
}

type ackDTO struct {
	Message string `json:"message"`
}
