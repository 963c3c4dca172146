package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/Joona374/BracketChallenge2.0/internal/domain/leaderboard"
	"github.com/Joona374/BracketChallenge2.0/internal/usecase"
)

func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLeaderboard")
	defer span.End()

	entries, err := h.leaderboardService.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list leaderboard failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]leaderboardEntryDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, leaderboardEntryToDTO(e))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) GetDeadlineStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetDeadlineStatus")
	defer span.End()

	status := h.deadlineService.Status(ctx)
	writeSuccess(ctx, w, http.StatusOK, deadlineStatusDTO{
		DeadlinePassed:    status.DeadlinePassed,
		DeadlineTimestamp: status.DeadlineTimestamp,
		TimeRemaining:     status.TimeRemaining,
		GracePeriodActive: status.GracePeriodActive,
		GracePeriodEnd:    status.GracePeriodEnd,
	})
}

func (h *Handler) RecomputeLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecomputeLeaderboard")
	defer span.End()

	result, err := h.leaderboardService.Recompute(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "recompute leaderboard failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, recomputeToDTO(result))
}

func (h *Handler) RunDailyUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunDailyUpdate")
	defer span.End()

	if h.dailyUpdateService == nil {
		writeError(ctx, w, fmt.Errorf("%w: stats provider is disabled", usecase.ErrDependencyUnavailable))
		return
	}

	result, err := h.dailyUpdateService.Run(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "daily update failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	out := dailyUpdateDTO{
		Players:      result.Players,
		GameLogs:     result.GameLogs,
		PriceChanges: result.PriceChanges,
		Failed:       result.Failed,
		DurationMS:   result.Duration.Milliseconds(),
	}
	if result.Leaderboard != nil {
		lb := recomputeToDTO(*result.Leaderboard)
		out.Leaderboard = &lb
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

type leaderboardEntryDTO struct {
	UserID            string `json:"userId"`
	Rank              int    `json:"rank"`
	Username          string `json:"username"`
	TeamName          string `json:"teamName"`
	LogoURL           string `json:"logoUrl,omitempty"`
	TotalPoints       int    `json:"totalPoints"`
	BracketPoints     int    `json:"bracketPoints"`
	LineupPoints      int    `json:"lineupPoints"`
	PredictionsPoints int    `json:"predictionsPoints"`
}

type deadlineStatusDTO struct {
	DeadlinePassed    bool   `json:"deadline_passed"`
	DeadlineTimestamp string `json:"deadline_timestamp"`
	TimeRemaining     string `json:"time_remaining"`
	GracePeriodActive bool   `json:"grace_period_active"`
	GracePeriodEnd    string `json:"grace_period_end,omitempty"`
}

type recomputeDTO struct {
	Users        int       `json:"users"`
	Failed       int       `json:"failed"`
	CalculatedAt time.Time `json:"calculatedAt"`
}

type dailyUpdateDTO struct {
	Players      int           `json:"players"`
	GameLogs     int           `json:"gameLogs"`
	PriceChanges int           `json:"priceChanges"`
	Failed       int           `json:"failed"`
	DurationMS   int64         `json:"durationMs"`
	Leaderboard  *recomputeDTO `json:"leaderboard,omitempty"`
}

func leaderboardEntryToDTO(e leaderboard.Entry) leaderboardEntryDTO {
	return leaderboardEntryDTO{
		UserID:            e.UserID,
		Rank:              e.Rank,
		Username:          e.Username,
		TeamName:          e.TeamName,
		LogoURL:           e.LogoURL,
		TotalPoints:       e.TotalPoints,
		BracketPoints:     e.BracketPoints,
		LineupPoints:      e.LineupPoints,
		PredictionsPoints: e.PredictionPoints,
	}
}

func recomputeToDTO(r usecase.RecomputeResult) recomputeDTO {
	return recomputeDTO{
		Users:        r.Users,
		Failed:       r.Failed,
		CalculatedAt: r.CalculatedAt.UTC(),
	}
}
