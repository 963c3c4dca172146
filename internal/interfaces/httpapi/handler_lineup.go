package httpapi

import (
	"net/http"
	"time"

	"github.com/Joona374/BracketChallenge2.0/internal/domain/lineup"
	"github.com/Joona374/BracketChallenge2.0/internal/usecase"
)

func (h *Handler) SaveLineup(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SaveLineup")
	defer span.End()

	var req saveLineupRequest
	if err := h.decodeAndValidate(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	desired := make(map[lineup.Slot]string, len(req.Lineup))
	for slot, playerID := range req.Lineup {
		desired[lineup.Slot(slot)] = playerID.String()
	}

	result, err := h.lineupService.Save(ctx, usecase.SaveLineupInput{
		UserID:       req.UserID.String(),
		Lineup:       desired,
		TradesUsed:   req.TradesUsed,
		UnusedBudget: req.UnusedBudget,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "save lineup failed", "user_id", req.UserID.String(), "error", err)
		writeError(ctx, w, err)
		return
	}

	trades := make([]tradeDTO, 0, len(result.Trades))
	for _, t := range result.Trades {
		trades = append(trades, tradeToDTO(t))
	}
	writeSuccess(ctx, w, http.StatusOK, saveLineupDTO{
		Message:    "Lineup saved",
		TradesUsed: result.TradesUsed,
		Trades:     trades,
		Lineup:     lineupViewToDTO(result.View),
	})
}

func (h *Handler) GetLineup(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLineup")
	defer span.End()

	view, err := h.lineupService.Get(ctx, queryUserID(r))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, lineupViewToDTO(view))
}

func (h *Handler) GetLineupHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLineupHistory")
	defer span.End()

	userID := queryUserID(r)
	items, err := h.lineupService.History(ctx, userID)
	if err != nil {
		h.logger.WarnContext(ctx, "lineup history failed", "user_id", userID, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]tradeDTO, 0, len(items))
	for _, t := range items {
		out = append(out, tradeToDTO(t))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) GetLineupSummary(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLineupSummary")
	defer span.End()

	summary, err := h.lineupService.Summary(ctx, queryUserID(r))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	slots := make([]slotPointsDTO, 0, len(summary.Slots))
	for _, s := range summary.Slots {
		slots = append(slots, slotPointsDTO{Slot: string(s.Slot), PlayerID: s.PlayerID, Points: s.Points})
	}
	writeSuccess(ctx, w, http.StatusOK, lineupSummaryDTO{
		UserID:        summary.UserID,
		SeasonPoints:  summary.SeasonPoints,
		GameLogPoints: summary.GameLogPoints,
		Slots:         slots,
	})
}

// TradesUsed and UnusedBudget are the client's bookkeeping; the server
// recomputes both and only logs a disagreement.
type saveLineupRequest struct {
	UserID       wireID            `json:"user_id" validate:"required"`
	Lineup       map[string]wireID `json:"lineup" validate:"required"`
	TradesUsed   *int              `json:"tradesUsed" validate:"omitempty,min=0"`
	UnusedBudget *int64            `json:"unusedBudget"`
}

type lineupDTO struct {
	UserID          string                     `json:"userId"`
	Lineup          map[string]*string         `json:"lineup"`
	Players         map[string]playerPublicDTO `json:"players"`
	RemainingTrades int                        `json:"remainingTrades"`
	EffectiveBudget int64                      `json:"effectiveBudget"`
	UnusedBudget    int64                      `json:"unusedBudget"`
	UsedBudget      int64                      `json:"usedBudget"`
	Locked          bool                       `json:"locked"`
	Phase           string                     `json:"phase"`
	UpdatedAt       *time.Time                 `json:"updatedAt,omitempty"`
}

type saveLineupDTO struct {
	Message    string     `json:"message"`
	TradesUsed int        `json:"tradesUsed"`
	Trades     []tradeDTO `json:"trades"`
	Lineup     lineupDTO  `json:"lineup"`
}

type tradeDTO struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Slot      string    `json:"slot"`
	PlayerOut string    `json:"playerOut"`
	PlayerIn  string    `json:"playerIn"`
	PriceOut  int64     `json:"priceOut"`
	PriceIn   int64     `json:"priceIn"`
	CreatedAt time.Time `json:"createdAt"`
}

type slotPointsDTO struct {
	Slot     string `json:"slot"`
	PlayerID string `json:"playerId"`
	Points   int    `json:"points"`
}

type lineupSummaryDTO struct {
	UserID        string          `json:"userId"`
	SeasonPoints  int             `json:"seasonPoints"`
	GameLogPoints int             `json:"gameLogPoints"`
	Slots         []slotPointsDTO `json:"slots"`
}

// lineupViewToDTO emits every slot; empty slots are null.
func lineupViewToDTO(v usecase.LineupView) lineupDTO {
	out := lineupDTO{
		UserID:          v.UserID,
		Lineup:          make(map[string]*string, len(lineup.Slots)),
		Players:         make(map[string]playerPublicDTO, len(v.Players)),
		RemainingTrades: v.RemainingTrades,
		EffectiveBudget: v.EffectiveBudget,
		UnusedBudget:    v.UnusedBudget,
		UsedBudget:      v.UsedBudget,
		Locked:          v.Locked,
		Phase:           v.Phase.String(),
	}
	for _, slot := range lineup.Slots {
		p, ok := v.Players[slot]
		if !ok {
			out.Lineup[string(slot)] = nil
			continue
		}
		id := p.ID
		out.Lineup[string(slot)] = &id
		out.Players[string(slot)] = playerToPublicDTO(p)
	}
	if !v.UpdatedAt.IsZero() {
		updatedAt := v.UpdatedAt.UTC()
		out.UpdatedAt = &updatedAt
	}
	return out
}

func tradeToDTO(t lineup.Trade) tradeDTO {
	return tradeDTO{
		ID:        t.ID,
		UserID:    t.UserID,
		Slot:      string(t.Slot),
		PlayerOut: t.PlayerOut,
		PlayerIn:  t.PlayerIn,
		PriceOut:  t.PriceOut,
		PriceIn:   t.PriceIn,
		CreatedAt: t.CreatedAt.UTC(),
	}
}
