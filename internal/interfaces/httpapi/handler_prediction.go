package httpapi

import (
	"net/http"

	"github.com/Joona374/BracketChallenge2.0/internal/domain/prediction"
	"github.com/Joona374/BracketChallenge2.0/internal/usecase"
)

func (h *Handler) SavePredictions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SavePredictions")
	defer span.End()

	var req savePredictionsRequest
	if err := h.decodeAndValidate(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	raw := make(map[string][]string, len(req.Predictions))
	for category, ids := range req.Predictions {
		values := make([]string, 0, len(ids))
		for _, id := range ids {
			values = append(values, id.String())
		}
		raw[category] = values
	}

	picks, err := h.predictionService.Save(ctx, req.UserID.String(), raw)
	if err != nil {
		h.logger.WarnContext(ctx, "save predictions failed", "user_id", req.UserID.String(), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, predictionsDTO{Message: "Predictions saved", Predictions: predictionPicksToDTO(picks)})
}

func (h *Handler) GetPredictions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPredictions")
	defer span.End()

	picks, err := h.predictionService.Get(ctx, queryUserID(r))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, predictionsDTO{Predictions: predictionPicksToDTO(picks)})
}

func (h *Handler) GetPredictionSummary(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPredictionSummary")
	defer span.End()

	summary, err := h.predictionService.Summary(ctx, queryUserID(r))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, predictionSummaryToDTO(summary))
}

type savePredictionsRequest struct {
	UserID      wireID              `json:"user_id" validate:"required"`
	Predictions map[string][]wireID `json:"predictions" validate:"required"`
}

type predictionsDTO struct {
	Message     string              `json:"message,omitempty"`
	Predictions map[string][]string `json:"predictions"`
}

type categorySummaryDTO struct {
	Name         string            `json:"name"`
	UserPicks    []string          `json:"userPicks"`
	CurrentTop3  []playerPublicDTO `json:"currentTop3"`
	CorrectPicks int               `json:"correctPicks"`
}

type predictionSummaryDTO struct {
	UserID          string               `json:"userId"`
	Completed       int                  `json:"completed"`
	TotalToComplete int                  `json:"totalToComplete"`
	Categories      []categorySummaryDTO `json:"categories"`
	TotalCorrect    int                  `json:"totalCorrect"`
	Points          int                  `json:"points"`
}

func predictionPicksToDTO(p prediction.Picks) map[string][]string {
	out := make(map[string][]string, len(p))
	for category, ids := range p {
		out[string(category)] = append([]string{}, ids...)
	}
	return out
}

func predictionSummaryToDTO(s usecase.PredictionSummary) predictionSummaryDTO {
	out := predictionSummaryDTO{
		UserID:          s.UserID,
		Completed:       s.Summary.Completed,
		TotalToComplete: s.Summary.TotalToComplete,
		Categories:      make([]categorySummaryDTO, 0, len(s.Summary.Categories)),
		TotalCorrect:    s.Summary.TotalCorrect,
		Points:          s.Points,
	}
	for _, c := range s.Summary.Categories {
		out.Categories = append(out.Categories, categorySummaryDTO{
			Name:         string(c.Category),
			UserPicks:    append([]string{}, c.UserPicks...),
			CurrentTop3:  playersToDTO(c.CurrentTop3),
			CorrectPicks: c.CorrectPicks,
		})
	}
	return out
}
