package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/Joona374/BracketChallenge2.0/internal/domain/bracket"
	"github.com/Joona374/BracketChallenge2.0/internal/usecase"
)

func (h *Handler) ListMatchups(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatchups")
	defer span.End()

	view, err := h.bracketService.RoundView(ctx, bracket.RoundOne)
	if err != nil {
		h.logger.ErrorContext(ctx, "list matchups failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, roundViewToDTO(bracket.RoundOne, view))
}

func (h *Handler) ListRoundMatchups(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListRoundMatchups")
	defer span.End()

	round, err := parseRound(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if round == 0 {
		round = bracket.RoundOne
	}

	view, err := h.bracketService.RoundView(ctx, round)
	if err != nil {
		h.logger.WarnContext(ctx, "list round matchups failed", "round", int(round), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, roundViewToDTO(round, view))
}

func (h *Handler) SaveMatchups(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SaveMatchups")
	defer span.End()

	var req saveMatchupsRequest
	if err := h.decodeAndValidate(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.bracketService.SaveMatchups(ctx, usecase.SaveMatchupsInput{
		Round: bracket.Round(req.Round),
		East:  matchupInputs(req.East),
		West:  matchupInputs(req.West),
		Final: matchupInputs(req.Final),
	})
	if err != nil {
		h.logger.WarnContext(ctx, "save matchups failed", "round", req.Round, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, saveMatchupsDTO{Message: "Matchups saved", Matchups: matchupsToDTO(items)})
}

func (h *Handler) ListResults(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListResults")
	defer span.End()

	round, err := parseRound(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.bracketService.ListResults(ctx, round)
	if err != nil {
		h.logger.WarnContext(ctx, "list results failed", "round", int(round), "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]resultDTO, 0, len(items))
	for _, item := range items {
		out = append(out, resultToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) SaveResults(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SaveResults")
	defer span.End()

	var req saveResultsRequest
	if err := h.decodeAndValidate(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	round := bracket.Round(req.Round)
	inputs := make([]usecase.ResultInput, 0, len(req.Results))
	for _, item := range req.Results {
		inputs = append(inputs, usecase.ResultInput{
			MatchupCode: item.code(round),
			Winner:      item.Winner,
			Games:       item.Games,
		})
	}

	items, err := h.bracketService.SaveResults(ctx, usecase.SaveResultsInput{Round: round, Results: inputs})
	if err != nil {
		h.logger.WarnContext(ctx, "save results failed", "round", req.Round, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]resultDTO, 0, len(items))
	for _, item := range items {
		out = append(out, resultToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, saveResultsDTO{Message: "Results saved", Results: out})
}

func (h *Handler) DeleteResult(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteResult")
	defer span.End()

	matchupCode := strings.TrimSpace(r.PathValue("matchupCode"))
	if err := h.bracketService.DeleteResult(ctx, matchupCode); err != nil {
		h.logger.WarnContext(ctx, "delete result failed", "matchup_code", matchupCode, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, ackDTO{Message: "Result deleted"})
}

func (h *Handler) SavePicks(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SavePicks")
	defer span.End()

	var req savePicksRequest
	if err := h.decodeAndValidate(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	picks, err := h.bracketService.SavePicks(ctx, req.UserID.String(), req.Picks.toDomain())
	if err != nil {
		h.logger.WarnContext(ctx, "save picks failed", "user_id", req.UserID.String(), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, picksResponseDTO{Message: "Picks saved", Picks: picksToDTO(picks)})
}

func (h *Handler) GetPicks(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPicks")
	defer span.End()

	userID := queryUserID(r)
	picks, err := h.bracketService.GetPicks(ctx, userID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, picksResponseDTO{Picks: picksToDTO(picks)})
}

func (h *Handler) RecordPick(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecordPick")
	defer span.End()

	var req recordPickRequest
	if err := h.decodeAndValidate(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	picks, err := h.bracketService.RecordPick(ctx, usecase.RecordPickInput{
		UserID:  req.UserID.String(),
		Matchup: req.Matchup.String(),
		Team:    req.Team,
		Games:   req.Games,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "record pick failed", "user_id", req.UserID.String(), "matchup", req.Matchup.String(), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, picksResponseDTO{Message: "Pick recorded", Picks: picksToDTO(picks)})
}

func (h *Handler) GetBracketSummary(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetBracketSummary")
	defer span.End()

	summary, err := h.bracketService.Summary(ctx, queryUserID(r))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, bracketSummaryToDTO(summary))
}

type matchupRequest struct {
	ID                int64  `json:"id"`
	Round             int    `json:"round"`
	Conference        string `json:"conference"`
	Team1             string `json:"team1" validate:"required"`
	Team2             string `json:"team2" validate:"required"`
	MatchupCode       string `json:"matchupCode"`
	LegacyMatchupCode string `json:"matchup_code"`
}

type saveMatchupsRequest struct {
	Round int              `json:"round" validate:"omitempty,min=1,max=4"`
	East  []matchupRequest `json:"east" validate:"dive"`
	West  []matchupRequest `json:"west" validate:"dive"`
	Final []matchupRequest `json:"final" validate:"dive"`
}

type resultRequest struct {
	MatchupID   int64  `json:"matchupId"`
	MatchupCode string `json:"matchupCode"`
	Winner      string `json:"winner" validate:"required"`
	Games       int    `json:"games" validate:"min=4,max=7"`
}

// code falls back to the legacy series id when the client sent no code.
func (r resultRequest) code(round bracket.Round) string {
	if code := strings.TrimSpace(r.MatchupCode); code != "" {
		return code
	}
	if round == bracket.RoundOne && r.MatchupID > 0 {
		if ref, err := bracket.ParseMatchupRef(strconv.FormatInt(r.MatchupID, 10)); err == nil {
			return ref.Code()
		}
	}
	return ""
}

// FormattedResults is the client's own projection of the results and is
// accepted but ignored; scoring reads the stored results.
type saveResultsRequest struct {
	Round            int             `json:"round" validate:"required,min=1,max=4"`
	Results          []resultRequest `json:"results" validate:"required,min=1,dive"`
	FormattedResults map[string]any  `json:"formattedResults"`
}

type savePicksRequest struct {
	UserID wireID       `json:"user_id" validate:"required"`
	Picks  picksPayload `json:"picks"`
}

type recordPickRequest struct {
	UserID  wireID `json:"user_id" validate:"required"`
	Matchup wireID `json:"matchup" validate:"required"`
	Team    string `json:"team" validate:"required"`
	Games   *int   `json:"games" validate:"omitempty,min=4,max=7"`
}

type matchupDTO struct {
	ID          int64   `json:"id"`
	Round       int     `json:"round"`
	Conference  *string `json:"conference"`
	Team1       string  `json:"team1"`
	Team2       string  `json:"team2"`
	MatchupCode string  `json:"matchupCode"`
}

type roundViewDTO struct {
	East  []matchupDTO `json:"east,omitempty"`
	West  []matchupDTO `json:"west,omitempty"`
	Final *matchupDTO  `json:"final,omitempty"`
}

type saveMatchupsDTO struct {
	Message  string       `json:"message"`
	Matchups []matchupDTO `json:"matchups"`
}

type resultDTO struct {
	MatchupCode string `json:"matchupCode"`
	Round       int    `json:"round"`
	Winner      string `json:"winner"`
	Games       int    `json:"games"`
}

type saveResultsDTO struct {
	Message string      `json:"message"`
	Results []resultDTO `json:"results"`
}

type picksResponseDTO struct {
	Message string   `json:"message,omitempty"`
	Picks   picksDTO `json:"picks"`
}

type roundScoreDTO struct {
	Round        int `json:"round"`
	Correct      int `json:"correct"`
	GamesCorrect int `json:"gamesCorrect"`
	Points       int `json:"points"`
}

type gradedPickDTO struct {
	MatchupCode  string `json:"matchupCode"`
	Round        int    `json:"round"`
	Picked       string `json:"picked"`
	PickedGames  int    `json:"pickedGames,omitempty"`
	Winner       string `json:"winner,omitempty"`
	Games        int    `json:"games,omitempty"`
	Decided      bool   `json:"decided"`
	Correct      bool   `json:"correct"`
	GamesCorrect bool   `json:"gamesCorrect"`
	Points       int    `json:"points"`
}

type bracketSummaryDTO struct {
	UserID string          `json:"userId"`
	Total  int             `json:"total"`
	Rounds []roundScoreDTO `json:"rounds"`
	Picks  []gradedPickDTO `json:"picks"`
}

func matchupInputs(items []matchupRequest) []usecase.MatchupInput {
	out := make([]usecase.MatchupInput, 0, len(items))
	for _, item := range items {
		code := strings.TrimSpace(item.MatchupCode)
		if code == "" {
			code = strings.TrimSpace(item.LegacyMatchupCode)
		}
		out = append(out, usecase.MatchupInput{
			MatchupCode: code,
			Team1:       item.Team1,
			Team2:       item.Team2,
		})
	}
	return out
}

func matchupToDTO(m bracket.Matchup) matchupDTO {
	out := matchupDTO{
		ID:          m.ID,
		Round:       int(m.Round),
		Team1:       m.Team1,
		Team2:       m.Team2,
		MatchupCode: m.MatchupCode,
	}
	if m.Conference != "" {
		conf := string(m.Conference)
		out.Conference = &conf
	}
	return out
}

func matchupsToDTO(items []bracket.Matchup) []matchupDTO {
	out := make([]matchupDTO, 0, len(items))
	for _, m := range items {
		out = append(out, matchupToDTO(m))
	}
	return out
}

// roundViewToDTO returns {east, west} for rounds 1-3 and {final} for the cup.
func roundViewToDTO(round bracket.Round, view bracket.RoundView) roundViewDTO {
	if round == bracket.RoundFinal {
		out := roundViewDTO{}
		if len(view.Final) > 0 {
			final := matchupToDTO(view.Final[0])
			out.Final = &final
		}
		return out
	}
	return roundViewDTO{
		East: matchupsToDTO(view.East),
		West: matchupsToDTO(view.West),
	}
}

func resultToDTO(r bracket.Result) resultDTO {
	return resultDTO{
		MatchupCode: r.MatchupCode,
		Round:       int(r.Round),
		Winner:      r.Winner,
		Games:       r.Games,
	}
}

func bracketSummaryToDTO(s usecase.BracketSummary) bracketSummaryDTO {
	out := bracketSummaryDTO{
		UserID: s.UserID,
		Total:  s.Score.Total,
		Rounds: make([]roundScoreDTO, 0, len(s.Score.Rounds)),
		Picks:  make([]gradedPickDTO, 0, len(s.Score.Picks)),
	}
	for _, rs := range s.Score.Rounds {
		out.Rounds = append(out.Rounds, roundScoreDTO{
			Round:        int(rs.Round),
			Correct:      rs.Correct,
			GamesCorrect: rs.GamesCorrect,
			Points:       rs.Points,
		})
	}
	for _, p := range s.Score.Picks {
		out.Picks = append(out.Picks, gradedPickDTO{
			MatchupCode:  p.MatchupCode,
			Round:        int(p.Round),
			Picked:       p.Picked,
			PickedGames:  p.PickedGames,
			Winner:       p.Winner,
			Games:        p.Games,
			Decided:      p.Decided,
			Correct:      p.Correct,
			GamesCorrect: p.GamesCorrect,
			Points:       p.Points,
		})
	}
	return out
}
