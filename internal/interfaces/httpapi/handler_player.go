package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Joona374/BracketChallenge2.0/internal/domain/player"
	"github.com/Joona374/BracketChallenge2.0/internal/domain/team"
	"github.com/Joona374/BracketChallenge2.0/internal/domain/user"
	"github.com/Joona374/BracketChallenge2.0/internal/usecase"
)

func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeams")
	defer span.End()

	items, err := h.teamService.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list teams failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]teamDTO, 0, len(items))
	for _, t := range items {
		out = append(out, teamToDTO(t))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) ListSkaters(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSkaters")
	defer span.End()

	query := r.URL.Query()
	position := query.Get("position")
	teamCode := query.Get("team")
	items, err := h.playerService.ListSkaters(ctx, position, teamCode)
	if err != nil {
		h.logger.WarnContext(ctx, "list skaters failed", "position", position, "team", teamCode, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playersToDTO(items))
}

func (h *Handler) ListGoalies(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListGoalies")
	defer span.End()

	items, err := h.playerService.ListGoalies(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list goalies failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playersToDTO(items))
}

func (h *Handler) SearchPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SearchPlayers")
	defer span.End()

	query := r.URL.Query()
	limit := 0
	if raw := strings.TrimSpace(query.Get("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(ctx, w, fmt.Errorf("%w: limit must be a non-negative integer", usecase.ErrInvalidInput))
			return
		}
		limit = n
	}

	items, err := h.playerService.Search(ctx, query.Get("q"), limit)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playersToDTO(items))
}

func (h *Handler) GetUserByTeamName(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetUserByTeamName")
	defer span.End()

	item, err := h.userService.GetByTeamName(ctx, r.URL.Query().Get("teamName"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, userToDTO(item))
}

type teamDTO struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	LogoURL    string `json:"logoUrl"`
	Conference string `json:"conference"`
}

type statsDTO struct {
	GamesPlayed    int     `json:"gamesPlayed"`
	Goals          int     `json:"goals"`
	Assists        int     `json:"assists"`
	Points         int     `json:"points"`
	PlusMinus      int     `json:"plusMinus"`
	PenaltyMinutes int     `json:"penaltyMinutes"`
	Wins           int     `json:"wins,omitempty"`
	Shutouts       int     `json:"shutouts,omitempty"`
	Saves          int     `json:"saves,omitempty"`
	ShotsAgainst   int     `json:"shotsAgainst,omitempty"`
	GoalsAgainst   int     `json:"goalsAgainst,omitempty"`
	GAA            float64 `json:"gaa,omitempty"`
	SavePct        float64 `json:"savePct,omitempty"`
}

type playerPublicDTO struct {
	ID                    string   `json:"id"`
	APIID                 int64    `json:"apiId"`
	FirstName             string   `json:"firstName"`
	LastName              string   `json:"lastName"`
	Team                  string   `json:"team"`
	Position              string   `json:"position"`
	Price                 int64    `json:"price"`
	InitialPrice          int64    `json:"initialPrice"`
	IsU23                 bool     `json:"isU23"`
	BirthCountry          string   `json:"birthCountry"`
	Regular               statsDTO `json:"regular"`
	Playoff               statsDTO `json:"playoff"`
	LastPriceUpdateGameID int64    `json:"lastPriceUpdateGameId,omitempty"`
}

type userDTO struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	TeamName  string    `json:"teamName"`
	LogoURL   string    `json:"logoUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func teamToDTO(t team.Team) teamDTO {
	return teamDTO{
		Code:       t.Code,
		Name:       t.Name,
		LogoURL:    t.LogoURL,
		Conference: string(t.Conference),
	}
}

func statsToDTO(s player.Stats) statsDTO {
	return statsDTO{
		GamesPlayed:    s.GamesPlayed,
		Goals:          s.Goals,
		Assists:        s.Assists,
		Points:         s.Points,
		PlusMinus:      s.PlusMinus,
		PenaltyMinutes: s.PenaltyMinutes,
		Wins:           s.Wins,
		Shutouts:       s.Shutouts,
		Saves:          s.Saves,
		ShotsAgainst:   s.ShotsAgainst,
		GoalsAgainst:   s.GoalsAgainst,
		GAA:            s.GAA,
		SavePct:        s.SavePct,
	}
}

func playerToPublicDTO(p player.Player) playerPublicDTO {
	return playerPublicDTO{
		ID:                    p.ID,
		APIID:                 p.APIID,
		FirstName:             p.FirstName,
		LastName:              p.LastName,
		Team:                  p.Team,
		Position:              string(p.Position),
		Price:                 p.Price,
		InitialPrice:          p.InitialPrice,
		IsU23:                 p.IsU23,
		BirthCountry:          p.BirthCountry,
		Regular:               statsToDTO(p.Regular),
		Playoff:               statsToDTO(p.Playoff),
		LastPriceUpdateGameID: p.LastPriceUpdateGameID,
	}
}

func playersToDTO(items []player.Player) []playerPublicDTO {
	out := make([]playerPublicDTO, 0, len(items))
	for _, p := range items {
		out = append(out, playerToPublicDTO(p))
	}
	return out
}

func userToDTO(u user.User) userDTO {
	return userDTO{
		ID:        u.ID,
		Username:  u.Username,
		TeamName:  u.TeamName,
		LogoURL:   u.LogoURL,
		CreatedAt: u.CreatedAt.UTC(),
	}
}
