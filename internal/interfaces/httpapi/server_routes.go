package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerBracketRoutes(mux *http.ServeMux, handler *Handler, adminToken string) {
	mux.HandleFunc("GET /api/bracket/matchups", handler.ListMatchups)
	mux.HandleFunc("GET /api/bracket/round-matchups", handler.ListRoundMatchups)
	mux.HandleFunc("GET /api/bracket/results", handler.ListResults)
	mux.HandleFunc("POST /api/bracket/save-picks", handler.SavePicks)
	mux.HandleFunc("GET /api/bracket/get-picks", handler.GetPicks)
	mux.HandleFunc("POST /api/bracket/pick", handler.RecordPick)
	mux.HandleFunc("GET /api/bracket/summary", handler.GetBracketSummary)

	mux.Handle("POST /api/bracket/save-matchups", RequireAdminToken(adminToken, http.HandlerFunc(handler.SaveMatchups)))
	mux.Handle("POST /api/bracket/save-results", RequireAdminToken(adminToken, http.HandlerFunc(handler.SaveResults)))
	mux.Handle("DELETE /api/bracket/delete-result/{matchupCode}", RequireAdminToken(adminToken, http.HandlerFunc(handler.DeleteResult)))
}

func registerLineupRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /api/lineup/save", handler.SaveLineup)
	mux.HandleFunc("GET /api/lineup/get", handler.GetLineup)
	mux.HandleFunc("GET /api/lineup/history", handler.GetLineupHistory)
	mux.HandleFunc("GET /api/lineup/summary", handler.GetLineupSummary)
}

func registerPredictionRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /api/predictions/save", handler.SavePredictions)
	mux.HandleFunc("GET /api/predictions/get", handler.GetPredictions)
	mux.HandleFunc("GET /api/predictions/summary", handler.GetPredictionSummary)
}

func registerReferenceRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /api/teams", handler.ListTeams)
	mux.HandleFunc("GET /api/players", handler.ListSkaters)
	mux.HandleFunc("GET /api/players/search", handler.SearchPlayers)
	mux.HandleFunc("GET /api/goalies", handler.ListGoalies)
	mux.HandleFunc("GET /api/user/by-team-name", handler.GetUserByTeamName)
	mux.HandleFunc("GET /api/leaderboard", handler.GetLeaderboard)
	mux.HandleFunc("GET /api/deadline/status", handler.GetDeadlineStatus)
}

func registerAdminRoutes(mux *http.ServeMux, handler *Handler, adminToken string) {
	mux.Handle("POST /api/admin/recompute", RequireAdminToken(adminToken, http.HandlerFunc(handler.RecomputeLeaderboard)))
	mux.Handle("POST /api/admin/daily-update", RequireAdminToken(adminToken, http.HandlerFunc(handler.RunDailyUpdate)))
}
