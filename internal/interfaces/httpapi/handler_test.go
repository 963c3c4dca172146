package httpapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/jonboulle/clockwork"

	"github.com/Joona374/BracketChallenge2.0/internal/domain/deadline"
	"github.com/Joona374/BracketChallenge2.0/internal/domain/lineup"
	"github.com/Joona374/BracketChallenge2.0/internal/infrastructure/repository/memory"
	"github.com/Joona374/BracketChallenge2.0/internal/platform/logging"
	"github.com/Joona374/BracketChallenge2.0/internal/usecase"
)

const testAdminToken = "s3cret"

var testNow = time.Date(2025, 4, 8, 12, 0, 0, 0, time.UTC)

type envelope[T any] struct {
	APIVersion string `json:"apiVersion"`
	Data       T      `json:"data"`
	Error      *struct {
		Code   int    `json:"code"`
		Status string `json:"status"`
		Errors []struct {
			Domain string `json:"domain"`
			Reason string `json:"reason"`
		} `json:"errors"`
	} `json:"error"`
}

func newTestRouter(t *testing.T, adminToken string) http.Handler {
	t.Helper()

	clock := clockwork.NewFakeClockAt(testNow)
	logger := logging.NewNop()
	deadlineService := usecase.NewDeadlineService(deadline.Contest{Deadline: testNow.Add(48 * time.Hour)}, clock)

	teams := memory.NewTeamRepository(memory.SeedTeams())
	users := memory.NewUserRepository(memory.SeedUsers())
	players := memory.NewPlayerRepository(memory.SeedPlayers())
	gameLogs := memory.NewGameLogRepository()
	matchups := memory.NewMatchupRepository(memory.SeedMatchups())
	results := memory.NewResultRepository()
	picks := memory.NewPicksRepository()
	lineups := memory.NewLineupRepository()
	predictions := memory.NewPredictionRepository()
	scores := memory.NewScoringRepository()

	handler := NewHandler(
		usecase.NewBracketService(matchups, results, picks, teams, users, nil, nil, logger),
		usecase.NewLineupService(players, gameLogs, lineups, users, deadlineService, lineup.DefaultRules(), nil, nil, logger),
		usecase.NewPredictionService(predictions, players, users, 1),
		usecase.NewLeaderboardService(usecase.LeaderboardDeps{
			Users:       users,
			Results:     results,
			Picks:       picks,
			Lineups:     lineups,
			Predictions: predictions,
			Players:     players,
			GameLogs:    gameLogs,
			Scores:      scores,
		}, usecase.LeaderboardConfig{PointsPerPick: 1, MaxWorkers: 2, Logger: logger, Now: clock.Now}),
		deadlineService,
		usecase.NewPlayerService(players),
		usecase.NewTeamService(teams),
		usecase.NewUserService(users),
		nil,
		logger,
	)
	return NewRouter(handler, logger, []string{"*"}, adminToken)
}

func do(t *testing.T, router http.Handler, method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) envelope[T] {
	t.Helper()

	var out envelope[T]
	if err := sonic.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal response body %q: %v", rec.Body.String(), err)
	}
	return out
}

func errorReason[T any](t *testing.T, body envelope[T]) string {
	t.Helper()

	if body.Error == nil || len(body.Error.Errors) == 0 {
		t.Fatalf("expected error body, got none")
	}
	return body.Error.Errors[0].Reason
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(t, testAdminToken)

	rec := do(t, router, http.MethodGet, "/healthz", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	body := decode[map[string]string](t, rec)
	if body.Data["status"] != "ok" {
		t.Fatalf("unexpected healthz body: %+v", body.Data)
	}
}

func TestListMatchups_GroupsByConference(t *testing.T) {
	router := newTestRouter(t, testAdminToken)

	rec := do(t, router, http.MethodGet, "/api/bracket/matchups", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decode[roundViewDTO](t, rec)
	if len(body.Data.East) != 4 || len(body.Data.West) != 4 {
		t.Fatalf("expected 4+4 matchups, got east=%d west=%d", len(body.Data.East), len(body.Data.West))
	}
	if body.Data.West[0].Conference == nil || *body.Data.West[0].Conference != "west" {
		t.Fatalf("expected west conference on west matchup, got %+v", body.Data.West[0])
	}
}

func TestListRoundMatchups_RejectsBadRound(t *testing.T) {
	router := newTestRouter(t, testAdminToken)

	for _, target := range []string{"/api/bracket/round-matchups?round=5", "/api/bracket/round-matchups?round=x"} {
		rec := do(t, router, http.MethodGet, target, "", nil)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected status 400, got %d", target, rec.Code)
		}
	}
}

func TestGetPicks_NotFoundBeforeSave(t *testing.T) {
	router := newTestRouter(t, testAdminToken)

	rec := do(t, router, http.MethodGet, "/api/bracket/get-picks?user_id=demo-user-1", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
	if got := errorReason(t, decode[any](t, rec)); got != "notFound" {
		t.Fatalf("expected reason notFound, got %q", got)
	}
}

func TestSavePicks_DerivesAndPrunes(t *testing.T) {
	router := newTestRouter(t, testAdminToken)

	payload := `{
		"user_id": "demo-user-1",
		"picks": {
			"round1": {"1": "WPG", "W2": "DAL"},
			"round1Games": {"1": 6},
			"round2": {"w-semi": ["BOS", "CAR"], "w-semi-winner": "WPG", "w-semi2-winner": "VGK"},
			"round2Games": {},
			"round3": {},
			"round3Games": {},
			"final": {},
			"finalGames": {}
		}
	}`
	rec := do(t, router, http.MethodPost, "/api/bracket/save-picks", payload, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = do(t, router, http.MethodGet, "/api/bracket/get-picks?user_id=demo-user-1", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decode[picksResponseDTO](t, rec)
	picks := body.Data.Picks

	if picks.Round1["W1"] != "WPG" || picks.Round1["W2"] != "DAL" {
		t.Fatalf("unexpected round1 picks: %+v", picks.Round1)
	}
	if picks.Round1Games["W1"] != 6 {
		t.Fatalf("expected legacy games key mapped to W1, got %+v", picks.Round1Games)
	}
	pair, ok := picks.Round2["w-semi"].([]any)
	if !ok || len(pair) != 2 || pair[0] != "WPG" || pair[1] != "DAL" {
		t.Fatalf("expected derived w-semi pair [WPG DAL], got %#v", picks.Round2["w-semi"])
	}
	if picks.Round2["w-semi-winner"] != "WPG" {
		t.Fatalf("expected w-semi-winner WPG, got %#v", picks.Round2["w-semi-winner"])
	}
	if _, ok := picks.Round2["w-semi2-winner"]; ok {
		t.Fatalf("expected orphaned w-semi2-winner to be pruned")
	}
}

func TestSavePicks_UnknownUser(t *testing.T) {
	router := newTestRouter(t, testAdminToken)

	rec := do(t, router, http.MethodPost, "/api/bracket/save-picks", `{"user_id": 42, "picks": {}}`, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestDecode_RejectsUnknownFields(t *testing.T) {
	router := newTestRouter(t, testAdminToken)

	rec := do(t, router, http.MethodPost, "/api/lineup/save", `{"user_id": "demo-user-1", "lineup": {}, "bogus": true}`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
	if got := errorReason(t, decode[any](t, rec)); got != "invalidInput" {
		t.Fatalf("expected reason invalidInput, got %q", got)
	}
}

func TestAdminRoutes_RequireToken(t *testing.T) {
	payload := `{"round": 1, "results": [{"matchupCode": "W1", "winner": "WPG", "games": 6}]}`

	tests := []struct {
		name       string
		configured string
		header     string
		wantStatus int
	}{
		{name: "missing header", configured: testAdminToken, header: "", wantStatus: http.StatusUnauthorized},
		{name: "wrong token", configured: testAdminToken, header: "nope", wantStatus: http.StatusUnauthorized},
		{name: "not configured", configured: "", header: testAdminToken, wantStatus: http.StatusServiceUnavailable},
		{name: "valid token", configured: testAdminToken, header: testAdminToken, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(t, tt.configured)
			headers := map[string]string{}
			if tt.header != "" {
				headers[adminTokenHeader] = tt.header
			}
			rec := do(t, router, http.MethodPost, "/api/bracket/save-results", payload, headers)
			if rec.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestSaveResults_WinnerOutsideMatchup(t *testing.T) {
	router := newTestRouter(t, testAdminToken)

	payload := `{"round": 1, "results": [{"matchupCode": "W1", "winner": "EDM", "games": 5}], "formattedResults": {"round1": {}}}`
	rec := do(t, router, http.MethodPost, "/api/bracket/save-results", payload, map[string]string{adminTokenHeader: testAdminToken})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := errorReason(t, decode[any](t, rec)); got != "invalidResult" {
		t.Fatalf("expected reason invalidResult, got %q", got)
	}
}

func TestSaveResults_LegacyMatchupIDAndDelete(t *testing.T) {
	router := newTestRouter(t, testAdminToken)
	admin := map[string]string{adminTokenHeader: testAdminToken}

	payload := `{"round": 1, "results": [{"matchupId": 5, "winner": "tor", "games": 6}]}`
	rec := do(t, router, http.MethodPost, "/api/bracket/save-results", payload, admin)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	saved := decode[saveResultsDTO](t, rec)
	if len(saved.Data.Results) != 1 || saved.Data.Results[0].MatchupCode != "E1" || saved.Data.Results[0].Winner != "TOR" {
		t.Fatalf("unexpected saved results: %+v", saved.Data.Results)
	}

	rec = do(t, router, http.MethodDelete, "/api/bracket/delete-result/E1", "", admin)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	rec = do(t, router, http.MethodDelete, "/api/bracket/delete-result/E1", "", admin)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected second delete to be 404, got %d", rec.Code)
	}
}

func TestSaveLineup_ThenGet(t *testing.T) {
	router := newTestRouter(t, testAdminToken)

	payload := `{
		"user_id": "demo-user-2",
		"lineup": {"L": 8481553, "C": "8478449", "R": 8483441, "LD": 8476902, "RD": 8477346, "G": {"id": 8475883, "first_name": "Frederik"}},
		"tradesUsed": 0,
		"unusedBudget": 410000
	}`
	rec := do(t, router, http.MethodPost, "/api/lineup/save", payload, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = do(t, router, http.MethodGet, "/api/lineup/get?user_id=demo-user-2", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decode[lineupDTO](t, rec)
	if body.Data.RemainingTrades != lineup.DefaultMaxTrades {
		t.Fatalf("expected %d remaining trades before the deadline, got %d", lineup.DefaultMaxTrades, body.Data.RemainingTrades)
	}
	if body.Data.EffectiveBudget != lineup.DefaultBudget {
		t.Fatalf("expected effective budget %d, got %d", lineup.DefaultBudget, body.Data.EffectiveBudget)
	}
	if got := body.Data.Lineup["G"]; got == nil || *got != "8475883" {
		t.Fatalf("expected goalie 8475883, got %v", got)
	}
	if body.Data.Locked || body.Data.Phase != "open" {
		t.Fatalf("expected open unlocked lineup, got locked=%v phase=%s", body.Data.Locked, body.Data.Phase)
	}
}

func TestSaveLineup_OverBudget(t *testing.T) {
	router := newTestRouter(t, testAdminToken)

	payload := `{
		"user_id": "demo-user-1",
		"lineup": {"L": "8478398", "C": "8477492", "R": "8476453", "LD": "8480069", "RD": "8480803", "G": "8476945"}
	}`
	rec := do(t, router, http.MethodPost, "/api/lineup/save", payload, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := errorReason(t, decode[any](t, rec)); got != "overBudget" {
		t.Fatalf("expected reason overBudget, got %q", got)
	}
}

func TestGetLineup_NotFound(t *testing.T) {
	router := newTestRouter(t, testAdminToken)

	rec := do(t, router, http.MethodGet, "/api/lineup/get?user_id=demo-user-3", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func TestDeadlineStatus_BeforeDeadline(t *testing.T) {
	router := newTestRouter(t, testAdminToken)

	rec := do(t, router, http.MethodGet, "/api/deadline/status", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	body := decode[deadlineStatusDTO](t, rec)
	if body.Data.DeadlinePassed {
		t.Fatalf("expected deadline not passed")
	}
	if body.Data.TimeRemaining != "2 days, 0 hours, 0 minutes" {
		t.Fatalf("unexpected time remaining %q", body.Data.TimeRemaining)
	}
}

func TestLeaderboard_ListsEveryUser(t *testing.T) {
	router := newTestRouter(t, testAdminToken)

	rec := do(t, router, http.MethodPost, "/api/admin/recompute", "", map[string]string{adminTokenHeader: testAdminToken})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected recompute status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = do(t, router, http.MethodGet, "/api/leaderboard", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	body := decode[[]leaderboardEntryDTO](t, rec)
	if len(body.Data) != len(memory.SeedUsers()) {
		t.Fatalf("expected %d entries, got %d", len(memory.SeedUsers()), len(body.Data))
	}
	for _, e := range body.Data {
		if e.Rank != 1 {
			t.Fatalf("expected every zero-point user to share rank 1, got %+v", e)
		}
	}
}

func TestDailyUpdate_UnavailableWithoutProvider(t *testing.T) {
	router := newTestRouter(t, testAdminToken)

	rec := do(t, router, http.MethodPost, "/api/admin/daily-update", "", map[string]string{adminTokenHeader: testAdminToken})
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", rec.Code)
	}
}

func TestSavePredictions_IncompleteSheet(t *testing.T) {
	router := newTestRouter(t, testAdminToken)

	payload := `{"user_id": "demo-user-1", "predictions": {"goals": [8478398, 8476453, 8477492]}}`
	rec := do(t, router, http.MethodPost, "/api/predictions/save", payload, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := errorReason(t, decode[any](t, rec)); got != "invalidPicks" {
		t.Fatalf("expected reason invalidPicks, got %q", got)
	}
}

func TestSearchPlayers(t *testing.T) {
	router := newTestRouter(t, testAdminToken)

	rec := do(t, router, http.MethodGet, "/api/players/search?q=mcdavid", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	body := decode[[]playerPublicDTO](t, rec)
	if len(body.Data) == 0 || body.Data[0].LastName != "McDavid" {
		t.Fatalf("expected McDavid first, got %+v", body.Data)
	}

	rec = do(t, router, http.MethodGet, "/api/players/search", "", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected empty query to be 400, got %d", rec.Code)
	}
}
