package nhlapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Joona374/BracketChallenge2.0/internal/platform/logging"
	"github.com/Joona374/BracketChallenge2.0/internal/platform/resilience"
	"github.com/Joona374/BracketChallenge2.0/internal/usecase"
)

const skaterGameLog = `{
  "seasonId": 20242025,
  "gameTypeId": 3,
  "gameLog": [
    {"gameId": 2024030112, "gameDate": "2025-04-22", "goals": 1, "assists": 1, "points": 2, "plusMinus": 1, "teamAbbrev": "DAL"},
    {"gameId": 2024030111, "gameDate": "2025-04-19", "goals": 0, "assists": 0, "points": 0, "plusMinus": -1, "teamAbbrev": "DAL"}
  ]
}`

const goalieGameLog = `{
  "gameLog": [
    {"gameId": 2024030111, "gameDate": "2025-04-19", "decision": "W", "shutouts": 0, "shotsAgainst": 30, "goalsAgainst": 2, "saves": 28}
  ]
}`

func newTestServer(t *testing.T, landingCalls *atomic.Int32) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/player/8478449/game-log/20242025/3", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(skaterGameLog))
	})
	mux.HandleFunc("/player/8475883/game-log/20242025/3", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(goalieGameLog))
	})
	mux.HandleFunc("/gamecenter/2024030111/landing", func(w http.ResponseWriter, _ *http.Request) {
		landingCalls.Add(1)
		_, _ = w.Write([]byte(`{"id": 2024030111, "startTimeUTC": "2025-04-19T23:00:00Z"}`))
	})
	mux.HandleFunc("/gamecenter/2024030112/landing", func(w http.ResponseWriter, _ *http.Request) {
		landingCalls.Add(1)
		_, _ = w.Write([]byte(`{"id": 2024030112}`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestClient_PlayerGameLogsSkater(t *testing.T) {
	var landingCalls atomic.Int32
	server := newTestServer(t, &landingCalls)
	client := NewClient(ClientConfig{
		BaseURL: server.URL,
		Season:  "20242025",
		Timeout: 2 * time.Second,
		Logger:  logging.NewNop(),
	})

	logs, err := client.PlayerGameLogs(context.Background(), 8478449)
	if err != nil {
		t.Fatalf("player game logs: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("expected 2 logs, got %d", len(logs))
	}

	first := logs[0]
	if first.GameID != 2024030112 || first.Goals != 1 || first.Assists != 1 || first.Points != 2 || first.PlusMinus != 1 {
		t.Fatalf("unexpected first log: %+v", first)
	}
	if !first.GameDate.Equal(time.Date(2025, 4, 22, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected game date: %s", first.GameDate)
	}
	if !first.StartTimeUTC.IsZero() {
		t.Fatalf("expected missing start time to stay zero, got %s", first.StartTimeUTC)
	}

	second := logs[1]
	if !second.StartTimeUTC.Equal(time.Date(2025, 4, 19, 23, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected start time: %s", second.StartTimeUTC)
	}
}

func TestClient_PlayerGameLogsGoalieSharesStartTimeCache(t *testing.T) {
	var landingCalls atomic.Int32
	server := newTestServer(t, &landingCalls)
	client := NewClient(ClientConfig{BaseURL: server.URL, Season: "20242025", Logger: logging.NewNop()})

	logs, err := client.PlayerGameLogs(context.Background(), 8475883)
	if err != nil {
		t.Fatalf("goalie game logs: %v", err)
	}
	if len(logs) != 1 {
		t.Fatalf("expected 1 log, got %d", len(logs))
	}
	g := logs[0]
	if g.Wins != 1 || g.Saves != 28 || g.ShotsAgainst != 30 || g.GoalsAgainst != 2 {
		t.Fatalf("unexpected goalie log: %+v", g)
	}

	if _, err := client.PlayerGameLogs(context.Background(), 8475883); err != nil {
		t.Fatalf("second goalie fetch: %v", err)
	}
	if got := landingCalls.Load(); got != 1 {
		t.Fatalf("expected one landing call for a cached game, got %d", got)
	}
}

func TestClient_PlayerGameLogsErrors(t *testing.T) {
	var landingCalls atomic.Int32
	server := newTestServer(t, &landingCalls)

	t.Run("not found is not retried", func(t *testing.T) {
		client := NewClient(ClientConfig{BaseURL: server.URL, Season: "20242025", MaxRetries: 2, Logger: logging.NewNop()})
		if _, err := client.PlayerGameLogs(context.Background(), 1); err == nil {
			t.Fatalf("expected error for unknown player")
		}
	})

	t.Run("missing season", func(t *testing.T) {
		client := NewClient(ClientConfig{BaseURL: server.URL, Logger: logging.NewNop()})
		if _, err := client.PlayerGameLogs(context.Background(), 8478449); err == nil {
			t.Fatalf("expected error without season")
		}
	})

	t.Run("invalid api id", func(t *testing.T) {
		client := NewClient(ClientConfig{BaseURL: server.URL, Season: "20242025", Logger: logging.NewNop()})
		if _, err := client.PlayerGameLogs(context.Background(), 0); err == nil {
			t.Fatalf("expected error for zero api id")
		}
	})
}

func TestClient_CircuitBreakerOpensOnServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(server.Close)

	client := NewClient(ClientConfig{
		BaseURL: server.URL,
		Season:  "20242025",
		Logger:  logging.NewNop(),
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 2,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
	})

	for i := 0; i < 2; i++ {
		if _, err := client.PlayerGameLogs(context.Background(), 8478449); err == nil {
			t.Fatalf("expected upstream error on attempt %d", i+1)
		}
	}

	_, err := client.PlayerGameLogs(context.Background(), 8478449)
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected dependency unavailable once open, got %v", err)
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("expected the open breaker to skip the request, got %d calls", got)
	}
}
