package nhlapi

import (
	"context"
	stderrors "errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"github.com/valyala/fasthttp"
	"golang.org/x/sync/singleflight"

	"github.com/Joona374/BracketChallenge2.0/internal/domain/player"
	"github.com/Joona374/BracketChallenge2.0/internal/platform/logging"
	"github.com/Joona374/BracketChallenge2.0/internal/platform/resilience"
	"github.com/Joona374/BracketChallenge2.0/internal/usecase"
)

const (
	DefaultBaseURL   = "https://api-web.nhle.com/v1"
	playoffGameType  = 3
	maxResponseBytes = 4 << 20
	gameDateLayout   = "2006-01-02"
)

var errNHLTransient = crerr.New("nhl api transient failure")

type ClientConfig struct {
	BaseURL        string
	Season         string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client reads playoff game logs and game start times from the public NHL
// web API.
type Client struct {
	http       *fasthttp.Client
	baseURL    string
	season     string
	timeout    time.Duration
	maxRetries int
	logger     *logging.Logger
	breaker    *resilience.Breaker

	flight     singleflight.Group
	mu         sync.RWMutex
	startTimes map[int64]time.Time
}

var _ usecase.GameLogSource = (*Client)(nil)

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	breakerCfg := cfg.CircuitBreaker
	if breakerCfg.OnStateChange == nil {
		breakerCfg.OnStateChange = func(from, to resilience.CircuitState) {
			logger.Warn("nhl api circuit breaker state changed", "from", from, "to", to)
		}
	}

	return &Client{
		http: &fasthttp.Client{
			Name:                "bracket-challenge",
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
			MaxResponseBodySize: maxResponseBytes,
		},
		baseURL:    baseURL,
		season:     strings.TrimSpace(cfg.Season),
		timeout:    timeout,
		maxRetries: max(cfg.MaxRetries, 0),
		logger:     logger,
		breaker:    resilience.NewBreaker(breakerCfg, nil),
		startTimes: make(map[int64]time.Time),
	}
}

type gameLogEnvelope struct {
	GameLog []gameLogRow `json:"gameLog"`
}

type gameLogRow struct {
	GameID       int64  `json:"gameId"`
	GameDate     string `json:"gameDate"`
	Goals        int    `json:"goals"`
	Assists      int    `json:"assists"`
	Points       int    `json:"points"`
	PlusMinus    int    `json:"plusMinus"`
	Decision     string `json:"decision"`
	Shutouts     int    `json:"shutouts"`
	ShotsAgainst int    `json:"shotsAgainst"`
	GoalsAgainst int    `json:"goalsAgainst"`
	Saves        int    `json:"saves"`
}

type landingEnvelope struct {
	StartTimeUTC string `json:"startTimeUTC"`
}

// PlayerGameLogs returns the player's playoff games of the configured
// season with start times resolved from the game landing page.
func (c *Client) PlayerGameLogs(ctx context.Context, apiID int64) ([]player.GameLog, error) {
	if apiID <= 0 {
		return nil, crerr.Newf("api id must be greater than zero, got %d", apiID)
	}
	if c.season == "" {
		return nil, crerr.New("nhl season is not configured")
	}

	var env gameLogEnvelope
	path := c.url("player", strconv.FormatInt(apiID, 10), "game-log", c.season, strconv.Itoa(playoffGameType))
	if err := c.getJSON(ctx, path, &env); err != nil {
		return nil, crerr.Wrapf(err, "fetch game log api_id=%d", apiID)
	}

	out := make([]player.GameLog, 0, len(env.GameLog))
	for _, row := range env.GameLog {
		gameDate, err := time.Parse(gameDateLayout, row.GameDate)
		if err != nil {
			return nil, crerr.Wrapf(err, "parse game date api_id=%d game_id=%d", apiID, row.GameID)
		}

		log := player.GameLog{
			GameID:       row.GameID,
			GameDate:     gameDate,
			Goals:        row.Goals,
			Assists:      row.Assists,
			Points:       row.Points,
			PlusMinus:    row.PlusMinus,
			Shutouts:     row.Shutouts,
			Saves:        row.Saves,
			ShotsAgainst: row.ShotsAgainst,
			GoalsAgainst: row.GoalsAgainst,
		}
		if row.Decision == "W" {
			log.Wins = 1
		}

		start, err := c.GameStartTime(ctx, row.GameID)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			c.logger.WarnContext(ctx, "resolve game start time failed", "game_id", row.GameID, "error", err)
		} else {
			log.StartTimeUTC = start
		}
		out = append(out, log)
	}
	return out, nil
}

// GameStartTime reads startTimeUTC from the game landing endpoint. Results
// are cached per game.
func (c *Client) GameStartTime(ctx context.Context, gameID int64) (time.Time, error) {
	c.mu.RLock()
	cached, ok := c.startTimes[gameID]
	c.mu.RUnlock()
	if ok {
		return cached, nil
	}

	key := strconv.FormatInt(gameID, 10)
	v, err, _ := c.flight.Do(key, func() (any, error) {
		var env landingEnvelope
		if err := c.getJSON(ctx, c.url("gamecenter", key, "landing"), &env); err != nil {
			return time.Time{}, err
		}
		if env.StartTimeUTC == "" {
			return time.Time{}, crerr.Newf("game %d has no start time", gameID)
		}
		start, err := time.Parse(time.RFC3339, env.StartTimeUTC)
		if err != nil {
			return time.Time{}, crerr.Wrapf(err, "parse start time game_id=%d", gameID)
		}
		start = start.UTC()

		c.mu.Lock()
		c.startTimes[gameID] = start
		c.mu.Unlock()
		return start, nil
	})
	if err != nil {
		return time.Time{}, err
	}
	start, _ := v.(time.Time)
	return start, nil
}

func (c *Client) getJSON(ctx context.Context, fullURL string, target any) error {
	var raw []byte
	err := c.breaker.Execute(func() error {
		body, reqErr := c.executeRequest(ctx, fullURL)
		raw = body
		return reqErr
	}, isTransient)
	if err != nil {
		if stderrors.Is(err, resilience.ErrCircuitOpen) {
			c.logger.WarnContext(ctx, "nhl api circuit breaker rejected request", "url", fullURL)
			return fmt.Errorf("%w: nhl stats api is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
		return err
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return crerr.Wrap(err, "decode nhl api payload")
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		raw, status, err := c.do(ctx, fullURL)
		switch {
		case err != nil:
			lastErr = crerr.Mark(crerr.Wrapf(err, "send request url=%s", fullURL), errNHLTransient)
		case status >= 200 && status < 300:
			return raw, nil
		case isRetryableStatus(status):
			lastErr = crerr.Mark(crerr.Newf("nhl api status=%d url=%s", status, fullURL), errNHLTransient)
		default:
			return nil, crerr.Newf("nhl api status=%d url=%s body=%s", status, fullURL, abbreviate(raw))
		}

		if attempt == c.maxRetries {
			break
		}
		timer := time.NewTimer(time.Duration(attempt+1) * 500 * time.Millisecond)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
	return nil, lastErr
}

func (c *Client) do(ctx context.Context, fullURL string) ([]byte, int, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(fullURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")

	deadline := time.Now().Add(c.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	if err := c.http.DoDeadline(req, resp, deadline); err != nil {
		return nil, 0, err
	}

	body := append([]byte(nil), resp.Body()...)
	return body, resp.StatusCode(), nil
}

func (c *Client) url(parts ...string) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_, _ = buf.WriteString(c.baseURL)
	for _, part := range parts {
		_ = buf.WriteByte('/')
		_, _ = buf.WriteString(part)
	}
	return buf.String()
}

func isTransient(err error) bool {
	return crerr.Is(err, errNHLTransient)
}

func isRetryableStatus(status int) bool {
	return status == fasthttp.StatusTooManyRequests || status >= 500
}

func abbreviate(raw []byte) string {
	const limit = 256
	text := strings.TrimSpace(string(raw))
	if len(text) <= limit {
		return text
	}
	return text[:limit] + "..."
}
