package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/Joona374/BracketChallenge2.0/internal/platform/logging"
)

const (
	DefaultContestDeadline = "2025-04-10T00:00:00+03:00"
	DefaultContestTimezone = "Europe/Helsinki"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv                   string
	ServiceName              string
	ServiceVersion           string
	HTTPAddr                 string
	ReadTimeout              time.Duration
	WriteTimeout             time.Duration
	LogLevel                 logging.Level
	LogFormat                logging.Format
	DBURL                    string
	DBDisablePreparedBinary  bool
	CacheEnabled             bool
	CacheTTL                 time.Duration
	CORSAllowedOrigins       []string
	AdminToken               string
	ContestDeadline          time.Time
	ContestLocation          *time.Location
	ContestGracePeriod       time.Duration
	LineupTotalBudget        int64
	LineupMaxTrades          int
	BracketRoundPoints       []int
	PredictionPointsPerPick  int
	WorkerPoolSize           int
	JobsEnabled              bool
	JobLeaderboardInterval   time.Duration
	JobDailyUpdateAt         string
	NATSEnabled              bool
	NATSURL                  string
	NATSSubjectPrefix        string
	NHLAPIEnabled            bool
	NHLAPIBaseURL            string
	NHLAPISeason             string
	NHLAPITimeout            time.Duration
	NHLAPIMaxRetries         int
	NHLAPICircuitEnabled     bool
	NHLAPICircuitFailures    int
	NHLAPICircuitOpenTimeout time.Duration
	NHLAPICircuitHalfOpenMax int
	PprofEnabled             bool
	PprofAddr                string
	UptraceEnabled           bool
	UptraceDSN               string
	PyroscopeEnabled         bool
	PyroscopeServerAddress   string
	PyroscopeAppName         string
	PyroscopeAuthToken       string
	PyroscopeBasicAuthUser   string
	PyroscopeBasicAuthPass   string
	PyroscopeUploadRate      time.Duration
}

// InMemory reports whether the service runs on the seeded in-memory store.
func (c Config) InMemory() bool {
	return strings.TrimSpace(c.DBURL) == ""
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppEnv:             appEnv,
		ServiceName:        getEnv("APP_SERVICE_NAME", "bracket-challenge-api"),
		ServiceVersion:     getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:           getEnv("APP_HTTP_ADDR", ":8080"),
		LogLevel:           parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
		DBURL:              strings.TrimSpace(os.Getenv("DB_URL")),
		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		AdminToken:         strings.TrimSpace(os.Getenv("ADMIN_TOKEN")),
		NATSURL:            strings.TrimSpace(getEnv("NATS_URL", "nats://127.0.0.1:4222")),
		NATSSubjectPrefix:  strings.TrimSpace(getEnv("NATS_SUBJECT_PREFIX", "bracketchallenge")),
		NHLAPIBaseURL:      strings.TrimSpace(getEnv("NHLAPI_BASE_URL", "https://api-web.nhle.com/v1")),
		NHLAPISeason:       strings.TrimSpace(getEnv("NHLAPI_SEASON", "20242025")),
		PprofAddr:          strings.TrimSpace(getEnv("PPROF_ADDR", ":6060")),
		UptraceDSN:         strings.TrimSpace(getEnv("UPTRACE_DSN", "")),
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}

	logFormat := getEnv("APP_LOG_FORMAT", string(logging.FormatJSON))
	switch logging.Format(strings.ToLower(strings.TrimSpace(logFormat))) {
	case logging.FormatJSON:
		cfg.LogFormat = logging.FormatJSON
	case logging.FormatConsole:
		cfg.LogFormat = logging.FormatConsole
	default:
		return Config{}, fmt.Errorf("invalid APP_LOG_FORMAT %q", logFormat)
	}

	if cfg.ReadTimeout, err = positiveDuration("APP_READ_TIMEOUT", "10s"); err != nil {
		return Config{}, err
	}
	if cfg.WriteTimeout, err = positiveDuration("APP_WRITE_TIMEOUT", "15s"); err != nil {
		return Config{}, err
	}

	if cfg.DBDisablePreparedBinary, err = parseBool("DB_DISABLE_PREPARED_BINARY_RESULT", "true"); err != nil {
		return Config{}, err
	}
	if cfg.CacheEnabled, err = parseBool("CACHE_ENABLED", "true"); err != nil {
		return Config{}, err
	}
	if cfg.CacheTTL, err = positiveDuration("CACHE_TTL", "60s"); err != nil {
		return Config{}, err
	}

	if err := loadContest(&cfg); err != nil {
		return Config{}, err
	}
	if err := loadJobs(&cfg); err != nil {
		return Config{}, err
	}
	if err := loadIntegrations(&cfg); err != nil {
		return Config{}, err
	}
	if err := loadObservability(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func loadContest(cfg *Config) error {
	tz := getEnv("CONTEST_TIMEZONE", DefaultContestTimezone)
	loc, err := time.LoadLocation(strings.TrimSpace(tz))
	if err != nil {
		return fmt.Errorf("parse CONTEST_TIMEZONE: %w", err)
	}
	cfg.ContestLocation = loc

	deadline, err := time.Parse(time.RFC3339, strings.TrimSpace(getEnv("CONTEST_DEADLINE", DefaultContestDeadline)))
	if err != nil {
		return fmt.Errorf("parse CONTEST_DEADLINE: %w", err)
	}
	cfg.ContestDeadline = deadline

	grace, err := time.ParseDuration(getEnv("CONTEST_GRACE_PERIOD", "0s"))
	if err != nil {
		return fmt.Errorf("parse CONTEST_GRACE_PERIOD: %w", err)
	}
	if grace < 0 {
		return fmt.Errorf("CONTEST_GRACE_PERIOD must be >= 0")
	}
	cfg.ContestGracePeriod = grace

	budget, err := strconv.ParseInt(strings.TrimSpace(getEnv("LINEUP_TOTAL_BUDGET", "2000000")), 10, 64)
	if err != nil {
		return fmt.Errorf("parse LINEUP_TOTAL_BUDGET: %w", err)
	}
	if budget <= 0 {
		return fmt.Errorf("LINEUP_TOTAL_BUDGET must be > 0")
	}
	cfg.LineupTotalBudget = budget

	if cfg.LineupMaxTrades, err = positiveInt("LINEUP_MAX_TRADES", 9); err != nil {
		return err
	}

	if cfg.BracketRoundPoints, err = parseRoundPoints(getEnv("BRACKET_ROUND_POINTS", "2,4,8,16")); err != nil {
		return fmt.Errorf("parse BRACKET_ROUND_POINTS: %w", err)
	}

	if cfg.PredictionPointsPerPick, err = positiveInt("PREDICTION_POINTS_PER_PICK", 5); err != nil {
		return err
	}
	return nil
}

func loadJobs(cfg *Config) error {
	var err error
	if cfg.WorkerPoolSize, err = positiveInt("WORKER_POOL_SIZE", 8); err != nil {
		return err
	}
	if cfg.JobsEnabled, err = parseBool("JOBS_ENABLED", "true"); err != nil {
		return err
	}
	if cfg.JobLeaderboardInterval, err = positiveDuration("JOB_LEADERBOARD_INTERVAL", "10m"); err != nil {
		return err
	}

	at := strings.TrimSpace(getEnv("JOB_DAILY_UPDATE_AT", "10:00"))
	if !strings.EqualFold(at, "off") {
		if _, err := time.Parse("15:04", at); err != nil {
			return fmt.Errorf("parse JOB_DAILY_UPDATE_AT: expected HH:MM, got %q", at)
		}
		cfg.JobDailyUpdateAt = at
	}
	return nil
}

func loadIntegrations(cfg *Config) error {
	var err error
	if cfg.NATSEnabled, err = parseBool("NATS_ENABLED", "false"); err != nil {
		return err
	}
	if cfg.NATSEnabled && cfg.NATSURL == "" {
		return fmt.Errorf("NATS_URL is required when NATS_ENABLED=true")
	}

	if cfg.NHLAPIEnabled, err = parseBool("NHLAPI_ENABLED", "false"); err != nil {
		return err
	}
	if cfg.NHLAPIEnabled && cfg.NHLAPIBaseURL == "" {
		return fmt.Errorf("NHLAPI_BASE_URL is required when NHLAPI_ENABLED=true")
	}
	if cfg.NHLAPITimeout, err = positiveDuration("NHLAPI_TIMEOUT", "10s"); err != nil {
		return err
	}
	if cfg.NHLAPIMaxRetries, err = getEnvAsInt("NHLAPI_MAX_RETRIES", 1); err != nil {
		return fmt.Errorf("parse NHLAPI_MAX_RETRIES: %w", err)
	}
	if cfg.NHLAPIMaxRetries < 0 {
		return fmt.Errorf("NHLAPI_MAX_RETRIES must be >= 0")
	}
	if cfg.NHLAPICircuitEnabled, err = parseBool("NHLAPI_CIRCUIT_ENABLED", "true"); err != nil {
		return err
	}
	if cfg.NHLAPICircuitFailures, err = positiveInt("NHLAPI_CIRCUIT_FAILURE_COUNT", 5); err != nil {
		return err
	}
	if cfg.NHLAPICircuitOpenTimeout, err = positiveDuration("NHLAPI_CIRCUIT_OPEN_TIMEOUT", "15s"); err != nil {
		return err
	}
	if cfg.NHLAPICircuitHalfOpenMax, err = positiveInt("NHLAPI_CIRCUIT_HALF_OPEN_MAX_REQ", 2); err != nil {
		return err
	}
	return nil
}

func loadObservability(cfg *Config) error {
	var err error
	if cfg.PprofEnabled, err = parseBool("PPROF_ENABLED", "false"); err != nil {
		return err
	}
	if cfg.PprofEnabled && cfg.PprofAddr == "" {
		return fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	if cfg.UptraceEnabled, err = parseBool("UPTRACE_ENABLED", "false"); err != nil {
		return err
	}
	if cfg.UptraceDSN == "" {
		cfg.UptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if cfg.UptraceEnabled && cfg.UptraceDSN == "" {
		return fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	if cfg.PyroscopeEnabled, err = parseBool("PYROSCOPE_ENABLED", "false"); err != nil {
		return err
	}
	cfg.PyroscopeServerAddress = strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if cfg.PyroscopeEnabled && cfg.PyroscopeServerAddress == "" {
		return fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	cfg.PyroscopeAuthToken = strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", ""))
	cfg.PyroscopeBasicAuthUser = strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", ""))
	cfg.PyroscopeBasicAuthPass = strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", ""))
	if cfg.PyroscopeUploadRate, err = positiveDuration("PYROSCOPE_UPLOAD_RATE", "15s"); err != nil {
		return err
	}
	return nil
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func parseBool(key, fallback string) (bool, error) {
	out, err := strconv.ParseBool(strings.TrimSpace(getEnv(key, fallback)))
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", key, err)
	}
	return out, nil
}

func positiveInt(key string, fallback int) (int, error) {
	out, err := getEnvAsInt(key, fallback)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if out <= 0 {
		return 0, fmt.Errorf("%s must be > 0", key)
	}
	return out, nil
}

func positiveDuration(key, fallback string) (time.Duration, error) {
	out, err := time.ParseDuration(strings.TrimSpace(getEnv(key, fallback)))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if out <= 0 {
		return 0, fmt.Errorf("%s must be > 0", key)
	}
	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

// parseRoundPoints reads four comma separated weights: round one, round two,
// conference final, cup final.
func parseRoundPoints(raw string) ([]int, error) {
	items := splitCSV(raw)
	if len(items) != 4 {
		return nil, fmt.Errorf("expected 4 comma separated values, got %d", len(items))
	}

	out := make([]int, 0, len(items))
	for _, item := range items {
		value, err := strconv.Atoi(item)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", item, err)
		}
		if value < 0 {
			return nil, fmt.Errorf("points must be >= 0, got %d", value)
		}
		out = append(out, value)
	}
	return out, nil
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
