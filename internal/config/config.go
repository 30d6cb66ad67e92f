package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ErrMissingKey is returned when a required environment variable is unset.
var ErrMissingKey = errors.New("required configuration key is missing")

// Defaults applied when the corresponding environment variable is unset.
const (
	DefaultModel        = "gpt-4"
	DefaultMaxTokens    = 1500
	DefaultLogLevel     = "info"
	DefaultReportsDir   = "reports"
	DefaultTMDBBaseURL  = "https://api.themoviedb.org/3"
	DefaultAgentTimeout = 120 * time.Second
)

// Config holds all runtime settings. It is validated once at startup
// and treated as immutable afterwards.
type Config struct {
	OpenAIKey    string
	TMDBKey      string
	TMDBBaseURL  string
	Model        string
	MaxTokens    int
	LogLevel     string
	ReportsDir   string
	AgentTimeout time.Duration
}

// Load reads configuration from the environment. A .env file in the
// working directory is honored when present but never required.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		OpenAIKey:    os.Getenv("OPENAI_API_KEY"),
		TMDBKey:      os.Getenv("TMDB_API_KEY"),
		TMDBBaseURL:  envOrDefault("TMDB_BASE_URL", DefaultTMDBBaseURL),
		Model:        envOrDefault("GREENLIGHT_MODEL", DefaultModel),
		LogLevel:     envOrDefault("GREENLIGHT_LOG_LEVEL", DefaultLogLevel),
		ReportsDir:   envOrDefault("GREENLIGHT_REPORTS_DIR", DefaultReportsDir),
		MaxTokens:    DefaultMaxTokens,
		AgentTimeout: DefaultAgentTimeout,
	}

	if cfg.OpenAIKey == "" {
		return nil, fmt.Errorf("%w: OPENAI_API_KEY", ErrMissingKey)
	}
	if cfg.TMDBKey == "" {
		return nil, fmt.Errorf("%w: TMDB_API_KEY", ErrMissingKey)
	}

	if raw := os.Getenv("GREENLIGHT_MAX_TOKENS"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid GREENLIGHT_MAX_TOKENS %q: must be a positive integer", raw)
		}
		cfg.MaxTokens = n
	}

	if raw := os.Getenv("GREENLIGHT_AGENT_TIMEOUT_SECONDS"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid GREENLIGHT_AGENT_TIMEOUT_SECONDS %q: must be a positive integer", raw)
		}
		cfg.AgentTimeout = time.Duration(n) * time.Second
	}

	if _, err := zapcore.ParseLevel(cfg.LogLevel); err != nil {
		return nil, fmt.Errorf("invalid GREENLIGHT_LOG_LEVEL %q: %w", cfg.LogLevel, err)
	}

	return cfg, nil
}

// NewLogger builds the process logger at the configured level.
func (c *Config) NewLogger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}

	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.Encoding = "console"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger, nil
}

// ValidPlatform reports whether p is a supported distribution platform.
func ValidPlatform(p string) bool {
	switch p {
	case "theatrical", "streaming", "hybrid":
		return true
	}
	return false
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
