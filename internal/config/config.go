package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var ErrInvalid = errors.New("invalid config")

// Config holds server configuration, read from the environment.
type Config struct {
	Port     int    `env:"PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	LogDev   bool   `env:"LOG_DEV" envDefault:"false"`

	// Seed fixes the generator; 0 seeds from the clock.
	Seed int64 `env:"SEED" envDefault:"0"`

	APILatencyMin  time.Duration `env:"API_LATENCY_MIN" envDefault:"300ms"`
	APILatencyMax  time.Duration `env:"API_LATENCY_MAX" envDefault:"1s"`
	FeedConnectMin time.Duration `env:"FEED_CONNECT_MIN" envDefault:"500ms"`
	FeedConnectMax time.Duration `env:"FEED_CONNECT_MAX" envDefault:"1.5s"`
	FeedTickMin    time.Duration `env:"FEED_TICK_MIN" envDefault:"3s"`
	FeedTickMax    time.Duration `env:"FEED_TICK_MAX" envDefault:"10s"`

	// SessionIdleTimeout reaps sessions without clients; 0 keeps them.
	SessionIdleTimeout time.Duration `env:"SESSION_IDLE_TIMEOUT" envDefault:"1m"`

	LeaderboardSchedule string   `env:"LEADERBOARD_SCHEDULE" envDefault:"@every 30s"`
	CORSOrigins         []string `env:"CORS_ORIGINS" envDefault:"*" envSeparator:","`

	// JournalDSN is a Postgres DSN for the store journal; empty disables it.
	JournalDSN string `env:"JOURNAL_DSN"`
}

// Load reads .env if present, then parses and validates the environment.
func Load() (Config, error) {
	// Missing .env is fine
	_ = godotenv.Load()
	return Parse()
}

func Parse() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("%w: PORT %d out of range", ErrInvalid, c.Port)
	}
	ranges := []struct {
		name     string
		min, max time.Duration
	}{
		{"API_LATENCY", c.APILatencyMin, c.APILatencyMax},
		{"FEED_CONNECT", c.FeedConnectMin, c.FeedConnectMax},
		{"FEED_TICK", c.FeedTickMin, c.FeedTickMax},
	}
	for _, r := range ranges {
		if r.min < 0 || r.min > r.max {
			return fmt.Errorf("%w: %s_MIN %s exceeds %s_MAX %s", ErrInvalid, r.name, r.min, r.name, r.max)
		}
	}
	if c.FeedTickMax <= 0 {
		return fmt.Errorf("%w: FEED_TICK_MAX must be positive", ErrInvalid)
	}
	if c.SessionIdleTimeout < 0 {
		return fmt.Errorf("%w: SESSION_IDLE_TIMEOUT must not be negative", ErrInvalid)
	}
	if c.LeaderboardSchedule == "" {
		return fmt.Errorf("%w: LEADERBOARD_SCHEDULE is required", ErrInvalid)
	}
	return nil
}

func (c Config) Addr() string { return fmt.Sprintf(":%d", c.Port) }
