// internal/config/config.go
//
// Process configuration read from the environment (and an optional .env
// file in development). Every field has a default so the server runs with
// no setup at all: in-memory records, log-only events.

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds all server settings.
type Config struct {
	Port         int    `validate:"gt=0,lt=65536"`
	LogLevel     string `validate:"oneof=trace debug info warn error fatal panic disabled"`
	LogFormat    string `validate:"oneof=json console"`
	ClientOrigin string `validate:"required,url"`

	StoreBackend string `validate:"oneof=memory sqlite redis"`
	SQLitePath   string `validate:"required_if=StoreBackend sqlite"`
	RedisAddr    string `validate:"required_if=StoreBackend redis"`
	RedisPass    string
	RedisDB      int `validate:"gte=0"`

	NatsURL string `validate:"omitempty,url"`

	PlayerSecret  string        `validate:"required,min=8"`
	SessionTTL    time.Duration `validate:"gt=0"`
	SweepInterval time.Duration `validate:"gt=0"`
}

// Addr is the listen address.
func (c *Config) Addr() string { return ":" + strconv.Itoa(c.Port) }

// Load reads .env (if present) and the environment, applies defaults and
// validates the result.
func Load() (*Config, error) {
	_ = godotenv.Load()

	c := &Config{
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogFormat:    getEnv("LOG_FORMAT", "json"),
		ClientOrigin: getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		StoreBackend: getEnv("STORE_BACKEND", "memory"),
		SQLitePath:   getEnv("SQLITE_PATH", "./data/memory.db"),
		RedisAddr:    getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass:    os.Getenv("REDIS_PASSWORD"),
		NatsURL:      os.Getenv("NATS_URL"),
		PlayerSecret: getEnv("PLAYER_SECRET", "dev_secret_change_me"),
	}

	var err error
	if c.Port, err = envInt("PORT", 5175); err != nil {
		return nil, err
	}
	if c.RedisDB, err = envInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if c.SessionTTL, err = envDuration("SESSION_TTL", 30*time.Minute); err != nil {
		return nil, err
	}
	if c.SweepInterval, err = envDuration("SWEEP_INTERVAL", time.Minute); err != nil {
		return nil, err
	}

	if err := validator.New().Struct(c); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return c, nil
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) (int, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", k, err)
	}
	return n, nil
}

func envDuration(k string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", k, err)
	}
	return d, nil
}
