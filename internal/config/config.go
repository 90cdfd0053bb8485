package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Backend names accepted in BACKEND.
const (
	BackendStatic = "static"
	BackendOllama = "ollama"
	BackendNone   = "none"
)

type Config struct {
	Environment string
	LogLevel    slog.Level
	LogFile     string

	DataDir string
	Lore    string

	Backend   string
	OllamaURL string
	ModelName string

	RedisURL      string
	ContentRating string

	Seed          uint64
	MovementSpeed float64
	TickRate      time.Duration
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{
		Environment:   getEnv("ENVIRONMENT", "development"),
		LogLevel:      parseLogLevel(getEnv("LOG_LEVEL", "info")),
		LogFile:       getEnv("LOG_FILE", ""),
		DataDir:       getEnv("DATA_DIR", "data"),
		Lore:          getEnv("LORE", "amix"),
		Backend:       strings.ToLower(getEnv("BACKEND", BackendStatic)),
		OllamaURL:     strings.TrimRight(getEnv("OLLAMA_URL", "http://localhost:11434"), "/"),
		ModelName:     getEnv("MODEL_NAME", "llama3.2"),
		RedisURL:      getEnv("REDIS_URL", ""),
		ContentRating: strings.ToUpper(getEnv("CONTENT_RATING", "PG")),
	}

	var errs []error

	seed, err := strconv.ParseUint(getEnv("SEED", "0"), 10, 64)
	if err != nil {
		errs = append(errs, fmt.Errorf("SEED must be an unsigned integer: %w", err))
	}
	cfg.Seed = seed

	speed, err := strconv.ParseFloat(getEnv("MOVEMENT_SPEED", "0.02"), 64)
	if err != nil {
		errs = append(errs, fmt.Errorf("MOVEMENT_SPEED must be a number: %w", err))
	}
	cfg.MovementSpeed = speed

	tick, err := time.ParseDuration(getEnv("TICK_RATE", "16ms"))
	if err != nil {
		errs = append(errs, fmt.Errorf("TICK_RATE must be a duration: %w", err))
	}
	cfg.TickRate = tick

	if len(errs) == 0 {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	return nil, fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
}

// Validate checks the parsed values.
func (c *Config) Validate() error {
	var errs []error
	switch c.Backend {
	case BackendStatic, BackendOllama, BackendNone:
	default:
		errs = append(errs, fmt.Errorf("BACKEND %q is not one of static, ollama, none", c.Backend))
	}
	if c.Backend == BackendOllama && c.ModelName == "" {
		errs = append(errs, errors.New("MODEL_NAME is required for the ollama backend"))
	}
	if c.MovementSpeed <= 0 {
		errs = append(errs, fmt.Errorf("MOVEMENT_SPEED must be positive, got %g", c.MovementSpeed))
	}
	if c.TickRate <= 0 {
		errs = append(errs, fmt.Errorf("TICK_RATE must be positive, got %s", c.TickRate))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
