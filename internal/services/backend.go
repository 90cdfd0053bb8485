package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jwebster45206/amix-engine/internal/config"
	"github.com/jwebster45206/amix-engine/pkg/phrases"
)

// StaticBackend is always ready. Templates need no external model.
type StaticBackend struct{}

func (StaticBackend) Ready(ctx context.Context) (bool, error) {
	return true, nil
}

// NewBackend picks the generation backend named by the configuration. A nil
// backend means the generator always answers from the fallback bank.
func NewBackend(cfg *config.Config, logger *slog.Logger) (phrases.Backend, error) {
	switch cfg.Backend {
	case config.BackendStatic:
		logger.Info("Using static generation backend")
		return StaticBackend{}, nil
	case config.BackendOllama:
		logger.Info("Using Ollama generation backend", "url", cfg.OllamaURL, "model", cfg.ModelName)
		return NewOllamaBackend(cfg.OllamaURL, cfg.ModelName, logger), nil
	case config.BackendNone:
		logger.Info("No generation backend, fallback bank only")
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported backend: %s", cfg.Backend)
	}
}
