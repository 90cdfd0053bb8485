package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// OllamaBackend reports ready when a local Ollama server has the configured
// model pulled.
type OllamaBackend struct {
	baseURL    string
	modelName  string
	httpClient *http.Client
	logger     *slog.Logger

	MaxRetries int
	RetryDelay time.Duration
}

// NewOllamaBackend creates a new Ollama readiness probe
func NewOllamaBackend(baseURL string, modelName string, logger *slog.Logger) *OllamaBackend {
	return &OllamaBackend{
		baseURL:   strings.TrimRight(baseURL, "/"),
		modelName: modelName,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
		logger:     logger,
		MaxRetries: 3,
		RetryDelay: time.Second,
	}
}

// Ready waits for the server, then checks the model list.
func (s *OllamaBackend) Ready(ctx context.Context) (bool, error) {
	if err := s.waitForOllamaReady(ctx); err != nil {
		return false, fmt.Errorf("ollama service is not ready: %w", err)
	}

	ready, err := s.isModelReady(ctx, s.modelName)
	if err != nil {
		return false, fmt.Errorf("failed to check model readiness: %w", err)
	}
	if !ready {
		s.logger.Warn("Model not available in Ollama", "model", s.modelName)
	}
	return ready, nil
}

// ListModels returns the names of the pulled models.
func (s *OllamaBackend) ListModels(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/api/tags", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API request failed with status: %d", resp.StatusCode)
	}

	var tagsResp struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tagsResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	names := make([]string, 0, len(tagsResp.Models))
	for _, model := range tagsResp.Models {
		names = append(names, model.Name)
	}
	return names, nil
}

// isModelReady matches the model name with or without the ":latest" tag.
func (s *OllamaBackend) isModelReady(ctx context.Context, modelName string) (bool, error) {
	names, err := s.ListModels(ctx)
	if err != nil {
		return false, err
	}
	for _, name := range names {
		if name == modelName || strings.TrimSuffix(name, ":latest") == modelName {
			return true, nil
		}
	}
	return false, nil
}

// waitForOllamaReady waits for Ollama service to be ready with retries
func (s *OllamaBackend) waitForOllamaReady(ctx context.Context) error {
	for i := 0; i < s.MaxRetries; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(s.RetryDelay):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/api/tags", nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}

		resp, err := s.httpClient.Do(req)
		if err != nil {
			s.logger.Debug("Ollama not ready yet", "error", err, "attempt", i+1)
			continue
		}
		_ = resp.Body.Close()

		if resp.StatusCode == http.StatusOK {
			s.logger.Info("Ollama service is ready")
			return nil
		}
		s.logger.Debug("Ollama returned non-200 status", "status", resp.StatusCode, "attempt", i+1)
	}

	return fmt.Errorf("ollama service did not become ready after %d attempts", s.MaxRetries)
}
