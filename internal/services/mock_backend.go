package services

import (
	"context"
	"sync"
)

// MockBackend is a mock implementation of phrases.Backend for testing
type MockBackend struct {
	ReadyFunc func(ctx context.Context) (bool, error)

	// Track calls for testing
	ReadyCalls int

	mu sync.Mutex
}

// NewMockBackend creates a mock backend that reports ready
func NewMockBackend() *MockBackend {
	return &MockBackend{}
}

// Ready mocks the readiness probe
func (m *MockBackend) Ready(ctx context.Context) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ReadyCalls++

	if m.ReadyFunc != nil {
		return m.ReadyFunc(ctx)
	}

	// Default behavior - ready
	return true, nil
}

// Calls returns the number of probes so far
func (m *MockBackend) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ReadyCalls
}
