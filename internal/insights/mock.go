package insights

import (
	"context"
	"sync"
)

// MockGenerator returns a canned answer and records prompts.
type MockGenerator struct {
	mu       sync.Mutex
	prompts  []string
	Response string
	Err      error
}

// Generate records prompt and returns Response or Err.
func (m *MockGenerator) Generate(_ context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prompts = append(m.prompts, prompt)
	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}

// Prompts returns the prompts received so far.
func (m *MockGenerator) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.prompts))
	copy(out, m.prompts)
	return out
}
