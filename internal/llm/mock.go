package llm

import (
	"context"
	"sync"
)

// MockClient permite tests sin llamar a un LLM real.
type MockClient struct {
	Response string
	Err      error

	mu    sync.Mutex
	Calls int
}

func (m *MockClient) AnalyzeImage(ctx context.Context, prompt string, image []byte, contentType string) (string, error) {
	m.mu.Lock()
	m.Calls++
	m.mu.Unlock()
	return m.Response, m.Err
}
