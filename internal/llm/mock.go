package llm

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"
)

// errMockExhausted is returned, wrapped in ErrProviderUnavailable, once the
// queue is empty.
var errMockExhausted = errors.New("mock: no responses queued")

// MockResponse is a canned response for the MockProvider.
type MockResponse struct {
	Content json.RawMessage
	Usage   Usage
	Err     error

	// StopReason defaults to "end".
	StopReason string

	// Delay holds the response back. A done context ends the wait early
	// with the context's error.
	Delay time.Duration
}

// MockProvider is a deterministic Provider for tests and offline runs.
// It serves canned responses in FIFO order and records every request.
type MockProvider struct {
	mu    sync.Mutex
	queue []MockResponse

	// Calls holds the requests in arrival order.
	Calls []Request
}

// NewMockProvider creates a MockProvider with the given canned responses.
func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{queue: responses}
}

// Generate serves the next canned response. The response model is the
// requested model when one is given.
func (m *MockProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, req)
	if len(m.queue) == 0 {
		m.mu.Unlock()
		return nil, &ErrProviderUnavailable{Err: errMockExhausted}
	}
	next := m.queue[0]
	m.queue = m.queue[1:]
	m.mu.Unlock()

	if next.Delay > 0 {
		if err := sleepContext(ctx, next.Delay); err != nil {
			return nil, err
		}
	}
	if next.Err != nil {
		return nil, next.Err
	}

	resp := &Response{
		Content:    next.Content,
		Usage:      next.Usage,
		Model:      m.ModelID(),
		StopReason: next.StopReason,
	}
	if req.Model != "" {
		resp.Model = req.Model
	}
	if resp.StopReason == "" {
		resp.StopReason = "end"
	}
	return resp, nil
}

// ModelID returns "mock".
func (m *MockProvider) ModelID() string {
	return "mock"
}

// AddResponse appends a canned response to the queue.
func (m *MockProvider) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, resp)
}

// Pending returns the number of responses not yet served.
func (m *MockProvider) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}

// CallCount returns the number of Generate calls made.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
