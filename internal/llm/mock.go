package llm

import (
	"context"
	"encoding/json"
	"sync"
)

// MockResponse is one canned reply.
type MockResponse struct {
	Content json.RawMessage
	Usage   Usage
	Err     error
}

// MockProvider replays canned replies in order and records every
// request. Once the queue is empty it serves Fallback, or reports the
// provider as unavailable when Fallback is nil.
type MockProvider struct {
	Fallback *MockResponse

	mu      sync.Mutex
	queue   []MockResponse
	history []Request
}

func NewMockProvider(replies ...MockResponse) *MockProvider {
	return &MockProvider{queue: replies}
}

func (m *MockProvider) ModelID() string {
	return ProviderMock
}

// Generate checks canned content against req.Schema the way a vendor
// reply would be checked.
func (m *MockProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	reply, ok := m.next(req)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !ok {
		return nil, &ErrProviderUnavailable{}
	}
	if reply.Err != nil {
		return nil, reply.Err
	}
	return completion{
		text:  string(reply.Content),
		model: ProviderMock,
		stop:  StopEnd,
		usage: reply.Usage,
	}.response(req)
}

func (m *MockProvider) next(req Request) (MockResponse, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.history = append(m.history, req)
	if len(m.queue) > 0 {
		reply := m.queue[0]
		m.queue = m.queue[1:]
		return reply, true
	}
	if m.Fallback != nil {
		return *m.Fallback, true
	}
	return MockResponse{}, false
}

// AddResponse queues another reply.
func (m *MockProvider) AddResponse(reply MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, reply)
}

// Calls returns the requests received so far.
func (m *MockProvider) Calls() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Request(nil), m.history...)
}

func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.history)
}
