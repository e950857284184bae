package testutils

import (
	"context"
	"sync"

	"wanna/pkg/wannatypes"
)

// MockLLMClient replays scripted replies and records every transcript it receives.
type MockLLMClient struct {
	mu sync.Mutex

	// Replies are returned in order; once exhausted, Fallback is returned.
	Replies  []string
	Fallback string
	// Errors maps a zero-based call index to the error returned by that call.
	Errors map[int]error
	// Configured is reported by IsConfigured.
	Configured bool

	calls [][]wannatypes.Message
	next  int
}

// NewMockLLMClient creates a configured mock that returns replies in order.
func NewMockLLMClient(replies ...string) *MockLLMClient {
	return &MockLLMClient{Replies: replies, Configured: true}
}

// FailOn makes the call with the given zero-based index return err.
func (m *MockLLMClient) FailOn(call int, err error) *MockLLMClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Errors == nil {
		m.Errors = make(map[int]error)
	}
	m.Errors[call] = err
	return m
}

// SendChatCompletion records a copy of messages and returns the next scripted reply.
// A failing call does not consume a reply.
func (m *MockLLMClient) SendChatCompletion(_ context.Context, messages []wannatypes.Message, _ *wannatypes.ModelConfig) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	index := len(m.calls)
	m.calls = append(m.calls, append([]wannatypes.Message(nil), messages...))

	if err, ok := m.Errors[index]; ok {
		return "", err
	}
	if m.next < len(m.Replies) {
		reply := m.Replies[m.next]
		m.next++
		return reply, nil
	}
	return m.Fallback, nil
}

// GetProviderName returns "mock".
func (m *MockLLMClient) GetProviderName() string {
	return "mock"
}

// IsConfigured returns the Configured field.
func (m *MockLLMClient) IsConfigured() bool {
	return m.Configured
}

// Calls returns the transcripts received so far.
func (m *MockLLMClient) Calls() [][]wannatypes.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]wannatypes.Message(nil), m.calls...)
}

// CallCount returns the number of completions requested.
func (m *MockLLMClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// LastCall returns the most recent transcript, or nil when nothing was sent.
func (m *MockLLMClient) LastCall() []wannatypes.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.calls) == 0 {
		return nil
	}
	return m.calls[len(m.calls)-1]
}
