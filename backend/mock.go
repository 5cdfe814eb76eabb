package backend

import (
	"context"
	"fmt"
	"sync"
)

// Mock is a lightweight in-memory Backend useful for tests and examples.
// Replies can be scripted in order (QueueReply / QueueError) or keyed by user
// message (AddResponse); scripted replies win when both are present.
type Mock struct {
	mu        sync.Mutex
	info      Info
	script    []mockReply
	responses map[string]string
	calls     int
	requests  []Request
}

type mockReply struct {
	content string
	err     error
}

// NewMock constructs a Mock reporting the given model name.
func NewMock(name string) *Mock {
	return &Mock{
		info:      Info{Name: name, Provider: "mock"},
		responses: make(map[string]string),
	}
}

// QueueReply appends a canned successful reply to the script.
func (m *Mock) QueueReply(content string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.script = append(m.script, mockReply{content: content})
}

// QueueError appends a scripted failure.
func (m *Mock) QueueError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.script = append(m.script, mockReply{err: err})
}

// AddResponse registers a deterministic reply for a user message.
func (m *Mock) AddResponse(user, content string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[user] = content
}

// Calls returns how many Complete invocations were made.
func (m *Mock) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// LastRequest returns the most recent request, if any.
func (m *Mock) LastRequest() (Request, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.requests) == 0 {
		return Request{}, false
	}
	return m.requests[len(m.requests)-1], true
}

// Complete implements Backend.
func (m *Mock) Complete(ctx context.Context, req Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.requests = append(m.requests, req)
	if len(m.script) > 0 {
		next := m.script[0]
		m.script = m.script[1:]
		if next.err != nil {
			return nil, next.err
		}
		return &Response{Content: next.content}, nil
	}
	if content, ok := m.responses[req.User]; ok {
		return &Response{Content: content}, nil
	}
	return &Response{Content: fmt.Sprintf("Mock response to: %s", req.User)}, nil
}

// Info implements Backend.
func (m *Mock) Info() Info { return m.info }
