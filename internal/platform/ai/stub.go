package ai

import (
	"context"
	"fmt"
	"sync"
)

// StubBackend returns pre-authored responses keyed by Request.Name.
// Deterministic: exercises the generator/dispatcher machinery without model
// variance, and powers offline demo mode. Thread-safe for the parallel
// dispatcher.
type StubBackend struct {
	mu        sync.RWMutex
	responses map[string][]byte
	errs      map[string]error
	calls     map[string]int
}

func NewStubBackend() *StubBackend {
	return &StubBackend{
		responses: make(map[string][]byte),
		errs:      make(map[string]error),
		calls:     make(map[string]int),
	}
}

// Respond registers the canned response for the named prompt template.
func (s *StubBackend) Respond(name string, body string) *StubBackend {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responses[name] = []byte(body)
	return s
}

// Fail makes calls for the named prompt template return err.
func (s *StubBackend) Fail(name string, err error) *StubBackend {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errs[name] = err
	return s
}

// Calls reports how many times the named prompt template was invoked.
func (s *StubBackend) Calls(name string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.calls[name]
}

func (s *StubBackend) Complete(ctx context.Context, req Request) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, Classify(err)
	}

	s.mu.Lock()
	s.calls[req.Name]++
	err := s.errs[req.Name]
	body, ok := s.responses[req.Name]
	s.mu.Unlock()

	if err != nil {
		return nil, Classify(err)
	}
	if !ok {
		return nil, &BackendError{Kind: FailureUnavailable, Err: fmt.Errorf("stub: no response registered for %q", req.Name)}
	}
	return body, nil
}
