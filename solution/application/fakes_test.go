package application

import (
	"context"
	"errors"
	"sync"

	"solution-gateway/solution/domain"
)

// keepOrder faz o Fisher-Yates não trocar nada (Intn(i+1) == i).
type keepOrder struct{}

func (keepOrder) Intn(n int) int { return n - 1 }

type scriptedUpstream struct {
	mu       sync.Mutex
	byID     map[domain.Identity]domain.Outcome
	calls    []domain.LookupRequest
	onLookup func(calls int)
}

func (u *scriptedUpstream) Lookup(_ context.Context, req domain.LookupRequest) domain.Outcome {
	u.mu.Lock()
	u.calls = append(u.calls, req)
	n := len(u.calls)
	u.mu.Unlock()

	if u.onLookup != nil {
		u.onLookup(n)
	}
	if o, ok := u.byID[req.Identity]; ok {
		return o
	}
	return domain.TransportFailure("unexpected identity " + string(req.Identity))
}

func (u *scriptedUpstream) Calls() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.calls)
}

type staticSource struct {
	pool  domain.IdentityPool
	err   error
	loads int
}

func (s *staticSource) Load(context.Context) (domain.IdentityPool, error) {
	s.loads++
	return s.pool, s.err
}

type fakeRenderer struct {
	err  error
	got  string
	lang string
}

func (r *fakeRenderer) Render(code, language string) (string, error) {
	r.got, r.lang = code, language
	if r.err != nil {
		return "", r.err
	}
	return "<pre>" + code + "</pre>", nil
}

type recordingStats struct {
	mu     sync.Mutex
	events []domain.StatsEvent
	err    error
}

func (s *recordingStats) Record(_ context.Context, ev domain.StatsEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	return s.err
}

func (s *recordingStats) Kinds() []domain.StatsKind {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.StatsKind, 0, len(s.events))
	for _, ev := range s.events {
		out = append(out, ev.Kind)
	}
	return out
}

var errBoom = errors.New("boom")
