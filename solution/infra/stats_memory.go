package infra

import (
	"context"
	"sync"

	"solution-gateway/solution/domain"
)

// Counters agrupa contagens por tipo de evento.
type Counters map[domain.StatsKind]int64

func (c Counters) clone() Counters {
	out := make(Counters, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// MemoryStatsStore é uma implementação simples em memória.
// Útil para testes, para o CLI e quando não há Redis configurado.
//
// Não faz expiração.
type MemoryStatsStore struct {
	mu         sync.Mutex
	total      Counters
	byIdentity map[domain.Identity]Counters

	trackIdentities bool
}

type MemoryStatsOption func(*MemoryStatsStore)

func WithTrackIdentities(track bool) MemoryStatsOption {
	return func(s *MemoryStatsStore) { s.trackIdentities = track }
}

func NewMemoryStatsStore(opts ...MemoryStatsOption) *MemoryStatsStore {
	s := &MemoryStatsStore{
		total:      make(Counters),
		byIdentity: make(map[domain.Identity]Counters),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStatsStore) Record(_ context.Context, ev domain.StatsEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.total[ev.Kind]++
	if s.trackIdentities && ev.Identity != "" {
		c := s.byIdentity[ev.Identity]
		if c == nil {
			c = make(Counters)
			s.byIdentity[ev.Identity] = c
		}
		c[ev.Kind]++
	}
	return nil
}

func (s *MemoryStatsStore) Total() Counters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total.clone()
}

func (s *MemoryStatsStore) ByIdentity() map[domain.Identity]Counters {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[domain.Identity]Counters, len(s.byIdentity))
	for k, v := range s.byIdentity {
		out[k] = v.clone()
	}
	return out
}

// Snapshot expõe o total no mesmo formato do RedisStatsStore.
func (s *MemoryStatsStore) Snapshot(context.Context) (map[string]int64, error) {
	total := s.Total()
	out := make(map[string]int64, len(total))
	for k, v := range total {
		out[string(k)] = v
	}
	return out, nil
}
