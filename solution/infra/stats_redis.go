package infra

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"solution-gateway/solution/domain"

	"github.com/redis/go-redis/v9"
)

// RedisStatsStore grava contadores em hashes do Redis.
//
// Chaves (prefixo padrão "solution:stats"):
//
//	<prefix>:total                 HINCRBY <kind>
//	<prefix>:minute:<yyyymmddhhmm> HINCRBY <kind>  (expira em ttl)
//	<prefix>:identity:<id>         HINCRBY <kind>  (só com trackIdentities)
type RedisStatsStore struct {
	rdb redis.Cmdable

	prefix string
	// ttl aplica apenas em buckets e chaves por identidade.
	// total é cumulativo e não expira.
	ttl time.Duration

	bucket string // "minute" (padrão) ou "none"

	trackIdentities bool
}

type RedisStatsOption func(*RedisStatsStore)

func WithStatsPrefix(prefix string) RedisStatsOption {
	return func(s *RedisStatsStore) {
		if p := strings.Trim(prefix, ":"); p != "" {
			s.prefix = p
		}
	}
}

func WithStatsTTL(d time.Duration) RedisStatsOption {
	return func(s *RedisStatsStore) { s.ttl = d }
}

func WithStatsBucket(bucket string) RedisStatsOption {
	return func(s *RedisStatsStore) { s.bucket = strings.ToLower(strings.TrimSpace(bucket)) }
}

func WithStatsTrackIdentities(track bool) RedisStatsOption {
	return func(s *RedisStatsStore) { s.trackIdentities = track }
}

func NewRedisStatsStore(rdb redis.Cmdable, opts ...RedisStatsOption) *RedisStatsStore {
	s := &RedisStatsStore{
		rdb:    rdb,
		prefix: "solution:stats",
		ttl:    24 * time.Hour,
		bucket: "minute",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Keys devolve as chaves que Record incrementaria para o evento.
func (s *RedisStatsStore) Keys(ev domain.StatsEvent) []string {
	at := ev.At
	if at.IsZero() {
		at = time.Now()
	}

	keys := []string{s.prefix + ":total"}
	if s.bucket == "minute" {
		keys = append(keys, fmt.Sprintf("%s:minute:%s", s.prefix, at.UTC().Format("200601021504")))
	}
	if s.trackIdentities {
		if id := strings.TrimSpace(string(ev.Identity)); id != "" {
			keys = append(keys, s.prefix+":identity:"+id)
		}
	}
	return keys
}

func (s *RedisStatsStore) Record(ctx context.Context, ev domain.StatsEvent) error {
	if s == nil || s.rdb == nil {
		return nil
	}
	if ev.Kind == "" {
		return nil
	}

	field := string(ev.Kind)
	keys := s.Keys(ev)

	pipe := s.rdb.Pipeline()
	for i, key := range keys {
		pipe.HIncrBy(ctx, key, field, 1)
		// total (índice 0) não expira
		if i > 0 && s.ttl > 0 {
			pipe.Expire(ctx, key, s.ttl)
		}
	}

	_, err := pipe.Exec(ctx)
	return err
}

// Snapshot lê o hash cumulativo.
func (s *RedisStatsStore) Snapshot(ctx context.Context) (map[string]int64, error) {
	raw, err := s.rdb.HGetAll(ctx, s.prefix+":total").Result()
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(raw))
	for k, v := range raw {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("stats field %q: %w", k, err)
		}
		out[k] = n
	}
	return out, nil
}
