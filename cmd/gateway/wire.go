package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"solution-gateway/middleware/ratelimit"
	"solution-gateway/solution"
	"solution-gateway/solution/application"
	"solution-gateway/solution/domain"
	"solution-gateway/solution/infra"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// statsBackend é o StatsStore que também sabe devolver um snapshot.
type statsBackend interface {
	domain.StatsStore
	solution.StatsSnapshotter
}

// newStats conecta no Redis quando habilitado; senão usa memória.
// O retorno close deve ser chamado no shutdown.
func newStats(ctx context.Context, cfg statsConfig) (statsBackend, func(), error) {
	if !cfg.Enabled {
		return infra.NewMemoryStatsStore(infra.WithTrackIdentities(cfg.TrackIdentities)), func() {}, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, fmt.Errorf("redis stats ping: %w", err)
	}

	store := infra.NewRedisStatsStore(
		rdb,
		infra.WithStatsPrefix(cfg.Prefix),
		infra.WithStatsTTL(cfg.TTL),
		infra.WithStatsBucket(cfg.Bucket),
		infra.WithStatsTrackIdentities(cfg.TrackIdentities),
	)
	return store, func() { _ = rdb.Close() }, nil
}

func newService(cfg config, stats domain.StatsStore, log *zap.Logger) (application.Service, error) {
	up, err := infra.NewHTTPUpstream(cfg.UpstreamURL, infra.WithTimeout(cfg.UpstreamTimeout))
	if err != nil {
		return application.Service{}, err
	}

	return application.Service{
		Source: infra.NewFileIdentitySource(cfg.IdentitiesFile),
		Fetcher: application.Fetcher{
			Upstream:    up,
			MaxAttempts: cfg.MaxAttempts,
		},
		Renderer: infra.NewChromaRenderer(cfg.RenderStyle),
		Language: cfg.RenderLanguage,
		Stats:    stats,
		Logger:   log,
	}, nil
}

// lookupGuard monta rate limit + concorrência para as rotas de busca.
// O Store é devolvido para o janitor rodar no errgroup (nil se desligado).
func lookupGuard(cfg rateConfig, stats domain.StatsStore, log *zap.Logger) (func(http.Handler) http.Handler, *ratelimit.Store) {
	onReject := func(r *http.Request, key string, reason ratelimit.Reason) {
		kind := domain.StatsRateLimited
		if reason == ratelimit.ReasonBusy {
			kind = domain.StatsBusy
		}
		if err := stats.Record(r.Context(), domain.StatsEvent{Kind: kind, At: time.Now()}); err != nil {
			log.Debug("stats record failed", zap.Error(err))
		}
	}

	var store *ratelimit.Store
	if cfg.Enabled {
		store = ratelimit.NewStore(cfg.RPS, cfg.Burst)
	}

	keyFn := ratelimit.DefaultKeyFunc(cfg.KeyHeader, cfg.TrustXFF)
	concurrency := ratelimit.ConcurrencyMiddleware(ratelimit.ConcurrencyOptions{
		Max:            cfg.ConcurrencyMax,
		AcquireTimeout: cfg.ConcurrencyTimeout,
		KeyFn:          keyFn,
		OnReject:       onReject,
	})
	limit := ratelimit.Middleware(ratelimit.Options{
		Store:               store,
		KeyFn:               keyFn,
		RetryAfter:          cfg.RetryAfter,
		AddRateLimitHeaders: cfg.AddHeaders,
		OnReject:            onReject,
		Logger:              log,
	})

	return func(h http.Handler) http.Handler { return limit(concurrency(h)) }, store
}
