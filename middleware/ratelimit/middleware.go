package ratelimit

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// Reason diz por que uma requisição foi rejeitada.
type Reason string

const (
	ReasonRateLimited Reason = "rate_limited"
	ReasonBusy        Reason = "busy"
)

// RejectFunc é chamada a cada rejeição, antes da resposta ser escrita.
type RejectFunc func(r *http.Request, key string, reason Reason)

type Options struct {
	Store               *Store
	KeyFn               KeyFunc
	KeyHeader           string
	TrustXForwardedFor  bool
	RejectStatus        int
	RetryAfter          time.Duration
	AddRateLimitHeaders bool
	OnReject            RejectFunc
	Logger              *zap.Logger
}

func Middleware(opts Options) func(next http.Handler) http.Handler {
	if opts.Store == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	if opts.RejectStatus == 0 {
		opts.RejectStatus = http.StatusTooManyRequests
	}
	if opts.RetryAfter <= 0 {
		opts.RetryAfter = 1 * time.Second
	}
	if opts.KeyFn == nil {
		opts.KeyFn = DefaultKeyFunc(opts.KeyHeader, opts.TrustXForwardedFor)
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := opts.KeyFn(r)

			if opts.AddRateLimitHeaders {
				w.Header().Set("X-RateLimit-Key", key)
				w.Header().Set("X-RateLimit-RPS", strconv.FormatFloat(opts.Store.RPS(), 'f', -1, 64))
				w.Header().Set("X-RateLimit-Burst", strconv.Itoa(opts.Store.Burst()))
			}

			if !opts.Store.Allow(key) {
				opts.Logger.Debug("rate limited", zap.String("key", key), zap.String("path", r.URL.Path))
				if opts.OnReject != nil {
					opts.OnReject(r, key, ReasonRateLimited)
				}
				w.Header().Set("Retry-After", strconv.Itoa(int(opts.RetryAfter.Seconds())))
				writeError(w, opts.RejectStatus, "Too many requests, try again later")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// writeError responde no mesmo formato JSON das rotas de busca.
func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
