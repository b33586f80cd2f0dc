package ratelimit

import (
	"context"
	"net/http"
	"time"
)

type ConcurrencyOptions struct {
	Max            int
	RejectStatus   int
	AcquireTimeout time.Duration
	KeyFn          KeyFunc
	OnReject       RejectFunc
}

// semaphore é um pool de vagas baseado em channel.
type semaphore chan struct{}

// acquire bloqueia até conseguir vaga ou ctx encerrar.
// Com timeout > 0, espera no máximo timeout.
func (s semaphore) acquire(ctx context.Context, timeout time.Duration) (release func(), ok bool) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	select {
	case s <- struct{}{}:
		return func() { <-s }, true
	case <-ctx.Done():
		return nil, false
	}
}

// ConcurrencyMiddleware limita quantas buscas rodam ao mesmo tempo.
// Max <= 0 desliga o limite.
func ConcurrencyMiddleware(opts ConcurrencyOptions) func(next http.Handler) http.Handler {
	if opts.Max <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	if opts.RejectStatus == 0 {
		opts.RejectStatus = http.StatusServiceUnavailable
	}
	if opts.KeyFn == nil {
		opts.KeyFn = DefaultKeyFunc("", false)
	}

	sem := make(semaphore, opts.Max)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			release, ok := sem.acquire(r.Context(), opts.AcquireTimeout)
			if !ok {
				if opts.OnReject != nil {
					opts.OnReject(r, opts.KeyFn(r), ReasonBusy)
				}
				writeError(w, opts.RejectStatus, "Server busy, try again later")
				return
			}
			defer release()

			next.ServeHTTP(w, r)
		})
	}
}
