package solution

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"solution-gateway/solution/application"
	"solution-gateway/solution/domain"

	"go.uber.org/zap"
)

// Looker é o caso de uso consumido pelo handler.
type Looker interface {
	Lookup(ctx context.Context, q domain.QuestionID) (application.Rendered, error)
}

// StatsSnapshotter expõe contadores agregados em GET /stats.
type StatsSnapshotter interface {
	Snapshot(ctx context.Context) (map[string]int64, error)
}

type Options struct {
	Service Looker
	Stats   StatsSnapshotter
	Logger  *zap.Logger
	// LookupMiddleware envolve apenas as rotas de busca (ex: rate limit),
	// deixando página, health e stats livres.
	LookupMiddleware func(http.Handler) http.Handler
}

// LookupResponse é o corpo JSON das rotas de busca.
type LookupResponse struct {
	Markup   string `json:"markup,omitempty"`
	Attempts int    `json:"attempts,omitempty"`
	Error    string `json:"error,omitempty"`
}

// NewHandler monta as rotas:
//
//	GET /                    página com formulário
//	GET /lookup              busca (questionId ou quesId)
//	GET /api/get-solution    alias de /lookup
//	GET /healthz             liveness
//	GET /stats               contadores (se Stats != nil)
func NewHandler(opts Options) http.Handler {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	wrap := opts.LookupMiddleware
	if wrap == nil {
		wrap = func(h http.Handler) http.Handler { return h }
	}

	lookup := wrap(lookupHandler(opts.Service, opts.Logger))

	mux := http.NewServeMux()
	mux.Handle("GET /lookup", lookup)
	mux.Handle("GET /api/get-solution", lookup)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})
	if opts.Stats != nil {
		mux.Handle("GET /stats", statsHandler(opts.Stats, opts.Logger))
	}
	mux.Handle("GET /{$}", pageHandler())
	return mux
}

// QuestionIDFrom lê questionId e, como fallback, quesId.
func QuestionIDFrom(r *http.Request) domain.QuestionID {
	q := r.URL.Query()
	if v := strings.TrimSpace(q.Get("questionId")); v != "" {
		return domain.QuestionID(v)
	}
	return domain.QuestionID(strings.TrimSpace(q.Get("quesId")))
}

func lookupHandler(svc Looker, log *zap.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := QuestionIDFrom(r)

		out, err := svc.Lookup(r.Context(), q)
		if err != nil {
			status, msg := StatusFor(err)
			fields := []zap.Field{zap.String("question_id", string(q)), zap.Int("status", status), zap.Error(err)}
			switch {
			case status >= http.StatusInternalServerError:
				log.Error("lookup failed", fields...)
			case status == http.StatusNotFound:
				log.Warn("lookup exhausted", fields...)
			default:
				log.Debug("lookup rejected", fields...)
			}
			writeJSON(w, log, status, LookupResponse{Error: msg})
			return
		}

		log.Info("lookup served",
			zap.String("question_id", string(q)),
			zap.String("identity", string(out.Identity)),
			zap.Int("attempts", out.Attempts),
		)
		writeJSON(w, log, http.StatusOK, LookupResponse{Markup: out.Markup, Attempts: out.Attempts})
	})
}

// StatusFor traduz um erro do caso de uso para status HTTP e mensagem.
func StatusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrMissingParameter):
		return http.StatusBadRequest, "Question ID is required"
	case errors.Is(err, domain.ErrAllAttemptsExhausted):
		var ex *domain.ExhaustedError
		if errors.As(err, &ex) {
			return http.StatusNotFound, ex.LastReason
		}
		return http.StatusNotFound, err.Error()
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "upstream lookup timed out"
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable, "request cancelled"
	default:
		return http.StatusInternalServerError, err.Error()
	}
}

func statsHandler(stats StatsSnapshotter, log *zap.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		snap, err := stats.Snapshot(r.Context())
		if err != nil {
			log.Error("stats snapshot failed", zap.Error(err))
			writeJSON(w, log, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, log, http.StatusOK, snap)
	})
}

func writeJSON(w http.ResponseWriter, log *zap.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// headers já foram enviados
		log.Error("failed to encode response", zap.Error(err))
	}
}
