package application

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"solution-gateway/solution/domain"

	"go.uber.org/zap"
)

// Fetcher é o loop de tentativas com rotação de identidades.
//
// Stateless: todo o estado da requisição vive em domain.AttemptState, criado e
// descartado dentro de Fetch.
type Fetcher struct {
	Upstream    domain.Upstream
	MaxAttempts int
	Rand        domain.Rand
	Stats       domain.StatsStore
	Logger      *zap.Logger
}

// Result é a solução obtida e quem a obteve.
type Result struct {
	Solution string
	Identity domain.Identity
	Attempts int
}

// Fetch tenta as identidades em sequência e para no primeiro sucesso.
//
// Se todas falharem, retorna *domain.ExhaustedError com o motivo da última
// tentativa. Se ctx encerrar, o loop para e o erro do contexto é retornado.
func (f Fetcher) Fetch(ctx context.Context, q domain.QuestionID, pool domain.IdentityPool) (Result, error) {
	if q.Empty() {
		return Result{}, domain.ErrMissingParameter
	}
	if len(pool) == 0 {
		return Result{}, domain.ErrEmptyPool
	}

	rnd := f.Rand
	if rnd == nil {
		rnd = globalRand{}
	}
	log := f.Logger
	if log == nil {
		log = zap.NewNop()
	}

	order := SelectAttemptOrder(pool, f.MaxAttempts, rnd)
	st := domain.AttemptState{
		Phase:      domain.PhasePending,
		LastReason: fmt.Sprintf("Failed to retrieve solution after %d attempts.", len(order)),
	}

	for _, id := range order {
		if err := ctx.Err(); err != nil {
			return Result{}, fmt.Errorf("lookup interrupted after %d attempts: %w", st.Attempts, err)
		}

		o := f.Upstream.Lookup(ctx, domain.LookupRequest{Identity: id, QuestionID: q})
		st = Step(st, id, o)
		f.record(ctx, domain.StatsEvent{Kind: domain.KindOf(o), Identity: id, QuestionID: q})

		if st.Phase == domain.PhaseSuccess {
			return Result{Solution: st.Solution, Identity: id, Attempts: st.Attempts}, nil
		}

		log.Warn("upstream attempt failed",
			zap.String("identity", string(id)),
			zap.String("question_id", string(q)),
			zap.Int("attempt", st.Attempts),
			zap.Stringer("phase", st.Phase),
			zap.String("reason", st.LastReason),
		)

		if err := ctx.Err(); err != nil {
			return Result{}, fmt.Errorf("lookup interrupted after %d attempts: %w", st.Attempts, err)
		}
	}

	st = Finish(st)
	f.record(ctx, domain.StatsEvent{Kind: domain.StatsExhausted, QuestionID: q})
	return Result{}, &domain.ExhaustedError{Attempts: st.Attempts, LastReason: st.LastReason}
}

func (f Fetcher) record(ctx context.Context, ev domain.StatsEvent) {
	if f.Stats == nil {
		return
	}
	ev.At = time.Now()
	if err := f.Stats.Record(ctx, ev); err != nil && f.Logger != nil {
		f.Logger.Debug("stats record failed", zap.Error(err))
	}
}

type globalRand struct{}

func (globalRand) Intn(n int) int { return rand.IntN(n) }
