package application

import (
	"context"
	"fmt"

	"solution-gateway/solution/domain"

	"go.uber.org/zap"
)

// DefaultLanguage é a linguagem usada no destaque de sintaxe.
const DefaultLanguage = "cpp"

// Service liga as peças de uma requisição: valida, carrega o pool, busca e
// renderiza. Tudo é all-or-nothing.
type Service struct {
	Source   domain.IdentitySource
	Fetcher  Fetcher
	Renderer domain.Renderer
	Language string
	Stats    domain.StatsStore
	Logger   *zap.Logger
}

// Rendered é o resultado entregue ao cliente.
type Rendered struct {
	Markup   string
	Solution string
	Identity domain.Identity
	Attempts int
}

// Lookup executa a busca completa. Erros possíveis (via errors.Is):
// domain.ErrMissingParameter, domain.ErrResourceUnavailable, domain.ErrEmptyPool,
// domain.ErrAllAttemptsExhausted, domain.ErrRender ou erro de contexto.
func (s Service) Lookup(ctx context.Context, q domain.QuestionID) (Rendered, error) {
	res, err := s.Fetch(ctx, q)
	if err != nil {
		return Rendered{}, err
	}

	lang := s.Language
	if lang == "" {
		lang = DefaultLanguage
	}
	markup, err := s.Renderer.Render(res.Solution, lang)
	if err != nil {
		return Rendered{}, fmt.Errorf("%w: %v", domain.ErrRender, err)
	}

	s.fetcher().record(ctx, domain.StatsEvent{Kind: domain.StatsRendered, QuestionID: q})

	return Rendered{
		Markup:   markup,
		Solution: res.Solution,
		Identity: res.Identity,
		Attempts: res.Attempts,
	}, nil
}

// Fetch valida e busca a solução sem renderizar (usado pelo CLI em modo raw).
func (s Service) Fetch(ctx context.Context, q domain.QuestionID) (Result, error) {
	if q.Empty() {
		return Result{}, domain.ErrMissingParameter
	}

	pool, err := s.Source.Load(ctx)
	if err != nil {
		return Result{}, err
	}
	if len(pool) == 0 {
		return Result{}, domain.ErrEmptyPool
	}

	return s.fetcher().Fetch(ctx, q, pool)
}

// fetcher herda Stats e Logger do Service quando o Fetcher não os define.
func (s Service) fetcher() Fetcher {
	f := s.Fetcher
	if f.Stats == nil {
		f.Stats = s.Stats
	}
	if f.Logger == nil {
		f.Logger = s.Logger
	}
	return f
}
