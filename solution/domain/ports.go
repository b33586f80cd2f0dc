package domain

import "context"

// IdentitySource carrega o pool de identidades. Chamado uma vez por requisição,
// sem cache.
type IdentitySource interface {
	Load(ctx context.Context) (IdentityPool, error)
}

// Upstream faz uma única consulta na API de soluções.
//
// Nunca retorna erro: falhas de transporte e falhas lógicas viram Outcome.
type Upstream interface {
	Lookup(ctx context.Context, req LookupRequest) Outcome
}

// Renderer transforma código puro em markup destacado.
type Renderer interface {
	Render(code, language string) (string, error)
}

// Rand é a fonte de aleatoriedade do embaralhamento (injetável em testes).
type Rand interface {
	Intn(n int) int
}
