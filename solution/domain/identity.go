package domain

import "strings"

// Identity é um user_id aceito pela API de soluções.
type Identity string

// IdentityPool é a lista ordenada de identidades carregada por requisição.
// Nunca é compartilhada entre requisições.
type IdentityPool []Identity

// ParseIdentityPool quebra o texto em linhas, faz trim e descarta linhas vazias.
// Aceita tanto "\n" quanto "\r\n".
func ParseIdentityPool(text string) IdentityPool {
	lines := strings.Split(text, "\n")
	pool := make(IdentityPool, 0, len(lines))
	for _, line := range lines {
		id := strings.TrimSpace(line)
		if id == "" {
			continue
		}
		pool = append(pool, Identity(id))
	}
	return pool
}

// QuestionID é a chave opaca da questão consultada.
type QuestionID string

func (q QuestionID) Empty() bool { return strings.TrimSpace(string(q)) == "" }

// LookupRequest é uma chamada ao upstream: uma identidade + uma questão.
type LookupRequest struct {
	Identity   Identity
	QuestionID QuestionID
}
