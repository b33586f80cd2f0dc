package application

import "solution-gateway/solution/domain"

// DefaultMaxAttempts é o número de identidades tentadas por requisição.
const DefaultMaxAttempts = 3

// SelectAttemptOrder embaralha uma cópia do pool (Fisher-Yates) e devolve as
// primeiras min(maxAttempts, len(pool)) identidades.
//
// O pool do chamador não é alterado. maxAttempts <= 0 usa DefaultMaxAttempts.
func SelectAttemptOrder(pool domain.IdentityPool, maxAttempts int, rnd domain.Rand) []domain.Identity {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}

	shuffled := make([]domain.Identity, len(pool))
	copy(shuffled, pool)
	for i := len(shuffled) - 1; i > 0; i-- {
		j := rnd.Intn(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}

	return shuffled[:min(maxAttempts, len(shuffled))]
}
