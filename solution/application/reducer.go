package application

import "solution-gateway/solution/domain"

// Step aplica o resultado de uma tentativa ao estado.
//
// Função pura: sucesso é terminal, qualquer falha sobrescreve LastReason.
// Estados terminais não mudam mais.
func Step(s domain.AttemptState, id domain.Identity, o domain.Outcome) domain.AttemptState {
	if s.Terminal() {
		return s
	}

	s.Attempts++
	s.Identity = id

	if o.OK() {
		s.Phase = domain.PhaseSuccess
		s.Solution = o.Solution
		return s
	}

	switch o.Kind {
	case domain.OutcomeTransportFailure:
		s.Phase = domain.PhaseTransportFailure
		s.LastReason = o.Message
		if s.LastReason == "" {
			s.LastReason = "Unknown fetch error"
		}
	default:
		// sucesso sem payload também é falha lógica
		s.Phase = domain.PhaseLogicalFailure
		s.LastReason = o.Message
		if s.LastReason == "" {
			s.LastReason = defaultLogicalReason
		}
	}
	return s
}

// Finish fecha o loop: qualquer estado não terminal vira Exhausted.
func Finish(s domain.AttemptState) domain.AttemptState {
	if s.Phase == domain.PhaseSuccess {
		return s
	}
	s.Phase = domain.PhaseExhausted
	return s
}

const defaultLogicalReason = "API returned non-success."
