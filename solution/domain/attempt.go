package domain

// AttemptPhase é o estado da máquina de tentativas.
type AttemptPhase int

const (
	PhasePending AttemptPhase = iota
	PhaseTransportFailure
	PhaseLogicalFailure
	PhaseSuccess
	PhaseExhausted
)

func (p AttemptPhase) String() string {
	switch p {
	case PhasePending:
		return "pending"
	case PhaseTransportFailure:
		return "transport_failure"
	case PhaseLogicalFailure:
		return "logical_failure"
	case PhaseSuccess:
		return "success"
	case PhaseExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// AttemptState existe apenas durante uma requisição.
type AttemptState struct {
	Phase AttemptPhase
	// Attempts conta as chamadas ao upstream já feitas.
	Attempts int
	// LastReason é sobrescrito a cada falha: vale sempre a mais recente.
	LastReason string
	Solution   string
	Identity   Identity
}

// Terminal indica que nenhuma outra tentativa deve ser feita.
func (s AttemptState) Terminal() bool {
	return s.Phase == PhaseSuccess || s.Phase == PhaseExhausted
}
