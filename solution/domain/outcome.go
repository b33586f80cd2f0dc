package domain

// OutcomeKind identifica a variante de um Outcome.
type OutcomeKind int

const (
	OutcomeSuccess OutcomeKind = iota + 1
	OutcomeLogicalFailure
	OutcomeTransportFailure
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeLogicalFailure:
		return "logical_failure"
	case OutcomeTransportFailure:
		return "transport_failure"
	default:
		return "unknown"
	}
}

// Outcome é o resultado de uma única tentativa.
//
// Falhas de tentativa são valores, não erros: o loop de tentativas as consome
// e só expõe a última mensagem se todas falharem.
type Outcome struct {
	Kind OutcomeKind
	// Solution só é preenchido quando Kind == OutcomeSuccess.
	Solution string
	// Message é o motivo da falha (vazio em caso de sucesso).
	Message string
}

func Success(solution string) Outcome {
	return Outcome{Kind: OutcomeSuccess, Solution: solution}
}

func LogicalFailure(message string) Outcome {
	return Outcome{Kind: OutcomeLogicalFailure, Message: message}
}

func TransportFailure(message string) Outcome {
	return Outcome{Kind: OutcomeTransportFailure, Message: message}
}

// OK indica sucesso com payload não vazio.
func (o Outcome) OK() bool {
	return o.Kind == OutcomeSuccess && o.Solution != ""
}
