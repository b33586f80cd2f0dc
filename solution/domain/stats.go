package domain

import (
	"context"
	"time"
)

// StatsKind classifica um evento de estatística.
type StatsKind string

const (
	StatsSuccess          StatsKind = "success"
	StatsTransportFailure StatsKind = "transport_failure"
	StatsLogicalFailure   StatsKind = "logical_failure"
	StatsExhausted        StatsKind = "exhausted"
	StatsRendered         StatsKind = "rendered"
	StatsRateLimited      StatsKind = "rate_limited"
	StatsBusy             StatsKind = "busy"
)

// KindOf mapeia o resultado de uma tentativa para o evento correspondente.
func KindOf(o Outcome) StatsKind {
	switch o.Kind {
	case OutcomeSuccess:
		return StatsSuccess
	case OutcomeLogicalFailure:
		return StatsLogicalFailure
	default:
		return StatsTransportFailure
	}
}

// StatsEvent é um evento de tentativa, de resultado de requisição ou de
// rejeição no gateway.
//
// Observação: Identity só é persistida quando o store foi configurado para
// rastrear identidades (cardinalidade).
type StatsEvent struct {
	Kind       StatsKind
	Identity   Identity
	QuestionID QuestionID
	At         time.Time
}

// StatsStore persiste estatísticas. Quem chama trata erro como best-effort.
type StatsStore interface {
	Record(ctx context.Context, ev StatsEvent) error
}
