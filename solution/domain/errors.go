package domain

import (
	"errors"
	"fmt"
)

var (
	ErrMissingParameter     = errors.New("question ID is required")
	ErrResourceUnavailable  = errors.New("identity resource unavailable")
	ErrEmptyPool            = errors.New("no identities available")
	ErrAllAttemptsExhausted = errors.New("all attempts exhausted")
	ErrRender               = errors.New("render failed")
)

// ExhaustedError carrega o motivo da última tentativa feita.
type ExhaustedError struct {
	Attempts   int
	LastReason string
}

func (e *ExhaustedError) Error() string { return e.LastReason }

func (e *ExhaustedError) Is(target error) bool { return target == ErrAllAttemptsExhausted }

// EmptyPoolError informa qual recurso não tinha identidades.
type EmptyPoolError struct {
	Source string
}

func (e *EmptyPoolError) Error() string {
	return fmt.Sprintf("No user IDs found in %s", e.Source)
}

func (e *EmptyPoolError) Is(target error) bool { return target == ErrEmptyPool }
