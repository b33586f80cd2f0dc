package domain

import (
	"errors"
	"testing"
)

func TestParseIdentityPool_TrimsAndDropsBlankLines(t *testing.T) {
	pool := ParseIdentityPool("u1\n\n  u2 \r\n\r\nu3\n")

	want := IdentityPool{"u1", "u2", "u3"}
	if len(pool) != len(want) {
		t.Fatalf("expected %d identities, got %d (%v)", len(want), len(pool), pool)
	}
	for i := range want {
		if pool[i] != want[i] {
			t.Fatalf("identity %d: expected %q, got %q", i, want[i], pool[i])
		}
	}
}

func TestParseIdentityPool_EmptyText(t *testing.T) {
	if pool := ParseIdentityPool("\n \n"); len(pool) != 0 {
		t.Fatalf("expected empty pool, got %v", pool)
	}
}

func TestExhaustedError_MatchesSentinel(t *testing.T) {
	var err error = &ExhaustedError{Attempts: 3, LastReason: "not found"}
	if !errors.Is(err, ErrAllAttemptsExhausted) {
		t.Fatalf("expected errors.Is to match ErrAllAttemptsExhausted")
	}
	if err.Error() != "not found" {
		t.Fatalf("expected last reason as message, got %q", err.Error())
	}
}

func TestOutcome_OKRequiresPayload(t *testing.T) {
	if Success("").OK() {
		t.Fatalf("expected empty solution to not be OK")
	}
	if !Success("int main(){}").OK() {
		t.Fatalf("expected solution to be OK")
	}
	if LogicalFailure("x").OK() {
		t.Fatalf("expected logical failure to not be OK")
	}
}
