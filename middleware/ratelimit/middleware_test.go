package ratelimit

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func lookupRequest(remote string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "http://gateway/lookup?questionId=42", nil)
	r.RemoteAddr = remote
	return r
}

func TestMiddleware_AllowsThenRejectsSameKey(t *testing.T) {
	store := NewStore(0.02, 1)

	calls := 0
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, "ok")
	})

	var rejected []Reason
	h := Middleware(Options{
		Store:               store,
		RetryAfter:          1 * time.Second,
		AddRateLimitHeaders: true,
		OnReject: func(r *http.Request, key string, reason Reason) {
			if key != "10.0.0.1" {
				t.Errorf("expected key 10.0.0.1, got %q", key)
			}
			rejected = append(rejected, reason)
		},
	})(next)

	w1 := httptest.NewRecorder()
	h.ServeHTTP(w1, lookupRequest("10.0.0.1:1234"))
	if w1.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w1.Code)
	}
	for _, hdr := range []string{"X-RateLimit-Key", "X-RateLimit-RPS", "X-RateLimit-Burst"} {
		if w1.Header().Get(hdr) == "" {
			t.Fatalf("expected %s header to be set", hdr)
		}
	}

	// burst=1 e rps baixo: a segunda bloqueia
	w2 := httptest.NewRecorder()
	h.ServeHTTP(w2, lookupRequest("10.0.0.1:1234"))
	if w2.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w2.Code)
	}
	if got := w2.Header().Get("Retry-After"); got != "1" {
		t.Fatalf("expected Retry-After=1, got %q", got)
	}

	var body map[string]string
	if err := json.Unmarshal(w2.Body.Bytes(), &body); err != nil {
		t.Fatalf("expected JSON body, got %q: %v", w2.Body.String(), err)
	}
	if body["error"] == "" {
		t.Fatalf("expected error field in body")
	}

	if calls != 1 {
		t.Fatalf("expected next handler to be called once, got %d", calls)
	}
	if len(rejected) != 1 || rejected[0] != ReasonRateLimited {
		t.Fatalf("expected one rate_limited rejection, got %v", rejected)
	}
}

func TestMiddleware_KeyByHeader(t *testing.T) {
	store := NewStore(0.02, 1)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	h := Middleware(Options{Store: store, KeyHeader: "X-Api-Key"})(next)

	// chaves diferentes têm limiters próprios
	for _, key := range []string{"k1", "k2"} {
		r := lookupRequest("10.0.0.1:1234")
		r.Header.Set("X-Api-Key", key)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200 for key %s, got %d", key, w.Code)
		}
	}
	if store.Len() != 2 {
		t.Fatalf("expected 2 limiters, got %d", store.Len())
	}
}

func TestMiddleware_RetryAfterUsesSeconds(t *testing.T) {
	store := NewStore(0.02, 1)

	h := Middleware(Options{
		Store:      store,
		RetryAfter: 2500 * time.Millisecond,
	})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	h.ServeHTTP(httptest.NewRecorder(), lookupRequest("10.0.0.1:1234"))

	w2 := httptest.NewRecorder()
	h.ServeHTTP(w2, lookupRequest("10.0.0.1:1234"))
	if w2.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w2.Code)
	}
	if got := strings.TrimSpace(w2.Header().Get("Retry-After")); got != "2" {
		// int(2.5s.Seconds()) == 2
		t.Fatalf("expected Retry-After=2, got %q", got)
	}
}

func TestMiddleware_NilStoreIsPassThrough(t *testing.T) {
	calls := 0
	h := Middleware(Options{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { calls++ }))

	for i := 0; i < 5; i++ {
		h.ServeHTTP(httptest.NewRecorder(), lookupRequest("10.0.0.1:1234"))
	}
	if calls != 5 {
		t.Fatalf("expected all requests to pass, got %d", calls)
	}
}
