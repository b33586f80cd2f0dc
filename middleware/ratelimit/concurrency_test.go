package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

func TestConcurrencyMiddleware_TimesOutWhenNoSlot(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	secondDone := make(chan struct{})
	var startedOnce sync.Once

	// segura a vaga até liberarmos
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		startedOnce.Do(func() { close(started) })
		<-release
		w.WriteHeader(http.StatusOK)
	})

	var mu sync.Mutex
	var reasons []Reason
	h := ConcurrencyMiddleware(ConcurrencyOptions{
		Max:            1,
		AcquireTimeout: 25 * time.Millisecond,
		OnReject: func(_ *http.Request, _ string, reason Reason) {
			mu.Lock()
			reasons = append(reasons, reason)
			mu.Unlock()
		},
	})(next)

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		w1 := httptest.NewRecorder()
		h.ServeHTTP(w1, lookupRequest("10.0.0.1:1"))
		if w1.Code != http.StatusOK {
			t.Errorf("expected first request 200, got %d", w1.Code)
		}
	}()

	select {
	case <-started:
	case <-time.After(200 * time.Millisecond):
		close(release)
		wg.Wait()
		t.Fatalf("timeout waiting first request to start")
	}

	go func() {
		defer wg.Done()
		defer close(secondDone)
		w2 := httptest.NewRecorder()
		h.ServeHTTP(w2, lookupRequest("10.0.0.2:1"))
		if w2.Code != http.StatusServiceUnavailable {
			t.Errorf("expected second request 503, got %d", w2.Code)
		}
	}()

	// a segunda precisa terminar antes de liberarmos a primeira
	select {
	case <-secondDone:
	case <-time.After(500 * time.Millisecond):
		close(release)
		wg.Wait()
		t.Fatalf("timeout waiting second request to finish")
	}

	close(release)
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	if len(reasons) != 1 || reasons[0] != ReasonBusy {
		t.Fatalf("expected one busy rejection, got %v", reasons)
	}
}

func TestConcurrencyMiddleware_DisabledWhenMaxIsZero(t *testing.T) {
	calls := 0
	h := ConcurrencyMiddleware(ConcurrencyOptions{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { calls++ }))
	h.ServeHTTP(httptest.NewRecorder(), lookupRequest("10.0.0.1:1"))
	if calls != 1 {
		t.Fatalf("expected pass-through, got %d calls", calls)
	}
}
