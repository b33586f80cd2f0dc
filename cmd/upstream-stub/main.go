// Command upstream-stub imita a API de soluções para testes locais do gateway.
//
//	GET /solution-requests.php?action=get_solution&user_id=<id>&question_id=<q>
//
// Cada user_id tem uma cota de chamadas (STUB_QUOTA); ao estourar, a resposta é
// uma falha lógica, como na API real. Questões conhecidas vêm de STUB_SOLUTIONS_DIR
// (<question_id>.cpp) ou do exemplo embutido "1".
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"go.uber.org/zap"
)

func main() {
	log, _ := zap.NewDevelopment()
	defer func() { _ = log.Sync() }()

	addr := ":8081"
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		addr = v
	}
	quota := 5
	if v, err := strconv.Atoi(os.Getenv("STUB_QUOTA")); err == nil && v > 0 {
		quota = v
	}

	stub := newStub(quota, os.Getenv("STUB_SOLUTIONS_DIR"), log)

	mux := http.NewServeMux()
	mux.Handle("GET /solution-requests.php", stub)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info("upstream stub listening", zap.String("addr", addr), zap.Int("quota", quota))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("server error", zap.Error(err))
	}
}
