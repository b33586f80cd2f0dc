package main

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

const sampleSolution = `#include <iostream>

int main() {
    std::cout << "hello" << std::endl;
    return 0;
}
`

type stubResponse struct {
	Status  string        `json:"status"`
	Message string        `json:"message"`
	Data    *stubSolution `json:"data,omitempty"`
}

type stubSolution struct {
	Solution string `json:"solution"`
}

type stub struct {
	quota int
	dir   string
	log   *zap.Logger

	mu   sync.Mutex
	used map[string]int
}

func newStub(quota int, dir string, log *zap.Logger) *stub {
	return &stub{quota: quota, dir: dir, log: log, used: make(map[string]int)}
}

func (s *stub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	user, question := q.Get("user_id"), q.Get("question_id")

	if q.Get("action") != "get_solution" {
		http.Error(w, "unknown action", http.StatusBadRequest)
		return
	}
	if user == "" || question == "" {
		s.reply(w, stubResponse{Status: "error", Message: "user_id and question_id are required"})
		return
	}

	if !s.take(user) {
		s.log.Info("quota exceeded", zap.String("user_id", user))
		s.reply(w, stubResponse{Status: "error", Message: "Daily limit reached for this user"})
		return
	}

	code, ok := s.solution(question)
	if !ok {
		s.reply(w, stubResponse{Status: "error", Message: "Solution not found"})
		return
	}
	s.reply(w, stubResponse{Status: "success", Message: "Solution found", Data: &stubSolution{Solution: code}})
}

func (s *stub) take(user string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.used[user] >= s.quota {
		return false
	}
	s.used[user]++
	return true
}

func (s *stub) solution(question string) (string, bool) {
	if s.dir != "" {
		// Base evita path traversal via question_id
		data, err := os.ReadFile(filepath.Join(s.dir, filepath.Base(question)+".cpp"))
		if err == nil && len(data) > 0 {
			return string(data), true
		}
	}
	if question == "1" {
		return sampleSolution, true
	}
	return "", false
}

func (s *stub) reply(w http.ResponseWriter, body stubResponse) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.Error("failed to encode response", zap.Error(err))
	}
}
