// Package http exposes the four app views (home, add, summary, split)
// as a JSON API over the ledger and the split roster.
package http

import (
	"encoding/json"
	"net/http"
	"sync"

	"scribble/internal/ledger"
	applog "scribble/internal/log"
	"scribble/internal/middleware/ratelimit"
	"scribble/internal/split"
)

type Server struct {
	http.Server

	ledger *ledger.Ledger

	// The split roster is session state: it lives for the process
	// lifetime and is never persisted. rosterMu serializes access from
	// concurrent requests.
	rosterMu sync.Mutex
	roster   *split.Roster
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server.
func NewServer(addr string, l *ledger.Ledger, roster *split.Roster, logger *applog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr: addr,
		},
		ledger: l,
		roster: roster,
	}

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("GET /api/expenses", s.handleListExpenses)
	mux.HandleFunc("POST /api/expenses", s.handleAddExpense)
	mux.HandleFunc("DELETE /api/expenses/{id}", s.handleRemoveExpense)

	mux.HandleFunc("GET /api/summary", s.handleSummary)
	mux.HandleFunc("POST /api/summary/clear", s.handleClear)

	mux.HandleFunc("GET /api/split", s.handleSplit)
	mux.HandleFunc("POST /api/split/participants", s.handleAddParticipant)
	mux.HandleFunc("DELETE /api/split/participants/{name}", s.handleRemoveParticipant)

	limiter := ratelimit.NewLimiter(60)
	s.RegisterOnShutdown(limiter.Stop)

	s.Handler = applog.Middleware(logger)(limiter.Middleware(withSecurityHeaders(mux)))

	return s
}

// withSecurityHeaders adds the standard security headers to every response.
func withSecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

func writeError(w http.ResponseWriter, status int, kind, message string) {
	writeJSON(w, status, errorResponse{Error: errorBody{Kind: kind, Message: message}})
}
