// Package ratelimit caps how fast a client may fire mutating requests.
// A fixed per-minute window is plenty for an app driven by taps.
package ratelimit

import (
	"net/http"
	"sync"
	"time"
)

type Limiter struct {
	mu      sync.Mutex
	clients map[string]*window

	requestsPerMinute int
	stopCleanup       chan struct{}
	stopOnce          sync.Once
}

type window struct {
	start    time.Time
	requests int
}

// NewLimiter creates a limiter allowing requestsPerMinute mutating
// requests per client. Values <= 0 fall back to 60.
func NewLimiter(requestsPerMinute int) *Limiter {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 60
	}
	l := &Limiter{
		clients:           make(map[string]*window),
		requestsPerMinute: requestsPerMinute,
		stopCleanup:       make(chan struct{}),
	}
	go l.cleanupLoop()
	return l
}

// Allow reports whether another request from the client fits in the
// current window.
func (l *Limiter) Allow(clientIP string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	w, ok := l.clients[clientIP]
	if !ok || now.Sub(w.start) > time.Minute {
		l.clients[clientIP] = &window{start: now, requests: 1}
		return true
	}
	w.requests++
	return w.requests <= l.requestsPerMinute
}

// Stop terminates the background cleanup goroutine.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() { close(l.stopCleanup) })
}

func (l *Limiter) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.mu.Lock()
			cutoff := time.Now().Add(-time.Minute)
			for ip, w := range l.clients {
				if w.start.Before(cutoff) {
					delete(l.clients, ip)
				}
			}
			l.mu.Unlock()
		case <-l.stopCleanup:
			return
		}
	}
}

// Middleware rejects over-limit mutating requests with 429; reads pass
// through untouched.
func (l *Limiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost || r.Method == http.MethodDelete {
			if !l.Allow(clientIP(r)) {
				w.Header().Set("Retry-After", "60")
				http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		return ip
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return r.RemoteAddr
}
