package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

var (
	clients = make(map[string]*client)
	mu      sync.Mutex
)

// RateLimitMiddleware throttles per conversation. Chat transports send the
// X-Chat-ID header; anything else falls back to the caller's IP.
func RateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get("X-Chat-ID")
		if key == "" {
			key = r.Header.Get("X-Forwarded-For")
		}
		if key == "" {
			key, _, _ = net.SplitHostPort(r.RemoteAddr)
		}

		if !getLimiter(key).Allow() {
			http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func getLimiter(key string) *rate.Limiter {
	mu.Lock()
	defer mu.Unlock()

	c, exists := clients[key]
	if !exists {
		// one message per second sustained, short bursts allowed
		limiter := rate.NewLimiter(1, 10)
		clients[key] = &client{limiter, time.Now()}
		return limiter
	}

	c.lastSeen = time.Now()
	return c.limiter
}

// CleanupClients evicts idle limiter entries. Run as a goroutine from main.
func CleanupClients() {
	for {
		time.Sleep(time.Minute)
		mu.Lock()
		for key, c := range clients {
			if time.Since(c.lastSeen) > 3*time.Minute {
				delete(clients, key)
			}
		}
		mu.Unlock()
	}
}
