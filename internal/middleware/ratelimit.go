package middleware

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/MrKriegler/go-renewals/pkg/problem"
)

// Limiter decides whether key may make another request now.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RateLimit rejects clients over the limiter's budget with 429. A limiter error lets
// the request through. Mount after chi's RealIP so RemoteAddr is the client.
func RateLimit(l Limiter, retryAfter time.Duration, log *slog.Logger) func(http.Handler) http.Handler {
	retry := strconv.Itoa(int(retryAfter.Seconds()))
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ok, err := l.Allow(r.Context(), clientIP(r.RemoteAddr))
			if err != nil {
				log.WarnContext(r.Context(), "rate limiter unavailable", "err", err)
				ok = true
			}
			if !ok {
				w.Header().Set("Retry-After", retry)
				problem.Write(w, r, http.StatusTooManyRequests, "Rate Limit Exceeded",
					"Too many requests. Please try again later.")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// SlidingWindow is a Limiter held in process memory. Each replica limits on its own.
type SlidingWindow struct {
	mu     sync.Mutex
	hits   map[string][]time.Time
	limit  int
	window time.Duration
	now    func() time.Time
}

func NewSlidingWindow(limit int, window time.Duration) *SlidingWindow {
	return &SlidingWindow{
		hits:   make(map[string][]time.Time),
		limit:  limit,
		window: window,
		now:    time.Now,
	}
}

func (s *SlidingWindow) Allow(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	recent := s.recent(s.hits[key], now)
	if len(recent) >= s.limit {
		s.hits[key] = recent
		return false, nil
	}
	s.hits[key] = append(recent, now)
	return true, nil
}

func (s *SlidingWindow) recent(times []time.Time, now time.Time) []time.Time {
	start := now.Add(-s.window)
	out := times[:0]
	for _, t := range times {
		if t.After(start) {
			out = append(out, t)
		}
	}
	return out
}

// Sweep forgets clients with no hits inside the window.
func (s *SlidingWindow) Sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for key, times := range s.hits {
		if recent := s.recent(times, now); len(recent) == 0 {
			delete(s.hits, key)
		} else {
			s.hits[key] = recent
		}
	}
}

// Run sweeps every interval until ctx ends.
func (s *SlidingWindow) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

func (s *SlidingWindow) tracked() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.hits)
}

// clientIP strips the port from RemoteAddr. Forwarding headers are never read here.
func clientIP(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}
