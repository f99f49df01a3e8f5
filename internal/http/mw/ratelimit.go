package mw

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"
)

// RateLimitConfig holds configuration for rate limiting.
type RateLimitConfig struct {
	// RequestsPerWindow per client IP; 0 disables limiting
	RequestsPerWindow int
	// Window length, defaults to one minute
	Window time.Duration
	// Paths that are never limited (probes, metrics scrapes)
	ExemptPaths []string
	// JSON body written with the 429 response; empty uses the httprate default
	LimitBody []byte
}

// RateLimitByIP returns a middleware that rate limits by client IP.
func RateLimitByIP(cfg RateLimitConfig) func(http.Handler) http.Handler {
	if cfg.RequestsPerWindow <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}

	opts := []httprate.Option{httprate.WithKeyFuncs(httprate.KeyByIP)}
	if len(cfg.LimitBody) > 0 {
		body := cfg.LimitBody
		opts = append(opts, httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write(body)
		}))
	}
	limiter := httprate.NewRateLimiter(cfg.RequestsPerWindow, cfg.Window, opts...)

	exempt := make(map[string]bool, len(cfg.ExemptPaths))
	for _, p := range cfg.ExemptPaths {
		exempt[p] = true
	}

	return func(next http.Handler) http.Handler {
		limited := limiter.Handler(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if exempt[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}
			limited.ServeHTTP(w, r)
		})
	}
}
