package mw

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"
	"sync"
	"time"
)

// panicWithStack captures a panic value along with its stack trace.
type panicWithStack struct {
	value any
	stack []byte
}

// TimeoutConfig defines timeout behavior for different path patterns.
type TimeoutConfig struct {
	// Default timeout for most endpoints
	Default time.Duration
	// Extended timeout for searches, which wait on the scrape job
	Extended time.Duration
	// Patterns that get the extended timeout (e.g., "/search")
	ExtendedPatterns []string
	// Patterns that skip timeout entirely (e.g., "/metrics")
	SkipPatterns []string
	// JSON body written with the 504 response; empty writes no body
	TimeoutBody []byte
}

// Timeout returns a middleware that applies configurable timeouts to requests.
// - Paths matching SkipPatterns have no timeout
// - Paths matching ExtendedPatterns get the Extended timeout
// - All other paths get the Default timeout
//
// Writes by the handler after the deadline are discarded.
func Timeout(cfg TimeoutConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if matchesAny(r.URL.Path, cfg.SkipPatterns) {
				next.ServeHTTP(w, r)
				return
			}

			timeout := cfg.Default
			if matchesAny(r.URL.Path, cfg.ExtendedPatterns) {
				timeout = cfg.Extended
			}

			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			tw := &timeoutWriter{w: w, h: make(http.Header)}
			done := make(chan struct{})
			panicChan := make(chan *panicWithStack, 1)

			go func() {
				defer func() {
					if p := recover(); p != nil {
						panicChan <- &panicWithStack{value: p, stack: debug.Stack()}
					}
				}()
				next.ServeHTTP(tw, r.WithContext(ctx))
				close(done)
			}()

			select {
			case <-done:
				tw.flush()
			case p := <-panicChan:
				// Re-panic with the original stack so Recoverer logs the real origin
				panic(fmt.Sprintf("%v\n\nOriginal stack trace:\n%s", p.value, p.stack))
			case <-ctx.Done():
				if errors.Is(ctx.Err(), context.DeadlineExceeded) {
					tw.timeout(cfg.TimeoutBody)
				}
			}
		})
	}
}

func matchesAny(path string, patterns []string) bool {
	for _, pattern := range patterns {
		if strings.Contains(path, pattern) {
			return true
		}
	}
	return false
}

// timeoutWriter buffers the handler's response until it completes.
type timeoutWriter struct {
	mu       sync.Mutex
	w        http.ResponseWriter
	h        http.Header
	body     []byte
	code     int
	timedOut bool
}

func (tw *timeoutWriter) Header() http.Header {
	return tw.h
}

func (tw *timeoutWriter) WriteHeader(code int) {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	if tw.timedOut || tw.code != 0 {
		return
	}
	tw.code = code
}

func (tw *timeoutWriter) Write(b []byte) (int, error) {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	if tw.timedOut {
		return 0, http.ErrHandlerTimeout
	}
	if tw.code == 0 {
		tw.code = http.StatusOK
	}
	tw.body = append(tw.body, b...)
	return len(b), nil
}

// flush copies the buffered response to the client.
func (tw *timeoutWriter) flush() {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	dst := tw.w.Header()
	for k, v := range tw.h {
		dst[k] = v
	}
	if tw.code == 0 {
		tw.code = http.StatusOK
	}
	tw.w.WriteHeader(tw.code)
	_, _ = tw.w.Write(tw.body)
}

// timeout writes a 504 and discards anything the handler writes later.
func (tw *timeoutWriter) timeout(body []byte) {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	tw.timedOut = true
	if len(body) > 0 {
		tw.w.Header().Set("Content-Type", "application/json")
	}
	tw.w.WriteHeader(http.StatusGatewayTimeout)
	if len(body) > 0 {
		_, _ = tw.w.Write(body)
	}
}
