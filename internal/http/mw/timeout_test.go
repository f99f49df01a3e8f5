package mw

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testTimeoutConfig() TimeoutConfig {
	return TimeoutConfig{
		Default:          10 * time.Millisecond,
		Extended:         200 * time.Millisecond,
		ExtendedPatterns: []string{"/search"},
		SkipPatterns:     []string{"/metrics"},
	}
}

// sleepHandler responds after d.
func sleepHandler(d time.Duration) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(d)
		w.Header().Set("X-Handler", "done")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
}

// ========================================
// Timeout Middleware Tests
// ========================================

func TestTimeout_FastRequest(t *testing.T) {
	handler := Timeout(testTimeoutConfig())(sleepHandler(0))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if rec.Body.String() != "OK" {
		t.Errorf("body = %q, want OK", rec.Body.String())
	}
	if rec.Header().Get("X-Handler") != "done" {
		t.Error("handler headers should be copied to the response")
	}
}

func TestTimeout_ImplicitStatus(t *testing.T) {
	handler := Timeout(testTimeoutConfig())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("body only"))
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestTimeout_Paths(t *testing.T) {
	tests := []struct {
		name string
		path string
		want int
	}{
		{"search gets extended timeout", "/search", http.StatusOK},
		{"default path times out", "/api/v1/health", http.StatusGatewayTimeout},
		{"skip path has no timeout", "/metrics", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Longer than Default, shorter than Extended
			handler := Timeout(testTimeoutConfig())(sleepHandler(50 * time.Millisecond))

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, tt.path, nil))

			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestTimeout_Body(t *testing.T) {
	cfg := testTimeoutConfig()
	cfg.TimeoutBody = []byte(`{"error":"Request timed out"}`)
	handler := Timeout(cfg)(sleepHandler(50 * time.Millisecond))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	if rec.Code != http.StatusGatewayTimeout {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusGatewayTimeout)
	}
	if rec.Header().Get("Content-Type") != "application/json" {
		t.Errorf("Content-Type = %q", rec.Header().Get("Content-Type"))
	}
	if rec.Body.String() != `{"error":"Request timed out"}` {
		t.Errorf("body = %q", rec.Body.String())
	}

	// Give the handler time to finish; its late write must be dropped.
	time.Sleep(80 * time.Millisecond)
	if rec.Body.String() != `{"error":"Request timed out"}` {
		t.Errorf("late handler write leaked into response: %q", rec.Body.String())
	}
}

func TestTimeout_ContextCarriesDeadline(t *testing.T) {
	var hasDeadline bool
	handler := Timeout(testTimeoutConfig())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hasDeadline = r.Context().Deadline()
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/search", nil))

	if !hasDeadline {
		t.Error("request context should carry a deadline")
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}
}

func TestTimeout_Panic(t *testing.T) {
	handler := Timeout(testTimeoutConfig())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	defer func() {
		if recover() == nil {
			t.Error("panic should be re-raised on the serving goroutine")
		}
	}()
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/search", nil))
}
