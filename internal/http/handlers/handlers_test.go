package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/ademicho123/Retail-Arbitrage/internal/failure"
	"github.com/ademicho123/Retail-Arbitrage/internal/logging"
	"github.com/ademicho123/Retail-Arbitrage/internal/models"
	"github.com/ademicho123/Retail-Arbitrage/internal/version"
)

// ========================================
// HealthCheck Tests
// ========================================

func TestHealthCheck(t *testing.T) {
	output, err := HealthCheck(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if output.Body.Status != "healthy" {
		t.Errorf("Status = %q, want %q", output.Body.Status, "healthy")
	}
	if output.Body.Version != version.Get().Short() {
		t.Errorf("Version = %q, want %q", output.Body.Version, version.Get().Short())
	}
}

func TestLivez(t *testing.T) {
	output, err := Livez(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if output.Body.Status != "ok" {
		t.Errorf("Status = %q, want %q", output.Body.Status, "ok")
	}
}

// ========================================
// Search Tests
// ========================================

// mockSearcher returns a fixed result and records queries.
type mockSearcher struct {
	result    *models.SearchResult
	queries   []string
	searchIDs []string
}

func (m *mockSearcher) Search(ctx context.Context, query string) *models.SearchResult {
	m.queries = append(m.queries, query)
	m.searchIDs = append(m.searchIDs, logging.GetSearchID(ctx))
	return m.result
}

func TestSearch_BlankQuery(t *testing.T) {
	tests := []struct {
		name  string
		input *SearchInput
	}{
		{"nil input", nil},
		{"missing body", &SearchInput{}},
		{"empty query", &SearchInput{Body: &SearchRequest{}}},
		{"whitespace query", &SearchInput{Body: &SearchRequest{Query: "   "}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			searcher := &mockSearcher{}
			h := NewSearchHandler(searcher, nil)

			out, err := h.Search(context.Background(), tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if out.Status != http.StatusBadRequest {
				t.Errorf("Status = %d, want 400", out.Status)
			}
			if out.Body.Error != QueryRequiredMessage {
				t.Errorf("Error = %q, want %q", out.Body.Error, QueryRequiredMessage)
			}
			if out.Body.Prices == nil || len(out.Body.Prices) != 0 || out.Body.BasePrice != 0 {
				t.Errorf("body = %+v, want empty prices and zero base", out.Body)
			}
			if out.SearchID == "" {
				t.Error("SearchID should be set")
			}
			if len(searcher.queries) != 0 {
				t.Error("searcher should not be called for a blank query")
			}
		})
	}
}

func TestSearch_StatusByOutcome(t *testing.T) {
	tests := []struct {
		name   string
		result *models.SearchResult
		want   int
	}{
		{
			name:   "success",
			result: &models.SearchResult{Prices: []models.PriceListing{{Price: 10}}, BasePrice: 10},
			want:   http.StatusOK,
		},
		{
			name:   "interpretation failure",
			result: models.NewErrorResult(string(failure.KindInterpretation), "Failed to interpret the query", ""),
			want:   http.StatusInternalServerError,
		},
		{
			name:   "poll timeout",
			result: models.NewErrorResult(string(failure.KindPollTimeout), "Timed out waiting for scrape results", ""),
			want:   http.StatusOK,
		},
		{
			name:   "transport",
			result: models.NewErrorResult(string(failure.KindTransport), "Failed to start scraping", "Status Code: 403"),
			want:   http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			searcher := &mockSearcher{result: tt.result}
			h := NewSearchHandler(searcher, nil)

			out, err := h.Search(context.Background(), &SearchInput{Body: &SearchRequest{Query: "  headphones "}})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if out.Status != tt.want {
				t.Errorf("Status = %d, want %d", out.Status, tt.want)
			}
			if out.Body != tt.result {
				t.Error("body should be the search result")
			}
			if searcher.queries[0] != "headphones" {
				t.Errorf("query = %q, want trimmed query", searcher.queries[0])
			}
			if searcher.searchIDs[0] != out.SearchID {
				t.Errorf("context search ID = %q, header = %q", searcher.searchIDs[0], out.SearchID)
			}
		})
	}
}

// ========================================
// Error Mapping Tests
// ========================================

func TestStatusForKind(t *testing.T) {
	tests := []struct {
		kind failure.Kind
		want int
	}{
		{"", http.StatusOK},
		{failure.KindInterpretation, http.StatusInternalServerError},
		{failure.KindTransport, http.StatusOK},
		{failure.KindNoJobID, http.StatusOK},
		{failure.KindJobFailed, http.StatusOK},
		{failure.KindPollTimeout, http.StatusOK},
		{failure.KindNoPricingData, http.StatusOK},
		{failure.KindDataProcessing, http.StatusOK},
		{failure.KindCanceled, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			if got := StatusForKind(tt.kind); got != tt.want {
				t.Errorf("StatusForKind(%q) = %d, want %d", tt.kind, got, tt.want)
			}
		})
	}
}

func TestStatusForResult_Nil(t *testing.T) {
	if got := StatusForResult(nil); got != http.StatusOK {
		t.Errorf("StatusForResult(nil) = %d, want 200", got)
	}
}

func TestErrorBody(t *testing.T) {
	var body map[string]any
	if err := json.Unmarshal(ErrorBody("rate_limited", RateLimitedMessage), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body["error"] != RateLimitedMessage {
		t.Errorf("error = %v", body["error"])
	}
	if body["error_kind"] != "rate_limited" {
		t.Errorf("error_kind = %v", body["error_kind"])
	}
	if prices, ok := body["prices"].([]any); !ok || len(prices) != 0 {
		t.Errorf("prices = %v, want []", body["prices"])
	}
	if body["base_price"] != float64(0) {
		t.Errorf("base_price = %v, want 0", body["base_price"])
	}
}
