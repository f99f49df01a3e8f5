package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ademicho123/Retail-Arbitrage/internal/failure"
	"github.com/ademicho123/Retail-Arbitrage/internal/models"
)

// User-visible messages of request-level failures.
const (
	QueryRequiredMessage = "Query is required"
	RateLimitedMessage   = "Rate limit exceeded. Please wait before retrying."
	TimedOutMessage      = "Request timed out"
)

// StatusForKind maps a search failure kind to the HTTP status of the response.
// Only interpretation failures are server errors; every other pipeline failure
// is reported in a 200 response body.
func StatusForKind(kind failure.Kind) int {
	if kind == failure.KindInterpretation {
		return http.StatusInternalServerError
	}
	return http.StatusOK
}

// StatusForResult returns the HTTP status for a finished search.
func StatusForResult(result *models.SearchResult) int {
	if result == nil || !result.HasError() {
		return http.StatusOK
	}
	return StatusForKind(failure.Kind(result.ErrorKind))
}

// ErrorBody renders an error result as JSON for middleware that answers
// before the search handler runs (rate limits, timeouts).
func ErrorBody(kind, message string) []byte {
	body, err := json.Marshal(models.NewErrorResult(kind, message, ""))
	if err != nil {
		return []byte(`{"prices":[],"base_price":0,"error":"` + http.StatusText(http.StatusInternalServerError) + `"}`)
	}
	return body
}
