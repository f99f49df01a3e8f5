package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/ademicho123/Retail-Arbitrage/internal/logging"
	"github.com/ademicho123/Retail-Arbitrage/internal/models"
	"github.com/ademicho123/Retail-Arbitrage/internal/service"
)

// Searcher runs one search. Failures are reported inside the result.
type Searcher interface {
	Search(ctx context.Context, query string) *models.SearchResult
}

// SearchHandler serves the search endpoint.
type SearchHandler struct {
	searcher Searcher
	logger   *slog.Logger
}

// NewSearchHandler creates a new search handler.
func NewSearchHandler(searcher Searcher, logger *slog.Logger) *SearchHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SearchHandler{
		searcher: searcher,
		logger:   logger.With("component", "search_handler"),
	}
}

// SearchRequest is the search request body.
type SearchRequest struct {
	Query string `json:"query,omitempty" maxLength:"500" doc:"Free-text description of the product to look for" example:"cheap wireless headphones"`
}

// SearchInput represents the search request.
type SearchInput struct {
	Body *SearchRequest
}

// SearchOutput represents the search response.
type SearchOutput struct {
	Status   int
	SearchID string `header:"X-Search-ID" doc:"Unique ID of this search, also present in server logs"`
	Body     *models.SearchResult
}

// Search interprets the query, scrapes listings and returns them with profit metrics.
func (h *SearchHandler) Search(ctx context.Context, input *SearchInput) (*SearchOutput, error) {
	searchID := service.NewSearchID()
	ctx = logging.WithSearchID(ctx, searchID)
	logger := logging.FromContext(ctx, h.logger)

	var query string
	if input != nil && input.Body != nil {
		query = strings.TrimSpace(input.Body.Query)
	}
	if query == "" {
		logger.Info("search rejected", "reason", "empty query")
		return &SearchOutput{
			Status:   http.StatusBadRequest,
			SearchID: searchID,
			Body:     models.NewErrorResult("", QueryRequiredMessage, ""),
		}, nil
	}

	result := h.searcher.Search(ctx, query)
	status := StatusForResult(result)

	logger.Info("search response",
		"request_id", middleware.GetReqID(ctx),
		"status", status,
		"error_kind", result.ErrorKind,
		"listings", len(result.Prices),
	)
	return &SearchOutput{
		Status:   status,
		SearchID: searchID,
		Body:     result,
	}, nil
}
