package routes

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/ademicho123/Retail-Arbitrage/internal/http/mw"
)

// Register registers all API routes with the given Huma API instance.
func Register(api huma.API, h *Handlers) {
	// --- Search ---
	mw.PublicPost(api, "/search", h.Search.Search,
		mw.WithTags("Search"),
		mw.WithSummary("Search products"),
		mw.WithDescription("Interprets the query, scrapes matching listings and returns them with profit metrics relative to the cheapest listing. "+
			"Pipeline failures are reported in the body with error, error_kind and details; only query interpretation failures return 500."),
		mw.WithOperationID("search"),
		mw.WithErrors(http.StatusBadRequest, http.StatusInternalServerError, http.StatusTooManyRequests, http.StatusGatewayTimeout))

	// --- Health ---
	mw.PublicGet(api, "/api/v1/health", h.HealthCheck,
		mw.WithTags("Health"),
		mw.WithSummary("Health check"),
		mw.WithOperationID("healthCheck"))

	// Liveness probe (hidden from docs)
	mw.HiddenGet(api, "/healthz", h.Livez)
}
