package routes

import (
	"context"

	"github.com/ademicho123/Retail-Arbitrage/internal/http/handlers"
)

// SearchHandlers defines the interface for search operations.
type SearchHandlers interface {
	Search(ctx context.Context, input *handlers.SearchInput) (*handlers.SearchOutput, error)
}

// Handlers aggregates the handlers for route registration.
// The server passes real implementations; the OpenAPI generator passes stubs.
type Handlers struct {
	HealthCheck func(ctx context.Context, input *struct{}) (*handlers.HealthCheckOutput, error)

	// Liveness probe (hidden from docs)
	Livez func(ctx context.Context, input *struct{}) (*handlers.LivezOutput, error)

	Search SearchHandlers
}

// NewHandlers wires the real handler implementations.
func NewHandlers(search *handlers.SearchHandler) *Handlers {
	return &Handlers{
		HealthCheck: handlers.HealthCheck,
		Livez:       handlers.Livez,
		Search:      search,
	}
}
