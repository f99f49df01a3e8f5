package routes

import (
	"context"

	"github.com/ademicho123/Retail-Arbitrage/internal/http/handlers"
)

// StubHandlers returns a Handlers instance with stub implementations.
// Huma only reads type information from them when generating OpenAPI.
func StubHandlers() *Handlers {
	return &Handlers{
		HealthCheck: stubHealthCheck,
		Livez:       stubLivez,
		Search:      &stubSearchHandlers{},
	}
}

func stubHealthCheck(_ context.Context, _ *struct{}) (*handlers.HealthCheckOutput, error) {
	return nil, nil
}

func stubLivez(_ context.Context, _ *struct{}) (*handlers.LivezOutput, error) {
	return nil, nil
}

type stubSearchHandlers struct{}

func (s *stubSearchHandlers) Search(_ context.Context, _ *handlers.SearchInput) (*handlers.SearchOutput, error) {
	return nil, nil
}
