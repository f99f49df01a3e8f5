// Package routes provides shared route registration for the arbitrage API.
// The server and the OpenAPI generator register the same routes, so the
// published document always matches what is served.
package routes

import (
	"github.com/danielgtaylor/huma/v2"

	"github.com/ademicho123/Retail-Arbitrage/internal/version"
)

// NewHumaConfig creates the shared Huma configuration for the API.
func NewHumaConfig(baseURL string) huma.Config {
	cfg := huma.DefaultConfig("Retail Arbitrage API", version.Get().Short())
	cfg.Info.Description = "Turns a free-text product query into scraped marketplace listings annotated with resale profit metrics."

	// Responses carry no $schema field
	cfg.CreateHooks = nil

	if baseURL != "" {
		cfg.Servers = []*huma.Server{
			{URL: baseURL, Description: "API Server"},
		}
	}

	cfg.Tags = []*huma.Tag{
		{Name: "Search", Description: "Product search and profit analysis", Extensions: map[string]any{"x-displayName": "Search"}},
		{Name: "Health", Description: "System health and status", Extensions: map[string]any{"x-displayName": "Health"}},
	}

	return cfg
}
