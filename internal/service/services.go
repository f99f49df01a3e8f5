// Package service contains the business logic layer.
// The search pipeline is request-scoped: services hold only immutable
// configuration, HTTP clients and metric collectors.
package service

import (
	"fmt"
	"log/slog"

	"github.com/ademicho123/Retail-Arbitrage/internal/config"
	"github.com/ademicho123/Retail-Arbitrage/internal/llm"
	"github.com/ademicho123/Retail-Arbitrage/internal/metrics"
	"github.com/ademicho123/Retail-Arbitrage/internal/scraper"
)

// Services holds all service instances.
type Services struct {
	Search  *SearchService
	Metrics *metrics.Metrics
}

// NewServices creates all service instances.
func NewServices(cfg *config.Config, logger *slog.Logger) (*Services, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	m := metrics.New()

	interpreter := llm.NewInterpreter(llm.InterpreterConfig{
		APIKey:  cfg.OpenAIAPIKey,
		BaseURL: cfg.OpenAIBaseURL,
		Model:   cfg.OpenAIModel,
		Timeout: cfg.HTTPTimeout,
		Logger:  logger,
	})

	scrapeClient := scraper.NewClient(scraper.ClientConfig{
		BaseURL:      cfg.ApifyBaseURL,
		Token:        cfg.ApifyAPIKey,
		Actor:        cfg.Scrape.Actor,
		MaxResults:   cfg.Scrape.MaxResults,
		CategoryURLs: cfg.Scrape.CategoryURLs,
		Timeout:      cfg.HTTPTimeout,
		Logger:       logger,
	})

	searchSvc := NewSearchService(interpreter, scrapeClient, PollerConfig{
		MaxAttempts: cfg.Poll.MaxAttempts,
		Interval:    cfg.Poll.Interval,
	}, m, logger)

	return &Services{
		Search:  searchSvc,
		Metrics: m,
	}, nil
}
