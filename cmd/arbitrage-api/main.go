// Package main is the entry point for the arbitrage-api server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ademicho123/Retail-Arbitrage/internal/config"
	"github.com/ademicho123/Retail-Arbitrage/internal/http/handlers"
	"github.com/ademicho123/Retail-Arbitrage/internal/http/mw"
	"github.com/ademicho123/Retail-Arbitrage/internal/http/routes"
	"github.com/ademicho123/Retail-Arbitrage/internal/logging"
	"github.com/ademicho123/Retail-Arbitrage/internal/service"
	"github.com/ademicho123/Retail-Arbitrage/internal/version"
)

const (
	defaultRequestTimeout = 30 * time.Second
	shutdownTimeout       = 30 * time.Second
)

func main() {
	logger := logging.SetDefault()

	v := version.Get()
	logger.Info("starting arbitrage-api",
		"version", v.Version,
		"commit", v.Commit,
		"built", v.Date,
		"go_version", v.GoVersion,
	)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	services, err := service.NewServices(cfg, logger)
	if err != nil {
		logger.Error("failed to initialize services", "error", err)
		os.Exit(1)
	}

	logger.Info("scrape targets",
		"actor", cfg.Scrape.Actor,
		"max_results", cfg.Scrape.MaxResults,
		"categories", len(cfg.Scrape.CategoryURLs),
		"poll_attempts", cfg.Poll.MaxAttempts,
		"poll_interval", cfg.Poll.Interval.String(),
	)

	router := chi.NewRouter()

	// Global middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(mw.APIVersion())
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	// Searches wait on the scrape job, so they get the configured request timeout
	router.Use(mw.Timeout(mw.TimeoutConfig{
		Default:          defaultRequestTimeout,
		Extended:         cfg.RequestTimeout,
		ExtendedPatterns: []string{"/search"},
		SkipPatterns:     []string{"/metrics"},
		TimeoutBody:      handlers.ErrorBody("timeout", handlers.TimedOutMessage),
	}))

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "X-Search-ID", mw.APIVersionHeader, "X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Request size limit (64KB), a query is at most a few hundred bytes
	router.Use(middleware.RequestSize(64 * 1024))

	router.Use(mw.RateLimitByIP(mw.RateLimitConfig{
		RequestsPerWindow: cfg.RateLimitPerMinute,
		Window:            time.Minute,
		ExemptPaths:       []string{"/healthz", "/metrics"},
		LimitBody:         handlers.ErrorBody("rate_limited", handlers.RateLimitedMessage),
	}))

	api := humachi.New(router, routes.NewHumaConfig(cfg.BaseURL))
	routes.Register(api, routes.NewHandlers(handlers.NewSearchHandler(services.Search, logger)))

	router.Handle("/metrics", services.Metrics.Handler())

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 15*time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown
	done := make(chan struct{})
	go func() {
		defer close(done)
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
		sig := <-sigChan

		logger.Info("shutting down server", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown error", "error", err)
		}
	}()

	logger.Info("starting server", "port", cfg.Port, "base_url", cfg.BaseURL)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}

	<-done
	logger.Info("server stopped")
}
