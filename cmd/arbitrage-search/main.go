// Package main provides a command-line tool that runs one arbitrage search.
//
// Usage:
//
//	arbitrage-search -query "cheap wireless headphones"
//	arbitrage-search -query "usb c hub" -json > result.json
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ademicho123/Retail-Arbitrage/internal/config"
	"github.com/ademicho123/Retail-Arbitrage/internal/logging"
	"github.com/ademicho123/Retail-Arbitrage/internal/models"
	"github.com/ademicho123/Retail-Arbitrage/internal/report"
	"github.com/ademicho123/Retail-Arbitrage/internal/service"
	"github.com/ademicho123/Retail-Arbitrage/internal/version"
)

func main() {
	query := flag.String("query", "", "Free-text product query")
	asJSON := flag.Bool("json", false, "Print the result as JSON instead of a table")
	verbose := flag.Bool("verbose", false, "Log pipeline progress to stderr")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Get().Short())
		return
	}

	q := strings.TrimSpace(*query)
	if q == "" {
		q = strings.TrimSpace(strings.Join(flag.Args(), " "))
	}
	if q == "" {
		fmt.Fprintln(os.Stderr, "usage: arbitrage-search -query \"product description\" [-json]")
		os.Exit(2)
	}

	// Logs go to stderr so stdout stays parseable
	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelInfo
	}
	logger := logging.NewWithWriter(os.Stderr, true, level)
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading configuration: %v\n", err)
		os.Exit(1)
	}

	services, err := service.NewServices(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error initializing services: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	result := services.Search.Search(ctx, q)

	if err := render(os.Stdout, result, *asJSON); err != nil {
		fmt.Fprintf(os.Stderr, "error writing result: %v\n", err)
		os.Exit(1)
	}
	if result.HasError() {
		os.Exit(1)
	}
}

func render(w io.Writer, result *models.SearchResult, asJSON bool) error {
	if !asJSON {
		return report.Write(w, result)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
