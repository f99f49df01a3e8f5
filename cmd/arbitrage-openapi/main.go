// Package main writes the OpenAPI document of the arbitrage API.
// Routes are registered with stub handlers, so no configuration or
// credentials are needed.
//
// Usage:
//
//	arbitrage-openapi > openapi.json
//	arbitrage-openapi -yaml -output openapi.yaml
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"gopkg.in/yaml.v3"

	"github.com/ademicho123/Retail-Arbitrage/internal/http/routes"
)

func main() {
	outputFile := flag.String("output", "", "Output file path (default: stdout)")
	outputYAML := flag.Bool("yaml", false, "Output as YAML instead of JSON")
	baseURL := flag.String("base-url", "http://localhost:8080", "Base URL for the API server")
	flag.Parse()

	data, err := generate(*baseURL, *outputYAML)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error marshaling OpenAPI document: %v\n", err)
		os.Exit(1)
	}

	if *outputFile == "" {
		_, _ = os.Stdout.Write(data)
		return
	}
	if err := os.WriteFile(*outputFile, data, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "error writing to file: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "OpenAPI document written to %s\n", *outputFile)
}

// generate renders the OpenAPI document as JSON or YAML.
func generate(baseURL string, asYAML bool) ([]byte, error) {
	api := humachi.New(chi.NewRouter(), routes.NewHumaConfig(baseURL))
	routes.Register(api, routes.StubHandlers())

	doc := api.OpenAPI()
	if asYAML {
		return yaml.Marshal(doc)
	}
	return json.MarshalIndent(doc, "", "  ")
}
