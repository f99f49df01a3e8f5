package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/ademicho123/Retail-Arbitrage/internal/failure"
	"github.com/ademicho123/Retail-Arbitrage/internal/logging"
	"github.com/ademicho123/Retail-Arbitrage/internal/models"
)

// Completion parameters for query interpretation.
const (
	MaxTokens   = 20
	Temperature = 0.7
)

// InterpretFailedMessage is the user-visible message of every interpretation failure.
const InterpretFailedMessage = "Failed to interpret the query"

// PromptFor builds the completion prompt for a user query.
func PromptFor(query string) string {
	return fmt.Sprintf("Extract the product name or relevant search term from this query: '%s'", query)
}

// InterpreterConfig holds the settings for NewInterpreter.
type InterpreterConfig struct {
	APIKey     string
	BaseURL    string // Empty uses the provider default
	Model      string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Interpreter turns free-text queries into short product search terms.
type Interpreter struct {
	client openai.Client
	model  string
	logger *slog.Logger
}

// NewInterpreter creates an interpreter backed by the completions API.
// SDK retries are disabled: a failed completion fails the search.
func NewInterpreter(cfg InterpreterConfig) *Interpreter {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}

	return &Interpreter{
		client: openai.NewClient(opts...),
		model:  cfg.Model,
		logger: logger.With("component", "interpreter"),
	}
}

// Interpret extracts the search term from a user query.
// Every failure is returned as a *failure.Error of kind interpretation_error,
// except caller cancellation which is reported as canceled.
func (i *Interpreter) Interpret(ctx context.Context, query string) (models.SearchTerm, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", failure.New(failure.KindInterpretation, "Query is required")
	}

	logger := logging.FromContext(ctx, i.logger)
	start := time.Now()

	resp, err := i.client.Completions.New(ctx, openai.CompletionNewParams{
		Model: openai.CompletionNewParamsModel(i.model),
		Prompt: openai.CompletionNewParamsPromptUnion{
			OfString: openai.String(PromptFor(query)),
		},
		MaxTokens:   openai.Int(MaxTokens),
		Temperature: openai.Float(Temperature),
	})
	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return "", failure.Wrap(failure.KindCanceled, "Search canceled", ctx.Err())
		}

		statusCode := 0
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			statusCode = apiErr.StatusCode
		}
		llmErr := ClassifyError(err, i.model, statusCode)
		logger.Warn("completion request failed",
			"model", i.model,
			"status", statusCode,
			"category", llmErr.Category,
			"error", llmErr.RawMessage,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return "", failure.Wrap(failure.KindInterpretation, InterpretFailedMessage, llmErr)
	}

	if len(resp.Choices) == 0 {
		logger.Warn("completion returned no choices", "model", i.model)
		return "", failure.Wrap(failure.KindInterpretation, InterpretFailedMessage, ErrEmptyCompletion)
	}
	term := strings.TrimSpace(resp.Choices[0].Text)
	if term == "" {
		logger.Warn("completion returned empty text", "model", i.model)
		return "", failure.Wrap(failure.KindInterpretation, InterpretFailedMessage, ErrEmptyCompletion)
	}

	logger.Debug("query interpreted",
		"search_term", term,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return models.SearchTerm(term), nil
}
