package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/ademicho123/Retail-Arbitrage/internal/failure"
	"github.com/ademicho123/Retail-Arbitrage/internal/logging"
	"github.com/ademicho123/Retail-Arbitrage/internal/metrics"
	"github.com/ademicho123/Retail-Arbitrage/internal/models"
	"github.com/ademicho123/Retail-Arbitrage/internal/pricing"
)

// Pipeline stage names used in logs and metrics.
const (
	StageInterpret = "interpret"
	StageSubmit    = "submit"
	StagePoll      = "poll"
	StageNormalize = "normalize"
	StageProfit    = "profit"
)

// Interpreter extracts a search term from a free-text query.
type Interpreter interface {
	Interpret(ctx context.Context, query string) (models.SearchTerm, error)
}

// JobClient starts scrape jobs and reads their progress and output.
type JobClient interface {
	Submit(ctx context.Context, term models.SearchTerm) (*models.ScrapeJob, error)
	JobStatusClient
}

// SearchService runs the search pipeline: interpret, submit, poll, normalize, profit.
type SearchService struct {
	interpreter Interpreter
	jobs        JobClient
	poller      *Poller
	metrics     *metrics.Metrics
	logger      *slog.Logger
}

// NewSearchService creates a new search service.
func NewSearchService(interpreter Interpreter, jobs JobClient, pollCfg PollerConfig, m *metrics.Metrics, logger *slog.Logger) *SearchService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SearchService{
		interpreter: interpreter,
		jobs:        jobs,
		poller:      NewPoller(jobs, pollCfg, m, logger),
		metrics:     m,
		logger:      logger.With("component", "search"),
	}
}

// NewSearchID returns a new unique search ID.
func NewSearchID() string {
	return ulid.Make().String()
}

// Search runs one search. It never returns an error: failures are reported
// in the result with empty prices and a zero base price.
func (s *SearchService) Search(ctx context.Context, query string) *models.SearchResult {
	if logging.GetSearchID(ctx) == "" {
		ctx = logging.WithSearchID(ctx, NewSearchID())
	}
	logger := logging.FromContext(ctx, s.logger)
	start := time.Now()
	logger.Info("search started", "query", query)

	stageStart := time.Now()
	term, err := s.interpreter.Interpret(ctx, query)
	s.metrics.ObserveStage(StageInterpret, time.Since(stageStart))
	if err != nil {
		return s.fail(ctx, StageInterpret, "", err)
	}
	logger.Info("query interpreted", "search_term", term)

	stageStart = time.Now()
	job, err := s.jobs.Submit(ctx, term)
	s.metrics.ObserveStage(StageSubmit, time.Since(stageStart))
	if err != nil {
		return s.fail(ctx, StageSubmit, term, err)
	}
	ctx = logging.WithJobID(ctx, job.ID)

	stageStart = time.Now()
	items, err := s.poller.Poll(ctx, job)
	s.metrics.ObserveStage(StagePoll, time.Since(stageStart))
	if err != nil {
		return s.fail(ctx, StagePoll, term, err)
	}

	stageStart = time.Now()
	listings, stats, err := pricing.NormalizeListings(items)
	s.metrics.ObserveStage(StageNormalize, time.Since(stageStart))
	s.metrics.ObserveListings(stats.Kept, stats.Dropped)
	if stats.Dropped > 0 {
		logging.FromContext(ctx, s.logger).Debug("records dropped during normalization",
			"total", stats.Total,
			"dropped", stats.Dropped,
		)
	}
	if err != nil {
		return s.fail(ctx, StageNormalize, term, err)
	}

	stageStart = time.Now()
	priced, basePrice, err := pricing.ComputeProfits(listings)
	s.metrics.ObserveStage(StageProfit, time.Since(stageStart))
	if err != nil {
		return s.fail(ctx, StageProfit, term, err)
	}

	s.metrics.ObserveSearch(metrics.OutcomeSuccess)
	logging.FromContext(ctx, s.logger).Info("search completed",
		"listings", len(priced),
		"base_price", basePrice,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return &models.SearchResult{
		Prices:     priced,
		BasePrice:  basePrice,
		SearchTerm: term.String(),
	}
}

// fail converts a pipeline error into an error result.
func (s *SearchService) fail(ctx context.Context, stage string, term models.SearchTerm, err error) *models.SearchResult {
	fe := failure.Wrap(failure.KindDataProcessing, "Data processing error", err)

	message := fe.Message
	if message == "" {
		message = fe.Error()
	}

	s.metrics.ObserveSearch(string(fe.Kind))
	logging.FromContext(ctx, s.logger).Warn("search failed",
		"stage", stage,
		"kind", fe.Kind,
		"error", fe.Error(),
	)

	result := models.NewErrorResult(string(fe.Kind), message, fe.Details())
	result.SearchTerm = term.String()
	return result
}
