package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ademicho123/Retail-Arbitrage/internal/failure"
	"github.com/ademicho123/Retail-Arbitrage/internal/logging"
	"github.com/ademicho123/Retail-Arbitrage/internal/metrics"
	"github.com/ademicho123/Retail-Arbitrage/internal/models"
)

// Sleeper waits for d or until ctx ends, returning ctx.Err() in the latter case.
type Sleeper func(ctx context.Context, d time.Duration) error

// SleepContext is the default Sleeper.
func SleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// JobStatusClient reads the progress and output of scrape jobs.
type JobStatusClient interface {
	Status(ctx context.Context, jobID string) (models.JobStatus, error)
	DatasetItems(ctx context.Context, jobID string) ([]models.RawItem, error)
}

// PollerConfig holds poller configuration.
type PollerConfig struct {
	MaxAttempts int
	Interval    time.Duration
	Sleep       Sleeper // Defaults to SleepContext
}

// Poller waits for a scrape job to finish with a bounded number of status checks.
type Poller struct {
	client      JobStatusClient
	maxAttempts int
	interval    time.Duration
	sleep       Sleeper
	metrics     *metrics.Metrics
	logger      *slog.Logger
}

// NewPoller creates a new poller.
func NewPoller(client JobStatusClient, cfg PollerConfig, m *metrics.Metrics, logger *slog.Logger) *Poller {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 10
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 5 * time.Second
	}
	if cfg.Sleep == nil {
		cfg.Sleep = SleepContext
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Poller{
		client:      client,
		maxAttempts: cfg.MaxAttempts,
		interval:    cfg.Interval,
		sleep:       cfg.Sleep,
		metrics:     m,
		logger:      logger.With("component", "poller"),
	}
}

// Poll checks the job status until it succeeds, fails or the attempt budget runs out.
// A job that succeeds on the final attempt still returns its items.
// There is no wait after the final attempt.
func (p *Poller) Poll(ctx context.Context, job *models.ScrapeJob) ([]models.RawItem, error) {
	logger := logging.FromContext(ctx, p.logger)

	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			p.metrics.ObservePollAttempts(attempt - 1)
			return nil, failure.Wrap(failure.KindCanceled, "Search canceled", err)
		}

		status, err := p.client.Status(ctx, job.ID)
		if err != nil {
			p.metrics.ObservePollAttempts(attempt)
			return nil, err
		}
		job.Status = status

		switch {
		case status == models.JobStatusSucceeded:
			p.metrics.ObservePollAttempts(attempt)
			logger.Info("scrape job succeeded", "attempt", attempt)
			return p.client.DatasetItems(ctx, job.ID)

		case status.IsFailure():
			p.metrics.ObservePollAttempts(attempt)
			logger.Warn("scrape job failed", "status", status, "attempt", attempt)
			return nil, &failure.Error{
				Kind:      failure.KindJobFailed,
				Message:   fmt.Sprintf("Scrape job failed with status %s", status),
				JobStatus: string(status),
			}
		}

		if attempt == p.maxAttempts {
			break
		}

		logger.Debug("scrape job in progress, waiting",
			"status", status,
			"attempt", attempt,
			"max_attempts", p.maxAttempts,
			"wait", p.interval,
		)
		if err := p.sleep(ctx, p.interval); err != nil {
			p.metrics.ObservePollAttempts(attempt)
			return nil, failure.Wrap(failure.KindCanceled, "Search canceled", err)
		}
	}

	p.metrics.ObservePollAttempts(p.maxAttempts)
	logger.Warn("scrape job did not finish in time", "attempts", p.maxAttempts, "status", job.Status)
	return nil, &failure.Error{
		Kind:      failure.KindPollTimeout,
		Message:   "Timed out waiting for scrape results",
		JobStatus: string(job.Status),
		Attempts:  p.maxAttempts,
	}
}
