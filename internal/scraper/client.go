// Package scraper provides a client for the remote scraping service.
// Jobs run asynchronously on the service: Submit starts one, Status reports
// its progress and DatasetItems fetches the records it produced.
package scraper

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/ademicho123/Retail-Arbitrage/internal/failure"
	"github.com/ademicho123/Retail-Arbitrage/internal/logging"
	"github.com/ademicho123/Retail-Arbitrage/internal/models"
)

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 16 << 20

// Client communicates with the scraping service.
type Client struct {
	baseURL      string
	token        string
	actor        string
	maxResults   int
	categoryURLs []string
	httpClient   *http.Client
	logger       *slog.Logger
}

// ClientConfig holds configuration for the scraping client.
type ClientConfig struct {
	BaseURL      string
	Token        string
	Actor        string
	MaxResults   int
	CategoryURLs []string
	Timeout      time.Duration
	HTTPClient   *http.Client // Overrides Timeout when set
	Logger       *slog.Logger
}

// NewClient creates a new scraping service client.
func NewClient(cfg ClientConfig) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		token:        cfg.Token,
		actor:        cfg.Actor,
		maxResults:   cfg.MaxResults,
		categoryURLs: cfg.CategoryURLs,
		httpClient:   httpClient,
		logger:       logger.With("component", "scraper"),
	}
}

// RunInput is the input document of a scrape job.
type RunInput struct {
	Search       string   `json:"search"`
	MaxResults   int      `json:"maxResults"`
	CategoryURLs []string `json:"categoryUrls"`
}

// Submit starts a scrape job for the search term.
func (c *Client) Submit(ctx context.Context, term models.SearchTerm) (*models.ScrapeJob, error) {
	input := RunInput{
		Search:       term.String(),
		MaxResults:   c.maxResults,
		CategoryURLs: c.categoryURLs,
	}
	body, err := json.Marshal(input)
	if err != nil {
		return nil, failure.Wrap(failure.KindDataProcessing, "Failed to encode scrape request", err)
	}

	endpoint := fmt.Sprintf("/v2/acts/%s/runs", url.PathEscape(c.actor))
	respBody, err := c.do(ctx, http.MethodPost, endpoint, body, "Failed to start scraping")
	if err != nil {
		return nil, err
	}

	id := gjson.GetBytes(respBody, "data.id")
	if !id.Exists() || id.String() == "" {
		return nil, &failure.Error{
			Kind:        failure.KindNoJobID,
			Message:     "No job ID received from the scraping service",
			BodyPreview: failure.Preview(respBody),
		}
	}

	job := &models.ScrapeJob{
		ID:     id.String(),
		Status: models.ParseJobStatus(gjson.GetBytes(respBody, "data.status").String()),
	}
	logging.FromContext(ctx, c.logger).Info("scrape job submitted",
		"job_id", job.ID,
		"search_term", input.Search,
		"actor", c.actor,
	)
	return job, nil
}

// Status returns the current status of a scrape job.
// A response without a status is reported as pending.
func (c *Client) Status(ctx context.Context, jobID string) (models.JobStatus, error) {
	endpoint := "/v2/actor-runs/" + url.PathEscape(jobID)
	respBody, err := c.do(ctx, http.MethodGet, endpoint, nil, "Failed to fetch job status")
	if err != nil {
		return "", err
	}

	if !gjson.ValidBytes(respBody) {
		return "", &failure.Error{
			Kind:        failure.KindDataProcessing,
			Message:     "Invalid job status response",
			BodyPreview: failure.Preview(respBody),
		}
	}
	return models.ParseJobStatus(gjson.GetBytes(respBody, "data.status").String()), nil
}

// DatasetItems fetches the records produced by a finished scrape job.
func (c *Client) DatasetItems(ctx context.Context, jobID string) ([]models.RawItem, error) {
	endpoint := "/v2/actor-runs/" + url.PathEscape(jobID) + "/dataset/items"
	respBody, err := c.do(ctx, http.MethodGet, endpoint, nil, "Failed to fetch results")
	if err != nil {
		return nil, err
	}

	if !gjson.ValidBytes(respBody) {
		return nil, &failure.Error{
			Kind:        failure.KindDataProcessing,
			Message:     "Invalid dataset response",
			BodyPreview: failure.Preview(respBody),
		}
	}
	parsed := gjson.ParseBytes(respBody)
	if !parsed.IsArray() {
		return nil, &failure.Error{
			Kind:        failure.KindDataProcessing,
			Message:     "Dataset response is not a list",
			BodyPreview: failure.Preview(respBody),
		}
	}

	items := parsed.Array()
	logging.FromContext(ctx, c.logger).Debug("dataset fetched", "job_id", jobID, "items", len(items))
	return items, nil
}

// do sends an authenticated request and returns the body of a 2xx response.
// Failures are returned as transport failures carrying failMsg.
func (c *Client) do(ctx context.Context, method, endpoint string, body []byte, failMsg string) ([]byte, error) {
	u := c.baseURL + endpoint + "?" + url.Values{"token": {c.token}}.Encode()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, failure.Transport(failMsg, 0, nil, fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	startTime := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return nil, failure.Wrap(failure.KindCanceled, "Search canceled", ctx.Err())
		}
		return nil, failure.Transport(failMsg, 0, nil, redactToken(err, c.token))
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, failure.Transport(failMsg, resp.StatusCode, nil, fmt.Errorf("failed to read response: %w", err))
	}

	logging.FromContext(ctx, c.logger).Debug("scraping service request",
		"method", method,
		"endpoint", endpoint,
		"status", resp.StatusCode,
		"duration_ms", time.Since(startTime).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, failure.Transport(failMsg, resp.StatusCode, respBody, nil)
	}
	return respBody, nil
}

// redactToken removes the API token from errors that echo the request URL.
func redactToken(err error, token string) error {
	if token == "" || !strings.Contains(err.Error(), token) {
		return err
	}
	return errors.New(strings.ReplaceAll(err.Error(), token, "REDACTED"))
}
