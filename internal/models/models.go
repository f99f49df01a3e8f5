// Package models defines the request-scoped domain types of the search pipeline.
// Nothing here is persisted; every value lives for one search request.
package models

import (
	"strings"

	"github.com/tidwall/gjson"
)

// SearchTerm is the short product search term interpreted from a free-text query.
type SearchTerm string

// String returns the term as a plain string.
func (t SearchTerm) String() string {
	return string(t)
}

// JobStatus represents the status of a remote scrape job.
type JobStatus string

const (
	JobStatusPending   JobStatus = "PENDING"
	JobStatusRunning   JobStatus = "RUNNING"
	JobStatusSucceeded JobStatus = "SUCCEEDED"
	JobStatusFailed    JobStatus = "FAILED"
	JobStatusAborted   JobStatus = "ABORTED"
	JobStatusTimedOut  JobStatus = "TIMED_OUT"
)

// ParseJobStatus maps a status reported by the scraping service to a JobStatus.
// Unknown values are kept verbatim and are never terminal.
func ParseJobStatus(raw string) JobStatus {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "", "READY", "PENDING":
		return JobStatusPending
	case "RUNNING", "TIMING-OUT", "TIMING_OUT", "ABORTING":
		return JobStatusRunning
	case "SUCCEEDED":
		return JobStatusSucceeded
	case "FAILED":
		return JobStatusFailed
	case "ABORTED":
		return JobStatusAborted
	case "TIMED-OUT", "TIMED_OUT":
		return JobStatusTimedOut
	default:
		return JobStatus(raw)
	}
}

// IsTerminal returns true once the job can no longer change status.
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusSucceeded || s.IsFailure()
}

// IsFailure returns true for terminal statuses that produced no results.
func (s JobStatus) IsFailure() bool {
	switch s {
	case JobStatusFailed, JobStatusAborted, JobStatusTimedOut:
		return true
	}
	return false
}

// ScrapeJob is an asynchronous job running on the scraping service.
type ScrapeJob struct {
	ID     string    `json:"id"`
	Status JobStatus `json:"status"`
}

// RawItem is one dataset record as returned by the scraping service.
// Field names and value types vary between records.
type RawItem = gjson.Result

// Site is the marketplace every listing is attributed to.
const Site = "Amazon"

// Placeholder values used when a dataset record lacks a field.
const (
	DefaultTitle   = "Unknown product"
	DefaultLink    = "#"
	DefaultRating  = "No rating"
	DefaultReviews = "0 reviews"
)

// PriceListing is a normalized product listing with profit metrics.
type PriceListing struct {
	Title        string  `json:"title"`
	Price        float64 `json:"price"`
	Link         string  `json:"link"`
	Site         string  `json:"site"`
	Rating       string  `json:"rating"`
	Reviews      string  `json:"reviews"`
	Profit       float64 `json:"profit"`
	ProfitMargin float64 `json:"profit_margin"`
	Recommend    bool    `json:"recommend"`
}

// SearchResult is the response payload of a search.
type SearchResult struct {
	Prices     []PriceListing `json:"prices"`
	BasePrice  float64        `json:"base_price"`
	Error      string         `json:"error,omitempty"`
	ErrorKind  string         `json:"error_kind,omitempty"`
	Details    string         `json:"details,omitempty"`
	SearchTerm string         `json:"search_term,omitempty"`
}

// NewErrorResult creates an empty result carrying an error.
func NewErrorResult(kind, message, details string) *SearchResult {
	return &SearchResult{
		Prices:    []PriceListing{},
		BasePrice: 0,
		Error:     message,
		ErrorKind: kind,
		Details:   details,
	}
}

// HasError returns true if the search failed.
func (r *SearchResult) HasError() bool {
	return r.Error != ""
}
