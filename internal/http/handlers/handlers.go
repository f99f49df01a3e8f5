// Package handlers contains HTTP handlers for the API.
package handlers

import (
	"context"

	"github.com/ademicho123/Retail-Arbitrage/internal/version"
)

// HealthCheckOutput represents health check response.
type HealthCheckOutput struct {
	Body struct {
		Status  string `json:"status" example:"healthy"`
		Version string `json:"version" example:"1.2.0"`
		Commit  string `json:"commit" example:"0123456789ab"`
	}
}

// HealthCheck returns the health status of the API.
func HealthCheck(ctx context.Context, input *struct{}) (*HealthCheckOutput, error) {
	info := version.Get()
	out := &HealthCheckOutput{}
	out.Body.Status = "healthy"
	out.Body.Version = info.Short()
	out.Body.Commit = info.Commit
	return out, nil
}

// LivezOutput represents the liveness probe response.
type LivezOutput struct {
	Body struct {
		Status string `json:"status"`
	}
}

// Livez reports that the process is serving requests.
func Livez(ctx context.Context, input *struct{}) (*LivezOutput, error) {
	out := &LivezOutput{}
	out.Body.Status = "ok"
	return out, nil
}
