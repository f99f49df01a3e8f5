// Package mw provides HTTP middleware and route registration helpers.
package mw

import (
	"net/http"

	"github.com/ademicho123/Retail-Arbitrage/internal/version"
)

// APIVersionHeader carries the server build version on every response.
const APIVersionHeader = "X-API-Version"

// APIVersion returns middleware that adds the X-API-Version header to all responses.
func APIVersion() func(http.Handler) http.Handler {
	apiVersion := version.Get().Short()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set(APIVersionHeader, apiVersion)
			next.ServeHTTP(w, r)
		})
	}
}
