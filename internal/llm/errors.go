// Package llm interprets free-text shopping queries with a completion model.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error categories for completion requests.
const (
	CategoryInvalidKey    = "invalid_key"
	CategoryRateLimit     = "rate_limit"
	CategoryQuotaExceeded = "quota_exceeded"
	CategoryProviderError = "provider_error"
	CategoryTimeout       = "timeout"
	CategoryUnknown       = "unknown"
)

var (
	// ErrInvalidAPIKey indicates the API key is invalid or expired.
	ErrInvalidAPIKey = errors.New("invalid API key")

	// ErrRateLimited indicates the provider rejected the request for rate.
	ErrRateLimited = errors.New("rate limited")

	// ErrQuotaExceeded indicates the account has no remaining credit.
	ErrQuotaExceeded = errors.New("quota exceeded")

	// ErrModelUnavailable indicates the model is unknown or overloaded.
	ErrModelUnavailable = errors.New("model unavailable")

	// ErrProviderError indicates a general provider error.
	ErrProviderError = errors.New("provider error")

	// ErrEmptyCompletion indicates the model returned no usable text.
	ErrEmptyCompletion = errors.New("empty completion")
)

// LLMError represents a classified error from the completion provider.
type LLMError struct {
	// Original error from the provider
	Err error

	// HTTP status code (if applicable)
	StatusCode int

	// Model that was being used
	Model string

	// User-friendly message
	UserMessage string

	// Raw provider message, kept for logs
	RawMessage string

	// Error category (rate_limit, invalid_key, ...)
	Category string

	// Whether an identical request may succeed later
	Retryable bool
}

func (e *LLMError) Error() string {
	if e.UserMessage != "" {
		return e.UserMessage
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown LLM error"
}

func (e *LLMError) Unwrap() error {
	return e.Err
}

// ClassifyError analyzes an error from a completion call and returns a classified LLMError.
// Status codes are checked first; a 400 or unknown status falls back to the message text.
func ClassifyError(err error, model string, statusCode int) *LLMError {
	if err == nil {
		return nil
	}

	errStr := strings.ToLower(err.Error())
	llmErr := &LLMError{
		Err:        err,
		StatusCode: statusCode,
		Model:      model,
		RawMessage: err.Error(),
	}

	if errors.Is(err, context.DeadlineExceeded) {
		llmErr.Err = ErrProviderError
		llmErr.Category = CategoryTimeout
		llmErr.UserMessage = "Request timed out. The model took too long to respond."
		llmErr.Retryable = true
		return llmErr
	}

	switch statusCode {
	case http.StatusTooManyRequests: // 429
		// OpenAI reports exhausted credit as a 429 with code insufficient_quota
		if strings.Contains(errStr, "insufficient_quota") || strings.Contains(errStr, "exceeded your current quota") {
			llmErr.Err = ErrQuotaExceeded
			llmErr.Category = CategoryQuotaExceeded
			llmErr.UserMessage = "Quota exceeded. Please check your API key's billing status."
			llmErr.Retryable = false
			return llmErr
		}
		llmErr.Err = ErrRateLimited
		llmErr.Category = CategoryRateLimit
		llmErr.UserMessage = "Rate limit exceeded. Please wait before retrying."
		llmErr.Retryable = true

	case http.StatusPaymentRequired: // 402
		llmErr.Err = ErrQuotaExceeded
		llmErr.Category = CategoryQuotaExceeded
		llmErr.UserMessage = "Payment required. Please check your API key's billing status."
		llmErr.Retryable = false

	case http.StatusUnauthorized, http.StatusForbidden: // 401, 403
		llmErr.Err = ErrInvalidAPIKey
		llmErr.Category = CategoryInvalidKey
		llmErr.UserMessage = "Invalid API key. Please check your LLM configuration."
		llmErr.Retryable = false

	case http.StatusServiceUnavailable: // 503
		llmErr.Err = ErrModelUnavailable
		llmErr.Category = CategoryProviderError
		llmErr.UserMessage = "The model is temporarily unavailable. Please try again later."
		llmErr.Retryable = true

	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusGatewayTimeout: // 500, 502, 504
		llmErr.Err = ErrProviderError
		llmErr.Category = CategoryProviderError
		llmErr.UserMessage = "The LLM provider is experiencing issues. Please try again."
		llmErr.Retryable = true

	default:
		llmErr = classifyByErrorMessage(llmErr, errStr)
	}

	return llmErr
}

// classifyByErrorMessage analyzes error message content for specific patterns.
func classifyByErrorMessage(llmErr *LLMError, errStr string) *LLMError {
	switch {
	case strings.Contains(errStr, "rate limit") || strings.Contains(errStr, "ratelimit"):
		llmErr.Err = ErrRateLimited
		llmErr.Category = CategoryRateLimit
		llmErr.UserMessage = "Rate limit exceeded. Please wait before retrying."
		llmErr.Retryable = true

	case strings.Contains(errStr, "overloaded") || strings.Contains(errStr, "capacity"):
		llmErr.Err = ErrModelUnavailable
		llmErr.Category = CategoryProviderError
		llmErr.UserMessage = "Model is overloaded. Please try again later."
		llmErr.Retryable = true

	case strings.Contains(errStr, "model not found") || strings.Contains(errStr, "does not exist"):
		llmErr.Err = ErrModelUnavailable
		llmErr.Category = CategoryProviderError
		llmErr.UserMessage = "The specified model is not available. Please check your LLM configuration."
		llmErr.Retryable = false

	case strings.Contains(errStr, "invalid api key") || strings.Contains(errStr, "incorrect api key") ||
		strings.Contains(errStr, "authentication"):
		llmErr.Err = ErrInvalidAPIKey
		llmErr.Category = CategoryInvalidKey
		llmErr.UserMessage = "Invalid API key. Please check your LLM configuration."
		llmErr.Retryable = false

	case strings.Contains(errStr, "quota") || (strings.Contains(errStr, "insufficient") && strings.Contains(errStr, "credit")):
		llmErr.Err = ErrQuotaExceeded
		llmErr.Category = CategoryQuotaExceeded
		llmErr.UserMessage = "Quota exceeded. Please check your API key's billing status."
		llmErr.Retryable = false

	case strings.Contains(errStr, "timeout") || strings.Contains(errStr, "deadline exceeded"):
		llmErr.Err = ErrProviderError
		llmErr.Category = CategoryTimeout
		llmErr.UserMessage = "Request timed out. The model took too long to respond."
		llmErr.Retryable = true

	default:
		llmErr.Err = ErrProviderError
		llmErr.Category = CategoryUnknown
		llmErr.UserMessage = fmt.Sprintf("LLM error: %s", llmErr.RawMessage)
		llmErr.Retryable = false
	}

	return llmErr
}

// IsRetryable returns true if the error is retryable.
func IsRetryable(err error) bool {
	var llmErr *LLMError
	if errors.As(err, &llmErr) {
		return llmErr.Retryable
	}
	return false
}

// CategoryOf returns the category of a classified error, or "" for other errors.
func CategoryOf(err error) string {
	var llmErr *LLMError
	if errors.As(err, &llmErr) {
		return llmErr.Category
	}
	return ""
}
