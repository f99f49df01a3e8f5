// Package failure defines the structured error kinds produced by the search pipeline.
// Every pipeline stage converts its errors into a *Error so callers can branch on
// the Kind instead of parsing message text.
package failure

import (
	"errors"
	"fmt"
)

// Kind classifies a pipeline failure.
type Kind string

const (
	KindInterpretation Kind = "interpretation_error"
	KindTransport      Kind = "transport_error"
	KindNoJobID        Kind = "no_job_id"
	KindJobFailed      Kind = "job_failed"
	KindPollTimeout    Kind = "poll_timeout"
	KindNoPricingData  Kind = "no_pricing_data"
	KindDataProcessing Kind = "data_processing_error"
	KindCanceled       Kind = "canceled"
)

// MaxBodyPreview is the number of response body bytes kept on transport failures.
const MaxBodyPreview = 500

// Error is a classified pipeline failure.
type Error struct {
	// Kind of failure
	Kind Kind

	// User-visible message
	Message string

	// HTTP status of the remote response (transport failures only)
	StatusCode int

	// Truncated remote response body (transport failures only)
	BodyPreview string

	// Terminal remote job status (job failures only)
	JobStatus string

	// Number of poll attempts made (poll timeouts only)
	Attempts int

	// Underlying cause
	Err error
}

func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Err.Error()
	default:
		return string(e.Kind)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Details returns diagnostic text suitable for the response "details" field.
func (e *Error) Details() string {
	var details string
	if e.Err != nil {
		details = e.Err.Error()
	}
	if e.StatusCode != 0 {
		details = appendLine(details, fmt.Sprintf("Status Code: %d", e.StatusCode))
	}
	if e.BodyPreview != "" {
		details = appendLine(details, "Response: "+e.BodyPreview)
	}
	return details
}

func appendLine(s, line string) string {
	if s == "" {
		return line
	}
	return s + "\n" + line
}

// New creates a failure of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates a failure of the given kind around a cause.
// If err is already a *Error it is returned unchanged so the original kind wins.
func Wrap(kind Kind, message string, err error) *Error {
	var fe *Error
	if errors.As(err, &fe) {
		return fe
	}
	return &Error{Kind: kind, Message: message, Err: err}
}

// Transport creates a transport failure with the remote status and a body preview.
func Transport(message string, statusCode int, body []byte, err error) *Error {
	return &Error{
		Kind:        KindTransport,
		Message:     message,
		StatusCode:  statusCode,
		BodyPreview: Preview(body),
		Err:         err,
	}
}

// Preview truncates a response body to MaxBodyPreview bytes.
func Preview(body []byte) string {
	if len(body) > MaxBodyPreview {
		return string(body[:MaxBodyPreview]) + "..."
	}
	return string(body)
}

// KindOf returns the kind of err, or "" if err is not a pipeline failure.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return ""
}

// Is reports whether err is a pipeline failure of the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
