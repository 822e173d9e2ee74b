package services

import (
	"errors"
	"fmt"

	"github.com/michaelfullmer/contentcreatorforbusiness/models"
)

// Sentinel errors for request-level failures that happen before any output
// is streamed. Handlers map these onto HTTP status codes.
var (
	// ErrEmptyPrompt rejects a generation request with a missing or blank prompt.
	ErrEmptyPrompt = errors.New("prompt is required")
	// ErrAuthRequired rejects a metered request with no resolvable identity
	// when anonymous use is disabled.
	ErrAuthRequired = errors.New("authentication required")
)

// QuotaExceededError reports a denied quota decision. It carries the
// remaining/limit diagnostics so the response can include an upgrade hint.
type QuotaExceededError struct {
	Decision models.QuotaDecision
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("generation quota exceeded (%d of %d used)", e.Decision.Limit-e.Decision.Remaining, e.Decision.Limit)
}

// UpstreamError reports a provider failure before any output reached the
// caller; the request can still be answered with a plain error response.
type UpstreamError struct {
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("generation provider error: %v", e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// StreamFailedError reports a failure after output was already streamed.
// By the time it is returned, a terminal error event has been written to
// the stream; handlers must not write anything further.
type StreamFailedError struct {
	Err error
}

func (e *StreamFailedError) Error() string {
	return fmt.Sprintf("stream failed after partial output: %v", e.Err)
}

func (e *StreamFailedError) Unwrap() error {
	return e.Err
}
