package ai

import (
	"fmt"
	"time"
)

// RateLimit is a snapshot of the provider rate-limit headers taken from one
// failed HTTP response. Absent or malformed headers leave the corresponding
// field nil (counts) or empty (reset markers); extraction itself never fails.
//
// Reset markers are provider-supplied opaque strings (OpenAI sends values
// like "1s" or "6m12s") and are not guaranteed to parse as durations.
type RateLimit struct {
	LimitRequests     *int           `json:"limit_requests,omitempty"`
	RemainingRequests *int           `json:"remaining_requests,omitempty"`
	LimitTokens       *int           `json:"limit_tokens,omitempty"`
	RemainingTokens   *int           `json:"remaining_tokens,omitempty"`
	ResetRequests     string         `json:"reset_requests,omitempty"`
	ResetTokens       string         `json:"reset_tokens,omitempty"`
	RetryAfter        *time.Duration `json:"retry_after,omitempty"`
}

// TransportError wraps a connectivity-level failure (connection refused,
// timeout, or any error that never produced an HTTP status) that survived
// every retry attempt.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// RateLimitError is returned when a 429 response outlives all retries. It
// carries the final rate-limit snapshot plus the server's retry hints so
// callers can schedule their own recovery.
type RateLimitError struct {
	RateLimit  RateLimit
	RetryAfter *time.Duration
	ResetAt    string // best-available reset marker; request reset preferred over token reset
}

func (e *RateLimitError) Error() string {
	msg := "rate limited (HTTP 429)"
	if e.RetryAfter != nil {
		msg += fmt.Sprintf(", retry after %s", *e.RetryAfter)
	}
	if e.ResetAt != "" {
		msg += fmt.Sprintf(", resets in %s", e.ResetAt)
	}
	return msg
}

// APIError is any other non-success HTTP response: a terminal 4xx, or a 5xx
// that exhausted its retries. Body holds the raw response text.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API returned non-success status %d: %s", e.StatusCode, e.Body)
}

// DecodeError marks a protocol violation in the response stream: invalid
// UTF-8 in a frame, or a frame payload that is not valid JSON. Decode errors
// are fatal and never retried.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("stream decode error: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ArgumentParseError is returned when a tool call's accumulated argument
// buffer fails to parse as JSON at completion time.
type ArgumentParseError struct {
	Index     int
	Name      string
	Arguments string
	Err       error
}

func (e *ArgumentParseError) Error() string {
	return fmt.Sprintf("tool call %d (%s): arguments are not valid JSON: %v", e.Index, e.Name, e.Err)
}

func (e *ArgumentParseError) Unwrap() error { return e.Err }
