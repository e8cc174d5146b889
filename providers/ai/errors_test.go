package ai

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestTransportError_UnwrapsCause(t *testing.T) {
	cause := errors.New("connection refused")
	var err error = &TransportError{Err: cause}
	if !errors.Is(err, cause) {
		t.Error("cause not reachable through Unwrap")
	}
	if !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("message should include cause: %q", err.Error())
	}
}

func TestRateLimitError_MessageIncludesHints(t *testing.T) {
	retryAfter := 7 * time.Second
	err := &RateLimitError{RetryAfter: &retryAfter, ResetAt: "30s"}

	msg := err.Error()
	if !strings.Contains(msg, "429") {
		t.Errorf("message should mention the status: %q", msg)
	}
	if !strings.Contains(msg, "7s") || !strings.Contains(msg, "30s") {
		t.Errorf("message should carry the retry hints: %q", msg)
	}
}

func TestRateLimitError_MessageWithoutHints(t *testing.T) {
	err := &RateLimitError{}
	if strings.Contains(err.Error(), "retry after") || strings.Contains(err.Error(), "resets in") {
		t.Errorf("absent hints should not appear: %q", err.Error())
	}
}

func TestArgumentParseError_CarriesContext(t *testing.T) {
	cause := errors.New("unexpected end of JSON input")
	err := &ArgumentParseError{Index: 2, Name: "search", Arguments: `{"q":`, Err: cause}

	if !errors.Is(err, cause) {
		t.Error("cause not reachable through Unwrap")
	}
	msg := err.Error()
	if !strings.Contains(msg, "2") || !strings.Contains(msg, "search") {
		t.Errorf("message should identify the call: %q", msg)
	}
}
