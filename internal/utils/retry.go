package utils

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/jmaren/llmwire/providers/ai"
	"github.com/jmaren/llmwire/providers/observability"
)

// maxResponseBodySize is the maximum response body size (10 MB). Enforced via
// io.LimitReader to prevent unbounded memory allocation from rogue responses.
const maxResponseBodySize int64 = 10 * 1024 * 1024

// HeaderOption sets one extra request header.
type HeaderOption struct {
	Key   string
	Value string
}

// RetryConfig tunes the retrying request executor. The zero value disables
// nothing explicitly; use DefaultRetryConfig for the standard behavior.
type RetryConfig struct {
	// MaxRetries is the number of retry attempts after the first failure.
	// A value of 3 means at most 4 requests are sent. Default: 3.
	MaxRetries int

	// Backoff computes the delay before each retry.
	Backoff Backoff

	// RespectRetryAfter uses a server-supplied Retry-After header as the
	// backoff for 429/5xx responses when it exceeds the computed delay.
	RespectRetryAfter bool

	// Logger receives rate-limit diagnostics for failed responses. Optional;
	// defaults to a no-op sink.
	Logger observability.Logger

	// sleep suspends the calling goroutine between attempts. Overridable in
	// tests; nil means a context-aware timer sleep.
	sleep func(ctx context.Context, d time.Duration) error
}

// DefaultRetryConfig returns the retry behavior used when providers are not
// configured otherwise.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:        3,
		Backoff:           DefaultBackoff(),
		RespectRetryAfter: true,
	}
}

// DoPostRetry issues one logical POST request, retrying transient failures
// until a terminal outcome is reached. The request body is replayed from
// jsonBody on every attempt.
//
// Outcomes:
//   - a 2xx response is returned immediately with its body left open;
//   - transport-level failures (connection errors, timeouts, anything that
//     never produced an HTTP status) are retried, then wrapped in
//     *ai.TransportError;
//   - 429 and 5xx responses are retried with backoff, honoring a larger
//     Retry-After hint when configured; an exhausted 429 becomes
//     *ai.RateLimitError carrying the final rate-limit snapshot, an
//     exhausted 5xx becomes *ai.APIError;
//   - any other non-success status fails immediately with *ai.APIError.
//
// Sleeping between attempts blocks only the calling goroutine and is cut
// short by context cancellation.
func DoPostRetry(ctx context.Context, client *http.Client, url string, apiKey string, jsonBody []byte, config RetryConfig, headers ...HeaderOption) (*http.Response, error) {
	httpClient := client
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	logger := config.Logger
	if logger == nil {
		logger = observability.Nop()
	}
	sleep := config.sleep
	if sleep == nil {
		sleep = sleepContext
	}

	attempt := 0
	for {
		request, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
		if err != nil {
			return nil, &ai.TransportError{Err: err}
		}
		request.Header.Set("Content-Type", "application/json")
		if apiKey != "" {
			request.Header.Set("Authorization", "Bearer "+apiKey)
		}
		for _, header := range headers {
			request.Header.Set(header.Key, header.Value)
		}

		response, err := httpClient.Do(request)
		if err != nil {
			// Anything without an HTTP status is a transport failure. The
			// enclosing context being done means the caller gave up; stop.
			if ctx.Err() != nil || attempt >= config.MaxRetries {
				return nil, &ai.TransportError{Err: err}
			}
			if sleepErr := sleep(ctx, config.Backoff.Delay(attempt)); sleepErr != nil {
				return nil, &ai.TransportError{Err: sleepErr}
			}
			attempt++
			continue
		}

		// First success wins.
		if response.StatusCode >= 200 && response.StatusCode < 300 {
			return response, nil
		}

		snapshot := ExtractRateLimit(response.Header)
		LogRateLimit(ctx, logger, response.StatusCode, snapshot)
		body := drainBody(response)

		retryable := response.StatusCode == http.StatusTooManyRequests || response.StatusCode >= 500
		if retryable && attempt < config.MaxRetries {
			delay := config.Backoff.Delay(attempt)
			if config.RespectRetryAfter && snapshot.RetryAfter != nil && *snapshot.RetryAfter > delay {
				delay = *snapshot.RetryAfter
			}
			if sleepErr := sleep(ctx, delay); sleepErr != nil {
				return nil, &ai.TransportError{Err: sleepErr}
			}
			attempt++
			continue
		}

		if response.StatusCode == http.StatusTooManyRequests {
			resetAt := snapshot.ResetRequests
			if resetAt == "" {
				resetAt = snapshot.ResetTokens
			}
			return nil, &ai.RateLimitError{
				RateLimit:  snapshot,
				RetryAfter: snapshot.RetryAfter,
				ResetAt:    resetAt,
			}
		}
		return nil, &ai.APIError{StatusCode: response.StatusCode, Body: body}
	}
}

// drainBody reads and closes a failed response's body so the connection can
// be reused. Reads are capped at maxResponseBodySize.
func drainBody(response *http.Response) string {
	defer CloseWithLog(response.Body)
	body, err := io.ReadAll(io.LimitReader(response.Body, maxResponseBodySize))
	if err != nil {
		return ""
	}
	return string(body)
}

// sleepContext blocks the calling goroutine for d, or less when ctx is done
// first. No shared resource is held while sleeping.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
