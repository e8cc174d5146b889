package ai

import (
	"context"
	"net/http"
)

// StreamProvider is an optional interface that providers can implement to
// support streaming (SSE-based) responses. Callers detect streaming support
// via type assertion: provider.(StreamProvider). If the provider does not
// implement this interface, callers should fall back to SendMessage.
type StreamProvider interface {
	Provider
	// StreamMessage sends a chat request and returns a ChatStream that yields
	// incremental events as they arrive from the API. Pre-stream errors
	// (auth, bad request, exhausted retries) are returned as a normal error.
	// Mid-stream errors are yielded through the iterator.
	StreamMessage(ctx context.Context, request ChatRequest) (*ChatStream, error)
}

// Provider is the core interface that every LLM provider implementation must
// satisfy. It covers a single request lifecycle: dispatch, retry resolution,
// and response interpretation. Use [StreamProvider] in addition when the
// provider supports streaming.
type Provider interface {
	// SendMessage sends a chat request to the provider and returns the
	// completed response. Transient failures (connectivity, 429, 5xx) are
	// retried internally; the returned error is always terminal and is one
	// of the typed errors in this package when the provider could classify it.
	SendMessage(ctx context.Context, request ChatRequest) (*ChatResponse, error)

	// IsStopMessage reports whether the response represents a terminal
	// completion (i.e. the model has nothing more to say and no further
	// tool calls are expected).
	IsStopMessage(message *ChatResponse) bool

	// WithAPIKey sets the API key used for authenticating requests.
	WithAPIKey(apiKey string) Provider

	// WithBaseURL overrides the default base URL for API requests.
	WithBaseURL(baseURL string) Provider

	// WithHttpClient sets the HTTP client used for outbound requests.
	WithHttpClient(httpClient *http.Client) Provider
}
