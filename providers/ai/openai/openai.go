package openai

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/jmaren/llmwire/internal/utils"
	"github.com/jmaren/llmwire/providers/ai"
	"github.com/jmaren/llmwire/providers/observability"
)

const (
	defaultBaseURL          = "https://api.openai.com/v1"
	chatCompletionsEndpoint = "/chat/completions"
)

// OpenAIProvider implements the Provider interface for the OpenAI API.
type OpenAIProvider struct {
	apiKey  string
	baseURL string
	client  *http.Client
	retry   utils.RetryConfig
	logger  observability.Logger
}

// New creates an OpenAI provider with default values. The API key and base
// URL are read from OPENAI_API_KEY and OPENAI_API_BASE_URL when present.
func New() *OpenAIProvider {
	apiKey := os.Getenv("OPENAI_API_KEY")
	baseURL := os.Getenv("OPENAI_API_BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &OpenAIProvider{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  &http.Client{},
		retry:   utils.DefaultRetryConfig(),
	}
}

// WithAPIKey sets the API key for the provider
func (provider *OpenAIProvider) WithAPIKey(apiKey string) ai.Provider {
	provider.apiKey = apiKey
	return provider
}

// WithBaseURL sets the base URL for the API
func (provider *OpenAIProvider) WithBaseURL(baseURL string) ai.Provider {
	provider.baseURL = baseURL
	return provider
}

// WithHttpClient sets a custom HTTP client
func (provider *OpenAIProvider) WithHttpClient(httpClient *http.Client) ai.Provider {
	provider.client = httpClient
	return provider
}

// WithRetryConfig overrides the retry/backoff behavior of the transport.
func (provider *OpenAIProvider) WithRetryConfig(config utils.RetryConfig) *OpenAIProvider {
	provider.retry = config
	return provider
}

// WithLogger sets the diagnostic sink used for rate-limit and transport
// observability. A logger attached to the request context takes precedence.
func (provider *OpenAIProvider) WithLogger(logger observability.Logger) *OpenAIProvider {
	provider.logger = logger
	return provider
}

// retryConfig resolves the executor configuration for one request, wiring in
// the most specific diagnostic sink available.
func (provider *OpenAIProvider) retryConfig(ctx context.Context) utils.RetryConfig {
	config := provider.retry
	if contextLogger := observability.LoggerFromContext(ctx); contextLogger != nil {
		config.Logger = contextLogger
	} else if config.Logger == nil {
		config.Logger = provider.logger
	}
	return config
}

// SendMessage implements the Provider interface: one non-streaming chat
// completion round-trip. Transient failures are retried by the transport; the
// returned error is terminal.
func (provider *OpenAIProvider) SendMessage(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
	if provider.apiKey == "" {
		return nil, fmt.Errorf("API key is not set")
	}

	chatRequest := requestToChatCompletion(request)

	_, response, err := utils.DoPostSync[chatCompletionResponse](
		ctx, provider.client, provider.baseURL+chatCompletionsEndpoint, provider.apiKey, chatRequest, provider.retryConfig(ctx))
	if err != nil {
		return nil, err
	}

	if len(response.Choices) == 0 {
		return nil, fmt.Errorf("no choices in response")
	}

	return responseToGeneric(response), nil
}

// IsStopMessage reports whether the given chat response should be treated as a stop/end signal.
func (provider *OpenAIProvider) IsStopMessage(message *ai.ChatResponse) bool {
	if message == nil {
		return true
	}
	// Prefer explicit finish reason from API
	switch message.FinishReason {
	case ai.FinishReasonStop, ai.FinishReasonLength, ai.FinishReasonContentFilter:
		return true
	}
	// If there's no content and no tool calls, treat as stop
	if message.Content == "" && len(message.ToolCalls) == 0 {
		return true
	}
	return false
}
