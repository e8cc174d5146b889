package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/jmaren/llmwire/providers/observability"
)

// DoPostSync performs a synchronous HTTP POST request with a JSON body and
// parses the response. Transient failures are resolved by the retry executor;
// the returned error is always terminal.
//
// Error Handling Strategy:
//   - Transport, rate-limit, and API errors surface as the typed errors from
//     [DoPostRetry]
//   - Response body close errors are logged but don't override primary errors
//   - JSON parsing errors include a response preview for debugging
func DoPostSync[OutputStruct any](ctx context.Context, client *http.Client, url string, apiKey string, body any, config RetryConfig, headers ...HeaderOption) (*http.Response, *OutputStruct, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, nil, fmt.Errorf("error marshaling body: %w", err)
	}

	response, err := DoPostRetry(ctx, client, url, apiKey, jsonBody, config, headers...)
	if err != nil {
		return nil, nil, err
	}
	defer CloseWithLog(response.Body)

	respBody, err := io.ReadAll(io.LimitReader(response.Body, maxResponseBodySize))
	if err != nil {
		return response, nil, fmt.Errorf("error reading response body: %w", err)
	}

	var resStruct OutputStruct
	if err = json.Unmarshal(respBody, &resStruct); err != nil {
		return response, nil, fmt.Errorf("error unmarshaling LLM response body (status %d): %w\nResponse preview: %s",
			response.StatusCode, err, observability.TruncateString(string(respBody), 500))
	}

	return response, &resStruct, nil
}

// CloseWithLog closes c, logging a warning when the close fails. Used for
// response bodies where a close error must not override the primary error.
func CloseWithLog(c io.Closer) {
	if c == nil {
		return
	}
	if err := c.Close(); err != nil {
		slog.Warn("failed to close response body", "error", err.Error())
	}
}
