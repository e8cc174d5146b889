package webfetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/jmaren/llmwire/internal/utils"
	"github.com/jmaren/llmwire/providers/tool"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second
	// DefaultUserAgent is the default User-Agent header value.
	DefaultUserAgent = "llmwire-webfetch/1.0"
	// MaxBodySize is the maximum response body size (10MB).
	MaxBodySize = 10 * 1024 * 1024
	// maxRedirects limits how many HTTP redirects are followed.
	maxRedirects = 10
)

// Input holds the parameters passed to the web fetch tool by the model.
type Input struct {
	// URL is the page to fetch. Partial URLs like "example.com" are
	// normalised by prepending "https://".
	URL string `json:"url"`

	// TimeoutSeconds overrides the default request timeout when positive.
	TimeoutSeconds int `json:"timeout_seconds,omitempty"`
}

// Output is the result returned to the model. URL reflects the final
// destination after redirects.
type Output struct {
	URL      string `json:"url"`
	Markdown string `json:"markdown"`
}

// New returns a tool that fetches web pages and converts their HTML content
// to Markdown.
func New() *tool.Tool[Input, Output] {
	return tool.NewTool("WebFetch", Fetch,
		tool.WithDescription("Fetches a web page and converts its HTML content to Markdown. Supports partial URLs like 'example.com'. Follows redirects and returns the final URL with the converted content."),
		tool.WithParameters(map[string]any{
			"url": map[string]any{
				"type":        "string",
				"description": "The URL of the web page to fetch",
			},
			"timeout_seconds": map[string]any{
				"type":        "integer",
				"description": "Request timeout in seconds (default 30)",
			},
		}, "url"),
	)
}

// Fetch retrieves the page at req.URL and returns its content as Markdown.
// The response body is capped at [MaxBodySize] bytes and up to ten redirects
// are followed. It returns an error for empty URLs, non-200 responses,
// oversized bodies and conversion failures.
func Fetch(ctx context.Context, req Input) (Output, error) {
	url := strings.TrimSpace(req.URL)
	if url == "" {
		return Output{}, fmt.Errorf("URL cannot be empty")
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = "https://" + url
	}

	timeout := DefaultTimeout
	if req.TimeoutSeconds > 0 {
		timeout = time.Duration(req.TimeoutSeconds) * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Output{}, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("User-Agent", DefaultUserAgent)

	client := &http.Client{
		Timeout: timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("too many redirects (>%d)", maxRedirects)
			}
			return nil
		},
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		return Output{}, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer utils.CloseWithLog(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return Output{}, fmt.Errorf("unexpected status code: %d %s", resp.StatusCode, resp.Status)
	}

	htmlBytes, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodySize))
	if err != nil {
		return Output{}, fmt.Errorf("failed to read response body: %w", err)
	}
	if len(htmlBytes) == MaxBodySize {
		return Output{}, fmt.Errorf("response body exceeds maximum size of %d bytes", MaxBodySize)
	}

	markdown, err := htmltomarkdown.ConvertString(string(htmlBytes))
	if err != nil {
		return Output{}, fmt.Errorf("failed to convert HTML to Markdown: %w", err)
	}

	return Output{
		URL:      resp.Request.URL.String(),
		Markdown: markdown,
	}, nil
}
