package client

import (
	"context"

	"github.com/jmaren/llmwire/core/parse"
)

// SendMessageAs sends content through c and parses the final response content
// into T. Malformed JSON in the response is repaired before decoding; see
// [parse.As] for the exact rules.
//
// This is a package-level function because Go methods cannot introduce type
// parameters.
func SendMessageAs[T any](ctx context.Context, c *Client, content string) (T, error) {
	var zero T
	response, err := c.SendMessage(ctx, content)
	if err != nil {
		return zero, err
	}
	return parse.As[T](response.Content)
}
