package client

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmaren/llmwire/providers/ai"
	"github.com/jmaren/llmwire/providers/observability"
)

// StreamMessage appends content as a user message and streams the provider's
// response. Events are passed through unchanged; when the stream finishes
// without error the accumulated assistant message, including any completed
// tool calls, is recorded in the history.
//
// The provider must implement [ai.StreamProvider]. Tool calls produced by a
// streamed response are recorded but not executed; callers that want the
// tool loop should use [Client.SendMessage].
func (c *Client) StreamMessage(ctx context.Context, content string) (*ai.ChatStream, error) {
	streamer, ok := c.provider.(ai.StreamProvider)
	if !ok {
		return nil, fmt.Errorf("provider %T does not support streaming", c.provider)
	}

	ctx = observability.ContextWithLogger(ctx, c.logger)
	c.memory.AppendMessage(ctx, &ai.Message{Role: ai.RoleUser, Content: content})

	request, err := c.request(ctx)
	if err != nil {
		return nil, err
	}
	stream, err := streamer.StreamMessage(ctx, request)
	if err != nil {
		return nil, err
	}

	return ai.NewChatStream(func(yield func(ai.StreamEvent, error) bool) {
		var text strings.Builder
		var toolCalls []ai.ToolCall

		for event, err := range stream.Iter() {
			if err != nil {
				yield(ai.StreamEvent{}, err)
				return
			}

			switch event.Type {
			case ai.StreamEventContent:
				text.WriteString(event.Content)
			case ai.StreamEventToolCallDone:
				if event.ToolCall != nil {
					toolCalls = append(toolCalls, ai.ToolCall{
						ID:   event.ToolCall.ID,
						Type: "function",
						Function: ai.ToolCallFunction{
							Name:      event.ToolCall.Name,
							Arguments: string(event.ToolCall.Arguments),
						},
					})
				}
			case ai.StreamEventDone:
				c.memory.AppendMessage(ctx, &ai.Message{
					Role:      ai.RoleAssistant,
					Content:   text.String(),
					ToolCalls: toolCalls,
				})
			}

			if !yield(event, nil) {
				return
			}
		}
	}), nil
}
