package ai

import (
	"encoding/json"
	"iter"
)

// StreamEventType identifies the kind of payload carried by a StreamEvent.
type StreamEventType string

const (
	// StreamEventContent indicates a text content delta.
	StreamEventContent StreamEventType = "content"
	// StreamEventToolCallStart announces a tool call index the first time its
	// id or name is observed. It can fire twice for the same index: once when
	// the id first appears and once when the name first appears.
	StreamEventToolCallStart StreamEventType = "tool_call_start"
	// StreamEventToolCallDelta carries one incremental JSON-argument fragment
	// for a tool call index.
	StreamEventToolCallDelta StreamEventType = "tool_call_delta"
	// StreamEventToolCallDone carries a fully reconstructed tool call with
	// parsed arguments.
	StreamEventToolCallDone StreamEventType = "tool_call_done"
	// StreamEventUsage carries token usage metadata.
	StreamEventUsage StreamEventType = "usage"
	// StreamEventDone signals that the message has finished; it is always the
	// last event of a successful stream and occurs at most once.
	StreamEventDone StreamEventType = "done"
)

// ToolCallEvent is the tool-call payload of a StreamEvent. Which fields are
// populated depends on the event type:
//
//   - start: Index, plus ID and/or Name as far as they have been observed
//   - delta: Index and ArgumentsDelta (exactly the fragment, never the
//     accumulated buffer)
//   - done: Index, ID, Name and Arguments (the validated JSON document)
type ToolCallEvent struct {
	Index          int             `json:"index"`
	ID             string          `json:"id,omitempty"`
	Name           string          `json:"name,omitempty"`
	ArgumentsDelta string          `json:"arguments_delta,omitempty"`
	Arguments      json.RawMessage `json:"arguments,omitempty"`
}

// StreamEvent represents a single event yielded during LLM response
// streaming. Each event carries exactly one type of payload, identified by
// the Type field.
type StreamEvent struct {
	Type         StreamEventType `json:"type"`
	Content      string          `json:"content,omitempty"`       // Text delta (Type == StreamEventContent)
	ToolCall     *ToolCallEvent  `json:"tool_call,omitempty"`     // Tool call payload (start/delta/done)
	Usage        *Usage          `json:"usage,omitempty"`         // Token usage (Type == StreamEventUsage)
	FinishReason string          `json:"finish_reason,omitempty"` // Present on StreamEventDone
}

// ChatStream wraps a streaming iterator and provides automatic accumulation
// of events into a final ChatResponse. It supports range-based iteration for
// real-time processing and a convenience Collect() method for callers who
// want the complete response.
//
// The stream is single-pass and not restartable: a fresh StreamMessage call
// is required to retry the whole exchange. Breaking out of the iteration
// early releases the underlying connection; no background work continues
// after abandonment. Constructing a ChatStream and never iterating it will
// leak the provider's open resources.
type ChatStream struct {
	iterator iter.Seq2[StreamEvent, error]
}

// NewChatStream creates a ChatStream from a raw streaming iterator.
// The iterator is expected to yield StreamEvent values (with nil error) for
// normal events, and may yield a non-nil error to signal a mid-stream
// failure; no further events follow an error.
func NewChatStream(iterator iter.Seq2[StreamEvent, error]) *ChatStream {
	return &ChatStream{iterator: iterator}
}

// Iter returns the underlying iterator for use with range-over-func loops.
//
// Example:
//
//	for event, err := range stream.Iter() {
//	    if err != nil { handle error }
//	    fmt.Print(event.Content)
//	}
func (stream *ChatStream) Iter() iter.Seq2[StreamEvent, error] {
	return stream.iterator
}

// Collect consumes the entire stream and returns the accumulated
// ChatResponse. Any mid-stream error terminates collection and returns the
// partial response alongside the error; events delivered before the failure
// remain valid.
func (stream *ChatStream) Collect() (*ChatResponse, error) {
	accumulated := &ChatResponse{}

	for event, err := range stream.iterator {
		if err != nil {
			return accumulated, err
		}

		switch event.Type {
		case StreamEventContent:
			accumulated.Content += event.Content

		case StreamEventToolCallDone:
			if event.ToolCall != nil {
				accumulated.ToolCalls = append(accumulated.ToolCalls, ToolCall{
					ID:   event.ToolCall.ID,
					Type: "function",
					Function: ToolCallFunction{
						Name:      event.ToolCall.Name,
						Arguments: string(event.ToolCall.Arguments),
					},
				})
			}

		case StreamEventUsage:
			if event.Usage != nil {
				accumulated.Usage = event.Usage
			}

		case StreamEventDone:
			accumulated.FinishReason = event.FinishReason

		case StreamEventToolCallStart, StreamEventToolCallDelta:
			// Lifecycle events; the done event carries the reconstructed call.
		}
	}

	return accumulated, nil
}
