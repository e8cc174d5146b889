package ai

import (
	"encoding/json"
	"errors"
	"testing"
)

func eventStream(events []StreamEvent) *ChatStream {
	return NewChatStream(func(yield func(StreamEvent, error) bool) {
		for _, event := range events {
			if !yield(event, nil) {
				return
			}
		}
	})
}

func TestCollect_AccumulatesContentToolCallsAndUsage(t *testing.T) {
	stream := eventStream([]StreamEvent{
		{Type: StreamEventContent, Content: "Hel"},
		{Type: StreamEventContent, Content: "lo"},
		{Type: StreamEventToolCallStart, ToolCall: &ToolCallEvent{Index: 0, ID: "call_1", Name: "run"}},
		{Type: StreamEventToolCallDelta, ToolCall: &ToolCallEvent{Index: 0, ArgumentsDelta: `{"a":1}`}},
		{Type: StreamEventToolCallDone, ToolCall: &ToolCallEvent{
			Index: 0, ID: "call_1", Name: "run", Arguments: json.RawMessage(`{"a":1}`),
		}},
		{Type: StreamEventUsage, Usage: &Usage{PromptTokens: 5, CompletionTokens: 7, TotalTokens: 12}},
		{Type: StreamEventDone, FinishReason: FinishReasonToolCalls},
	})

	response, err := stream.Collect()
	if err != nil {
		t.Fatalf("Collect returned error: %v", err)
	}
	if response.Content != "Hello" {
		t.Errorf("unexpected content: %q", response.Content)
	}
	if len(response.ToolCalls) != 1 {
		t.Fatalf("expected 1 tool call, got %d", len(response.ToolCalls))
	}
	if response.ToolCalls[0].Function.Arguments != `{"a":1}` {
		t.Errorf("unexpected arguments: %q", response.ToolCalls[0].Function.Arguments)
	}
	if response.Usage == nil || response.Usage.TotalTokens != 12 {
		t.Errorf("usage not accumulated: %+v", response.Usage)
	}
	if response.FinishReason != FinishReasonToolCalls {
		t.Errorf("unexpected finish reason: %q", response.FinishReason)
	}
}

func TestCollect_MidStreamError_ReturnsPartialResponse(t *testing.T) {
	boom := errors.New("mid-stream failure")
	stream := NewChatStream(func(yield func(StreamEvent, error) bool) {
		if !yield(StreamEvent{Type: StreamEventContent, Content: "partial"}, nil) {
			return
		}
		yield(StreamEvent{}, boom)
	})

	response, err := stream.Collect()
	if !errors.Is(err, boom) {
		t.Fatalf("expected the stream error, got %v", err)
	}
	if response.Content != "partial" {
		t.Errorf("partial content lost: %q", response.Content)
	}
}

func TestIter_EarlyBreakStopsProducer(t *testing.T) {
	produced := 0
	stream := NewChatStream(func(yield func(StreamEvent, error) bool) {
		for i := 0; i < 100; i++ {
			produced++
			if !yield(StreamEvent{Type: StreamEventContent, Content: "x"}, nil) {
				return
			}
		}
	})

	seen := 0
	for range stream.Iter() {
		seen++
		if seen == 3 {
			break
		}
	}
	if produced != 3 {
		t.Errorf("producer should stop on break, produced %d events", produced)
	}
}
