package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jmaren/llmwire/internal/utils"
	"github.com/jmaren/llmwire/providers/ai"
)

// StreamMessage implements ai.StreamProvider for the chat completions
// endpoint. It sends a streaming request with stream=true and returns a
// ChatStream that yields typed events as SSE frames arrive from the API.
//
// The retry executor resolves transient failures before the stream starts;
// once a successful status has been received, mid-stream failures are fatal
// and surface through the iterator. Abandoning the iteration closes the
// underlying connection.
func (provider *OpenAIProvider) StreamMessage(ctx context.Context, request ai.ChatRequest) (*ai.ChatStream, error) {
	if provider.apiKey == "" {
		return nil, fmt.Errorf("API key is not set")
	}

	chatRequest := requestToChatCompletion(request)

	// Enable streaming with usage reporting
	chatRequest.Stream = utils.Ptr(true)
	chatRequest.StreamOptions = &streamOptions{IncludeUsage: true}

	// Send the streaming request; the body is left open for SSE reading
	streamURL := provider.baseURL + chatCompletionsEndpoint
	httpResponse, err := utils.DoPostStream(ctx, provider.client, streamURL, provider.apiKey, chatRequest, provider.retryConfig(ctx))
	if err != nil {
		return nil, err
	}

	decoder := utils.NewSSEDecoder(httpResponse.Body)
	interpreter := newDeltaInterpreter()

	iteratorFunc := func(yield func(ai.StreamEvent, error) bool) {
		// Ensure the response body is closed when the iterator is done
		defer utils.CloseWithLog(httpResponse.Body)

		for {
			// Check for context cancellation
			if ctx.Err() != nil {
				yield(ai.StreamEvent{}, ctx.Err())
				return
			}

			payload, sseErr := decoder.Next()
			if sseErr == io.EOF {
				// Stream finished; emit the terminal event if one is due.
				if event, pending := interpreter.endEvent(); pending {
					yield(event, nil)
				}
				return
			}
			if sseErr != nil {
				yield(ai.StreamEvent{}, &ai.DecodeError{Err: sseErr})
				return
			}

			chunk, parseErr := unmarshalStreamChunk(payload)
			if parseErr != nil {
				yield(ai.StreamEvent{}, &ai.DecodeError{Err: parseErr})
				return
			}

			events, interpretErr := interpreter.interpret(chunk)
			for _, event := range events {
				if !yield(event, nil) {
					return // Caller stopped iterating
				}
			}
			if interpretErr != nil {
				yield(ai.StreamEvent{}, interpretErr)
				return
			}
		}
	}

	return ai.NewChatStream(iteratorFunc), nil
}

// toolCallAccumulator reconstructs one logical tool call from its indexed
// fragments. The id and name each announce the call at most once; the
// argument buffer only ever grows.
type toolCallAccumulator struct {
	id            string
	name          string
	idAnnounced   bool
	nameAnnounced bool
	arguments     strings.Builder
}

// deltaInterpreter turns decoded streaming chunks into the public event
// sequence. Its state is owned by exactly one streaming exchange and is never
// shared across concurrent calls.
type deltaInterpreter struct {
	calls        map[int]*toolCallAccumulator
	order        []int // tool call indices in first-seen order
	ended        bool  // terminal reason observed; the done event is pending
	finishReason string
}

func newDeltaInterpreter() *deltaInterpreter {
	return &deltaInterpreter{calls: map[int]*toolCallAccumulator{}}
}

// interpret converts one chunk into zero or more public events. Events
// already produced remain valid even when an error is returned alongside
// them: the caller yields the events first, then the fatal error.
//
// Only the first choice (index 0) is considered; the usage chunk arrives with
// empty choices after the terminal reason and is the only payload processed
// once the interpreter has ended.
func (interpreter *deltaInterpreter) interpret(chunk *chatCompletionStreamChunk) ([]ai.StreamEvent, error) {
	var events []ai.StreamEvent

	if chunk.Usage != nil {
		events = append(events, ai.StreamEvent{
			Type: ai.StreamEventUsage,
			Usage: &ai.Usage{
				PromptTokens:     chunk.Usage.PromptTokens,
				CompletionTokens: chunk.Usage.CompletionTokens,
				TotalTokens:      chunk.Usage.TotalTokens,
			},
		})
	}

	if interpreter.ended {
		return events, nil
	}

	for _, choice := range chunk.Choices {
		if choice.Index != 0 {
			continue // single-reply semantics
		}
		delta := choice.Delta

		// Content delta
		if delta.Content != nil && *delta.Content != "" {
			events = append(events, ai.StreamEvent{
				Type:    ai.StreamEventContent,
				Content: *delta.Content,
			})
		}

		// Tool call fragments, each addressed by its index
		for _, part := range delta.ToolCalls {
			events = append(events, interpreter.interpretToolCallPart(part)...)
		}

		// Terminal reason
		if choice.FinishReason != nil && *choice.FinishReason != "" {
			finishEvents, err := interpreter.finish(*choice.FinishReason)
			events = append(events, finishEvents...)
			if err != nil {
				return events, err
			}
		}
	}

	return events, nil
}

// interpretToolCallPart folds one fragment into the accumulator for its
// index. A start event fires when the id is first observed and, separately,
// when the name is first observed without a preceding named start; a fragment
// carrying both id and name for a fresh index produces a single start.
func (interpreter *deltaInterpreter) interpretToolCallPart(part streamToolCallPart) []ai.StreamEvent {
	accumulator := interpreter.calls[part.Index]
	if accumulator == nil {
		accumulator = &toolCallAccumulator{}
		interpreter.calls[part.Index] = accumulator
		interpreter.order = append(interpreter.order, part.Index)
	}

	var events []ai.StreamEvent

	idFirst := part.ID != "" && !accumulator.idAnnounced
	if part.ID != "" {
		accumulator.id = part.ID
	}
	nameFirst := part.Function.Name != "" && !accumulator.nameAnnounced
	if part.Function.Name != "" {
		accumulator.name = part.Function.Name
	}

	if idFirst {
		accumulator.idAnnounced = true
		if nameFirst {
			accumulator.nameAnnounced = true
		}
		events = append(events, ai.StreamEvent{
			Type:     ai.StreamEventToolCallStart,
			ToolCall: &ai.ToolCallEvent{Index: part.Index, ID: accumulator.id, Name: accumulator.name},
		})
	} else if nameFirst {
		accumulator.nameAnnounced = true
		events = append(events, ai.StreamEvent{
			Type:     ai.StreamEventToolCallStart,
			ToolCall: &ai.ToolCallEvent{Index: part.Index, ID: accumulator.id, Name: accumulator.name},
		})
	}

	if fragment := part.Function.Arguments; fragment != "" {
		accumulator.arguments.WriteString(fragment)
		events = append(events, ai.StreamEvent{
			Type:     ai.StreamEventToolCallDelta,
			ToolCall: &ai.ToolCallEvent{Index: part.Index, ArgumentsDelta: fragment},
		})
	}

	return events
}

// finish handles the terminal reason. For tool_calls every accumulated call
// is completed in first-seen order, with a malformed argument buffer being a
// fatal error. For stop/length/content_filter any open accumulators are
// dropped without completion events. The done event itself is deferred to
// endEvent so a late usage chunk can still precede it.
func (interpreter *deltaInterpreter) finish(reason string) ([]ai.StreamEvent, error) {
	if interpreter.ended {
		return nil, nil
	}
	interpreter.ended = true
	interpreter.finishReason = reason

	if reason != ai.FinishReasonToolCalls {
		interpreter.calls = map[int]*toolCallAccumulator{}
		interpreter.order = nil
		return nil, nil
	}

	var events []ai.StreamEvent
	for _, index := range interpreter.order {
		accumulator := interpreter.calls[index]
		arguments := accumulator.arguments.String()

		var parsed json.RawMessage
		if err := json.Unmarshal([]byte(arguments), &parsed); err != nil {
			return events, &ai.ArgumentParseError{
				Index:     index,
				Name:      accumulator.name,
				Arguments: arguments,
				Err:       err,
			}
		}

		id := accumulator.id
		if id == "" {
			id = fmt.Sprintf("call_%d", index)
		}
		name := accumulator.name
		if name == "" {
			name = "unknown_function"
		}

		events = append(events, ai.StreamEvent{
			Type:     ai.StreamEventToolCallDone,
			ToolCall: &ai.ToolCallEvent{Index: index, ID: id, Name: name, Arguments: parsed},
		})
		delete(interpreter.calls, index)
	}
	interpreter.order = nil

	return events, nil
}

// endEvent returns the pending done event once the frame stream has
// terminated. It reports false when no terminal reason was ever observed
// (the provider closed the stream early); the sequence then simply ends.
func (interpreter *deltaInterpreter) endEvent() (ai.StreamEvent, bool) {
	if !interpreter.ended {
		return ai.StreamEvent{}, false
	}
	interpreter.ended = false // at most one done event
	return ai.StreamEvent{Type: ai.StreamEventDone, FinishReason: interpreter.finishReason}, true
}
