package openai

import (
	"github.com/jmaren/llmwire/internal/utils"
	"github.com/jmaren/llmwire/providers/ai"
)

/*
	CHAT COMPLETIONS API - INPUT
*/

// chatCompletionRequest represents the /v1/chat/completions request format
type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature *float64      `json:"temperature,omitempty"`
	TopP        *float64      `json:"top_p,omitempty"`
	MaxTokens   *int          `json:"max_tokens,omitempty"`
	Stream      *bool         `json:"stream,omitempty"`

	Tools []chatTool `json:"tools,omitempty"`

	StreamOptions *streamOptions `json:"stream_options,omitempty"`
}

type chatMessage struct {
	Role       string         `json:"role"`              // system, user, assistant, tool
	Content    string         `json:"content,omitempty"` // Plain text content
	Name       string         `json:"name,omitempty"`
	ToolCallID string         `json:"tool_call_id,omitempty"` // For role=tool
	ToolCalls  []chatToolCall `json:"tool_calls,omitempty"`   // For role=assistant
}

type chatTool struct {
	Type     string       `json:"type"` // "function"
	Function chatFunction `json:"function"`
}

type chatFunction struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Parameters  map[string]any `json:"parameters,omitempty"`
}

type chatToolCall struct {
	ID       string `json:"id"`
	Type     string `json:"type"` // "function"
	Function struct {
		Name      string `json:"name"`
		Arguments string `json:"arguments"` // JSON string
	} `json:"function"`
}

// streamOptions configures streaming behavior in the request.
type streamOptions struct {
	IncludeUsage bool `json:"include_usage"`
}

/*
	CHAT COMPLETIONS API - OUTPUT
*/

type chatCompletionResponse struct {
	ID      string       `json:"id"`
	Object  string       `json:"object"` // "chat.completion"
	Created int64        `json:"created"`
	Model   string       `json:"model"`
	Choices []chatChoice `json:"choices"`
	Usage   *chatUsage   `json:"usage,omitempty"`
}

type chatChoice struct {
	Index        int                 `json:"index"`
	Message      chatResponseMessage `json:"message"`
	FinishReason string              `json:"finish_reason"`
}

type chatResponseMessage struct {
	Role      string         `json:"role"`
	Content   *string        `json:"content"` // Nullable when the reply is a tool call
	ToolCalls []chatToolCall `json:"tool_calls,omitempty"`
}

type chatUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

/*
	CONVERSION
*/

// requestToChatCompletion maps the provider-agnostic request onto the chat
// completions wire format. The system prompt, when set, becomes the leading
// system message.
func requestToChatCompletion(request ai.ChatRequest) chatCompletionRequest {
	chatRequest := chatCompletionRequest{
		Model: request.Model,
	}

	if request.SystemPrompt != "" {
		chatRequest.Messages = append(chatRequest.Messages, chatMessage{
			Role:    string(ai.RoleSystem),
			Content: request.SystemPrompt,
		})
	}

	for _, message := range request.Messages {
		wireMessage := chatMessage{
			Role:       string(message.Role),
			Content:    message.Content,
			Name:       message.Name,
			ToolCallID: message.ToolCallID,
		}
		for _, toolCall := range message.ToolCalls {
			wireCall := chatToolCall{ID: toolCall.ID, Type: "function"}
			wireCall.Function.Name = toolCall.Function.Name
			wireCall.Function.Arguments = toolCall.Function.Arguments
			wireMessage.ToolCalls = append(wireMessage.ToolCalls, wireCall)
		}
		chatRequest.Messages = append(chatRequest.Messages, wireMessage)
	}

	for _, tool := range request.Tools {
		chatRequest.Tools = append(chatRequest.Tools, chatTool{
			Type: "function",
			Function: chatFunction{
				Name:        tool.Name,
				Description: tool.Description,
				Parameters:  tool.Parameters,
			},
		})
	}

	if config := request.GenerationConfig; config != nil {
		if config.Temperature != 0 {
			chatRequest.Temperature = utils.Ptr(config.Temperature)
		}
		if config.TopP != 0 {
			chatRequest.TopP = utils.Ptr(config.TopP)
		}
		if config.MaxTokens != 0 {
			chatRequest.MaxTokens = utils.Ptr(config.MaxTokens)
		}
	}

	return chatRequest
}

// responseToGeneric maps a completed chat completions response onto the
// provider-agnostic shape. Only the first choice is considered, matching the
// single-reply semantics of the streaming path.
func responseToGeneric(response *chatCompletionResponse) *ai.ChatResponse {
	choice := response.Choices[0]

	generic := &ai.ChatResponse{
		ID:           response.ID,
		Model:        response.Model,
		Created:      response.Created,
		FinishReason: choice.FinishReason,
	}

	if choice.Message.Content != nil {
		generic.Content = *choice.Message.Content
	}

	for _, wireCall := range choice.Message.ToolCalls {
		generic.ToolCalls = append(generic.ToolCalls, ai.ToolCall{
			ID:   wireCall.ID,
			Type: "function",
			Function: ai.ToolCallFunction{
				Name:      wireCall.Function.Name,
				Arguments: wireCall.Function.Arguments,
			},
		})
	}

	if response.Usage != nil {
		generic.Usage = &ai.Usage{
			PromptTokens:     response.Usage.PromptTokens,
			CompletionTokens: response.Usage.CompletionTokens,
			TotalTokens:      response.Usage.TotalTokens,
		}
	}

	return generic
}
