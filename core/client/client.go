package client

import (
	"context"
	"fmt"

	"github.com/jmaren/llmwire/providers/ai"
	"github.com/jmaren/llmwire/providers/memory"
	"github.com/jmaren/llmwire/providers/memory/inmemory"
	"github.com/jmaren/llmwire/providers/observability"
	"github.com/jmaren/llmwire/providers/tool"
)

// DefaultMaxToolCallIterations bounds how many rounds of tool calls a single
// SendMessage may trigger before giving up.
const DefaultMaxToolCallIterations = 5

// Client keeps a conversation with a provider: message history, registered
// tools and generation settings. History writes are serialized by the memory
// provider; the Client itself assumes one conversation turn at a time.
type Client struct {
	provider              ai.Provider
	model                 string
	systemPrompt          string
	memory                memory.Provider
	catalog               *tool.Catalog
	maxToolCallIterations int
	logger                observability.Logger
	generation            *ai.GenerationConfig
}

// Option configures a [Client] at construction time.
type Option func(*Client)

// WithSystemPrompt sets the system prompt sent with every request. It is not
// stored in the history.
func WithSystemPrompt(prompt string) Option {
	return func(c *Client) {
		c.systemPrompt = prompt
	}
}

// WithModel sets the model identifier sent with each request.
func WithModel(model string) Option {
	return func(c *Client) {
		c.model = model
	}
}

// WithTools registers tools the model may call.
func WithTools(tools ...tool.CallableTool) Option {
	return func(c *Client) {
		c.catalog.AddTools(tools...)
	}
}

// WithMemory replaces the default in-process history store, e.g. with a
// persistent implementation.
func WithMemory(store memory.Provider) Option {
	return func(c *Client) {
		if store != nil {
			c.memory = store
		}
	}
}

// WithMaxToolCallIterations overrides [DefaultMaxToolCallIterations].
func WithMaxToolCallIterations(max int) Option {
	return func(c *Client) {
		if max > 0 {
			c.maxToolCallIterations = max
		}
	}
}

// WithLogger sets the logger attached to every request context.
func WithLogger(logger observability.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithGenerationConfig sets sampling parameters sent with each request.
func WithGenerationConfig(config ai.GenerationConfig) Option {
	return func(c *Client) {
		c.generation = &config
	}
}

// New returns a client backed by provider. History defaults to an in-process
// store.
func New(provider ai.Provider, opts ...Option) (*Client, error) {
	if provider == nil {
		return nil, fmt.Errorf("provider cannot be nil")
	}

	c := &Client{
		provider:              provider,
		memory:                inmemory.New(),
		catalog:               tool.NewCatalog(),
		maxToolCallIterations: DefaultMaxToolCallIterations,
		logger:                observability.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Messages returns the conversation history.
func (c *Client) Messages(ctx context.Context) ([]ai.Message, error) {
	return c.memory.AllMessages(ctx)
}

// SendMessage appends content as a user message, sends the conversation to
// the provider and runs the tool-call loop until the provider signals a stop
// message or the iteration limit is reached. The final response is returned
// and the full exchange, including tool results, is recorded in the history.
func (c *Client) SendMessage(ctx context.Context, content string) (*ai.ChatResponse, error) {
	ctx = observability.ContextWithLogger(ctx, c.logger)
	c.memory.AppendMessage(ctx, &ai.Message{Role: ai.RoleUser, Content: content})

	iterations := 0
	for {
		request, err := c.request(ctx)
		if err != nil {
			return nil, err
		}
		response, err := c.provider.SendMessage(ctx, request)
		if err != nil {
			return nil, err
		}

		c.memory.AppendMessage(ctx, &ai.Message{
			Role:      ai.RoleAssistant,
			Content:   response.Content,
			ToolCalls: response.ToolCalls,
		})

		if c.provider.IsStopMessage(response) {
			return response, nil
		}

		if len(response.ToolCalls) > 0 {
			iterations++
			if iterations > c.maxToolCallIterations {
				return nil, fmt.Errorf("exceeded %d tool call iterations", c.maxToolCallIterations)
			}
			c.executeToolCalls(ctx, response.ToolCalls)
			continue
		}

		return response, nil
	}
}

// executeToolCalls runs each call against the catalog and appends the results
// as tool messages. Failures are reported back to the model as the tool
// result so it can recover instead of aborting the conversation.
func (c *Client) executeToolCalls(ctx context.Context, calls []ai.ToolCall) {
	for _, call := range calls {
		name := call.Function.Name
		c.logger.Debug(ctx, "executing tool call",
			observability.String("tool", name),
			observability.String("id", call.ID),
		)

		var result string
		t, ok := c.catalog.Get(name)
		if !ok {
			result = fmt.Sprintf("error: tool %q is not available", name)
			c.logger.Warn(ctx, "model requested unknown tool", observability.String("tool", name))
		} else {
			output, err := t.Call(ctx, call.Function.Arguments)
			if err != nil {
				result = fmt.Sprintf("error: %v", err)
				c.logger.Warn(ctx, "tool call failed",
					observability.String("tool", name),
					observability.Error(err),
				)
			} else {
				result = output
			}
		}

		c.memory.AppendMessage(ctx, &ai.Message{
			Role:       ai.RoleTool,
			Content:    result,
			ToolCallID: call.ID,
			Name:       name,
		})
	}
}

func (c *Client) request(ctx context.Context) (ai.ChatRequest, error) {
	history, err := c.memory.AllMessages(ctx)
	if err != nil {
		return ai.ChatRequest{}, fmt.Errorf("reading history: %w", err)
	}
	req := ai.ChatRequest{
		Model:        c.model,
		SystemPrompt: c.systemPrompt,
		Messages:     history,
		Tools:        c.catalog.Descriptions(),
	}
	if c.generation != nil {
		req.GenerationConfig = c.generation
	}
	return req, nil
}
