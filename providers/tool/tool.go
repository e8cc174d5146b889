package tool

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jmaren/llmwire/providers/ai"
)

// CallableTool is the minimal contract a tool must satisfy to be exposed to a
// language model. ToolInfo describes the tool so the provider can advertise
// it; Call executes it with the raw JSON arguments produced by the model.
type CallableTool interface {
	// ToolInfo returns the name, description and parameter schema advertised
	// to the model.
	ToolInfo() ai.ToolDescription

	// Call executes the tool. inputJSON is the arguments object exactly as
	// produced by the model; the returned string is sent back to the model as
	// the tool result.
	Call(ctx context.Context, inputJSON string) (string, error)
}

// Tool is a typed implementation of [CallableTool]. Input is decoded from the
// model's JSON arguments before the function runs, and Output is encoded back
// to JSON for the model.
type Tool[Input, Output any] struct {
	name        string
	description string
	parameters  map[string]any
	required    []string
	fn          func(ctx context.Context, input Input) (Output, error)
}

// Option configures a [Tool] at construction time.
type Option func(*toolOptions)

type toolOptions struct {
	description string
	parameters  map[string]any
	required    []string
}

// WithDescription sets the human-readable description advertised to the model.
func WithDescription(description string) Option {
	return func(o *toolOptions) {
		o.description = description
	}
}

// WithParameters sets the JSON Schema properties of the tool's arguments
// object, e.g. {"url": {"type": "string", "description": "..."}}.
func WithParameters(parameters map[string]any, required ...string) Option {
	return func(o *toolOptions) {
		o.parameters = parameters
		o.required = required
	}
}

// NewTool wraps a typed function as a [Tool]. The name must be unique within
// a [Catalog].
func NewTool[Input, Output any](name string, fn func(ctx context.Context, input Input) (Output, error), opts ...Option) *Tool[Input, Output] {
	options := toolOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	return &Tool[Input, Output]{
		name:        name,
		description: options.description,
		parameters:  options.parameters,
		required:    options.required,
		fn:          fn,
	}
}

// ToolInfo implements [CallableTool]. The parameter properties and required
// list are composed into the full JSON Schema object expected by providers.
func (t *Tool[Input, Output]) ToolInfo() ai.ToolDescription {
	schema := map[string]any{"type": "object"}
	if t.parameters != nil {
		schema["properties"] = t.parameters
	}
	if len(t.required) > 0 {
		schema["required"] = t.required
	}
	return ai.ToolDescription{
		Name:        t.name,
		Description: t.description,
		Parameters:  schema,
	}
}

// Call implements [CallableTool]. It decodes inputJSON into Input, invokes
// the wrapped function, and encodes the result as JSON. An empty inputJSON is
// treated as an empty object so tools without arguments still work.
func (t *Tool[Input, Output]) Call(ctx context.Context, inputJSON string) (string, error) {
	var input Input
	if inputJSON == "" {
		inputJSON = "{}"
	}
	if err := json.Unmarshal([]byte(inputJSON), &input); err != nil {
		return "", fmt.Errorf("tool %q: invalid input: %w", t.name, err)
	}

	output, err := t.fn(ctx, input)
	if err != nil {
		return "", fmt.Errorf("tool %q: %w", t.name, err)
	}

	encoded, err := json.Marshal(output)
	if err != nil {
		return "", fmt.Errorf("tool %q: encoding output: %w", t.name, err)
	}
	return string(encoded), nil
}
