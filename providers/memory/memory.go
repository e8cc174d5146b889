package memory

import (
	"context"

	"github.com/jmaren/llmwire/providers/ai"
)

// Provider stores the message history of one conversation.
type Provider interface {
	// AppendMessage stores message at the end of the history. A nil message
	// is a no-op.
	AppendMessage(ctx context.Context, message *ai.Message)

	// AllMessages returns all stored messages in append order.
	AllMessages(ctx context.Context) ([]ai.Message, error)

	// Count returns the number of stored messages.
	Count(ctx context.Context) (int, error)

	// Clear removes all stored messages.
	Clear(ctx context.Context) error
}
