// Package inmemory provides a concurrency-safe, slice-backed implementation
// of the [memory.Provider] interface for single-process use, where
// persistence across restarts is not required.
package inmemory

import (
	"context"
	"sync"

	"github.com/jmaren/llmwire/providers/ai"
	"github.com/jmaren/llmwire/providers/memory"
	"github.com/jmaren/llmwire/providers/observability"
)

// ArrayMemory is a simple, concurrency-safe in-memory message store guarded
// by an RWMutex, efficient for read-heavy workloads.
type ArrayMemory struct {
	mu       sync.RWMutex
	messages []ai.Message
}

// New returns a new, empty [ArrayMemory] ready for immediate use.
func New() *ArrayMemory {
	return &ArrayMemory{messages: []ai.Message{}}
}

var _ memory.Provider = (*ArrayMemory)(nil)

// AppendMessage stores a copy of message at the end of the history. A logger
// attached to ctx receives a trace record with the role and running total.
func (m *ArrayMemory) AppendMessage(ctx context.Context, message *ai.Message) {
	if message == nil {
		return
	}

	m.mu.Lock()
	m.messages = append(m.messages, *message)
	total := len(m.messages)
	m.mu.Unlock()

	if logger := observability.LoggerFromContext(ctx); logger != nil {
		logger.Trace(ctx, "message appended to history",
			observability.String("message.role", string(message.Role)),
			observability.Int("history.total_messages", total),
		)
	}
}

// AllMessages returns a copy of all messages to avoid external mutation of
// internal state. The returned error is always nil.
func (m *ArrayMemory) AllMessages(_ context.Context) ([]ai.Message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]ai.Message, len(m.messages))
	copy(out, m.messages)
	return out, nil
}

// Count returns the number of messages stored. The returned error is always nil.
func (m *ArrayMemory) Count(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.messages), nil
}

// Clear removes all stored messages. The returned error is always nil.
func (m *ArrayMemory) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = m.messages[:0]
	return nil
}
