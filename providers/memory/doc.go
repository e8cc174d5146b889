// Package memory defines the Provider interface for conversation history
// management. Implementations store, retrieve and clear [ai.Message] values
// across a chat session. Read methods return errors so database-backed
// implementations can surface failures instead of silently swallowing them.
// The bundled reference implementation lives in the sibling inmemory package.
package memory
