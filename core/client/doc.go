// Package client provides a conversation-level client on top of an
// [ai.Provider]. It keeps message history, advertises registered tools to the
// model, executes tool calls and feeds their results back until the model
// produces a final answer, for both synchronous and streaming requests.
package client
