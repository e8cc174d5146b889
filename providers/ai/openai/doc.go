// Package openai implements the ai.Provider and ai.StreamProvider interfaces
// against the OpenAI chat completions endpoint (and any API-compatible
// gateway reachable through a custom base URL).
//
// The synchronous path posts once through the retrying executor and maps the
// completed response. The streaming path decodes the SSE response body
// incrementally and reconstructs tool calls from indexed fragments, emitting
// the typed event sequence described in the ai package.
package openai
