// Package ai defines the provider-agnostic contract between callers and LLM
// backends: request/response value types, the typed error taxonomy surfaced
// by the transport layer, and the streaming event model.
//
// Concrete backends live in subpackages (e.g. providers/ai/openai) and
// implement [Provider] and optionally [StreamProvider]. Streaming callers
// consume a [ChatStream], a single-pass, pull-based sequence of [StreamEvent]
// values that ends either with a done event or a terminal error.
package ai
