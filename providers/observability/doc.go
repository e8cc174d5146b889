// Package observability defines the logging capability injected into the
// transport layer. It is deliberately an interface plus plain value types, so
// libraries can emit diagnostics without binding to a concrete logging
// backend and tests can assert on emitted records.
//
// The slogobs subpackage adapts the standard library's log/slog. A [Nop]
// logger is available for callers who want no output at all.
package observability
