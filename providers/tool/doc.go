// Package tool defines the contract between language models and callable
// functions, plus a thread-safe catalog used by the client to look tools up
// by name during tool-call execution.
package tool
