// Package utils provides the shared transport core used by the provider
// implementations: a retrying HTTP request executor with exponential backoff
// and rate-limit awareness, an incremental Server-Sent-Events frame decoder,
// and small generic helpers.
//
// Key entry points: [DoPostSync] for synchronous JSON round-trips,
// [DoPostStream] together with [SSEDecoder] for streaming consumption, and
// [DoPostRetry] underneath both for the retry/backoff loop.
package utils
