package utils

import "time"

// maxBackoffExponent caps the doubling applied to the base delay. High
// attempt counts would otherwise overflow the duration arithmetic and sleep
// for absurd lengths; the schedule still grows aggressively for the first
// several retries.
const maxBackoffExponent = 10

// Backoff maps a retry attempt number to a wait duration. The zero value is
// usable and falls back to the package defaults.
type Backoff struct {
	// Base is the delay before the first retry. Default: 1s.
	Base time.Duration

	// Max caps the computed delay. Default: 30s.
	Max time.Duration
}

// DefaultBackoff returns the backoff schedule used when callers do not
// configure their own.
func DefaultBackoff() Backoff {
	return Backoff{
		Base: time.Second,
		Max:  30 * time.Second,
	}
}

// Delay returns the wait before retrying the given 0-based attempt:
// min(Base * 2^min(attempt, 10), Max). Pure and total; negative attempts are
// treated as attempt 0.
func (b Backoff) Delay(attempt int) time.Duration {
	base := b.Base
	if base <= 0 {
		base = time.Second
	}
	max := b.Max
	if max <= 0 {
		max = 30 * time.Second
	}

	if attempt < 0 {
		attempt = 0
	}
	if attempt > maxBackoffExponent {
		attempt = maxBackoffExponent
	}

	delay := base << uint(attempt)
	if delay > max {
		delay = max
	}
	return delay
}
