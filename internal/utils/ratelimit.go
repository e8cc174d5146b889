package utils

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/jmaren/llmwire/providers/ai"
	"github.com/jmaren/llmwire/providers/observability"
)

// Provider rate-limit headers (OpenAI naming; echoed by most compatible
// gateways). The reset headers carry opaque strings like "1s" or "6m12s".
const (
	headerRetryAfter        = "Retry-After"
	headerLimitRequests     = "x-ratelimit-limit-requests"
	headerRemainingRequests = "x-ratelimit-remaining-requests"
	headerResetRequests     = "x-ratelimit-reset-requests"
	headerLimitTokens       = "x-ratelimit-limit-tokens"
	headerRemainingTokens   = "x-ratelimit-remaining-tokens"
	headerResetTokens       = "x-ratelimit-reset-tokens"
)

// lowRemainingAbsolute is the remaining-request count under which the
// rate-limit diagnostic switches from debug to warning level.
const lowRemainingAbsolute = 5

// ExtractRateLimit parses the provider rate-limit headers from a response
// header map into a snapshot. It never fails: absent or malformed headers
// simply yield nil/empty fields.
func ExtractRateLimit(header http.Header) ai.RateLimit {
	snapshot := ai.RateLimit{
		LimitRequests:     headerInt(header, headerLimitRequests),
		RemainingRequests: headerInt(header, headerRemainingRequests),
		LimitTokens:       headerInt(header, headerLimitTokens),
		RemainingTokens:   headerInt(header, headerRemainingTokens),
		ResetRequests:     strings.TrimSpace(header.Get(headerResetRequests)),
		ResetTokens:       strings.TrimSpace(header.Get(headerResetTokens)),
	}

	// Retry-After as a whole-second count (RFC 9110 also allows HTTP dates,
	// which providers do not send here).
	if seconds := headerInt(header, headerRetryAfter); seconds != nil && *seconds >= 0 {
		retryAfter := time.Duration(*seconds) * time.Second
		snapshot.RetryAfter = &retryAfter
	}

	return snapshot
}

// LogRateLimit emits a diagnostic about the remaining rate-limit headroom:
// warning level when fewer than lowRemainingAbsolute requests remain or
// headroom drops below 5% of either limit, debug level otherwise. Purely
// observational; never affects control flow or timing.
func LogRateLimit(ctx context.Context, logger observability.Logger, statusCode int, snapshot ai.RateLimit) {
	if logger == nil {
		return
	}

	attrs := []observability.Attribute{observability.Int("http.status_code", statusCode)}
	if snapshot.RemainingRequests != nil {
		attrs = append(attrs, observability.Int("ratelimit.remaining_requests", *snapshot.RemainingRequests))
	}
	if snapshot.LimitRequests != nil {
		attrs = append(attrs, observability.Int("ratelimit.limit_requests", *snapshot.LimitRequests))
	}
	if snapshot.RemainingTokens != nil {
		attrs = append(attrs, observability.Int("ratelimit.remaining_tokens", *snapshot.RemainingTokens))
	}
	if snapshot.LimitTokens != nil {
		attrs = append(attrs, observability.Int("ratelimit.limit_tokens", *snapshot.LimitTokens))
	}
	if snapshot.ResetRequests != "" {
		attrs = append(attrs, observability.String("ratelimit.reset_requests", snapshot.ResetRequests))
	}
	if snapshot.ResetTokens != "" {
		attrs = append(attrs, observability.String("ratelimit.reset_tokens", snapshot.ResetTokens))
	}

	if lowHeadroom(snapshot.RemainingRequests, snapshot.LimitRequests) ||
		lowHeadroom(snapshot.RemainingTokens, snapshot.LimitTokens) {
		logger.Warn(ctx, "provider rate limit headroom is low", attrs...)
		return
	}
	logger.Debug(ctx, "provider rate limit status", attrs...)
}

func lowHeadroom(remaining, limit *int) bool {
	if remaining == nil {
		return false
	}
	if *remaining <= lowRemainingAbsolute {
		return true
	}
	if limit != nil && *limit > 0 && *remaining*20 < *limit {
		return true
	}
	return false
}

func headerInt(header http.Header, key string) *int {
	value := strings.TrimSpace(header.Get(key))
	if value == "" {
		return nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return nil
	}
	return &parsed
}
