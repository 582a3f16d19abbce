package observability

import (
	"context"
	"errors"
	"strings"
)

const (
	ErrorTimeout   = "timeout"
	ErrorCanceled  = "canceled"
	ErrorParsing   = "parsing"
	ErrorRateLimit = "rate_limit"
	ErrorProvider  = "provider"
	ErrorUnknown   = "unknown"
)

// Classify maps an LLM call failure to a coarse error kind.
func Classify(err error) string {
	if err == nil {
		return ErrorUnknown
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorTimeout
	}
	if errors.Is(err, context.Canceled) {
		return ErrorCanceled
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "parse model response"),
		strings.Contains(msg, "decode model response"),
		strings.Contains(msg, "unexpected model response"),
		strings.Contains(msg, "invalid character"):
		return ErrorParsing
	case strings.Contains(msg, "rate limiter"),
		strings.Contains(msg, "resource_exhausted"),
		strings.Contains(msg, "429"):
		return ErrorRateLimit
	case strings.Contains(msg, "generate content"),
		strings.Contains(msg, "chat completion"):
		return ErrorProvider
	default:
		return ErrorUnknown
	}
}
