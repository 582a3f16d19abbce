package ai

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// ThrottledGenerator paces calls to the upstream generator.
type ThrottledGenerator struct {
	next    Generator
	limiter *rate.Limiter
}

// NewThrottledGenerator allows rps calls per second with the given burst.
// A non-positive rps disables pacing.
func NewThrottledGenerator(next Generator, rps float64, burst int) *ThrottledGenerator {
	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}
	if burst <= 0 {
		burst = 1
	}
	return &ThrottledGenerator{
		next:    next,
		limiter: rate.NewLimiter(limit, burst),
	}
}

func (t *ThrottledGenerator) GenerateContent(ctx context.Context, system, message string) (string, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("waiting for rate limiter: %w", err)
	}
	return t.next.GenerateContent(ctx, system, message)
}

func (t *ThrottledGenerator) Model() string { return t.next.Model() }
