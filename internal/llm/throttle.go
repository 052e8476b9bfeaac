package llm

import (
	"context"

	"golang.org/x/time/rate"
)

// ThrottledGenerator paces calls to an underlying generator so that a run
// with several concurrent agents stays under a provider's request-per-second
// limit. It blocks at the limiter, so the wait is cancellable via ctx.
type ThrottledGenerator struct {
	inner   Generator
	limiter *rate.Limiter
}

// Throttle wraps gen with a request-per-second pacing limit. A non-positive
// rps returns gen unchanged.
func Throttle(gen Generator, rps float64) Generator {
	if rps <= 0 {
		return gen
	}
	return &ThrottledGenerator{
		inner:   gen,
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
	}
}

// Name returns the underlying provider name.
func (g *ThrottledGenerator) Name() string { return g.inner.Name() }

// Generate waits for a limiter token, then delegates.
func (g *ThrottledGenerator) Generate(ctx context.Context, req Request) (string, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return "", err
	}
	return g.inner.Generate(ctx, req)
}
