package collector

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Throttler is the pacing policy between API calls. Wait applies the
// steady per-item delay; Pause applies a fixed cooldown such as the
// rate-limit backoff or the inter-language pause.
type Throttler interface {
	Wait(ctx context.Context) error
	Pause(ctx context.Context, d time.Duration) error
}

// FixedThrottle paces steady traffic with a token-bucket limiter and
// serves cooldowns as plain context-aware sleeps.
type FixedThrottle struct {
	limiter *rate.Limiter
}

// NewFixedThrottle creates a throttle allowing one call per itemDelay.
// A non-positive delay disables the steady throttle.
func NewFixedThrottle(itemDelay time.Duration) *FixedThrottle {
	if itemDelay <= 0 {
		return &FixedThrottle{limiter: rate.NewLimiter(rate.Inf, 1)}
	}
	return &FixedThrottle{limiter: rate.NewLimiter(rate.Every(itemDelay), 1)}
}

// Wait blocks until the limiter grants the next call or ctx is done.
func (t *FixedThrottle) Wait(ctx context.Context) error {
	return t.limiter.Wait(ctx)
}

// Pause blocks for d or until ctx is done.
func (t *FixedThrottle) Pause(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
