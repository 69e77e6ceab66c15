package llm

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"github.com/rs/zerolog"
)

// RetryProvider retries failed calls with capped exponential backoff.
// Retries are logged on the context logger.
type RetryProvider struct {
	inner Provider
	cfg   RetryConfig
}

// WithRetry wraps p. MaxAttempts below one means a single attempt.
func WithRetry(p Provider, cfg RetryConfig) Provider {
	cfg.MaxAttempts = max(cfg.MaxAttempts, 1)
	return &RetryProvider{inner: p, cfg: cfg}
}

func (r *RetryProvider) ModelID() string {
	return r.inner.ModelID()
}

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	log := zerolog.Ctx(ctx)
	malformed := 0

	for attempt := 1; ; attempt++ {
		resp, err := r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}

		class := classify(err)
		if class == retryOnce {
			malformed++
		}
		if class == retryNever || malformed > 1 || attempt >= r.cfg.MaxAttempts {
			return nil, err
		}

		wait := r.cfg.delay(attempt, err)
		log.Debug().Err(err).Int("attempt", attempt).Dur("wait", wait).Msg("retrying llm request")

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

// retryClass says whether a failure is worth another call.
type retryClass int

const (
	retryNever retryClass = iota
	// retryOnce is for malformed output: the model gets one more try.
	retryOnce
	retryTransient
)

func classify(err error) retryClass {
	var maxTok *ErrMaxTokensExceeded
	var invalid *ErrInvalidResponse
	switch {
	case errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, ErrNotConfigured),
		errors.As(err, &maxTok):
		return retryNever
	case errors.As(err, &invalid):
		return retryOnce
	}
	// Rate limits, outages and network errors.
	return retryTransient
}

// delay is the wait after the given 1-based attempt. A rate limit that
// names its own Retry-After wins over the computed backoff.
func (c RetryConfig) delay(attempt int, err error) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}

	d := float64(c.InitialWait)
	for i := 1; i < attempt; i++ {
		d *= c.Multiplier
	}
	if c.MaxWait > 0 {
		d = min(d, float64(c.MaxWait))
	}

	// ±20% jitter.
	d *= 0.8 + 0.4*rand.Float64()
	return time.Duration(d)
}
