package llm

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"

	"github.com/abhisek/docquiz/internal/logger"
)

// retryProvider retries transient failures with capped exponential backoff.
type retryProvider struct {
	inner Provider
	cfg   RetryConfig
	log   *logger.Logger
}

// WithRetry wraps p so that rate limits, outages and malformed answers are
// retried up to cfg.MaxAttempts times. A malformed answer is retried once.
func WithRetry(p Provider, cfg RetryConfig, log *logger.Logger) Provider {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &retryProvider{inner: p, cfg: cfg, log: logger.OrNop(log)}
}

func (r *retryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	var (
		err              error
		resp             *Response
		retriedMalformed bool
	)
	for attempt := 0; attempt < r.cfg.MaxAttempts; attempt++ {
		resp, err = r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}
		if !retryable(err) {
			return nil, err
		}

		var inv *ErrInvalidResponse
		if errors.As(err, &inv) {
			if retriedMalformed {
				return nil, err
			}
			retriedMalformed = true
		}

		if attempt == r.cfg.MaxAttempts-1 {
			break
		}

		wait := r.wait(attempt, err)
		r.log.Warn("retrying llm request",
			"purpose", PurposeFrom(ctx),
			"attempt", attempt+1,
			"wait", wait,
			"error", err)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
	return nil, err
}

func (r *retryProvider) ModelID() string {
	return r.inner.ModelID()
}

// wait honours a server supplied Retry-After, and otherwise grows
// InitialWait by Multiplier per attempt up to MaxWait with 20% jitter.
func (r *retryProvider) wait(attempt int, err error) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}

	base := float64(r.cfg.InitialWait) * math.Pow(r.cfg.Multiplier, float64(attempt))
	base = math.Min(base, float64(r.cfg.MaxWait))
	jittered := base * (0.8 + 0.4*rand.Float64())
	return time.Duration(math.Max(jittered, 0))
}
