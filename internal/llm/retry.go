package llm

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"
)

// RetryProvider is a decorator that retries transient errors with
// exponential backoff and jitter.
type RetryProvider struct {
	inner  Provider
	config RetryConfig
	logger *zap.Logger

	// sleep waits between attempts. Tests replace it.
	sleep func(ctx context.Context, d time.Duration) error
}

// WithRetry wraps a Provider with retry logic. A nil logger discards the
// per-retry diagnostics.
func WithRetry(p Provider, cfg RetryConfig, logger *zap.Logger) Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RetryProvider{inner: p, config: cfg, logger: logger, sleep: sleepContext}
}

// Generate makes up to MaxAttempts calls. At least one call is always made.
func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	attempts := max(r.config.MaxAttempts, 1)
	invalidSeen := false

	var err error
	for attempt := range attempts {
		var resp *Response
		resp, err = r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}

		reason, retry := retryReason(err, &invalidSeen)
		if !retry || attempt == attempts-1 {
			break
		}

		wait := r.backoff(attempt, err)
		r.logger.Info("llm.retry",
			zap.String("run_id", RunIDFrom(ctx)),
			zap.String("purpose", PurposeFrom(ctx)),
			zap.Int("attempt", attempt+1),
			zap.String("reason", reason),
			zap.Duration("wait", wait),
			zap.Error(err),
		)
		if sleepErr := r.sleep(ctx, wait); sleepErr != nil {
			return nil, sleepErr
		}
	}
	return nil, err
}

func (r *RetryProvider) ModelID() string {
	return r.inner.ModelID()
}

// retryReason names the failure class and reports whether another attempt
// can help. A malformed response is retried once per call.
func retryReason(err error, invalidSeen *bool) (string, bool) {
	var (
		maxTok  *ErrMaxTokensExceeded
		badReq  *ErrBadRequest
		invalid *ErrInvalidResponse
		limited *ErrRateLimit
		down    *ErrProviderUnavailable
	)
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled", false
	case errors.As(err, &maxTok):
		return "max_tokens", false
	case errors.As(err, &badReq):
		return "bad_request", false
	case errors.As(err, &invalid):
		if *invalidSeen {
			return "invalid_response", false
		}
		*invalidSeen = true
		return "invalid_response", true
	case errors.As(err, &limited):
		return "rate_limit", true
	case errors.As(err, &down):
		return "unavailable", true
	}
	return "transient", true
}

// backoff returns the wait before the next attempt: the server's
// Retry-After when given, else InitialWait * Multiplier^attempt capped at
// MaxWait, with ±20% jitter.
func (r *RetryProvider) backoff(attempt int, err error) time.Duration {
	var limited *ErrRateLimit
	if errors.As(err, &limited) && limited.RetryAfter > 0 {
		return limited.RetryAfter
	}

	wait := float64(r.config.InitialWait) * math.Pow(max(r.config.Multiplier, 1), float64(attempt))
	if r.config.MaxWait > 0 {
		wait = min(wait, float64(r.config.MaxWait))
	}
	return time.Duration(wait * (0.8 + 0.4*rand.Float64()))
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
