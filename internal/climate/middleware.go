package climate

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"time"

	"solar-estimator/internal/model"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/time/rate"
)

type Middleware func(Provider) Provider

// Chain wraps base so that middlewares[0] is the outermost layer.
func Chain(base Provider, middlewares ...Middleware) Provider {
	p := base
	for i := len(middlewares) - 1; i >= 0; i-- {
		if middlewares[i] == nil {
			continue
		}
		p = middlewares[i](p)
	}
	return p
}

type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// MetricsRecorder observes provider calls and cache lookups.
type MetricsRecorder interface {
	ObserveFetch(duration time.Duration, err error)
	ObserveCacheLookup(layer string, hit bool)
}

type NopMetricsRecorder struct{}

func (NopMetricsRecorder) ObserveFetch(time.Duration, error) {}
func (NopMetricsRecorder) ObserveCacheLookup(string, bool) {}

// WithTimeout bounds each call. A shorter deadline already on ctx wins.
func WithTimeout(timeout time.Duration) Middleware {
	return func(next Provider) Provider {
		return ProviderFunc(func(ctx context.Context, place string) (*model.Climate, error) {
			if timeout <= 0 {
				return next.FetchClimate(ctx, place)
			}
			if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) <= timeout {
				return next.FetchClimate(ctx, place)
			}
			callCtx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()
			return next.FetchClimate(callCtx, place)
		})
	}
}

// WithRetry repeats failed calls with exponential backoff. Only transient
// failures are retried: 429, 5xx, timeouts and transport errors.
func WithRetry(cfg RetryConfig) Middleware {
	cfg = normalizeRetryConfig(cfg)
	return func(next Provider) Provider {
		if cfg.MaxAttempts == 1 {
			return next
		}
		return ProviderFunc(func(ctx context.Context, place string) (*model.Climate, error) {
			op := func() (*model.Climate, error) {
				if err := ctx.Err(); err != nil {
					return nil, backoff.Permanent(err)
				}
				c, err := next.FetchClimate(ctx, place)
				if err != nil && !isRetryable(err) {
					return nil, backoff.Permanent(err)
				}
				return c, err
			}
			return backoff.RetryWithData(op, newBackOff(ctx, cfg))
		})
	}
}

func normalizeRetryConfig(cfg RetryConfig) RetryConfig {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = time.Second
	}
	if cfg.MaxDelay < cfg.BaseDelay {
		cfg.MaxDelay = 4 * cfg.BaseDelay
	}
	return cfg
}

// newBackOff doubles from BaseDelay up to MaxDelay without jitter and stops
// after MaxAttempts calls or when ctx ends.
func newBackOff(ctx context.Context, cfg RetryConfig) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = cfg.BaseDelay
	b.MaxInterval = cfg.MaxDelay
	b.Multiplier = 2
	b.RandomizationFactor = 0
	b.MaxElapsedTime = 0
	b.Reset()
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(cfg.MaxAttempts-1)), ctx)
}

func isRetryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, ErrNotFound) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Retryable()
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var urlErr *url.Error
	return errors.As(err, &urlErr)
}

// WithRateLimit spaces calls to RequestsPerSecond, allowing bursts of Burst.
func WithRateLimit(cfg RateLimitConfig) Middleware {
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 1
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}
	return func(next Provider) Provider {
		limiter := rate.NewLimiter(rate.Limit(rps), burst)
		return ProviderFunc(func(ctx context.Context, place string) (*model.Climate, error) {
			if err := limiter.Wait(ctx); err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return nil, ctxErr
				}
				// The next slot lies past ctx's deadline.
				return nil, fmt.Errorf("%w: %v", context.DeadlineExceeded, err)
			}
			return next.FetchClimate(ctx, place)
		})
	}
}

// WithMetrics reports the duration and outcome of every call.
func WithMetrics(rec MetricsRecorder) Middleware {
	if rec == nil {
		rec = NopMetricsRecorder{}
	}
	return func(next Provider) Provider {
		return ProviderFunc(func(ctx context.Context, place string) (c *model.Climate, err error) {
			start := time.Now()
			defer func() { rec.ObserveFetch(time.Since(start), err) }()
			return next.FetchClimate(ctx, place)
		})
	}
}
