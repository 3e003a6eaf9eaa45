package climate

import (
	"context"
	"time"

	"solar-estimator/internal/model"

	"golang.org/x/sync/singleflight"
)

// WithSingleflight collapses concurrent lookups of the same place into one
// call to next. Each waiter honors its own ctx. The shared call is detached
// from every waiter's cancellation and bounded by timeout instead, so one
// caller giving up does not fail the others. timeout <= 0 leaves it unbounded.
func WithSingleflight(timeout time.Duration) Middleware {
	var group singleflight.Group
	return func(next Provider) Provider {
		return ProviderFunc(func(ctx context.Context, place string) (*model.Climate, error) {
			ch := group.DoChan(CacheKey(place), func() (interface{}, error) {
				callCtx := context.WithoutCancel(ctx)
				if timeout > 0 {
					var cancel context.CancelFunc
					callCtx, cancel = context.WithTimeout(callCtx, timeout)
					defer cancel()
				}
				return next.FetchClimate(callCtx, place)
			})

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case r := <-ch:
				if r.Err != nil {
					return nil, r.Err
				}
				out := *r.Val.(*model.Climate)
				out.Place = place
				return &out, nil
			}
		})
	}
}

// sharedCallTimeout bounds one collapsed lookup across every retry attempt.
func sharedCallTimeout(cfg PipelineConfig) time.Duration {
	if cfg.HTTPTimeout <= 0 {
		return 0
	}
	attempts := cfg.Retry.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	r := normalizeRetryConfig(cfg.Retry)
	return time.Duration(attempts) * (2*cfg.HTTPTimeout + r.MaxDelay)
}
