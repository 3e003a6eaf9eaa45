package climate

import (
	"context"
	"errors"

	"solar-estimator/internal/model"
)

// ErrNotFound is returned when a place cannot be geocoded.
var ErrNotFound = errors.New("place not found")

// Provider returns the monthly climatology of a free-text place such as
// "Fortaleza, CE".
type Provider interface {
	FetchClimate(ctx context.Context, place string) (*model.Climate, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context, place string) (*model.Climate, error)

func (f ProviderFunc) FetchClimate(ctx context.Context, place string) (*model.Climate, error) {
	return f(ctx, place)
}

// Static serves a fixed climate for every place. Used for offline input.
type Static struct {
	Climate model.Climate
}

func (s Static) FetchClimate(ctx context.Context, place string) (*model.Climate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c := s.Climate
	if c.Place == "" {
		c.Place = place
	}
	return &c, nil
}
