package climate

import (
	"context"
	"fmt"
	"time"

	"solar-estimator/internal/model"
)

// Geocoder resolves a place to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, place string) (*Location, error)
}

// ClimatologySource returns monthly series for a coordinate.
type ClimatologySource interface {
	Climatology(ctx context.Context, lat, lon float64) (irr, temp model.MonthlySeries, err error)
}

// Service geocodes a place and then fetches its climatology.
type Service struct {
	Geocoder    Geocoder
	Climatology ClimatologySource

	now func() time.Time
}

func NewService(g Geocoder, c ClimatologySource) *Service {
	return &Service{Geocoder: g, Climatology: c, now: time.Now}
}

func (s *Service) FetchClimate(ctx context.Context, place string) (*model.Climate, error) {
	loc, err := s.Geocoder.Geocode(ctx, place)
	if err != nil {
		return nil, err
	}
	irr, temp, err := s.Climatology.Climatology(ctx, loc.Latitude, loc.Longitude)
	if err != nil {
		return nil, fmt.Errorf("climatology for %q: %w", place, err)
	}

	now := time.Now
	if s.now != nil {
		now = s.now
	}
	return &model.Climate{
		Place:       place,
		Address:     loc.Address,
		Latitude:    loc.Latitude,
		Longitude:   loc.Longitude,
		FetchedAt:   now().UTC(),
		Irradiance:  irr,
		Temperature: temp,
	}, nil
}
