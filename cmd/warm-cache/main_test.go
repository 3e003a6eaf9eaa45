package main

import (
	"context"
	"testing"

	"solar-estimator/internal/climate"
	"solar-estimator/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestMergePlaces(t *testing.T) {
	in := []climate.Place{{Name: "Natal, RN", Latitude: -5.8}}
	out := mergePlaces(in, []string{"Natal, RN", "", "Recife, PE", "Recife, PE"})

	assert.Equal(t, []climate.Place{{Name: "Natal, RN", Latitude: -5.8}, {Name: "Recife, PE"}}, out)
	assert.Len(t, in, 1)
}

func TestWarm_RecordsGeocodedDetails(t *testing.T) {
	provider := climate.ProviderFunc(func(ctx context.Context, place string) (*model.Climate, error) {
		if place == "Atlantis" {
			return nil, climate.ErrNotFound
		}
		return &model.Climate{
			Place:       place,
			Address:     place + ", Brasil",
			Latitude:    -8.05,
			Longitude:   -34.9,
			Irradiance:  model.FlatSeries(5.4),
			Temperature: model.FlatSeries(26),
		}, nil
	})

	places := []climate.Place{{Name: "Recife, PE"}, {Name: "Atlantis"}}
	n := warm(context.Background(), provider, places)

	assert.Equal(t, 1, n)
	assert.Equal(t, "Recife, PE, Brasil", places[0].Address)
	assert.Equal(t, -8.05, places[0].Latitude)
	assert.Equal(t, climate.Place{Name: "Atlantis"}, places[1])
}
