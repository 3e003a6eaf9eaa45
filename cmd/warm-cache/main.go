package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"solar-estimator/internal/climate"
	"solar-estimator/internal/config"

	"github.com/spf13/pflag"
)

// Default seed places when no places file exists yet.
var seedPlaces = []climate.Place{
	{Name: "Fortaleza, CE"},
	{Name: "Natal, RN"},
	{Name: "Recife, PE"},
	{Name: "Salvador, BA"},
	{Name: "Belo Horizonte, MG"},
	{Name: "Brasília, DF"},
	{Name: "São Paulo, SP"},
	{Name: "Curitiba, PR"},
	{Name: "Porto Alegre, RS"},
}

func main() {
	config.LoadDotEnv()

	rt, err := config.ResolveRuntime()
	if err != nil {
		log.Fatalf("Invalid environment: %v", err)
	}

	var (
		placesPath = pflag.String("places", rt.PlacesFile, "Places JSON file to read and update")
		extra      = pflag.StringArray("place", nil, "Additional place to fetch and add (repeatable)")
		refresh    = pflag.Bool("refresh", false, "Fetch again even when a cache file exists")
	)
	pflag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	places := seedPlaces
	if list, err := climate.LoadPlaces(*placesPath); err == nil {
		places = list.Places
		fmt.Printf("Loaded %d places from %s\n", len(places), *placesPath)
	} else {
		fmt.Printf("No places file at %s, starting from %d seed places\n", *placesPath, len(places))
	}
	places = mergePlaces(places, *extra)

	provider := climate.NewPipeline(climate.PipelineConfig{
		NominatimURL:       rt.NominatimURL,
		NominatimUserAgent: rt.NominatimUserAgent,
		NASAPowerURL:       rt.NASAPowerURL,
		HTTPTimeout:        rt.HTTPTimeout,
		Retry:              climate.DefaultRetry,
		RateLimit:          climate.DefaultRateLimit,
		CacheDir:           rt.CacheDir,
		CacheTTL:           rt.CacheTTL,
		RefreshCache:       *refresh,
	})

	updated := warm(ctx, provider, places)

	list := &climate.PlaceList{
		UpdatedAt: time.Now().Format(time.RFC3339),
		Places:    places,
	}
	if err := climate.SavePlaces(list, *placesPath); err != nil {
		log.Fatalf("Failed to save places: %v", err)
	}
	fmt.Printf("Cached %d/%d places in %s; saved list to %s\n", updated, len(places), rt.CacheDir, *placesPath)
}

// warm fetches every place through the provider and records the geocoded
// details in place. Failed places are kept as they were.
func warm(ctx context.Context, provider climate.Provider, places []climate.Place) int {
	ok := 0
	for i, p := range places {
		if ctx.Err() != nil {
			break
		}
		c, err := provider.FetchClimate(ctx, p.Name)
		if err != nil {
			fmt.Printf("  ⚠️  Warning: Failed to fetch %s: %v\n", p.Name, err)
			continue
		}
		places[i].Address = c.Address
		places[i].Latitude = c.Latitude
		places[i].Longitude = c.Longitude
		ok++

		mean, _ := c.Irradiance.Mean()
		fmt.Printf("  ✓ %s (%.4f, %.4f) %.2f kWh/m²/day\n", p.Name, c.Latitude, c.Longitude, mean)
	}
	return ok
}

// mergePlaces appends names not already in places.
func mergePlaces(places []climate.Place, names []string) []climate.Place {
	seen := make(map[string]bool, len(places))
	for _, p := range places {
		seen[p.Name] = true
	}
	out := append([]climate.Place(nil), places...)
	for _, n := range names {
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, climate.Place{Name: n})
	}
	return out
}
