package climate

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"solar-estimator/internal/model"
)

// cacheFile is the on-disk shape shared by the file cache and offline
// climate input. "irr" and "temp" are month-keyed (JAN..DEC); the other
// fields are optional.
type cacheFile struct {
	Place     string             `json:"place,omitempty"`
	Address   string             `json:"address,omitempty"`
	Latitude  float64            `json:"latitude,omitempty"`
	Longitude float64            `json:"longitude,omitempty"`
	FetchedAt string             `json:"fetched_at,omitempty"`
	Irr       map[string]float64 `json:"irr"`
	Temp      map[string]float64 `json:"temp"`
}

func toCacheFile(c *model.Climate) cacheFile {
	f := cacheFile{
		Place:     c.Place,
		Address:   c.Address,
		Latitude:  c.Latitude,
		Longitude: c.Longitude,
		Irr:       c.Irradiance.ToMap(),
		Temp:      c.Temperature.ToMap(),
	}
	if !c.FetchedAt.IsZero() {
		f.FetchedAt = c.FetchedAt.UTC().Format(time.RFC3339)
	}
	return f
}

func (f cacheFile) toClimate() (*model.Climate, error) {
	irr, err := model.SeriesFromMap(f.Irr)
	if err != nil {
		return nil, fmt.Errorf("irr: %w", err)
	}
	temp, err := model.SeriesFromMap(f.Temp)
	if err != nil {
		return nil, fmt.Errorf("temp: %w", err)
	}
	c := &model.Climate{
		Place:       f.Place,
		Address:     f.Address,
		Latitude:    f.Latitude,
		Longitude:   f.Longitude,
		Irradiance:  irr,
		Temperature: temp,
	}
	if f.FetchedAt != "" {
		t, err := time.Parse(time.RFC3339, f.FetchedAt)
		if err != nil {
			return nil, fmt.Errorf("fetched_at: %w", err)
		}
		c.FetchedAt = t
	}
	return c, nil
}

// LoadClimateJSON reads a climate file in the cache format.
func LoadClimateJSON(path string) (*model.Climate, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f cacheFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	c, err := f.toClimate()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// SaveClimateJSON writes c in the cache format.
func SaveClimateJSON(path string, c *model.Climate) error {
	raw, err := json.MarshalIndent(toCacheFile(c), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o644)
}
