package climate

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Place is a known location, optionally with its geocoded details.
type Place struct {
	Name      string  `json:"name"`
	Address   string  `json:"address,omitempty"`
	Latitude  float64 `json:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty"`
}

// PlaceList is the places file (data/places.json).
type PlaceList struct {
	UpdatedAt string  `json:"updated_at"` // ISO 8601 timestamp
	Places    []Place `json:"places"`
}

// Names returns the place names in file order.
func (l *PlaceList) Names() []string {
	if l == nil {
		return nil
	}
	out := make([]string, 0, len(l.Places))
	for _, p := range l.Places {
		out = append(out, p.Name)
	}
	return out
}

// LoadPlaces loads places from a JSON file.
func LoadPlaces(filePath string) (*PlaceList, error) {
	raw, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read places file: %w", err)
	}

	var list PlaceList
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("failed to parse places file: %w", err)
	}
	return &list, nil
}

// SavePlaces saves places to a JSON file.
func SavePlaces(list *PlaceList, filePath string) error {
	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	raw, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal places: %w", err)
	}

	if err := os.WriteFile(filePath, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write places file: %w", err)
	}
	return nil
}
