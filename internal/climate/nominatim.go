package climate

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Location is a geocoded place.
type Location struct {
	Latitude  float64
	Longitude float64
	Address   string
}

// NominatimClient geocodes free-text places with the OpenStreetMap
// Nominatim search API. The public instance requires a descriptive
// User-Agent and allows about one request per second.
type NominatimClient struct {
	BaseURL   string
	UserAgent string
	Client    *http.Client
}

// NewNominatimClient creates a geocoder. An empty baseURL selects the
// public instance.
func NewNominatimClient(baseURL, userAgent string, timeout time.Duration) *NominatimClient {
	if baseURL == "" {
		baseURL = "https://nominatim.openstreetmap.org"
	}
	if userAgent == "" {
		userAgent = "solar-estimator/1.0"
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &NominatimClient{
		BaseURL:   strings.TrimRight(baseURL, "/"),
		UserAgent: userAgent,
		Client:    &http.Client{Timeout: timeout},
	}
}

type nominatimResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Geocode returns the best match for place, or ErrNotFound.
func (c *NominatimClient) Geocode(ctx context.Context, place string) (*Location, error) {
	place = strings.TrimSpace(place)
	if place == "" {
		return nil, fmt.Errorf("place is required")
	}

	u, err := url.Parse(c.BaseURL + "/search")
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	q := u.Query()
	q.Set("q", place)
	q.Set("format", "json")
	q.Set("limit", "1")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", "application/json")

	log.Printf("[Nominatim] Request: GET %s (q=%q)", u.Path, place)
	start := time.Now()
	resp, err := c.Client.Do(req)
	if err != nil {
		log.Printf("[Nominatim] Request failed: %v (duration: %v)", err, time.Since(start))
		return nil, fmt.Errorf("geocode %q: %w", place, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("[Nominatim] Error: %d (q=%q)", resp.StatusCode, place)
		return nil, statusError("nominatim", resp)
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("failed to decode geocoder response: %w", err)
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("geocode %q: %w", place, ErrNotFound)
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("geocoder returned bad latitude %q: %w", results[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("geocoder returned bad longitude %q: %w", results[0].Lon, err)
	}

	log.Printf("[Nominatim] Found: %s (%.4f, %.4f, duration: %v)", results[0].DisplayName, lat, lon, time.Since(start))
	return &Location{Latitude: lat, Longitude: lon, Address: results[0].DisplayName}, nil
}
