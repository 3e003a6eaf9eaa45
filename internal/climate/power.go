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

	"solar-estimator/internal/model"
)

const (
	paramIrradiance  = "ALLSKY_SFC_SW_DWN"
	paramTemperature = "T2M"

	// POWER marks missing data with this value.
	powerFillValue = -999.0
)

// PowerClient fetches long-term monthly climatology from NASA POWER.
type PowerClient struct {
	BaseURL string
	Client  *http.Client
}

// NewPowerClient creates a client. An empty baseURL selects the public API.
func NewPowerClient(baseURL string, timeout time.Duration) *PowerClient {
	if baseURL == "" {
		baseURL = "https://power.larc.nasa.gov"
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &PowerClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: timeout},
	}
}

type powerResponse struct {
	Properties struct {
		Parameter map[string]map[string]float64 `json:"parameter"`
	} `json:"properties"`
}

// Climatology returns monthly irradiance (kWh/m²/day) and temperature (°C)
// for a coordinate.
func (c *PowerClient) Climatology(ctx context.Context, lat, lon float64) (irr, temp model.MonthlySeries, err error) {
	u, err := url.Parse(c.BaseURL + "/api/temporal/climatology/point")
	if err != nil {
		return nil, nil, fmt.Errorf("invalid base URL: %w", err)
	}
	q := u.Query()
	q.Set("parameters", paramIrradiance+","+paramTemperature)
	q.Set("community", "RE")
	q.Set("latitude", strconv.FormatFloat(lat, 'f', 4, 64))
	q.Set("longitude", strconv.FormatFloat(lon, 'f', 4, 64))
	q.Set("format", "JSON")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	log.Printf("[POWER] Request: GET %s (lat=%.4f, lon=%.4f)", u.Path, lat, lon)
	start := time.Now()
	resp, err := c.Client.Do(req)
	if err != nil {
		log.Printf("[POWER] Request failed: %v (duration: %v)", err, time.Since(start))
		return nil, nil, fmt.Errorf("fetch climatology: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("[POWER] Error: %d (lat=%.4f, lon=%.4f)", resp.StatusCode, lat, lon)
		return nil, nil, statusError("nasa_power", resp)
	}

	var body powerResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, nil, fmt.Errorf("failed to decode climatology response: %w", err)
	}

	irr, err = powerSeries(body.Properties.Parameter, paramIrradiance)
	if err != nil {
		return nil, nil, err
	}
	temp, err = powerSeries(body.Properties.Parameter, paramTemperature)
	if err != nil {
		return nil, nil, err
	}

	log.Printf("[POWER] Success: mean irradiance %.2f kWh/m²/day (duration: %v)", irr.MeanOr(0), time.Since(start))
	return irr, temp, nil
}

func powerSeries(params map[string]map[string]float64, name string) (model.MonthlySeries, error) {
	raw, ok := params[name]
	if !ok {
		return nil, fmt.Errorf("climatology response has no %s", name)
	}
	s, err := model.SeriesFromMap(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	for i, v := range s {
		if v == powerFillValue {
			return nil, fmt.Errorf("%s: no data for %s", name, model.MonthKeys[i])
		}
	}
	return s, nil
}
