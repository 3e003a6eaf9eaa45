package model

import "time"

// Climate is the monthly climatology of one place.
//
// Irradiance is NASA POWER ALLSKY_SFC_SW_DWN (kWh/m²/day) and Temperature is
// T2M (°C), both long-term monthly means.
type Climate struct {
	Place     string    `json:"place"`
	Address   string    `json:"address,omitempty"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	FetchedAt time.Time `json:"fetched_at,omitempty"`

	Irradiance  MonthlySeries `json:"irradiance"`
	Temperature MonthlySeries `json:"temperature"`
}
