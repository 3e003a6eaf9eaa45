package models

import (
	"solar-estimator/internal/config"
	"solar-estimator/internal/model"
)

// SimulateResponse represents the response from a simulation run
type SimulateResponse struct {
	ID         string          `json:"id"`
	Status     string          `json:"status"`
	Place      string          `json:"place,omitempty"`
	Climate    *ClimateInfo    `json:"climate,omitempty"`
	Sizing     SizingInfo      `json:"sizing"`
	Costs      CostsInfo       `json:"costs"`
	Summary    SummaryInfo     `json:"summary"`
	Technical  TechnicalInfo   `json:"technical"`
	Trajectory *TrajectoryInfo `json:"trajectory,omitempty"`
	Ledger     []LedgerRow     `json:"ledger,omitempty"`
}

// ClimateInfo describes where the climate came from.
type ClimateInfo struct {
	Address     string              `json:"address,omitempty"`
	Latitude    float64             `json:"latitude,omitempty"`
	Longitude   float64             `json:"longitude,omitempty"`
	Irradiance  model.MonthlySeries `json:"irradiance"`
	Temperature model.MonthlySeries `json:"temperature"`
}

type SizingInfo struct {
	RequiredKWp      float64 `json:"required_kwp"`
	ModuleCount      int     `json:"module_count"`
	InstalledWp      float64 `json:"installed_wp"`
	InverterW        float64 `json:"inverter_w"`
	PerformanceRatio float64 `json:"performance_ratio"`
	MeanIrradiance   float64 `json:"mean_irradiance"`
	MeanTemperature  float64 `json:"mean_temperature"`
}

type CostsInfo struct {
	Capex       float64 `json:"capex"`
	Financed    bool    `json:"financed"`
	Installment float64 `json:"installment"`
}

// SummaryInfo contains the aggregated cash-flow figures
type SummaryInfo struct {
	FirstMonthBaseline  float64 `json:"first_month_baseline"`
	FirstMonthPostSolar float64 `json:"first_month_post_solar"`
	FirstMonthDelta     float64 `json:"first_month_delta"`
	FirstMonthFlow      string  `json:"first_month_flow"`
	TotalWithout        float64 `json:"total_without"`
	TotalWith           float64 `json:"total_with"`
	LifetimeSavings     float64 `json:"lifetime_savings"`
	PaybackMonth        int     `json:"payback_month"` // -1 when never
	ROI                 float64 `json:"roi"`
	MinBalance          float64 `json:"min_balance"`
}

type TechnicalInfo struct {
	RoofAreaM2    float64 `json:"roof_area_m2"`
	LoadKg        float64 `json:"load_kg"`
	LoadKgPerM2   float64 `json:"load_kg_per_m2"`
	OutputCurrent float64 `json:"output_current_a"`
	BreakerA      int     `json:"breaker_a"`
	CableMM2      string  `json:"cable_mm2"`
}

// TrajectoryInfo holds the 300 monthly values of each series.
type TrajectoryInfo struct {
	Baseline  []float64 `json:"baseline"`
	PostSolar []float64 `json:"post_solar"`
	Balance   []float64 `json:"balance"`
}

// LedgerRow represents one month in the simulation ledger
type LedgerRow struct {
	Index           int     `json:"index"`
	Year            int     `json:"year"`
	Month           int     `json:"month"`
	Tariff          float64 `json:"tariff"`
	BaselineCost    float64 `json:"baseline_cost"`
	GenerationKWh   float64 `json:"generation_kwh"`
	InjectedKWh     float64 `json:"injected_kwh"`
	SelfConsumedKWh float64 `json:"self_consumed_kwh"`
	GridDrawKWh     float64 `json:"grid_draw_kwh"`
	CreditKWh       float64 `json:"credit_kwh"`
	UsageCharge     float64 `json:"usage_charge"`
	Bill            float64 `json:"bill"`
	Installment     float64 `json:"installment"`
	PostSolar       float64 `json:"post_solar"`
	Delta           float64 `json:"delta"`
	Balance         float64 `json:"balance"`
	Flow            string  `json:"flow"` // "SAVING", "BREAKEVEN", "INVESTING"
}

// CompareResponse represents the response from a comparison
type CompareResponse struct {
	ID         string             `json:"id"`
	Comparison []ComparisonResult `json:"comparison"`
}

// ComparisonResult contains results for one variation
type ComparisonResult struct {
	Name    string      `json:"name"`
	Sizing  SizingInfo  `json:"sizing"`
	Costs   CostsInfo   `json:"costs"`
	Summary SummaryInfo `json:"summary"`
}

// RankResponse represents the response from ranking places
type RankResponse struct {
	Rankings []Ranking `json:"rankings"`
	Skipped  []Skipped `json:"skipped,omitempty"`
}

// Ranking represents one ranked place
type Ranking struct {
	Rank            int     `json:"rank"`
	Place           string  `json:"place"`
	MeanIrradiance  float64 `json:"mean_irradiance"`
	ModuleCount     int     `json:"module_count"`
	Capex           float64 `json:"capex"`
	LifetimeSavings float64 `json:"lifetime_savings"`
	PaybackMonth    int     `json:"payback_month"`
	ROI             float64 `json:"roi"`
}

// Skipped is a place left out of a ranking.
type Skipped struct {
	Place  string `json:"place"`
	Reason string `json:"reason"`
}

// ClimateResponse represents the response from GET /api/v1/climate
type ClimateResponse struct {
	Place string `json:"place"`
	ClimateInfo
	MeanIrradiance  float64 `json:"mean_irradiance"`
	MeanTemperature float64 `json:"mean_temperature"`
}

// DefaultsResponse lists the server's cost parameters and accepted options
type DefaultsResponse struct {
	Parameters              config.Config `json:"parameters"`
	MinConnectionOptions    []float64     `json:"min_connection_options"`
	DefaultMinConnectionKWh float64       `json:"default_min_connection_kwh"`
	HorizonMonths           int           `json:"horizon_months"`
}

// PlaceInfo represents a known place
type PlaceInfo struct {
	Name      string  `json:"name"`
	Address   string  `json:"address,omitempty"`
	Latitude  float64 `json:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty"`
}

// PlacesResponse represents the response from GET /api/v1/places
type PlacesResponse struct {
	Places    []PlaceInfo `json:"places"`
	UpdatedAt string      `json:"updated_at,omitempty"`
	Count     int         `json:"count"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
