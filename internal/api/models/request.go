package models

import "solar-estimator/internal/config"

// SimulateRequest is the body of POST /api/v1/simulate and /api/v1/report.
// Exactly one of Place or Climate supplies the climate.
type SimulateRequest struct {
	Place   string        `json:"place,omitempty"`
	Climate *ClimateInput `json:"climate,omitempty"`

	ConsumptionKWh   *float64 `json:"consumption_kwh" binding:"required"`
	MinConnectionKWh *float64 `json:"min_connection_kwh,omitempty"` // default: 30 (single-phase)

	Financing *FinancingInput  `json:"financing,omitempty"` // omit for upfront purchase
	Overrides config.Overrides `json:"overrides,omitempty"`
	Options   SimulateOptions  `json:"options,omitempty"`
}

// ClimateInput is an inline monthly climatology, January first.
// A series that is not 12 long is reduced to its mean.
type ClimateInput struct {
	Irradiance  []float64 `json:"irradiance"`
	Temperature []float64 `json:"temperature"`
}

// FinancingInput defines installment financing terms.
type FinancingInput struct {
	AnnualRatePct float64 `json:"annual_rate_pct"` // 12 = 12% a.a.
	Months        int     `json:"months"`
}

// SimulateOptions contains optional response parameters.
type SimulateOptions struct {
	IncludeLedger     bool `json:"include_ledger,omitempty"`     // default: false
	IncludeTrajectory bool `json:"include_trajectory,omitempty"` // default: false
}

// CompareRequest runs a base scenario and named variations of it.
type CompareRequest struct {
	Base       SimulateRequest `json:"base"`
	Variations []Variation     `json:"variations" binding:"required,min=1,dive"`
}

// Variation overrides parts of the base scenario. Nil fields keep the base.
type Variation struct {
	Name             string           `json:"name" binding:"required"`
	ConsumptionKWh   *float64         `json:"consumption_kwh,omitempty"`
	MinConnectionKWh *float64         `json:"min_connection_kwh,omitempty"`
	Financing        *FinancingInput  `json:"financing,omitempty"`
	Upfront          bool             `json:"upfront,omitempty"` // drop the base financing
	Overrides        config.Overrides `json:"overrides,omitempty"`
}

// RankRequest represents GET /api/v1/rank.
type RankRequest struct {
	Places           []string `form:"place" binding:"required,min=1"`
	ConsumptionKWh   float64  `form:"consumption_kwh" binding:"gte=0"`
	MinConnectionKWh *float64 `form:"min_connection_kwh"`
	Limit            int      `form:"limit"` // default: all
}

// ClimateRequest represents GET /api/v1/climate.
type ClimateRequest struct {
	Place string `form:"place" binding:"required"`
}

// ReportRequest carries the query of POST /api/v1/report.
type ReportRequest struct {
	Format string `form:"format"` // "pdf" (default) or "xlsx"
}
