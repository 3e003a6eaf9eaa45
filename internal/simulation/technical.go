package simulation

import "solar-estimator/internal/model"

const (
	rackingKgPerModule = 2.0
	gridVoltage        = 220.0
	breakerMargin      = 1.25
	fallbackBreakerA   = 63
)

// Standard curve-C breaker ratings, amps.
var breakerRatings = []int{10, 16, 20, 25, 32, 40, 50, 63, 80}

// TechnicalSheet is the structural and electrical summary of an installation.
type TechnicalSheet struct {
	ModuleCount int
	InverterW   float64

	RoofAreaM2    float64 // shade-free area required
	LoadKg        float64 // modules plus racking
	LoadKgPerM2   float64
	OutputCurrent float64 // AC amps at 220 V
	BreakerA      int
	CableMM2      string
}

// Technical builds the structural and electrical sheet for a sized system.
func Technical(moduleCount int, inverterW float64, module model.ModuleSpec) TechnicalSheet {
	area := float64(moduleCount) * module.AreaM2
	load := float64(moduleCount) * (module.WeightKg + rackingKgPerModule)
	density := 0.0
	if area > 0 {
		density = load / area
	}

	current := inverterW / gridVoltage
	breaker := SelectBreaker(current)

	return TechnicalSheet{
		ModuleCount:   moduleCount,
		InverterW:     inverterW,
		RoofAreaM2:    area,
		LoadKg:        load,
		LoadKgPerM2:   density,
		OutputCurrent: current,
		BreakerA:      breaker,
		CableMM2:      SelectCable(breaker),
	}
}

// SelectBreaker returns the smallest standard rating covering current with
// a 25% margin. Currents beyond the table get 63 A.
func SelectBreaker(currentA float64) int {
	need := currentA * breakerMargin
	for _, r := range breakerRatings {
		if float64(r) >= need {
			return r
		}
	}
	return fallbackBreakerA
}

// SelectCable returns the AC cable gauge for a breaker rating.
func SelectCable(breakerA int) string {
	switch {
	case breakerA > 50:
		return "10.0mm²"
	case breakerA > 32:
		return "6.0mm²"
	case breakerA > 20:
		return "4.0mm²"
	default:
		return "2.5mm²"
	}
}
