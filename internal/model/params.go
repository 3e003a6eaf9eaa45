package model

import "errors"

// ModuleSpec describes one photovoltaic module.
// Units:
// - Watts: Wp (nameplate, STC)
// - AreaM2: m²
// - WeightKg: kg (module only, racking not included)
type ModuleSpec struct {
	Watts    float64
	AreaM2   float64
	WeightKg float64
}

// CostParameters are the tariff, physical and economic constants of a run.
// Rates are fractions (0.08 = 8%/yr), money is in R$.
type CostParameters struct {
	TariffPerKWh    float64 // base electricity tariff
	FioBFactor      float64 // share of the Fio B component charged on credited energy
	FioBComponent   float64 // Fio B component as a fraction of the tariff
	InflationRate   float64 // annual tariff inflation
	DegradationRate float64 // annual module output loss

	PRMin  float64 // performance ratio floor
	PRBase float64 // performance ratio before thermal losses

	Module ModuleSpec

	ModuleUnitCost      float64 // R$ per module
	InverterCostPerWatt float64 // R$ per inverter W
	Markup              float64 // installation, labor and margin multiplier on hardware
}

// DefaultCostParameters returns the process-wide defaults.
func DefaultCostParameters() CostParameters {
	return CostParameters{
		TariffPerKWh:    0.92,
		FioBFactor:      0.45,
		FioBComponent:   0.28,
		InflationRate:   0.08,
		DegradationRate: 0.006,

		PRMin:  0.70,
		PRBase: 0.80,

		Module: ModuleSpec{
			Watts:    555,
			AreaM2:   2.6,
			WeightKg: 28,
		},

		ModuleUnitCost:      620,
		InverterCostPerWatt: 0.8,
		Markup:              2.1,
	}
}

// FioBRate is the per-kWh wire-usage fee charged on credited energy at year 0.
func (p CostParameters) FioBRate() float64 {
	return p.TariffPerKWh * p.FioBComponent * p.FioBFactor
}

func (p CostParameters) Validate() error {
	if p.TariffPerKWh <= 0 {
		return errors.New("TariffPerKWh must be > 0")
	}
	if p.Module.Watts <= 0 {
		return errors.New("Module.Watts must be > 0")
	}
	if p.Module.AreaM2 < 0 || p.Module.WeightKg < 0 {
		return errors.New("Module.AreaM2 and Module.WeightKg must be >= 0")
	}
	if p.PRMin <= 0 || p.PRMin > 1 || p.PRBase <= 0 || p.PRBase > 1 || p.PRMin > p.PRBase {
		return errors.New("PRMin/PRBase must satisfy 0<PRMin<=PRBase<=1")
	}
	if p.Markup <= 0 {
		return errors.New("Markup must be > 0")
	}
	if p.ModuleUnitCost < 0 || p.InverterCostPerWatt < 0 {
		return errors.New("unit costs must be >= 0")
	}
	if p.FioBFactor < 0 || p.FioBComponent < 0 {
		return errors.New("Fio B factor and component must be >= 0")
	}
	if p.DegradationRate < 0 || p.DegradationRate >= 1 {
		return errors.New("DegradationRate must be in [0, 1)")
	}
	if p.InflationRate <= -1 {
		return errors.New("InflationRate must be > -1")
	}
	return nil
}

// FinancingTerms are installment financing terms. A nil *FinancingTerms
// means the system is paid upfront.
type FinancingTerms struct {
	AnnualRatePct float64 // nominal annual rate, percent (12 = 12% a.a.)
	Months        int
}
