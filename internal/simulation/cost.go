package simulation

import (
	"math"

	"solar-estimator/internal/model"
)

// HardwareCost is modules plus inverter, before markup.
func HardwareCost(s model.SystemSizing, p model.CostParameters) float64 {
	return float64(s.ModuleCount)*p.ModuleUnitCost + s.InverterW*p.InverterCostPerWatt
}

// Capex is the installed price: hardware times the markup covering
// installation, labor and margin.
func Capex(s model.SystemSizing, p model.CostParameters) float64 {
	return HardwareCost(s, p) * p.Markup
}

// EffectiveMonthlyRate converts a nominal annual percentage to the
// equivalent compound monthly rate.
func EffectiveMonthlyRate(annualPct float64) float64 {
	return math.Pow(1+annualPct/100, 1.0/12) - 1
}

// Installment is the level monthly payment (Price/annuity) that repays capex
// under the given terms. It returns 0 for nil terms, non-positive rate or term,
// and any rate that makes the formula degenerate; it never fails.
func Installment(capex float64, terms *model.FinancingTerms) float64 {
	if terms == nil || terms.AnnualRatePct <= 0 || terms.Months <= 0 {
		return 0
	}
	i := EffectiveMonthlyRate(terms.AnnualRatePct)
	if !(i > 0) || math.IsInf(i, 0) {
		return 0
	}
	growth := math.Pow(1+i, float64(terms.Months))
	denom := growth - 1
	if !(denom > 0) || math.IsInf(growth, 0) {
		return 0
	}
	payment := capex * (i * growth) / denom
	if math.IsNaN(payment) || math.IsInf(payment, 0) {
		return 0
	}
	return payment
}
