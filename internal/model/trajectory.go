package model

// SimulationMonths is the horizon of every cash-flow run: 25 years.
const SimulationMonths = 25 * 12

// CashFlowTrajectory is the month-by-month comparison of doing nothing versus
// installing the system. All three slices have SimulationMonths entries.
type CashFlowTrajectory struct {
	Baseline  []float64 // monthly bill without solar
	PostSolar []float64 // monthly disbursement with solar (bill + installment)
	Balance   []float64 // cumulative net position versus doing nothing

	// TotalWithout sums Baseline.
	TotalWithout float64
	// TotalWith sums PostSolar, plus capex when it was paid upfront.
	TotalWith float64
}

// LifetimeSavings is what the customer stops spending over the horizon.
func (t CashFlowTrajectory) LifetimeSavings() float64 {
	return t.TotalWithout - t.TotalWith
}

// FinalBalance is the last cumulative balance, or 0 for an empty trajectory.
func (t CashFlowTrajectory) FinalBalance() float64 {
	if len(t.Balance) == 0 {
		return 0
	}
	return t.Balance[len(t.Balance)-1]
}
