package simulation

import (
	"solar-estimator/internal/model"
)

// LedgerRow is one month of simulation output.
// This is the primary artifact for "what happened" in a run; the trajectory
// slices are projections of it.
type LedgerRow struct {
	Index int
	Year  int // 0-based
	Month int // 1..12

	Tariff       float64 // R$/kWh after inflation
	BaselineCost float64

	GenerationKWh   float64
	InjectedKWh     float64
	SelfConsumedKWh float64
	GridDrawKWh     float64
	CreditKWh       float64

	UsageCharge float64
	Bill        float64 // usage charge raised to the minimum connection charge
	Installment float64
	PostSolar   float64

	Delta   float64 // BaselineCost - PostSolar
	Balance float64
	Flow    model.Flow
}

// Result bundles everything one engine run produces.
type Result struct {
	Sizing      model.SystemSizing
	Capex       float64
	Installment float64
	Financed    bool

	Trajectory model.CashFlowTrajectory
	Ledger     []LedgerRow
	Technical  TechnicalSheet
}
