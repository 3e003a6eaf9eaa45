package simulation

import (
	"math"

	"solar-estimator/internal/model"
)

// Fixed empirical split of generation between grid export and on-site use.
const (
	injectedShare     = 0.65
	selfConsumedShare = 0.35
)

// CashFlowInput is everything the month loop needs. Sizing must come from
// Size so that PerformanceRatio is the derated value.
type CashFlowInput struct {
	ConsumptionKWh   float64
	MinConnectionKWh float64

	Sizing      model.SystemSizing
	Capex       float64
	Installment float64
	TermMonths  int

	Irradiance model.MonthlySeries
	Params     model.CostParameters
}

// Financed reports whether the run pays through installments. Terms that
// produce no installment are treated as an upfront purchase.
func (in CashFlowInput) Financed() bool {
	return in.Installment > 0 && in.TermMonths > 0
}

// Simulate runs the 300-month comparison between staying on the grid and
// installing the system.
//
// Each month: the tariff escalates yearly, generation degrades linearly,
// generation splits 65/35 into injected/self-consumed energy, injected energy
// credits grid draw up to the draw itself (no banking), credited energy pays
// the Fio B fee, and the bill never drops below the minimum connection charge.
func Simulate(in CashFlowInput) (model.CashFlowTrajectory, []LedgerRow) {
	n := model.SimulationMonths
	p := in.Params
	financed := in.Financed()

	traj := model.CashFlowTrajectory{
		Baseline:  make([]float64, 0, n),
		PostSolar: make([]float64, 0, n),
		Balance:   make([]float64, 0, n),
	}
	ledger := make([]LedgerRow, 0, n)

	annualIrr := in.Irradiance.MeanOr(DefaultMeanIrradiance)
	kwp := in.Sizing.InstalledWp / 1000
	fioB := p.FioBRate()

	balance := 0.0
	if !financed {
		balance = -in.Capex
	}

	for m := 0; m < n; m++ {
		year := m / 12
		monthOfYear := m % 12

		escalation := math.Pow(1+p.InflationRate, float64(year))
		tariff := p.TariffPerKWh * escalation
		baseline := in.ConsumptionKWh * tariff

		irr := in.Irradiance.At(monthOfYear, annualIrr)
		gen := kwp * irr * daysPerMonth * in.Sizing.PerformanceRatio * (1 - p.DegradationRate*float64(year))
		injected := gen * injectedShare
		selfConsumed := gen * selfConsumedShare

		gridDraw := math.Max(0, in.ConsumptionKWh-selfConsumed)
		credit := math.Min(injected, gridDraw)

		usage := (gridDraw-credit)*tariff + credit*fioB*escalation
		bill := math.Max(usage, in.MinConnectionKWh*tariff)

		installment := 0.0
		if financed && m < in.TermMonths {
			installment = in.Installment
		}
		post := bill + installment

		delta := baseline - post
		balance += delta

		traj.Baseline = append(traj.Baseline, baseline)
		traj.PostSolar = append(traj.PostSolar, post)
		traj.Balance = append(traj.Balance, balance)
		traj.TotalWithout += baseline
		traj.TotalWith += post

		ledger = append(ledger, LedgerRow{
			Index:           m,
			Year:            year,
			Month:           monthOfYear + 1,
			Tariff:          tariff,
			BaselineCost:    baseline,
			GenerationKWh:   gen,
			InjectedKWh:     injected,
			SelfConsumedKWh: selfConsumed,
			GridDrawKWh:     gridDraw,
			CreditKWh:       credit,
			UsageCharge:     usage,
			Bill:            bill,
			Installment:     installment,
			PostSolar:       post,
			Delta:           delta,
			Balance:         balance,
			Flow:            model.FlowFromDelta(delta),
		})
	}

	if !financed {
		traj.TotalWith += in.Capex
	}
	return traj, ledger
}
