package simulation

import (
	"fmt"

	"solar-estimator/internal/model"
)

// Inputs is one simulation request.
type Inputs struct {
	ConsumptionKWh   float64 // kWh/month
	MinConnectionKWh float64 // minimum billed kWh-equivalent per month

	Irradiance  model.MonthlySeries
	Temperature model.MonthlySeries

	// Financing is nil for an upfront purchase.
	Financing *model.FinancingTerms

	Params model.CostParameters
}

type Engine struct{}

func New() *Engine { return &Engine{} }

// Run sizes the system, prices it, and simulates 25 years of cash flow.
// It holds no state: identical inputs give identical results.
func (e *Engine) Run(in Inputs) (*Result, error) {
	sizing, err := Size(in.ConsumptionKWh, in.Irradiance, in.Temperature, in.Params)
	if err != nil {
		return nil, fmt.Errorf("size system: %w", err)
	}

	capex := Capex(sizing, in.Params)
	installment := Installment(capex, in.Financing)
	term := 0
	if in.Financing != nil {
		term = in.Financing.Months
	}

	cf := CashFlowInput{
		ConsumptionKWh:   in.ConsumptionKWh,
		MinConnectionKWh: in.MinConnectionKWh,
		Sizing:           sizing,
		Capex:            capex,
		Installment:      installment,
		TermMonths:       term,
		Irradiance:       in.Irradiance,
		Params:           in.Params,
	}
	traj, ledger := Simulate(cf)

	return &Result{
		Sizing:      sizing,
		Capex:       capex,
		Installment: installment,
		Financed:    cf.Financed(),
		Trajectory:  traj,
		Ledger:      ledger,
		Technical:   Technical(sizing.ModuleCount, sizing.InverterW, in.Params.Module),
	}, nil
}
