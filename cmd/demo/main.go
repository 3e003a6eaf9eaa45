package main

import (
	"fmt"
	"os"

	"solar-estimator/internal/analysis"
	"solar-estimator/internal/config"
	"solar-estimator/internal/model"
	"solar-estimator/internal/report"
	"solar-estimator/internal/simulation"

	"github.com/spf13/pflag"
)

// Demo:
// - Build a flat climate (no network)
// - Size, price and simulate one household
// - Print the first year of the ledger to show how the pieces fit together
func main() {
	consumption := pflag.Float64("consumption", 300, "Monthly consumption (kWh)")
	irradiance := pflag.Float64("irradiance", 5.0, "Flat irradiance (kWh/m²/day)")
	temperature := pflag.Float64("temperature", 25.0, "Flat temperature (°C)")
	paramsPath := pflag.String("params", "", "Path to cost parameters YAML (optional)")
	n := pflag.Int("n", 12, "Number of ledger months to print")
	outCSV := pflag.String("out", "", "Optional path to write ledger CSV (e.g. results/ledger.csv)")
	pflag.Parse()

	params, err := config.LoadParams(*paramsPath)
	if err != nil {
		panic(err)
	}

	res, err := simulation.New().Run(simulation.Inputs{
		ConsumptionKWh:   *consumption,
		MinConnectionKWh: model.MinConnectionSinglePhase,
		Irradiance:       model.FlatSeries(*irradiance),
		Temperature:      model.FlatSeries(*temperature),
		Params:           params,
	})
	if err != nil {
		panic(err)
	}

	label := fmt.Sprintf("demo (%.1f kWh/m²/day, %.0f °C)", *irradiance, *temperature)
	if err := report.Summary(os.Stdout, label, res, analysis.Summarize(res)); err != nil {
		panic(err)
	}

	fmt.Println()
	fmt.Printf("%-5s %-8s %-10s %-10s %-10s %-12s %-10s\n", "month", "gen_kWh", "baseline", "bill", "delta", "balance", "flow")
	limit := *n
	if limit > len(res.Ledger) {
		limit = len(res.Ledger)
	}
	for _, r := range res.Ledger[:limit] {
		fmt.Printf("%-5d %-8.1f %-10.2f %-10.2f %-10.2f %-12.2f %-10s\n",
			r.Index+1, r.GenerationKWh, r.BaselineCost, r.Bill, r.Delta, r.Balance, r.Flow)
	}

	if *outCSV != "" {
		if err := simulation.WriteLedgerCSV(*outCSV, res.Ledger); err != nil {
			panic(err)
		}
		fmt.Printf("\nWrote %d rows to %s\n", len(res.Ledger), *outCSV)
	}
}
