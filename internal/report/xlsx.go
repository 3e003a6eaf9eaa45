package report

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"solar-estimator/internal/analysis"
	"solar-estimator/internal/simulation"
)

const (
	summarySheet  = "summary"
	cashflowSheet = "cashflow"
)

var cashflowHeader = []interface{}{
	"Month", "Year", "Month of year", "Tariff (R$/kWh)", "Baseline (R$)",
	"Generation (kWh)", "Injected (kWh)", "Self-consumed (kWh)", "Grid draw (kWh)", "Credit (kWh)",
	"Usage charge (R$)", "Bill (R$)", "Installment (R$)", "With solar (R$)", "Delta (R$)", "Balance (R$)", "Flow",
}

// WorkbookXLSX renders the summary and the full monthly ledger.
func WorkbookXLSX(place string, res *simulation.Result, s analysis.Summary) ([]byte, error) {
	if res == nil {
		return nil, fmt.Errorf("nil result")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(cashflowSheet); err != nil {
		return nil, err
	}

	rows := [][]interface{}{
		{"Solar estimate"},
		{},
		{"Place", place},
		{"Modules", res.Sizing.ModuleCount},
		{"Installed (kWp)", res.Sizing.InstalledKWp()},
		{"Required (kWp)", res.Sizing.RequiredKWp},
		{"Inverter (W)", res.Sizing.InverterW},
		{"Performance ratio", res.Sizing.PerformanceRatio},
		{"Mean irradiance (kWh/m²/day)", res.Sizing.MeanIrradiance},
		{"Mean temperature (°C)", res.Sizing.MeanTemperature},
		{"Capex (R$)", res.Capex},
		{"Financed", res.Financed},
		{"Installment (R$)", res.Installment},
		{"Total without solar (R$)", s.TotalWithout},
		{"Total with solar (R$)", s.TotalWith},
		{"Lifetime savings (R$)", s.LifetimeSavings},
		{"Payback month", s.PaybackMonth + 1},
		{"ROI", s.ROI},
		{"Roof area (m²)", res.Technical.RoofAreaM2},
		{"Load (kg)", res.Technical.LoadKg},
		{"AC breaker (A)", res.Technical.BreakerA},
		{"AC cable", res.Technical.CableMM2},
	}
	if s.PaybackMonth < 0 {
		rows[16][1] = "none"
	}
	for i, r := range rows {
		if len(r) == 0 {
			continue
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(summarySheet, cell, &r); err != nil {
			return nil, err
		}
	}
	_ = f.SetColWidth(summarySheet, "A", "A", 30)
	_ = f.SetColWidth(summarySheet, "B", "B", 18)

	if err := f.SetSheetRow(cashflowSheet, "A1", &cashflowHeader); err != nil {
		return nil, err
	}
	for i, row := range res.Ledger {
		values := []interface{}{
			row.Index + 1, row.Year + 1, row.Month, row.Tariff, row.BaselineCost,
			row.GenerationKWh, row.InjectedKWh, row.SelfConsumedKWh, row.GridDrawKWh, row.CreditKWh,
			row.UsageCharge, row.Bill, row.Installment, row.PostSolar, row.Delta, row.Balance, string(row.Flow),
		}
		if err := f.SetSheetRow(cashflowSheet, fmt.Sprintf("A%d", i+2), &values); err != nil {
			return nil, err
		}
	}
	_ = f.SetPanes(cashflowSheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
