package simulation

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
)

var ledgerHeader = []string{
	"index",
	"year",
	"month",
	"tariff",
	"baseline_cost",
	"generation_kwh",
	"injected_kwh",
	"self_consumed_kwh",
	"grid_draw_kwh",
	"credit_kwh",
	"usage_charge",
	"bill",
	"installment",
	"post_solar",
	"delta",
	"balance",
	"flow",
}

func WriteLedgerCSV(path string, ledger []LedgerRow) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return EncodeLedgerCSV(f, ledger)
}

// EncodeLedgerCSV writes the header and one row per month to w.
func EncodeLedgerCSV(w io.Writer, ledger []LedgerRow) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(ledgerHeader); err != nil {
		return err
	}

	for _, r := range ledger {
		row := []string{
			strconv.Itoa(r.Index),
			strconv.Itoa(r.Year),
			strconv.Itoa(r.Month),
			fmtFloat(r.Tariff),
			fmtFloat(r.BaselineCost),
			fmtFloat(r.GenerationKWh),
			fmtFloat(r.InjectedKWh),
			fmtFloat(r.SelfConsumedKWh),
			fmtFloat(r.GridDrawKWh),
			fmtFloat(r.CreditKWh),
			fmtFloat(r.UsageCharge),
			fmtFloat(r.Bill),
			fmtFloat(r.Installment),
			fmtFloat(r.PostSolar),
			fmtFloat(r.Delta),
			fmtFloat(r.Balance),
			string(r.Flow),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
