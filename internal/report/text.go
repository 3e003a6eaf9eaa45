package report

import (
	"bytes"
	"fmt"
	"io"
	"math"

	"solar-estimator/internal/analysis"
	"solar-estimator/internal/simulation"
)

// Summary writes the commercial summary of a simulation.
func Summary(w io.Writer, place string, res *simulation.Result, s analysis.Summary) error {
	if res == nil {
		return fmt.Errorf("nil result")
	}
	var b bytes.Buffer

	fmt.Fprintf(&b, "=== Solar estimate: %s ===\n\n", place)
	fmt.Fprintf(&b, "System\n")
	fmt.Fprintf(&b, "   Modules:            %d x %.0f Wp\n", res.Sizing.ModuleCount, res.Sizing.InstalledWp/float64(max(res.Sizing.ModuleCount, 1)))
	fmt.Fprintf(&b, "   Installed power:    %.2f kWp (required %.2f kWp)\n", res.Sizing.InstalledKWp(), res.Sizing.RequiredKWp)
	fmt.Fprintf(&b, "   Inverter:           %.0f W\n", res.Sizing.InverterW)
	fmt.Fprintf(&b, "   Performance ratio:  %.3f\n", res.Sizing.PerformanceRatio)
	fmt.Fprintf(&b, "   Mean irradiance:    %.2f kWh/m²/day\n", res.Sizing.MeanIrradiance)
	fmt.Fprintf(&b, "   Mean temperature:   %.1f °C\n\n", res.Sizing.MeanTemperature)

	fmt.Fprintf(&b, "Commercial summary\n")
	fmt.Fprintf(&b, "   Total investment:   %s\n", Money(res.Capex))
	if res.Financed {
		fmt.Fprintf(&b, "   Monthly installment: %s\n", Money(res.Installment))
	}
	fmt.Fprintf(&b, "   Monthly flow:       %s of %s (today %s, with solar %s)\n",
		s.FirstMonthFlow, Money(math.Abs(s.FirstMonthDelta)),
		Money(s.FirstMonthBaseline), Money(s.FirstMonthPostSolar))
	fmt.Fprintf(&b, "   25 years without:   %s\n", Money(s.TotalWithout))
	fmt.Fprintf(&b, "   25 years with:      %s\n", Money(s.TotalWith))
	fmt.Fprintf(&b, "   You stop spending:  %s\n", Money(s.LifetimeSavings))
	if s.PaybackMonth >= 0 {
		fmt.Fprintf(&b, "   Payback:            month %d (%.1f years)\n", s.PaybackMonth+1, s.PaybackYears())
	} else {
		fmt.Fprintf(&b, "   Payback:            not within 25 years\n")
	}
	if res.Capex > 0 {
		fmt.Fprintf(&b, "   ROI:                %.0f%%\n", s.ROI*100)
	}

	_, err := w.Write(b.Bytes())
	return err
}

// TechnicalText writes the structural and electrical report.
func TechnicalText(w io.Writer, t simulation.TechnicalSheet) error {
	var b bytes.Buffer

	fmt.Fprintf(&b, "=== Technical report ===\n\n")
	fmt.Fprintf(&b, "Structure\n")
	fmt.Fprintf(&b, "   Modules:            %d\n", t.ModuleCount)
	fmt.Fprintf(&b, "   Roof area:          %.1f m² (shade-free)\n", t.RoofAreaM2)
	fmt.Fprintf(&b, "   Load:               %.0f kg (%.1f kg/m²)\n\n", t.LoadKg, t.LoadKgPerM2)
	fmt.Fprintf(&b, "Electrical\n")
	fmt.Fprintf(&b, "   Inverter:           %.0f W\n", t.InverterW)
	fmt.Fprintf(&b, "   Output current:     %.1f A @ 220 V\n", t.OutputCurrent)
	fmt.Fprintf(&b, "   AC breaker:         %d A (curve C)\n", t.BreakerA)
	fmt.Fprintf(&b, "   AC cable:           %s\n", t.CableMM2)

	_, err := w.Write(b.Bytes())
	return err
}
