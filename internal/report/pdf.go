package report

import (
	"bytes"
	"fmt"
	"math"

	"github.com/jung-kurt/gofpdf"

	"solar-estimator/internal/analysis"
	"solar-estimator/internal/simulation"
)

type rgb struct{ r, g, b int }

var (
	colorToday     = rgb{231, 76, 60}
	colorSaving    = rgb{39, 174, 96}
	colorInvesting = rgb{243, 156, 18}
	colorInk       = rgb{51, 51, 51}
	colorGrid      = rgb{210, 210, 210}
)

// DashboardPDF renders the one-page customer dashboard: KPIs, the first-month
// flow, 25-year totals and cumulative balance growth.
func DashboardPDF(place string, res *simulation.Result, s analysis.Summary) ([]byte, error) {
	if res == nil {
		return nil, fmt.Errorf("nil result")
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Solar estimate - "+place, true)
	pdf.SetCreator("solar-estimator", true)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, tr("Solar estimate: "+place), "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("%d modules, %.2f kWp, inverter %.0f W, PR %.3f",
		res.Sizing.ModuleCount, res.Sizing.InstalledKWp(), res.Sizing.InverterW, res.Sizing.PerformanceRatio)), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	kpis := [][2]string{
		{"Total investment", Money(res.Capex)},
		{"Monthly installment", "-"},
		{"Lifetime savings (25 years)", Money(s.LifetimeSavings)},
		{"Payback", "not within 25 years"},
		{"ROI", fmt.Sprintf("%.0f%%", s.ROI*100)},
	}
	if res.Financed {
		kpis[1][1] = fmt.Sprintf("%s x %d", Money(res.Installment), financedMonths(res))
	}
	if s.PaybackMonth >= 0 {
		kpis[3][1] = fmt.Sprintf("month %d (%.1f years)", s.PaybackMonth+1, s.PaybackYears())
	}
	pdf.SetFont("Arial", "B", 10)
	for _, kv := range kpis {
		pdf.CellFormat(70, 7, tr(kv[0]), "1", 0, "L", false, 0, "")
		pdf.CellFormat(60, 7, tr(kv[1]), "1", 1, "R", false, 0, "")
	}

	top := pdf.GetY() + 8
	drawMonthlyFlow(pdf, tr, 10, top, 90, 70, s)
	drawTotals(pdf, tr, 110, top, 90, 70, s)
	drawGrowth(pdf, tr, 10, top+85, 190, 90, startingBalance(res), s.YearEndBalance)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func financedMonths(res *simulation.Result) int {
	n := 0
	for _, row := range res.Ledger {
		if row.Installment > 0 {
			n++
		}
	}
	return n
}

// startingBalance is the cumulative position before month 0.
func startingBalance(res *simulation.Result) float64 {
	if res.Financed {
		return 0
	}
	return -res.Capex
}

func setFill(pdf *gofpdf.Fpdf, c rgb) { pdf.SetFillColor(c.r, c.g, c.b) }
func setDraw(pdf *gofpdf.Fpdf, c rgb) { pdf.SetDrawColor(c.r, c.g, c.b) }

func flowColor(delta float64) rgb {
	if delta >= 0 {
		return colorSaving
	}
	return colorInvesting
}

func drawTitle(pdf *gofpdf.Fpdf, tr func(string) string, x, y, w float64, title string) {
	pdf.SetFont("Arial", "B", 10)
	pdf.SetTextColor(colorInk.r, colorInk.g, colorInk.b)
	pdf.SetXY(x, y)
	pdf.CellFormat(w, 6, tr(title), "", 0, "C", false, 0, "")
}

func drawMonthlyFlow(pdf *gofpdf.Fpdf, tr func(string) string, x, y, w, h float64, s analysis.Summary) {
	label := "ECONOMIA"
	if s.FirstMonthDelta < 0 {
		label = "INVESTIMENTO"
	}
	drawTitle(pdf, tr, x, y, w, fmt.Sprintf("FLUXO MENSAL: %s DE %s", label, Money(math.Abs(s.FirstMonthDelta))))

	chartTop, chartBottom := y+10, y+h-8
	peak := math.Max(s.FirstMonthBaseline, s.FirstMonthPostSolar)
	if peak <= 0 {
		peak = 1
	}
	barW := w / 5
	bars := []struct {
		name  string
		value float64
		color rgb
	}{
		{"Hoje", s.FirstMonthBaseline, colorToday},
		{"Com Solar", s.FirstMonthPostSolar, flowColor(s.FirstMonthDelta)},
	}

	pdf.SetFont("Arial", "", 8)
	for i, b := range bars {
		bx := x + barW*(1+2*float64(i))
		bh := math.Max(0, b.value) / peak * (chartBottom - chartTop)
		setFill(pdf, b.color)
		pdf.Rect(bx, chartBottom-bh, barW, bh, "F")
		pdf.SetXY(bx-barW/2, chartBottom-bh-5)
		pdf.CellFormat(barW*2, 4, tr(Money(b.value)), "", 0, "C", false, 0, "")
		pdf.SetXY(bx-barW/2, chartBottom+1)
		pdf.CellFormat(barW*2, 4, tr(b.name), "", 0, "C", false, 0, "")
	}
	setDraw(pdf, colorInk)
	pdf.Line(x, chartBottom, x+w, chartBottom)
}

func drawTotals(pdf *gofpdf.Fpdf, tr func(string) string, x, y, w, h float64, s analysis.Summary) {
	drawTitle(pdf, tr, x, y, w, "ECONOMIA ACUMULADA (25 ANOS)")

	labelW := 20.0
	chartLeft, chartRight := x+labelW, x+w
	peak := math.Max(s.TotalWithout, s.TotalWith)
	if peak <= 0 {
		peak = 1
	}
	barH := 12.0
	rows := []struct {
		name  string
		value float64
		color rgb
	}{
		{"Sem Solar", s.TotalWithout, colorToday},
		{"Com Solar", s.TotalWith, colorSaving},
	}

	pdf.SetFont("Arial", "", 8)
	for i, r := range rows {
		by := y + 12 + float64(i)*(barH+6)
		bw := math.Max(0, r.value) / peak * (chartRight - chartLeft)
		setFill(pdf, r.color)
		pdf.Rect(chartLeft, by, bw, barH, "F")
		pdf.SetXY(x, by)
		pdf.CellFormat(labelW, barH, tr(r.name), "", 0, "L", false, 0, "")
	}

	pdf.SetFont("Arial", "B", 10)
	setDraw(pdf, colorSaving)
	pdf.SetXY(x+labelW, y+h-20)
	pdf.MultiCell(w-labelW, 5, tr("VOCÊ DEIXA DE GASTAR:\n"+Money(s.LifetimeSavings)), "1", "C", false)
}

func drawGrowth(pdf *gofpdf.Fpdf, tr func(string) string, x, y, w, h float64, start float64, yearEnd []float64) {
	drawTitle(pdf, tr, x, y, w, "CRESCIMENTO PATRIMONIAL")

	points := append([]float64{start}, yearEnd...)
	lo, hi := 0.0, 0.0
	for _, v := range points {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if hi == lo {
		hi = lo + 1
	}

	axisW := 16.0
	left, right := x+axisW, x+w
	top, bottom := y+10, y+h
	yOf := func(v float64) float64 { return bottom - (v-lo)/(hi-lo)*(bottom-top) }
	step := (right - left) / float64(max(len(points)-1, 1))
	xOf := func(i int) float64 { return left + float64(i)*step }

	// Grid and axis labels.
	pdf.SetFont("Arial", "", 7)
	pdf.SetLineWidth(0.1)
	setDraw(pdf, colorGrid)
	for i := 0; i <= 4; i++ {
		v := lo + (hi-lo)*float64(i)/4
		gy := yOf(v)
		pdf.Line(left, gy, right, gy)
		pdf.SetXY(x, gy-2)
		pdf.CellFormat(axisW-1, 4, Thousands(v), "", 0, "R", false, 0, "")
	}

	// Signed area, one band per year.
	zero := yOf(0)
	for i := 1; i < len(points); i++ {
		mid := (points[i-1] + points[i]) / 2
		setFill(pdf, flowColor(mid))
		bandTop := math.Min(zero, yOf(mid))
		pdf.Rect(xOf(i-1), bandTop, step, math.Abs(zero-yOf(mid)), "F")
	}

	pdf.SetLineWidth(0.5)
	setDraw(pdf, colorInk)
	for i := 1; i < len(points); i++ {
		pdf.Line(xOf(i-1), yOf(points[i-1]), xOf(i), yOf(points[i]))
	}
	pdf.SetLineWidth(0.2)
	pdf.Line(left, zero, right, zero)

	for i := 0; i < len(points); i += 5 {
		pdf.SetXY(xOf(i)-5, bottom+1)
		pdf.CellFormat(10, 4, fmt.Sprintf("%d", i), "", 0, "C", false, 0, "")
	}
}
