package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"solar-estimator/internal/analysis"
	"solar-estimator/internal/model"
	"solar-estimator/internal/simulation"
)

func sample(t *testing.T, financing *model.FinancingTerms) (*simulation.Result, analysis.Summary) {
	t.Helper()
	res, err := simulation.New().Run(simulation.Inputs{
		ConsumptionKWh:   300,
		MinConnectionKWh: 30,
		Irradiance:       model.FlatSeries(5),
		Temperature:      model.FlatSeries(25),
		Financing:        financing,
		Params:           model.DefaultCostParameters(),
	})
	require.NoError(t, err)
	return res, analysis.Summarize(res)
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "R$ 12,852.00", Money(12852))
	assert.Equal(t, "R$ 0.50", Money(0.499))
	assert.Equal(t, "-R$ 1,234,567.89", Money(-1234567.891))
	assert.Equal(t, "R$ 999.99", Money(999.99))
	assert.Equal(t, "R$ 0.00", Money(0))
}

func TestThousands(t *testing.T) {
	assert.Equal(t, "-12k", Thousands(-12852))
	assert.Equal(t, "205k", Thousands(205062.19))
	assert.Equal(t, "1,250k", Thousands(1250000))
	assert.Equal(t, "0k", Thousands(400))
}

func TestSummary_Upfront(t *testing.T) {
	res, s := sample(t, nil)

	var buf bytes.Buffer
	require.NoError(t, Summary(&buf, "Natal, RN", res, s))
	out := buf.String()

	assert.Contains(t, out, "Natal, RN")
	assert.Contains(t, out, "Total investment:   R$ 12,852.00")
	assert.Contains(t, out, "SAVING of R$ 248.40")
	assert.NotContains(t, out, "installment")
	assert.Contains(t, out, "Payback:            month")
}

func TestSummary_Financed(t *testing.T) {
	res, s := sample(t, &model.FinancingTerms{AnnualRatePct: 12, Months: 24})

	var buf bytes.Buffer
	require.NoError(t, Summary(&buf, "Natal, RN", res, s))
	assert.Contains(t, buf.String(), "Monthly installment: "+Money(res.Installment))
}

func TestTechnicalText(t *testing.T) {
	sheet := simulation.Technical(10, 5000, model.DefaultCostParameters().Module)

	var buf bytes.Buffer
	require.NoError(t, TechnicalText(&buf, sheet))
	out := buf.String()

	assert.Contains(t, out, "Roof area:          26.0 m²")
	assert.Contains(t, out, "AC breaker:         32 A")
	assert.Contains(t, out, "AC cable:           4.0mm²")
}

func TestDashboardPDF(t *testing.T) {
	for _, fin := range []*model.FinancingTerms{nil, {AnnualRatePct: 12, Months: 24}} {
		res, s := sample(t, fin)
		raw, err := DashboardPDF("São Luís, MA", res, s)
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(raw, []byte("%PDF-")))
		assert.Greater(t, len(raw), 1000)
	}

	_, err := DashboardPDF("x", nil, analysis.Summary{})
	assert.Error(t, err)
}

func TestWorkbookXLSX(t *testing.T) {
	res, s := sample(t, nil)
	raw, err := WorkbookXLSX("Natal, RN", res, s)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(raw))
	require.NoError(t, err)
	defer f.Close()

	place, err := f.GetCellValue(summarySheet, "B3")
	require.NoError(t, err)
	assert.Equal(t, "Natal, RN", place)

	modules, err := f.GetCellValue(summarySheet, "B4")
	require.NoError(t, err)
	assert.Equal(t, "6", modules)

	rows, err := f.GetRows(cashflowSheet)
	require.NoError(t, err)
	require.Len(t, rows, 301)
	assert.Equal(t, "Month", rows[0][0])
	assert.Equal(t, "1", rows[1][0])
	assert.Equal(t, "SAVING", rows[1][16])
	assert.True(t, strings.HasPrefix(rows[300][0], "300"))
}
