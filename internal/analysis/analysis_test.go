package analysis

import (
	"testing"

	"solar-estimator/internal/model"
	"solar-estimator/internal/simulation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, irr float64, financing *model.FinancingTerms) *simulation.Result {
	t.Helper()
	res, err := simulation.New().Run(simulation.Inputs{
		ConsumptionKWh:   300,
		MinConnectionKWh: 30,
		Irradiance:       model.FlatSeries(irr),
		Temperature:      model.FlatSeries(25),
		Financing:        financing,
		Params:           model.DefaultCostParameters(),
	})
	require.NoError(t, err)
	return res
}

func TestSummarize_Upfront(t *testing.T) {
	res := run(t, 5, nil)
	s := Summarize(res)

	assert.InDelta(t, 276.0, s.FirstMonthBaseline, 1e-9)
	assert.InDelta(t, 27.6, s.FirstMonthPostSolar, 1e-9)
	assert.Equal(t, model.FlowSaving, s.FirstMonthFlow)
	assert.InDelta(t, res.Trajectory.LifetimeSavings(), s.LifetimeSavings, 1e-9)
	assert.InDelta(t, s.LifetimeSavings/res.Capex, s.ROI, 1e-12)
	assert.Len(t, s.YearEndBalance, 25)
	assert.Equal(t, res.Trajectory.Balance[299], s.YearEndBalance[24])
	assert.InDelta(t, res.Trajectory.Balance[0], s.MinBalance, 1e-9)

	require.GreaterOrEqual(t, s.PaybackMonth, 1)
	assert.GreaterOrEqual(t, res.Trajectory.Balance[s.PaybackMonth], 0.0)
	assert.Less(t, res.Trajectory.Balance[s.PaybackMonth-1], 0.0)
	assert.InDelta(t, float64(s.PaybackMonth+1)/12, s.PaybackYears(), 1e-12)

	assert.LessOrEqual(t, s.P05MonthlyDelta, s.MeanMonthlyDelta)
	assert.GreaterOrEqual(t, s.P95MonthlyDelta, s.MeanMonthlyDelta)
}

func TestSummarize_NoPayback(t *testing.T) {
	res := run(t, 0.05, nil)
	s := Summarize(res)

	assert.Equal(t, -1, s.PaybackMonth)
	assert.Equal(t, 0.0, s.PaybackYears())
	assert.Less(t, s.LifetimeSavings, 0.0)
}

func TestSummarize_FinancedFirstMonth(t *testing.T) {
	res := run(t, 5, &model.FinancingTerms{AnnualRatePct: 18, Months: 60})
	s := Summarize(res)

	assert.InDelta(t, s.FirstMonthBaseline-s.FirstMonthPostSolar, s.FirstMonthDelta, 1e-9)
	assert.Equal(t, model.FlowFromDelta(s.FirstMonthDelta), s.FirstMonthFlow)
}

func TestSummarize_Nil(t *testing.T) {
	s := Summarize(nil)
	assert.Equal(t, -1, s.PaybackMonth)
}

func TestRankPlaces(t *testing.T) {
	good := run(t, 5, nil)
	poor := run(t, 0.05, nil)

	ranked := RankPlaces(map[string]*simulation.Result{
		"Nowhere, XX":   poor,
		"Petrolina, PE": good,
		"Juazeiro, BA":  good,
		"Skipped":       nil,
	})

	require.Len(t, ranked, 3)
	assert.Equal(t, "Juazeiro, BA", ranked[0].Place)
	assert.Equal(t, "Petrolina, PE", ranked[1].Place)
	assert.Equal(t, "Nowhere, XX", ranked[2].Place)
	assert.Greater(t, ranked[1].LifetimeSavings, ranked[2].LifetimeSavings)
	assert.Same(t, good, ranked[0].Result)
}

func TestPercentileSorted(t *testing.T) {
	vals := []float64{1, 2, 3, 4, 5}
	assert.Equal(t, 1.0, percentileSorted(vals, 0))
	assert.Equal(t, 5.0, percentileSorted(vals, 1))
	assert.Equal(t, 3.0, percentileSorted(vals, 0.5))
	assert.InDelta(t, 1.2, percentileSorted(vals, 0.05), 1e-12)
	assert.Equal(t, 0.0, percentileSorted(nil, 0.5))
}
