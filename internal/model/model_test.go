package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeriesFromMap_OrdersByMonth(t *testing.T) {
	m := map[string]float64{"ANN": 99}
	for i, k := range MonthKeys {
		m[k] = float64(i + 1)
	}

	s, err := SeriesFromMap(m)
	require.NoError(t, err)
	require.Len(t, s, 12)
	assert.Equal(t, 1.0, s[0])
	assert.Equal(t, 12.0, s[11])
	assert.Equal(t, s, mustSeries(t, s.ToMap()))
}

func TestSeriesFromMap_MissingMonth(t *testing.T) {
	m := FlatSeries(5).ToMap()
	delete(m, "JUL")

	_, err := SeriesFromMap(m)
	assert.ErrorContains(t, err, "JUL")
}

func TestMonthlySeries_MeanEmpty(t *testing.T) {
	_, ok := MonthlySeries(nil).Mean()
	assert.False(t, ok)
	assert.Equal(t, 4.5, MonthlySeries{}.MeanOr(4.5))
	assert.Equal(t, 2.0, MonthlySeries{1, 3}.MeanOr(4.5))
}

func TestMonthlySeries_AtFallsBackUnlessTwelve(t *testing.T) {
	full := FlatSeries(6)
	full[3] = 7
	assert.Equal(t, 7.0, full.At(3, 1))
	assert.Equal(t, 1.0, full.At(12, 1))

	short := MonthlySeries{5, 6, 7}
	assert.Equal(t, 6.0, short.At(0, 6))
}

func TestFlowFromDelta(t *testing.T) {
	assert.Equal(t, FlowSaving, FlowFromDelta(0.01))
	assert.Equal(t, FlowInvesting, FlowFromDelta(-3))
	assert.Equal(t, FlowBreakeven, FlowFromDelta(0))
}

func TestCostParameters_Validate(t *testing.T) {
	require.NoError(t, DefaultCostParameters().Validate())

	p := DefaultCostParameters()
	p.PRMin = 0.9
	assert.Error(t, p.Validate())

	p = DefaultCostParameters()
	p.Module.Watts = 0
	assert.Error(t, p.Validate())

	p = DefaultCostParameters()
	p.TariffPerKWh = -1
	assert.Error(t, p.Validate())
}

func TestCostParameters_FioBRate(t *testing.T) {
	p := DefaultCostParameters()
	assert.InDelta(t, 0.92*0.28*0.45, p.FioBRate(), 1e-12)
}

func mustSeries(t *testing.T, m map[string]float64) MonthlySeries {
	t.Helper()
	s, err := SeriesFromMap(m)
	require.NoError(t, err)
	return s
}

func TestValidateMinConnection(t *testing.T) {
	for _, v := range []float64{30, 50, 100} {
		assert.NoError(t, ValidateMinConnection(v))
	}
	assert.Error(t, ValidateMinConnection(40))
	assert.Error(t, ValidateMinConnection(0))
}
