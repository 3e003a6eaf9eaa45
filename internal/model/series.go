package model

import "fmt"

// MonthKeys are the per-month keys used by the NASA POWER climatology API.
// Order matters: index 0 is January.
var MonthKeys = [12]string{"JAN", "FEB", "MAR", "APR", "MAY", "JUN", "JUL", "AUG", "SEP", "OCT", "NOV", "DEC"}

// MonthlySeries holds one value per calendar month, January first.
// Units depend on the series:
// - irradiance: kWh/m²/day (treated as peak sun hours per day)
// - temperature: °C
type MonthlySeries []float64

// FlatSeries returns a 12-month series with every month set to v.
func FlatSeries(v float64) MonthlySeries {
	s := make(MonthlySeries, 12)
	for i := range s {
		s[i] = v
	}
	return s
}

// SeriesFromMap builds an ordered series from a month-keyed mapping.
// Extra keys (e.g. "ANN") are ignored; every month key must be present.
func SeriesFromMap(m map[string]float64) (MonthlySeries, error) {
	s := make(MonthlySeries, 12)
	for i, k := range MonthKeys {
		v, ok := m[k]
		if !ok {
			return nil, fmt.Errorf("missing month %s", k)
		}
		s[i] = v
	}
	return s, nil
}

// ToMap is the inverse of SeriesFromMap. Series that are not 12 long map
// only the months they have.
func (s MonthlySeries) ToMap() map[string]float64 {
	out := make(map[string]float64, len(s))
	for i, v := range s {
		if i >= len(MonthKeys) {
			break
		}
		out[MonthKeys[i]] = v
	}
	return out
}

// Mean returns the arithmetic mean; ok is false for an empty series.
func (s MonthlySeries) Mean() (mean float64, ok bool) {
	if len(s) == 0 {
		return 0, false
	}
	sum := 0.0
	for _, v := range s {
		sum += v
	}
	return sum / float64(len(s)), true
}

// MeanOr returns Mean, or def when the series is empty.
func (s MonthlySeries) MeanOr(def float64) float64 {
	if m, ok := s.Mean(); ok {
		return m
	}
	return def
}

// At returns the value for a 0-based calendar month. When the series does
// not hold exactly 12 months, fallback is returned instead.
func (s MonthlySeries) At(month int, fallback float64) float64 {
	if len(s) != 12 || month < 0 || month >= 12 {
		return fallback
	}
	return s[month]
}
