package analysis

import (
	"math"
	"sort"

	"solar-estimator/internal/model"
	"solar-estimator/internal/simulation"
)

// Summary condenses a simulation into the figures a proposal quotes.
type Summary struct {
	// First simulated month, the "monthly flow" comparison.
	FirstMonthBaseline  float64
	FirstMonthPostSolar float64
	FirstMonthDelta     float64
	FirstMonthFlow      model.Flow

	TotalWithout    float64
	TotalWith       float64
	LifetimeSavings float64

	// PaybackMonth is the first month index whose cumulative balance is
	// >= 0, or -1 if the system never pays back.
	PaybackMonth int
	ROI          float64 // lifetime savings / capex; 0 when capex is 0

	// Worst cumulative position over the horizon.
	MinBalance float64

	MeanMonthlyDelta float64
	P05MonthlyDelta  float64
	P95MonthlyDelta  float64

	// YearEndBalance is the cumulative balance after each full year.
	YearEndBalance []float64
}

// PaybackYears converts PaybackMonth to years; 0 when there is no payback.
func (s Summary) PaybackYears() float64 {
	if s.PaybackMonth < 0 {
		return 0
	}
	return float64(s.PaybackMonth+1) / 12
}

func Summarize(res *simulation.Result) Summary {
	s := Summary{PaybackMonth: -1}
	if res == nil {
		return s
	}
	traj := res.Trajectory
	n := len(traj.Balance)
	if n == 0 {
		return s
	}

	s.FirstMonthBaseline = traj.Baseline[0]
	s.FirstMonthPostSolar = traj.PostSolar[0]
	s.FirstMonthDelta = traj.Baseline[0] - traj.PostSolar[0]
	s.FirstMonthFlow = model.FlowFromDelta(s.FirstMonthDelta)

	s.TotalWithout = traj.TotalWithout
	s.TotalWith = traj.TotalWith
	s.LifetimeSavings = traj.LifetimeSavings()
	if res.Capex > 0 {
		s.ROI = s.LifetimeSavings / res.Capex
	}

	s.MinBalance = math.Inf(1)
	deltas := make([]float64, 0, n)
	sum := 0.0
	for m, b := range traj.Balance {
		if s.PaybackMonth < 0 && b >= 0 {
			s.PaybackMonth = m
		}
		if b < s.MinBalance {
			s.MinBalance = b
		}
		if (m+1)%12 == 0 {
			s.YearEndBalance = append(s.YearEndBalance, b)
		}
		d := traj.Baseline[m] - traj.PostSolar[m]
		deltas = append(deltas, d)
		sum += d
	}
	s.MeanMonthlyDelta = sum / float64(n)

	sort.Float64s(deltas)
	s.P05MonthlyDelta = percentileSorted(deltas, 0.05)
	s.P95MonthlyDelta = percentileSorted(deltas, 0.95)
	return s
}

func percentileSorted(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	// Linear interpolation between order stats.
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
