package analysis

import (
	"sort"

	"solar-estimator/internal/simulation"
)

type Ranked struct {
	Place string
	Summary
	Result *simulation.Result
}

// RankPlaces summarizes each place's result and sorts by lifetime savings,
// descending. Ties go to the alphabetically first place. Nil results are
// skipped.
func RankPlaces(byPlace map[string]*simulation.Result) []Ranked {
	out := make([]Ranked, 0, len(byPlace))
	for place, res := range byPlace {
		if res == nil {
			continue
		}
		out = append(out, Ranked{Place: place, Summary: Summarize(res), Result: res})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LifetimeSavings != out[j].LifetimeSavings {
			return out[i].LifetimeSavings > out[j].LifetimeSavings
		}
		return out[i].Place < out[j].Place
	})
	return out
}
