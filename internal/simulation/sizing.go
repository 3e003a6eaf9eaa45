package simulation

import (
	"math"

	"solar-estimator/internal/model"
)

const (
	// DefaultMeanIrradiance and DefaultMeanTemperature stand in for an empty
	// series: typical Brazilian conditions.
	DefaultMeanIrradiance  = 4.5
	DefaultMeanTemperature = 25.0

	// Cell temperature runs roughly 20 °C above ambient; output is rated at
	// 25 °C and drops 0.35% per degree above that.
	cellToAmbientDeltaC = 20.0
	referenceCellTempC  = 25.0
	thermalLossPerC     = 0.0035

	daysPerMonth = 30.0

	// MaxModules bounds a sizing so the module count stays representable.
	MaxModules = math.MaxInt32
)

// inverterCatalog maps installed Wp upper bounds to inverter ratings.
// Anything at or above the last bound gets the largest inverter.
var inverterCatalog = []struct {
	belowWp   float64
	inverterW float64
}{
	{4000, 3000},
	{6500, 5000},
	{10000, 8000},
}

const largestInverterW = 10000

// PerformanceRatio applies thermal derating to the base ratio and clamps it
// at the floor.
func PerformanceRatio(meanTempC float64, p model.CostParameters) float64 {
	loss := math.Max(0, (meanTempC+cellToAmbientDeltaC-referenceCellTempC)*thermalLossPerC)
	return math.Max(p.PRMin, p.PRBase-loss)
}

// SelectInverter picks the inverter rating for an installed capacity.
func SelectInverter(installedWp float64) float64 {
	for _, c := range inverterCatalog {
		if installedWp < c.belowWp {
			return c.inverterW
		}
	}
	return largestInverterW
}

// ModuleCount rounds a capacity up to whole modules, at least 2 and even.
func ModuleCount(capacityKWp, moduleWatts float64) int {
	n := int(math.Ceil(capacityKWp * 1000 / moduleWatts))
	if n < 2 {
		n = 2
	}
	if n%2 != 0 {
		n++
	}
	return n
}

// Size derives the system needed to cover a monthly consumption.
//
// consumptionKWh is kWh/month. Empty series fall back to the default means.
// A non-positive mean irradiance has no finite answer and is rejected.
func Size(consumptionKWh float64, irradiance, temperature model.MonthlySeries, p model.CostParameters) (model.SystemSizing, error) {
	if math.IsNaN(consumptionKWh) || math.IsInf(consumptionKWh, 0) {
		return model.SystemSizing{}, &InvalidInputError{Field: "consumption", Value: consumptionKWh, Msg: "must be a finite number"}
	}

	meanIrr := irradiance.MeanOr(DefaultMeanIrradiance)
	meanTemp := temperature.MeanOr(DefaultMeanTemperature)
	if !(meanIrr > 0) || math.IsInf(meanIrr, 0) {
		return model.SystemSizing{}, &InvalidInputError{Field: "irradiance", Value: meanIrr, Msg: "mean must be > 0"}
	}

	pr := PerformanceRatio(meanTemp, p)
	kwp := consumptionKWh / (meanIrr * daysPerMonth * pr)
	if math.IsNaN(kwp) || math.IsInf(kwp, 0) {
		return model.SystemSizing{}, &InvalidInputError{Field: "performance_ratio", Value: pr, Msg: "capacity is unbounded"}
	}

	if kwp*1000/p.Module.Watts > MaxModules {
		return model.SystemSizing{}, &InvalidInputError{Field: "consumption", Value: consumptionKWh, Msg: "requires more modules than can be sized"}
	}

	modules := ModuleCount(kwp, p.Module.Watts)
	installed := float64(modules) * p.Module.Watts

	return model.SystemSizing{
		RequiredKWp:      kwp,
		ModuleCount:      modules,
		InstalledWp:      installed,
		InverterW:        SelectInverter(installed),
		PerformanceRatio: pr,
		MeanIrradiance:   meanIrr,
		MeanTemperature:  meanTemp,
	}, nil
}
