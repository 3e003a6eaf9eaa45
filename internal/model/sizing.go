package model

// SystemSizing is the physical system derived from consumption and climate.
// Created once per run and never mutated afterwards.
type SystemSizing struct {
	RequiredKWp float64 // capacity needed to cover consumption, before rounding to modules

	ModuleCount int     // even, >= 2
	InstalledWp float64 // ModuleCount * module watts
	InverterW   float64 // from the discrete inverter catalog

	PerformanceRatio float64 // in [PRMin, PRBase]
	MeanIrradiance   float64 // kWh/m²/day
	MeanTemperature  float64 // °C
}

// InstalledKWp is InstalledWp in kWp.
func (s SystemSizing) InstalledKWp() float64 {
	return s.InstalledWp / 1000
}
