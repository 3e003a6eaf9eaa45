package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"solar-estimator/internal/model"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk cost-parameter shape (YAML).
type Config struct {
	// Optional: load a base parameter file (e.g. examples/params/*.yaml).
	// Non-zero fields in this file override the base.
	BaseFile    string            `yaml:"base_file" json:"base_file,omitempty"`
	Tariff      TariffConfig      `yaml:"tariff" json:"tariff"`
	Module      ModuleConfig      `yaml:"module" json:"module"`
	Costs       CostsConfig       `yaml:"costs" json:"costs"`
	Performance PerformanceConfig `yaml:"performance" json:"performance"`
}

type TariffConfig struct {
	PerKWh        float64 `yaml:"per_kwh" json:"per_kwh"`
	FioBFactor    float64 `yaml:"fio_b_factor" json:"fio_b_factor"`
	FioBComponent float64 `yaml:"fio_b_component" json:"fio_b_component"`
	InflationRate float64 `yaml:"inflation_rate" json:"inflation_rate"`
}

type ModuleConfig struct {
	Watts    float64 `yaml:"watts" json:"watts"`
	AreaM2   float64 `yaml:"area_m2" json:"area_m2"`
	WeightKg float64 `yaml:"weight_kg" json:"weight_kg"`
	UnitCost float64 `yaml:"unit_cost" json:"unit_cost"`
}

type CostsConfig struct {
	InverterCostPerWatt float64 `yaml:"inverter_cost_per_watt" json:"inverter_cost_per_watt"`
	Markup              float64 `yaml:"markup" json:"markup"`
}

type PerformanceConfig struct {
	PRMin           float64 `yaml:"pr_min" json:"pr_min"`
	PRBase          float64 `yaml:"pr_base" json:"pr_base"`
	DegradationRate float64 `yaml:"degradation_rate" json:"degradation_rate"`
}

// Defaults returns the built-in parameters in file form.
func Defaults() Config {
	return FromModelParams(model.DefaultCostParameters())
}

// Load reads path, fills unset fields from the defaults, and validates.
func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	merged := MergeParams(Defaults(), *c)
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

// LoadUnchecked loads and merges the file chain, but does not apply defaults
// or validate. Useful for printing what a file actually sets.
func LoadUnchecked(path string) (*Config, error) {
	return loadChain(path, map[string]bool{})
}

// loadChain follows base_file links, failing on any path seen earlier in the chain.
func loadChain(path string, visited map[string]bool) (*Config, error) {
	key, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	key = filepath.Clean(key)
	if visited[key] {
		return nil, fmt.Errorf("base_file cycle: %s is already in the chain", path)
	}
	visited[key] = true

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if c.BaseFile != "" {
		basePath := c.BaseFile
		if !filepath.IsAbs(basePath) {
			// Relative to the including file first, then to cwd.
			cand := filepath.Join(filepath.Dir(path), basePath)
			if _, err := os.Stat(cand); err == nil {
				basePath = cand
			}
		}
		base, err := loadChain(basePath, visited)
		if err != nil {
			return nil, fmt.Errorf("load base_file: %w", err)
		}
		c = MergeParams(*base, c)
		c.BaseFile = ""
	}
	return &c, nil
}

// Save writes c as YAML.
func Save(path string, c Config) error {
	raw, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o644)
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if err := c.ToModelParams().Validate(); err != nil {
		return fmt.Errorf("cost parameters invalid: %w", err)
	}
	return nil
}

func (c Config) ToModelParams() model.CostParameters {
	return model.CostParameters{
		TariffPerKWh:  c.Tariff.PerKWh,
		FioBFactor:    c.Tariff.FioBFactor,
		FioBComponent: c.Tariff.FioBComponent,
		InflationRate: c.Tariff.InflationRate,

		DegradationRate: c.Performance.DegradationRate,
		PRMin:           c.Performance.PRMin,
		PRBase:          c.Performance.PRBase,

		Module: model.ModuleSpec{
			Watts:    c.Module.Watts,
			AreaM2:   c.Module.AreaM2,
			WeightKg: c.Module.WeightKg,
		},
		ModuleUnitCost:      c.Module.UnitCost,
		InverterCostPerWatt: c.Costs.InverterCostPerWatt,
		Markup:              c.Costs.Markup,
	}
}

func FromModelParams(p model.CostParameters) Config {
	return Config{
		Tariff: TariffConfig{
			PerKWh:        p.TariffPerKWh,
			FioBFactor:    p.FioBFactor,
			FioBComponent: p.FioBComponent,
			InflationRate: p.InflationRate,
		},
		Module: ModuleConfig{
			Watts:    p.Module.Watts,
			AreaM2:   p.Module.AreaM2,
			WeightKg: p.Module.WeightKg,
			UnitCost: p.ModuleUnitCost,
		},
		Costs: CostsConfig{
			InverterCostPerWatt: p.InverterCostPerWatt,
			Markup:              p.Markup,
		},
		Performance: PerformanceConfig{
			PRMin:           p.PRMin,
			PRBase:          p.PRBase,
			DegradationRate: p.DegradationRate,
		},
	}
}

// MergeParams overlays non-zero fields from override onto base.
// A file cannot set a rate to exactly 0 this way; use Overrides for that.
func MergeParams(base, override Config) Config {
	out := base
	if override.BaseFile != "" {
		out.BaseFile = override.BaseFile
	}

	setIf(&out.Tariff.PerKWh, override.Tariff.PerKWh)
	setIf(&out.Tariff.FioBFactor, override.Tariff.FioBFactor)
	setIf(&out.Tariff.FioBComponent, override.Tariff.FioBComponent)
	setIf(&out.Tariff.InflationRate, override.Tariff.InflationRate)

	setIf(&out.Module.Watts, override.Module.Watts)
	setIf(&out.Module.AreaM2, override.Module.AreaM2)
	setIf(&out.Module.WeightKg, override.Module.WeightKg)
	setIf(&out.Module.UnitCost, override.Module.UnitCost)

	setIf(&out.Costs.InverterCostPerWatt, override.Costs.InverterCostPerWatt)
	setIf(&out.Costs.Markup, override.Costs.Markup)

	setIf(&out.Performance.PRMin, override.Performance.PRMin)
	setIf(&out.Performance.PRBase, override.Performance.PRBase)
	setIf(&out.Performance.DegradationRate, override.Performance.DegradationRate)
	return out
}

func setIf(dst *float64, v float64) {
	if v != 0 {
		*dst = v
	}
}

// Overrides are per-run adjustments from CLI flags or request bodies.
// Rates are fractions (0.08 = 8%/year). Nil means "keep".
type Overrides struct {
	TariffPerKWh    *float64 `json:"tariff_per_kwh,omitempty"`
	InflationRate   *float64 `json:"inflation_rate,omitempty"`
	DegradationRate *float64 `json:"degradation_rate,omitempty"`
}

// Apply returns p with the overrides set and validates the result.
func (o Overrides) Apply(p model.CostParameters) (model.CostParameters, error) {
	if o.TariffPerKWh != nil {
		p.TariffPerKWh = *o.TariffPerKWh
	}
	if o.InflationRate != nil {
		p.InflationRate = *o.InflationRate
	}
	if o.DegradationRate != nil {
		p.DegradationRate = *o.DegradationRate
	}
	if err := p.Validate(); err != nil {
		return p, err
	}
	return p, nil
}

// LoadParams returns the defaults when path is empty, else the file's
// parameters.
func LoadParams(path string) (model.CostParameters, error) {
	if path == "" {
		return model.DefaultCostParameters(), nil
	}
	c, err := Load(path)
	if err != nil {
		return model.CostParameters{}, err
	}
	return c.ToModelParams(), nil
}
