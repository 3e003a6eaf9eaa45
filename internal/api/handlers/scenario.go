package handlers

import (
	"context"
	"strings"

	"solar-estimator/internal/analysis"
	"solar-estimator/internal/api/models"
	"solar-estimator/internal/climate"
	"solar-estimator/internal/config"
	"solar-estimator/internal/model"
	"solar-estimator/internal/simulation"
)

// run is one evaluated scenario.
type run struct {
	Place   string
	Climate *model.Climate
	Result  *simulation.Result
	Summary analysis.Summary
}

// resolveClimate uses the inline series when present, else asks the provider.
func resolveClimate(ctx context.Context, provider climate.Provider, req models.SimulateRequest) (*model.Climate, error) {
	if req.Climate != nil {
		if len(req.Climate.Irradiance) == 0 {
			return nil, badRequest("INVALID_CLIMATE", "climate.irradiance must not be empty")
		}
		return &model.Climate{
			Place:       req.Place,
			Irradiance:  model.MonthlySeries(req.Climate.Irradiance),
			Temperature: model.MonthlySeries(req.Climate.Temperature),
		}, nil
	}

	place := strings.TrimSpace(req.Place)
	if place == "" {
		return nil, badRequest("MISSING_CLIMATE", "either place or climate is required")
	}
	if provider == nil {
		return nil, badRequest("CLIMATE_UNAVAILABLE", "place lookup is not configured; send climate series instead")
	}
	return provider.FetchClimate(ctx, place)
}

// buildInputs overlays the request's overrides and financing on base.
func buildInputs(base model.CostParameters, clim *model.Climate, consumption float64, minConn *float64, fin *models.FinancingInput, ov config.Overrides) (simulation.Inputs, error) {
	params, err := ov.Apply(base)
	if err != nil {
		return simulation.Inputs{}, badRequest("INVALID_PARAMETERS", "%v", err)
	}

	minConnection := float64(model.MinConnectionSinglePhase)
	if minConn != nil {
		if *minConn < 0 {
			return simulation.Inputs{}, badRequest("INVALID_MIN_CONNECTION", "min_connection_kwh must be >= 0")
		}
		minConnection = *minConn
	}

	var terms *model.FinancingTerms
	if fin != nil {
		if fin.Months < 0 || fin.AnnualRatePct < 0 {
			return simulation.Inputs{}, badRequest("INVALID_FINANCING", "financing rate and months must be >= 0")
		}
		terms = &model.FinancingTerms{AnnualRatePct: fin.AnnualRatePct, Months: fin.Months}
	}

	return simulation.Inputs{
		ConsumptionKWh:   consumption,
		MinConnectionKWh: minConnection,
		Irradiance:       clim.Irradiance,
		Temperature:      clim.Temperature,
		Financing:        terms,
		Params:           params,
	}, nil
}

// mergeOverrides lets non-nil fields of v replace those of base.
func mergeOverrides(base, v config.Overrides) config.Overrides {
	out := base
	if v.TariffPerKWh != nil {
		out.TariffPerKWh = v.TariffPerKWh
	}
	if v.InflationRate != nil {
		out.InflationRate = v.InflationRate
	}
	if v.DegradationRate != nil {
		out.DegradationRate = v.DegradationRate
	}
	return out
}

func toClimateInfo(c *model.Climate) *models.ClimateInfo {
	if c == nil {
		return nil
	}
	return &models.ClimateInfo{
		Address:     c.Address,
		Latitude:    c.Latitude,
		Longitude:   c.Longitude,
		Irradiance:  c.Irradiance,
		Temperature: c.Temperature,
	}
}

func toSizingInfo(s model.SystemSizing) models.SizingInfo {
	return models.SizingInfo{
		RequiredKWp:      s.RequiredKWp,
		ModuleCount:      s.ModuleCount,
		InstalledWp:      s.InstalledWp,
		InverterW:        s.InverterW,
		PerformanceRatio: s.PerformanceRatio,
		MeanIrradiance:   s.MeanIrradiance,
		MeanTemperature:  s.MeanTemperature,
	}
}

func toCostsInfo(res *simulation.Result) models.CostsInfo {
	return models.CostsInfo{
		Capex:       res.Capex,
		Financed:    res.Financed,
		Installment: res.Installment,
	}
}

func toSummaryInfo(s analysis.Summary) models.SummaryInfo {
	return models.SummaryInfo{
		FirstMonthBaseline:  s.FirstMonthBaseline,
		FirstMonthPostSolar: s.FirstMonthPostSolar,
		FirstMonthDelta:     s.FirstMonthDelta,
		FirstMonthFlow:      string(s.FirstMonthFlow),
		TotalWithout:        s.TotalWithout,
		TotalWith:           s.TotalWith,
		LifetimeSavings:     s.LifetimeSavings,
		PaybackMonth:        s.PaybackMonth,
		ROI:                 s.ROI,
		MinBalance:          s.MinBalance,
	}
}

func toTechnicalInfo(t simulation.TechnicalSheet) models.TechnicalInfo {
	return models.TechnicalInfo{
		RoofAreaM2:    t.RoofAreaM2,
		LoadKg:        t.LoadKg,
		LoadKgPerM2:   t.LoadKgPerM2,
		OutputCurrent: t.OutputCurrent,
		BreakerA:      t.BreakerA,
		CableMM2:      t.CableMM2,
	}
}

func convertLedger(ledger []simulation.LedgerRow) []models.LedgerRow {
	rows := make([]models.LedgerRow, len(ledger))
	for i, r := range ledger {
		rows[i] = models.LedgerRow{
			Index:           r.Index,
			Year:            r.Year,
			Month:           r.Month,
			Tariff:          r.Tariff,
			BaselineCost:    r.BaselineCost,
			GenerationKWh:   r.GenerationKWh,
			InjectedKWh:     r.InjectedKWh,
			SelfConsumedKWh: r.SelfConsumedKWh,
			GridDrawKWh:     r.GridDrawKWh,
			CreditKWh:       r.CreditKWh,
			UsageCharge:     r.UsageCharge,
			Bill:            r.Bill,
			Installment:     r.Installment,
			PostSolar:       r.PostSolar,
			Delta:           r.Delta,
			Balance:         r.Balance,
			Flow:            string(r.Flow),
		}
	}
	return rows
}
