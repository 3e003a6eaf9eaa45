package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"solar-estimator/internal/analysis"
	"solar-estimator/internal/api/models"
	"solar-estimator/internal/climate"
	"solar-estimator/internal/config"
	"solar-estimator/internal/metrics"
	"solar-estimator/internal/model"
	"solar-estimator/internal/simulation"

	"github.com/gin-gonic/gin"
)

// RankHandler handles ranking-related requests
type RankHandler struct {
	provider climate.Provider
	params   model.CostParameters
	engine   *simulation.Engine
}

// NewRankHandler creates a new rank handler
func NewRankHandler(provider climate.Provider, params model.CostParameters) *RankHandler {
	return &RankHandler{
		provider: provider,
		params:   params,
		engine:   simulation.New(),
	}
}

// RankPlaces handles GET /api/v1/rank
func (h *RankHandler) RankPlaces(c *gin.Context) {
	var req models.RankRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondInvalidRequest(c, err)
		return
	}

	ctx := c.Request.Context()
	results := make(map[string]*simulation.Result, len(req.Places))
	var skipped []models.Skipped

	for _, raw := range req.Places {
		place := strings.TrimSpace(raw)
		if place == "" {
			continue
		}
		if _, seen := results[place]; seen {
			continue
		}

		res, err := h.evaluate(ctx, place, req)
		if err != nil {
			// A cancelled request cannot rank anything.
			if errors.Is(err, context.Canceled) {
				respondErr(c, err)
				return
			}
			var reqErr *requestError
			if errors.As(err, &reqErr) {
				respondErr(c, err)
				return
			}
			log.Printf("[API] rank: skipping %q: %v", place, err)
			skipped = append(skipped, models.Skipped{Place: place, Reason: err.Error()})
			continue
		}
		results[place] = res
	}

	ranked := analysis.RankPlaces(results)
	if req.Limit > 0 && req.Limit < len(ranked) {
		ranked = ranked[:req.Limit]
	}

	rankings := make([]models.Ranking, len(ranked))
	for i, r := range ranked {
		rankings[i] = models.Ranking{
			Rank:            i + 1,
			Place:           r.Place,
			MeanIrradiance:  r.Result.Sizing.MeanIrradiance,
			ModuleCount:     r.Result.Sizing.ModuleCount,
			Capex:           r.Result.Capex,
			LifetimeSavings: r.Summary.LifetimeSavings,
			PaybackMonth:    r.Summary.PaybackMonth,
			ROI:             r.Summary.ROI,
		}
	}

	c.JSON(http.StatusOK, models.RankResponse{
		Rankings: rankings,
		Skipped:  skipped,
	})
}

func (h *RankHandler) evaluate(ctx context.Context, place string, req models.RankRequest) (*simulation.Result, error) {
	clim, err := h.provider.FetchClimate(ctx, place)
	if err != nil {
		return nil, err
	}
	in, err := buildInputs(h.params, clim, req.ConsumptionKWh, req.MinConnectionKWh, nil, config.Overrides{})
	if err != nil {
		return nil, err
	}

	start := time.Now()
	res, err := h.engine.Run(in)
	metrics.ObserveSimulation(metrics.Result(err), time.Since(start))
	return res, err
}
