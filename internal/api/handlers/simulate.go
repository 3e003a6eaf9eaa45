package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"solar-estimator/internal/analysis"
	"solar-estimator/internal/api/models"
	"solar-estimator/internal/climate"
	"solar-estimator/internal/metrics"
	"solar-estimator/internal/model"
	"solar-estimator/internal/report"
	"solar-estimator/internal/simulation"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SimulationHandler handles simulation and report requests
type SimulationHandler struct {
	provider climate.Provider
	params   model.CostParameters
	engine   *simulation.Engine
}

// NewSimulationHandler creates a new simulation handler. provider may be nil,
// in which case requests must carry their own climate series.
func NewSimulationHandler(provider climate.Provider, params model.CostParameters) *SimulationHandler {
	return &SimulationHandler{
		provider: provider,
		params:   params,
		engine:   simulation.New(),
	}
}

// Simulate handles POST /api/v1/simulate
func (h *SimulationHandler) Simulate(c *gin.Context) {
	var req models.SimulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalidRequest(c, err)
		return
	}

	r, err := h.runRequest(c.Request.Context(), req)
	if err != nil {
		respondErr(c, err)
		return
	}

	resp := models.SimulateResponse{
		ID:        uuid.New().String(),
		Status:    "completed",
		Place:     r.Place,
		Climate:   toClimateInfo(r.Climate),
		Sizing:    toSizingInfo(r.Result.Sizing),
		Costs:     toCostsInfo(r.Result),
		Summary:   toSummaryInfo(r.Summary),
		Technical: toTechnicalInfo(r.Result.Technical),
	}
	if req.Options.IncludeTrajectory {
		traj := r.Result.Trajectory
		resp.Trajectory = &models.TrajectoryInfo{
			Baseline:  traj.Baseline,
			PostSolar: traj.PostSolar,
			Balance:   traj.Balance,
		}
	}
	if req.Options.IncludeLedger {
		resp.Ledger = convertLedger(r.Result.Ledger)
	}

	c.JSON(http.StatusOK, resp)
}

// Compare handles POST /api/v1/simulate/compare
func (h *SimulationHandler) Compare(c *gin.Context) {
	var req models.CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalidRequest(c, err)
		return
	}

	// One climate lookup serves every variation.
	clim, err := resolveClimate(c.Request.Context(), h.provider, req.Base)
	if err != nil {
		respondErr(c, err)
		return
	}

	results := make([]models.ComparisonResult, 0, len(req.Variations)+1)

	base, err := h.evaluate(clim, req.Base)
	if err != nil {
		respondErr(c, err)
		return
	}
	results = append(results, comparisonResult("base", base))

	for _, v := range req.Variations {
		varReq := applyVariation(req.Base, v)
		r, err := h.evaluate(clim, varReq)
		if err != nil {
			respondErr(c, fmt.Errorf("variation %q: %w", v.Name, err))
			return
		}
		results = append(results, comparisonResult(v.Name, r))
	}

	c.JSON(http.StatusOK, models.CompareResponse{
		ID:         uuid.New().String(),
		Comparison: results,
	})
}

// Report handles POST /api/v1/report?format=pdf|xlsx
func (h *SimulationHandler) Report(c *gin.Context) {
	var query models.ReportRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		respondInvalidRequest(c, err)
		return
	}
	format := strings.ToLower(strings.TrimSpace(query.Format))
	if format == "" {
		format = "pdf"
	}
	if format != "pdf" && format != "xlsx" {
		respondError(c, http.StatusBadRequest, "UNSUPPORTED_FORMAT",
			fmt.Sprintf("format must be pdf or xlsx, got %q", query.Format), nil)
		return
	}

	var req models.SimulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalidRequest(c, err)
		return
	}

	r, err := h.runRequest(c.Request.Context(), req)
	if err != nil {
		respondErr(c, err)
		return
	}

	label := r.Place
	if label == "" {
		label = "Custom climate"
	}

	start := time.Now()
	var (
		body        []byte
		contentType string
	)
	switch format {
	case "xlsx":
		body, err = report.WorkbookXLSX(label, r.Result, r.Summary)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		body, err = report.DashboardPDF(label, r.Result, r.Summary)
		contentType = "application/pdf"
	}
	metrics.ObserveReport(format, metrics.Result(err), time.Since(start))
	if err != nil {
		log.Printf("[API] render %s report: %v", format, err)
		respondError(c, http.StatusInternalServerError, "REPORT_RENDER_ERROR", err.Error(), nil)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="solar-report.%s"`, format))
	c.Data(http.StatusOK, contentType, body)
}

// runRequest resolves the climate and evaluates req.
func (h *SimulationHandler) runRequest(ctx context.Context, req models.SimulateRequest) (*run, error) {
	clim, err := resolveClimate(ctx, h.provider, req)
	if err != nil {
		return nil, err
	}
	return h.evaluate(clim, req)
}

func (h *SimulationHandler) evaluate(clim *model.Climate, req models.SimulateRequest) (*run, error) {
	if req.ConsumptionKWh == nil {
		return nil, badRequest("MISSING_CONSUMPTION", "consumption_kwh is required")
	}
	in, err := buildInputs(h.params, clim, *req.ConsumptionKWh, req.MinConnectionKWh, req.Financing, req.Overrides)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	res, err := h.engine.Run(in)
	metrics.ObserveSimulation(metrics.Result(err), time.Since(start))
	if err != nil {
		return nil, err
	}

	return &run{
		Place:   clim.Place,
		Climate: clim,
		Result:  res,
		Summary: analysis.Summarize(res),
	}, nil
}

// applyVariation returns base with v's non-nil fields applied.
func applyVariation(base models.SimulateRequest, v models.Variation) models.SimulateRequest {
	out := base
	if v.ConsumptionKWh != nil {
		out.ConsumptionKWh = v.ConsumptionKWh
	}
	if v.MinConnectionKWh != nil {
		out.MinConnectionKWh = v.MinConnectionKWh
	}
	switch {
	case v.Upfront:
		out.Financing = nil
	case v.Financing != nil:
		out.Financing = v.Financing
	}
	out.Overrides = mergeOverrides(base.Overrides, v.Overrides)
	return out
}

func comparisonResult(name string, r *run) models.ComparisonResult {
	return models.ComparisonResult{
		Name:    name,
		Sizing:  toSizingInfo(r.Result.Sizing),
		Costs:   toCostsInfo(r.Result),
		Summary: toSummaryInfo(r.Summary),
	}
}
