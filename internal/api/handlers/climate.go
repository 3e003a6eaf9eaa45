package handlers

import (
	"net/http"
	"strings"

	"solar-estimator/internal/api/models"
	"solar-estimator/internal/climate"

	"github.com/gin-gonic/gin"
)

// ClimateHandler serves place climatologies
type ClimateHandler struct {
	provider climate.Provider
}

// NewClimateHandler creates a new climate handler
func NewClimateHandler(provider climate.Provider) *ClimateHandler {
	return &ClimateHandler{provider: provider}
}

// GetClimate handles GET /api/v1/climate
func (h *ClimateHandler) GetClimate(c *gin.Context) {
	var req models.ClimateRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondInvalidRequest(c, err)
		return
	}
	place := strings.TrimSpace(req.Place)
	if place == "" {
		respondError(c, http.StatusBadRequest, "MISSING_PARAM", "place query parameter is required", nil)
		return
	}

	clim, err := h.provider.FetchClimate(c.Request.Context(), place)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, models.ClimateResponse{
		Place:           place,
		ClimateInfo:     *toClimateInfo(clim),
		MeanIrradiance:  clim.Irradiance.MeanOr(0),
		MeanTemperature: clim.Temperature.MeanOr(0),
	})
}
