package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"os"

	"solar-estimator/internal/api/models"
	"solar-estimator/internal/climate"
	"solar-estimator/internal/config"
	"solar-estimator/internal/model"

	"github.com/gin-gonic/gin"
)

// CatalogHandler serves the server's parameters and known places
type CatalogHandler struct {
	params     model.CostParameters
	placesFile string
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(params model.CostParameters, placesFile string) *CatalogHandler {
	return &CatalogHandler{params: params, placesFile: placesFile}
}

// Defaults handles GET /api/v1/defaults
func (h *CatalogHandler) Defaults(c *gin.Context) {
	c.JSON(http.StatusOK, models.DefaultsResponse{
		Parameters:              config.FromModelParams(h.params),
		MinConnectionOptions:    model.MinConnectionOptions,
		DefaultMinConnectionKWh: model.MinConnectionSinglePhase,
		HorizonMonths:           model.SimulationMonths,
	})
}

// ListPlaces handles GET /api/v1/places
func (h *CatalogHandler) ListPlaces(c *gin.Context) {
	list, err := climate.LoadPlaces(h.placesFile)
	if errors.Is(err, os.ErrNotExist) {
		c.JSON(http.StatusOK, models.PlacesResponse{Places: []models.PlaceInfo{}})
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "PLACES_LOAD_ERROR",
			fmt.Sprintf("Failed to load places: %v", err), nil)
		return
	}

	places := make([]models.PlaceInfo, len(list.Places))
	for i, p := range list.Places {
		places[i] = models.PlaceInfo{
			Name:      p.Name,
			Address:   p.Address,
			Latitude:  p.Latitude,
			Longitude: p.Longitude,
		}
	}

	c.JSON(http.StatusOK, models.PlacesResponse{
		Places:    places,
		UpdatedAt: list.UpdatedAt,
		Count:     len(places),
	})
}
