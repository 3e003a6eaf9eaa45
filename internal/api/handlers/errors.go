package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"solar-estimator/internal/api/models"
	"solar-estimator/internal/climate"
	"solar-estimator/internal/simulation"

	"github.com/gin-gonic/gin"
)

// requestError is a client mistake detected after binding.
type requestError struct {
	Code    string
	Message string
}

func (e *requestError) Error() string { return e.Message }

func badRequest(code, format string, args ...interface{}) error {
	return &requestError{Code: code, Message: fmt.Sprintf(format, args...)}
}

func respondError(c *gin.Context, status int, code, message string, details map[string]interface{}) {
	c.JSON(status, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

func respondInvalidRequest(c *gin.Context, err error) {
	respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
}

// respondErr maps request, simulation and climate errors to HTTP responses.
func respondErr(c *gin.Context, err error) {
	var reqErr *requestError
	if errors.As(err, &reqErr) {
		respondError(c, http.StatusBadRequest, reqErr.Code, reqErr.Message, nil)
		return
	}

	var inputErr *simulation.InvalidInputError
	if errors.As(err, &inputErr) {
		respondError(c, http.StatusBadRequest, "INVALID_INPUT", inputErr.Error(), map[string]interface{}{
			"field": inputErr.Field,
		})
		return
	}

	if errors.Is(err, climate.ErrNotFound) {
		respondError(c, http.StatusNotFound, "PLACE_NOT_FOUND", err.Error(), nil)
		return
	}

	var apiErr *climate.APIError
	if errors.As(err, &apiErr) {
		status := http.StatusBadGateway
		if apiErr.StatusCode == http.StatusTooManyRequests {
			status = http.StatusTooManyRequests
		}
		respondError(c, status, apiErr.Code, apiErr.Message, map[string]interface{}{
			"service":     apiErr.Service,
			"status_code": apiErr.StatusCode,
			"retry_after": apiErr.RetryAfter,
		})
		return
	}

	if errors.Is(err, context.DeadlineExceeded) {
		respondError(c, http.StatusGatewayTimeout, "UPSTREAM_TIMEOUT", err.Error(), nil)
		return
	}

	log.Printf("[API] unhandled error on %s: %v", c.Request.URL.Path, err)
	respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error(), nil)
}
