package climate

import (
	"fmt"
	"net/http"
)

// APIError is a non-success response from an upstream service.
type APIError struct {
	Service    string // "nominatim" or "nasa_power"
	StatusCode int
	Code       string
	Message    string
	RetryAfter string // for rate limit errors
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: %s (status %d)", e.Service, e.Message, e.StatusCode)
	}
	return fmt.Sprintf("%s: %s", e.Service, e.Message)
}

// Retryable reports whether the request may succeed if repeated.
func (e *APIError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

func statusError(service string, resp *http.Response) *APIError {
	switch resp.StatusCode {
	case http.StatusTooManyRequests:
		retryAfter := resp.Header.Get("Retry-After")
		return &APIError{
			Service:    service,
			StatusCode: resp.StatusCode,
			Code:       "RATE_LIMIT_EXCEEDED",
			Message:    fmt.Sprintf("rate limit exceeded, retry after: %s", retryAfter),
			RetryAfter: retryAfter,
		}
	case http.StatusForbidden, http.StatusUnauthorized:
		return &APIError{
			Service:    service,
			StatusCode: resp.StatusCode,
			Code:       "FORBIDDEN",
			Message:    "request rejected (check the User-Agent and usage policy)",
		}
	default:
		return &APIError{
			Service:    service,
			StatusCode: resp.StatusCode,
			Code:       "API_ERROR",
			Message:    fmt.Sprintf("API returned status %d: %s", resp.StatusCode, resp.Status),
		}
	}
}
