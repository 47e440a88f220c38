package maps

import (
	"errors"
	"fmt"
	"net/http"

	"tracking-service/internal/service/routing"
)

// ProviderError отказ провайдера карт. errors.Is срабатывает на вид отказа
// (routing.ErrQuotaExceeded и т.д.) и на исходную ошибку транспорта.
type ProviderError struct {
	Method  string
	Kind    error
	Status  string
	Message string
	Err     error
}

func (e *ProviderError) Error() string {
	msg := fmt.Sprintf("maps %s: %v", e.Method, e.Kind)
	if e.Status != "" {
		msg += " (" + e.Status + ")"
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ProviderError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// kindOfStatus переводит поле status ответа Google Maps в вид отказа. nil для OK.
func kindOfStatus(status string) error {
	switch status {
	case "OK":
		return nil
	case "ZERO_RESULTS", "NOT_FOUND":
		return routing.ErrNoResults
	case "OVER_QUERY_LIMIT", "OVER_DAILY_LIMIT":
		return routing.ErrQuotaExceeded
	case "REQUEST_DENIED":
		return routing.ErrDenied
	case "INVALID_REQUEST", "MAX_WAYPOINTS_EXCEEDED", "MAX_ROUTE_LENGTH_EXCEEDED", "MAX_ELEMENTS_EXCEEDED":
		return routing.ErrInvalidRequest
	default:
		// UNKNOWN_ERROR: по документации повтор запроса может пройти
		return routing.ErrNetwork
	}
}

func kindOfHTTPStatus(code int) error {
	switch {
	case code == http.StatusTooManyRequests:
		return routing.ErrQuotaExceeded
	case code == http.StatusForbidden || code == http.StatusUnauthorized:
		return routing.ErrDenied
	case code >= http.StatusInternalServerError:
		return routing.ErrNetwork
	default:
		return routing.ErrInvalidRequest
	}
}

func kindLabel(err error) string {
	if err == nil {
		return "OK"
	}

	var providerErr *ProviderError
	if !errors.As(err, &providerErr) {
		return "UNKNOWN"
	}

	switch {
	case errors.Is(providerErr.Kind, routing.ErrQuotaExceeded):
		return "QUOTA_EXCEEDED"
	case errors.Is(providerErr.Kind, routing.ErrNoResults):
		return "NO_RESULTS"
	case errors.Is(providerErr.Kind, routing.ErrDenied):
		return "DENIED"
	case errors.Is(providerErr.Kind, routing.ErrInvalidRequest):
		return "INVALID_REQUEST"
	default:
		return "NETWORK"
	}
}
