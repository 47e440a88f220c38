package ingestion

import "errors"

var (
	ErrInvalidCourierID   = errors.New("invalid courier id")
	ErrInvalidCoordinates = errors.New("invalid coordinates")
	ErrInvalidTelemetry   = errors.New("invalid telemetry")
	ErrInvalidToken       = errors.New("invalid delivery token")
	ErrCourierNotFound    = errors.New("courier not found")
	ErrDeliveryNotActive  = errors.New("delivery is not being tracked")
)
