package delivery

import "errors"

var (
	ErrMissingRequiredFields = errors.New("missing required fields")
	ErrInvalidDeliveryID     = errors.New("invalid delivery id")
	ErrInvalidCourierID      = errors.New("invalid courier id")
	ErrInvalidToken          = errors.New("invalid public token")
	ErrInvalidCoordinates    = errors.New("invalid coordinates")
	ErrInvalidAddress        = errors.New("invalid address")
	ErrInvalidPhone          = errors.New("invalid phone")
	ErrGeocodingFailed       = errors.New("address geocoding failed")

	ErrDeliveryNotFound    = errors.New("delivery not found")
	ErrTokenConflict       = errors.New("public token already exists")
	ErrCourierBusy         = errors.New("courier already has an active delivery")
	ErrConcurrencyConflict = errors.New("concurrent delivery update")
	ErrCorruptStatus       = errors.New("stored delivery status is outside the canonical set")
)
