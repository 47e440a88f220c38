package courier

import "errors"

var (
	ErrMissingRequiredFields = errors.New("missing required fields")
	ErrInvalidCourierID      = errors.New("invalid courier id")
	ErrInvalidName           = errors.New("invalid name")
	ErrInvalidStatus         = errors.New("invalid status")
	ErrInvalidPhone          = errors.New("invalid phone")
	ErrInvalidTransport      = errors.New("invalid transport type")
	ErrInvalidAddress        = errors.New("invalid address")
	ErrGeocodingFailed       = errors.New("address geocoding failed")

	ErrCourierNotFound = errors.New("courier not found")
	ErrLocationUnknown = errors.New("courier has no location pings")
	ErrConflict        = errors.New("resource already exists")
)
