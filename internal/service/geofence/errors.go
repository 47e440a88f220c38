package geofence

import "errors"

var (
	ErrInvalidDeliveryID = errors.New("invalid delivery id")
	ErrInvalidLocation   = errors.New("invalid ping location")
)
