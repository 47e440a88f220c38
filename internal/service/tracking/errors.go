package tracking

import "errors"

var (
	ErrInvalidToken      = errors.New("invalid public token")
	ErrInvalidDeliveryID = errors.New("invalid delivery id")
)
