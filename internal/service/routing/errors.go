package routing

import "errors"

// Виды отказов провайдера карт. Шлюз оборачивает их в *maps.ProviderError.
var (
	ErrQuotaExceeded  = errors.New("maps provider quota exceeded")
	ErrNoResults      = errors.New("maps provider returned no results")
	ErrInvalidRequest = errors.New("maps provider rejected request")
	ErrDenied         = errors.New("maps provider denied request")
	ErrNetwork        = errors.New("maps provider unreachable")
)

var (
	ErrInvalidDeliveryID = errors.New("invalid delivery id")
	ErrInvalidOrigin     = errors.New("invalid route origin")
)
