package retrier

import (
	"context"
	"time"
)

type Retrier interface {
	ExecuteWithContext(ctx context.Context, fn func(context.Context) error) error
}

type ShouldRetryFunc func(error) bool

// OnRetryFunc вызывается перед паузой: attempt номер неудачной попытки, начиная с 1.
type OnRetryFunc func(attempt uint64, err error, wait time.Duration)

type Config struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxElapsedTime  time.Duration
	Randomization   float64
	Multiplier      float64

	// MaxAttempts общее число попыток, включая первую. 0 - ограничивает только MaxElapsedTime
	MaxAttempts uint64

	// Если nil - ретраятся все ошибки, если не nil - только те где функция вернула true
	ShouldRetry ShouldRetryFunc

	// OnRetry необязательный хук для логов и метрик
	OnRetry OnRetryFunc
}
