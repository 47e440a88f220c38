//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=ping_retention_test
package ping_retention

import (
	"context"

	"tracking-service/pkg/logger"
)

type Service interface {
	TrimPings(ctx context.Context) (int64, error)
}

type handlerLogger interface {
	Info(msg string, fields ...logger.Field)
	Warn(msg string, fields ...logger.Field)
	Error(msg string, fields ...logger.Field)
	With(fields ...logger.Field) logger.Logger
}
