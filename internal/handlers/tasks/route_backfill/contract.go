//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=route_backfill_test
package route_backfill

import (
	"context"

	"tracking-service/pkg/logger"
)

type Service interface {
	BackfillRoutes(ctx context.Context) (int, error)
}

type handlerLogger interface {
	Info(msg string, fields ...logger.Field)
	Warn(msg string, fields ...logger.Field)
	Error(msg string, fields ...logger.Field)
	With(fields ...logger.Field) logger.Logger
}
