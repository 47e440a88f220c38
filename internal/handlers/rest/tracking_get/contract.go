//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=tracking_get_test
package tracking_get

import (
	"context"

	"tracking-service/internal/entities"
	"tracking-service/pkg/logger"
)

type handlerLogger interface {
	Info(msg string, fields ...logger.Field)
	Warn(msg string, fields ...logger.Field)
	Error(msg string, fields ...logger.Field)
	With(fields ...logger.Field) logger.Logger
}

type Service interface {
	View(ctx context.Context, token string) (*entities.TrackingView, error)
}
