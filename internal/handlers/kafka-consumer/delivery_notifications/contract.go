//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=delivery_notifications_test
package delivery_notifications

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
	Deliver(ctx context.Context, message entities.NotificationMessage) error
}
