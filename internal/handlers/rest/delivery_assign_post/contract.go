//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=delivery_assign_post_test
package delivery_assign_post

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
	Assign(ctx context.Context, deliveryID, courierID int64) (*entities.Delivery, error)
}
