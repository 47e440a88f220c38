//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=geofence_test
package geofence

import (
	"context"
	"time"

	"tracking-service/internal/entities"
	"tracking-service/pkg/logger"
)

type Repository interface {
	GetByID(ctx context.Context, id int64) (*entities.Delivery, error)
	MarkArriving(ctx context.Context, id int64, at time.Time) (bool, error)
}

type StatusMachine interface {
	Transition(ctx context.Context, deliveryID int64, target entities.DeliveryStatus) (*entities.Delivery, error)
}

type Publisher interface {
	Publish(ctx context.Context, delivery *entities.Delivery, eventType entities.EventType, name string, data map[string]any)
}

type handlerLogger interface {
	Info(msg string, fields ...logger.Field)
	Warn(msg string, fields ...logger.Field)
	Error(msg string, fields ...logger.Field)
	With(fields ...logger.Field) logger.Logger
}
