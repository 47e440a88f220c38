//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=ingestion_test
package ingestion

import (
	"context"

	"tracking-service/internal/entities"
	"tracking-service/internal/service/geofence"
	"tracking-service/pkg/background"
	"tracking-service/pkg/logger"
)

type PingRepository interface {
	Create(ctx context.Context, ping entities.LocationPing) (*entities.LocationPing, error)
}

type DeliveryRepository interface {
	GetActiveByCourier(ctx context.Context, courierID int64) (*entities.Delivery, error)
	GetByPublicToken(ctx context.Context, token string) (*entities.Delivery, error)
}

type CourierService interface {
	GetCourier(ctx context.Context, id int64) (*entities.Courier, error)
}

type TxManager interface {
	DoReadCommitted(ctx context.Context, fn func(ctx context.Context) error) error
}

type Dispatcher interface {
	Submit(name string, fn background.Job) bool
}

type GeofenceEvaluator interface {
	Evaluate(ctx context.Context, deliveryID int64, ping entities.Coordinates) (*geofence.Outcome, error)
}

type ETARefresher interface {
	RefreshETA(ctx context.Context, deliveryID int64, from entities.Coordinates) error
}

type Publisher interface {
	Publish(ctx context.Context, delivery *entities.Delivery, eventType entities.EventType, name string, data map[string]any)
}

type ProgressEstimator interface {
	Progress(delivery *entities.Delivery) int
}

type handlerLogger interface {
	Info(msg string, fields ...logger.Field)
	Warn(msg string, fields ...logger.Field)
	Error(msg string, fields ...logger.Field)
	With(fields ...logger.Field) logger.Logger
}
