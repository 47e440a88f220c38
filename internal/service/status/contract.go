//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=status_test
package status

import (
	"context"
	"time"

	"tracking-service/internal/entities"
	"tracking-service/pkg/background"
	"tracking-service/pkg/logger"
)

type Repository interface {
	GetByIDForUpdate(ctx context.Context, id int64) (*entities.Delivery, error)
	UpdateStatus(ctx context.Context, id int64, from, to entities.DeliveryStatus, at time.Time) (*entities.Delivery, error)
	AssignCourier(ctx context.Context, id int64, courierID int64, at time.Time) (*entities.Delivery, error)
}

type CourierService interface {
	GetCourier(ctx context.Context, id int64) (*entities.Courier, error)
}

type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

type Dispatcher interface {
	Submit(name string, fn background.Job) bool
}

type RouteCalculator interface {
	CalculateRoute(ctx context.Context, deliveryID int64) error
}

type TrackingBookkeeper interface {
	StartTracking(ctx context.Context, deliveryID int64) error
	CompleteTracking(ctx context.Context, deliveryID int64) error
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
