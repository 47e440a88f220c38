//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=tracking_test
package tracking

import (
	"context"
	"time"

	"tracking-service/internal/entities"
	"tracking-service/internal/pkg/livehub"
	"tracking-service/pkg/logger"
)

type DeliveryRepository interface {
	GetByPublicToken(ctx context.Context, token string) (*entities.Delivery, error)
	StartTracking(ctx context.Context, id int64, at time.Time) error
	CompleteTracking(ctx context.Context, id int64, at time.Time) error
}

type PingRepository interface {
	LatestByDelivery(ctx context.Context, deliveryID int64, limit uint64) ([]entities.LocationPing, error)
	TrimDelivery(ctx context.Context, deliveryID int64, keep uint64) (int64, error)
	TrimAll(ctx context.Context, keep uint64) (int64, error)
}

type CourierService interface {
	GetCourier(ctx context.Context, id int64) (*entities.Courier, error)
}

type ProgressEstimator interface {
	Progress(delivery *entities.Delivery) int
	Timeline(delivery *entities.Delivery) []entities.TimelineEntry
	ETAView(delivery *entities.Delivery) *entities.ETAView
}

type LiveHub interface {
	Subscribe(token string) *livehub.Subscription
}

type handlerLogger interface {
	Info(msg string, fields ...logger.Field)
	Warn(msg string, fields ...logger.Field)
	Error(msg string, fields ...logger.Field)
	With(fields ...logger.Field) logger.Logger
}
