//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=routing_test
package routing

import (
	"context"
	"time"

	"tracking-service/internal/entities"
	"tracking-service/pkg/logger"
)

type Provider interface {
	Route(ctx context.Context, origin, destination entities.Coordinates) (*entities.RouteSnapshot, error)
	ETA(ctx context.Context, origin, destination entities.Coordinates) (time.Duration, error)
}

type Repository interface {
	GetByID(ctx context.Context, id int64) (*entities.Delivery, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*entities.Delivery, error)
	UpdateRoute(ctx context.Context, id int64, route entities.RouteSnapshot) error
	UpdateETA(ctx context.Context, id int64, eta entities.ETA) error
	ListMissingRoute(ctx context.Context, limit uint64) ([]entities.Delivery, error)
}

type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
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
