//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=notification_test
package notification

import (
	"context"

	"tracking-service/internal/entities"
	"tracking-service/pkg/background"
	"tracking-service/pkg/logger"
)

type LiveHub interface {
	Publish(token string, event entities.TrackingEvent) int
}

type Sink interface {
	Send(ctx context.Context, key string, value []byte) error
}

type Dispatcher interface {
	Submit(name string, fn background.Job) bool
}

type handlerLogger interface {
	Info(msg string, fields ...logger.Field)
	Warn(msg string, fields ...logger.Field)
	Error(msg string, fields ...logger.Field)
	With(fields ...logger.Field) logger.Logger
}
