//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=tracking_stream_get_test
package tracking_stream_get

import (
	"context"

	"tracking-service/internal/entities"
	"tracking-service/internal/pkg/livehub"
	"tracking-service/pkg/logger"
)

type handlerLogger interface {
	Info(msg string, fields ...logger.Field)
	Warn(msg string, fields ...logger.Field)
	Error(msg string, fields ...logger.Field)
	With(fields ...logger.Field) logger.Logger
}

type Service interface {
	Subscribe(ctx context.Context, token string) (*entities.TrackingView, *livehub.Subscription, error)
}
