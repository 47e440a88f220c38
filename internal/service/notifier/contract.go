//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=notifier_test
package notifier

import (
	"context"

	"tracking-service/internal/entities"
	"tracking-service/pkg/logger"
)

type WebhookGateway interface {
	Send(ctx context.Context, message entities.NotificationMessage) error
}

type MessagingGateway interface {
	SendText(ctx context.Context, phone string, text string) error
}

type handlerLogger interface {
	Info(msg string, fields ...logger.Field)
	Warn(msg string, fields ...logger.Field)
	Error(msg string, fields ...logger.Field)
	With(fields ...logger.Field) logger.Logger
}
