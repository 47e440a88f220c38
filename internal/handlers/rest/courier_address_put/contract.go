//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=courier_address_put_test
package courier_address_put

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
	UpdateAddress(ctx context.Context, id int64, address string) (*entities.Courier, error)
}
