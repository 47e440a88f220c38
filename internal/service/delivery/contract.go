//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=delivery_test
package delivery

import (
	"context"

	"tracking-service/internal/entities"
)

type Repository interface {
	Create(ctx context.Context, deliveryModify entities.DeliveryModify) (*entities.Delivery, error)
	GetByID(ctx context.Context, id int64) (*entities.Delivery, error)
	GetByPublicToken(ctx context.Context, token string) (*entities.Delivery, error)
}

type Geocoder interface {
	Geocode(ctx context.Context, address string) (entities.Coordinates, error)
}

type TokenGenerator interface {
	NewToken() string
}
