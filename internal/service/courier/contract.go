//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=courier_test
package courier

import (
	"context"

	"tracking-service/internal/entities"
)

type Repository interface {
	Create(ctx context.Context, courierModify entities.CourierModify) (int64, error)
	GetByID(ctx context.Context, id int64) (*entities.Courier, error)
	Update(ctx context.Context, courierModify entities.CourierModify) (*entities.Courier, error)
}

type PingRepository interface {
	LatestByCourier(ctx context.Context, courierID int64) (*entities.LocationPing, error)
}

type Geocoder interface {
	Geocode(ctx context.Context, address string) (entities.Coordinates, error)
}
