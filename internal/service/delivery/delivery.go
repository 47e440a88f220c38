package delivery

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tracking-service/internal/entities"
)

type Delivery struct {
	repository Repository
	geocoder   Geocoder
	tokens     TokenGenerator
}

func New(
	repository Repository,
	geocoder Geocoder,
	tokens TokenGenerator,
) *Delivery {
	return &Delivery{
		repository: repository,
		geocoder:   geocoder,
		tokens:     tokens,
	}
}

// CreateDelivery создаёт доставку в статусе created. Отсутствующие координаты
// точек забора и выдачи геокодируются по адресу.
func (d *Delivery) CreateDelivery(ctx context.Context, deliveryModify entities.DeliveryModify) (*entities.Delivery, error) {
	if deliveryModify.PickupAddress == nil || deliveryModify.DropoffAddress == nil {
		return nil, ErrMissingRequiredFields
	}
	if !isValidAddress(*deliveryModify.PickupAddress) || !isValidAddress(*deliveryModify.DropoffAddress) {
		return nil, ErrInvalidAddress
	}
	if !isValidLocation(deliveryModify.Pickup) || !isValidLocation(deliveryModify.Dropoff) {
		return nil, ErrInvalidCoordinates
	}
	if deliveryModify.CustomerPhone != nil && !isValidPhone(*deliveryModify.CustomerPhone) {
		return nil, ErrInvalidPhone
	}

	var err error
	if deliveryModify.Pickup == nil {
		deliveryModify.Pickup, err = d.geocode(ctx, *deliveryModify.PickupAddress)
		if err != nil {
			return nil, fmt.Errorf("pickup: %w", err)
		}
	}
	if deliveryModify.Dropoff == nil {
		deliveryModify.Dropoff, err = d.geocode(ctx, *deliveryModify.DropoffAddress)
		if err != nil {
			return nil, fmt.Errorf("dropoff: %w", err)
		}
	}

	status := entities.DeliveryCreated
	deliveryModify.Status = &status
	deliveryModify.CourierID = nil

	// токен генерируется заново, если случилась коллизия
	const tokenAttempts = 2
	for attempt := 1; ; attempt++ {
		token := d.tokens.NewToken()
		deliveryModify.PublicToken = &token

		created, err := d.repository.Create(ctx, deliveryModify)
		if err == nil {
			return created, nil
		}
		if !errors.Is(err, ErrTokenConflict) || attempt == tokenAttempts {
			return nil, fmt.Errorf("create delivery: %w", err)
		}
	}
}

func (d *Delivery) GetDelivery(ctx context.Context, id int64) (*entities.Delivery, error) {
	if !isValidID(id) {
		return nil, ErrInvalidDeliveryID
	}

	delivery, err := d.repository.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get delivery: %w", err)
	}
	return delivery, nil
}

func (d *Delivery) GetDeliveryByToken(ctx context.Context, token string) (*entities.Delivery, error) {
	if !isValidToken(token) {
		return nil, ErrInvalidToken
	}

	delivery, err := d.repository.GetByPublicToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("get delivery by token: %w", err)
	}
	return delivery, nil
}

func (d *Delivery) geocode(ctx context.Context, address string) (*entities.Coordinates, error) {
	location, err := d.geocoder.Geocode(ctx, strings.TrimSpace(address))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGeocodingFailed, err)
	}
	return &location, nil
}
