package courier

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/AlekSi/pointer"
	"tracking-service/internal/entities"
)

type Courier struct {
	repository Repository
	pings      PingRepository
	geocoder   Geocoder
	now        func() time.Time
}

func New(repository Repository, pings PingRepository, geocoder Geocoder) *Courier {
	return &Courier{
		repository: repository,
		pings:      pings,
		geocoder:   geocoder,
		now:        time.Now,
	}
}

// CreateCourier регистрирует курьера. Адрес необязателен; если геокодер его
// не распознал, курьер создаётся без координат.
func (s *Courier) CreateCourier(ctx context.Context, courierModify entities.CourierModify) (int64, error) {
	if courierModify.Name == nil || courierModify.Phone == nil {
		return 0, ErrMissingRequiredFields
	}
	if courierModify.Status == nil {
		courierModify.Status = pointer.To(entities.DefaultStatusType)
	}
	if courierModify.TransportType == nil {
		courierModify.TransportType = pointer.To(entities.DefaultTransportType)
	}

	if err := validate(courierModify); err != nil {
		return 0, err
	}

	if courierModify.Address != nil {
		address := strings.TrimSpace(*courierModify.Address)
		courierModify.Address = &address

		if location, err := s.geocoder.Geocode(ctx, address); err == nil {
			geocodedAt := s.now().UTC()
			courierModify.Location = &location
			courierModify.GeocodedAt = &geocodedAt
		}
	}

	id, err := s.repository.Create(ctx, courierModify)
	if err != nil {
		return 0, fmt.Errorf("create courier: %w", err)
	}

	return id, nil
}

func (s *Courier) GetCourier(ctx context.Context, id int64) (*entities.Courier, error) {
	if !isValidID(id) {
		return nil, ErrInvalidCourierID
	}

	courier, err := s.repository.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get courier: %w", err)
	}

	return courier, nil
}

// GetCourierWithLocation профиль курьера вместе с последней известной позицией.
// Курьер без пингов возвращается без позиции.
func (s *Courier) GetCourierWithLocation(ctx context.Context, id int64) (*entities.Courier, error) {
	courier, err := s.GetCourier(ctx, id)
	if err != nil {
		return nil, err
	}

	latest, err := s.pings.LatestByCourier(ctx, id)
	switch {
	case errors.Is(err, ErrLocationUnknown):
		return courier, nil
	case err != nil:
		return nil, fmt.Errorf("get latest courier ping: %w", err)
	}

	courier.CurrentLocation = &entities.CourierPosition{
		Location: latest.Location,
		Speed:    latest.Speed,
		Heading:  latest.Heading,
		PingedAt: latest.PingedAt,
	}
	return courier, nil
}

// UpdateAddress меняет адрес курьера и сразу его геокодирует.
// Ошибка геокодера отклоняет изменение целиком.
func (s *Courier) UpdateAddress(ctx context.Context, id int64, address string) (*entities.Courier, error) {
	if !isValidID(id) {
		return nil, ErrInvalidCourierID
	}
	if !isValidAddress(address) {
		return nil, ErrInvalidAddress
	}
	address = strings.TrimSpace(address)

	location, err := s.geocoder.Geocode(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGeocodingFailed, err)
	}
	geocodedAt := s.now().UTC()

	courier, err := s.repository.Update(ctx, entities.CourierModify{
		ID:         &id,
		Address:    &address,
		Location:   &location,
		GeocodedAt: &geocodedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update courier: %w", err)
	}
	return courier, nil
}

func validate(courierModify entities.CourierModify) error {
	if !isValidName(*courierModify.Name) {
		return ErrInvalidName
	}
	if !isValidPhone(*courierModify.Phone) {
		return ErrInvalidPhone
	}
	if !isValidStatus(*courierModify.Status) {
		return ErrInvalidStatus
	}
	if !isValidTransport(*courierModify.TransportType) {
		return ErrInvalidTransport
	}
	if courierModify.Address != nil && !isValidAddress(*courierModify.Address) {
		return ErrInvalidAddress
	}
	return nil
}
