package courier

import (
	"tracking-service/internal/entities"
)

func ToDomain(c *CourierDB) *entities.Courier {
	if c == nil {
		return nil
	}

	courier := &entities.Courier{
		ID:            c.ID,
		Name:          c.Name,
		Phone:         c.Phone,
		Status:        entities.CourierStatusType(c.Status),
		TransportType: entities.CourierTransportType(c.TransportType),
		GeocodedAt:    c.GeocodedAt,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
	if c.Address != nil {
		courier.Address = *c.Address
	}
	if c.Lat != nil && c.Lng != nil {
		courier.Location = &entities.Coordinates{Lat: *c.Lat, Lng: *c.Lng}
	}
	return courier
}

func FromDomainModify(courierModify *entities.CourierModify) *CourierModifyDB {
	if courierModify == nil {
		return nil
	}
	courierDB := &CourierModifyDB{
		ID:         courierModify.ID,
		Name:       courierModify.Name,
		Phone:      courierModify.Phone,
		Address:    courierModify.Address,
		GeocodedAt: courierModify.GeocodedAt,
	}

	if courierModify.Status != nil {
		statusType := courierModify.Status.String()
		courierDB.Status = &statusType
	}
	if courierModify.TransportType != nil {
		transportType := courierModify.TransportType.String()
		courierDB.TransportType = &transportType
	}
	if courierModify.Location != nil {
		courierDB.Lat = &courierModify.Location.Lat
		courierDB.Lng = &courierModify.Location.Lng
	}

	return courierDB
}
