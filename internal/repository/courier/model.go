package courier

import "time"

type CourierDB struct {
	ID            int64
	Name          string
	Phone         string
	Status        string
	TransportType string
	Address       *string
	Lat           *float64
	Lng           *float64
	GeocodedAt    *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type CourierModifyDB struct {
	ID            *int64
	Name          *string
	Phone         *string
	Status        *string
	TransportType *string
	Address       *string
	Lat           *float64
	Lng           *float64
	GeocodedAt    *time.Time
}

func (c *CourierDB) scanTargets() []any {
	return []any{
		&c.ID, &c.Name, &c.Phone, &c.Status, &c.TransportType,
		&c.Address, &c.Lat, &c.Lng, &c.GeocodedAt,
		&c.CreatedAt, &c.UpdatedAt,
	}
}

// values заданные поля для INSERT и UPDATE. Координаты только парой.
func (c *CourierModifyDB) values() map[string]any {
	values := make(map[string]any)
	if c.Name != nil {
		values["name"] = *c.Name
	}
	if c.Phone != nil {
		values["phone"] = *c.Phone
	}
	if c.Status != nil {
		values["status"] = *c.Status
	}
	if c.TransportType != nil {
		values["transport_type"] = *c.TransportType
	}
	if c.Address != nil {
		values["address"] = *c.Address
	}
	if c.Lat != nil && c.Lng != nil {
		values["lat"] = *c.Lat
		values["lng"] = *c.Lng
		values["geocoded_at"] = c.GeocodedAt
	}
	return values
}
