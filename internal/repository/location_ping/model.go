package location_ping

import "time"

type LocationPingDB struct {
	ID         int64
	CourierID  int64
	DeliveryID *int64
	Lat        float64
	Lng        float64
	Speed      *float64
	Heading    *float64
	Accuracy   *float64
	PingedAt   time.Time
	CreatedAt  time.Time
}

func (p *LocationPingDB) scanTargets() []any {
	return []any{
		&p.ID, &p.CourierID, &p.DeliveryID,
		&p.Lat, &p.Lng, &p.Speed, &p.Heading, &p.Accuracy,
		&p.PingedAt, &p.CreatedAt,
	}
}
