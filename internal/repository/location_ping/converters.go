package location_ping

import "tracking-service/internal/entities"

func ToDomain(p *LocationPingDB) *entities.LocationPing {
	if p == nil {
		return nil
	}
	return &entities.LocationPing{
		ID:         p.ID,
		CourierID:  p.CourierID,
		DeliveryID: p.DeliveryID,
		Location:   entities.Coordinates{Lat: p.Lat, Lng: p.Lng},
		Speed:      p.Speed,
		Heading:    p.Heading,
		Accuracy:   p.Accuracy,
		PingedAt:   p.PingedAt,
		CreatedAt:  p.CreatedAt,
	}
}

func ToDomainList(pingsDB []LocationPingDB) []entities.LocationPing {
	result := make([]entities.LocationPing, len(pingsDB))
	for i := range pingsDB {
		result[i] = *ToDomain(&pingsDB[i])
	}
	return result
}
