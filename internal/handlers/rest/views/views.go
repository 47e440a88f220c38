// Package views переводит сущности в DTO ответов REST API.
package views

import (
	"github.com/AlekSi/pointer"
	"tracking-service/internal/entities"
	"tracking-service/internal/generated/dto"
	"tracking-service/internal/service/progress"
)

func Location(c entities.Coordinates) dto.Location {
	return dto.Location{Lat: c.Lat, Lng: c.Lng}
}

func Courier(c *entities.Courier) dto.Courier {
	res := dto.Courier{
		Id:            c.ID,
		Name:          c.Name,
		Phone:         c.Phone,
		Status:        c.Status.String(),
		TransportType: c.TransportType.String(),
		GeocodedAt:    c.GeocodedAt,
	}
	if c.Address != "" {
		res.Address = pointer.To(c.Address)
	}
	if c.Location != nil {
		res.Location = pointer.To(Location(*c.Location))
	}
	res.CurrentLocation = CourierPosition(c.CurrentLocation)
	return res
}

func CourierPosition(p *entities.CourierPosition) *dto.CourierPosition {
	if p == nil {
		return nil
	}
	return &dto.CourierPosition{
		Lat:      p.Location.Lat,
		Lng:      p.Location.Lng,
		Speed:    p.Speed,
		Heading:  p.Heading,
		PingedAt: p.PingedAt,
	}
}

func Route(r *entities.RouteSnapshot) *dto.Route {
	if r == nil {
		return nil
	}

	res := &dto.Route{
		DistanceMeters:  r.DistanceMeters,
		DurationSeconds: r.DurationSeconds,
		DistanceText:    pointer.To(progress.FormatDistance(r.DistanceMeters)),
		DurationText:    pointer.To(progress.FormatDuration(r.DurationSeconds)),
		CalculatedAt:    r.CalculatedAt,
	}
	if r.Polyline != "" {
		res.Polyline = pointer.To(r.Polyline)
	}
	return res
}

func Delivery(d *entities.Delivery) dto.Delivery {
	res := dto.Delivery{
		Id:             d.ID,
		PublicToken:    d.PublicToken,
		Status:         d.Status.String(),
		CourierId:      d.CourierID,
		PickupAddress:  d.PickupAddress,
		Pickup:         Location(d.Pickup),
		DropoffAddress: d.DropoffAddress,
		Dropoff:        Location(d.Dropoff),
		Route:          Route(d.Route),
		CreatedAt:      d.CreatedAt,
	}
	if d.CustomerName != "" {
		res.CustomerName = pointer.To(d.CustomerName)
	}
	if d.ETA != nil {
		res.EstimatedArrivalAt = pointer.To(d.ETA.EstimatedArrivalAt)
	}
	if !d.UpdatedAt.IsZero() {
		res.UpdatedAt = pointer.To(d.UpdatedAt)
	}
	return res
}

func TrackingView(v *entities.TrackingView) dto.TrackingView {
	res := dto.TrackingView{
		PublicToken:        v.PublicToken,
		Status:             v.Status.String(),
		Arriving:           v.Arriving,
		ProgressPercentage: v.ProgressPercentage,
		Pickup:             Location(v.Pickup),
		Dropoff:            Location(v.Dropoff),
		Route:              Route(v.Route),
		Timeline:           make([]dto.TimelineEntry, 0, len(v.Timeline)),
		UpdatedAt:          v.UpdatedAt,
	}
	if v.PickupAddress != "" {
		res.PickupAddress = pointer.To(v.PickupAddress)
	}
	if v.DropoffAddress != "" {
		res.DropoffAddress = pointer.To(v.DropoffAddress)
	}

	res.CurrentLocation = CourierPosition(v.CurrentLocation)
	if v.ETA != nil {
		res.EstimatedArrival = &dto.EstimatedArrival{
			EstimatedAt:            v.ETA.EstimatedAt,
			CalculatedAt:           v.ETA.CalculatedAt,
			CurrentDurationSeconds: v.ETA.CurrentDurationSeconds,
			IsDelayed:              v.ETA.IsDelayed,
		}
	}
	if v.Courier != nil {
		res.Courier = &dto.CourierSummary{
			Id:            v.Courier.ID,
			Name:          v.Courier.Name,
			TransportType: v.Courier.TransportType.String(),
		}
	}

	for _, entry := range v.Timeline {
		res.Timeline = append(res.Timeline, dto.TimelineEntry{
			Phase:     entry.Phase,
			Completed: entry.Completed,
			Timestamp: entry.Timestamp,
		})
	}
	return res
}

func TrackingEvent(e entities.TrackingEvent) dto.TrackingEvent {
	res := dto.TrackingEvent{
		Id:         e.ID,
		Type:       dto.TrackingEventType(e.Type),
		Status:     e.Status.String(),
		OccurredAt: e.OccurredAt,
	}
	if e.Name != "" {
		res.Name = pointer.To(e.Name)
	}
	if len(e.Data) > 0 {
		data := e.Data
		res.Data = &data
	}
	return res
}
