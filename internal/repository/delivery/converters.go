package delivery

import (
	"fmt"

	"tracking-service/internal/entities"
	"tracking-service/internal/service/delivery"
)

// ToDomain отказывает, если в базе статус вне канонического набора.
func ToDomain(d *DeliveryDB) (*entities.Delivery, error) {
	if d == nil {
		return nil, nil
	}

	status, err := entities.ParseDeliveryStatus(d.Status)
	if err != nil {
		return nil, fmt.Errorf("delivery %d: %w: %w", d.ID, delivery.ErrCorruptStatus, err)
	}

	result := &entities.Delivery{
		ID:             d.ID,
		PublicToken:    d.PublicToken,
		Status:         status,
		CourierID:      d.CourierID,
		PickupAddress:  d.PickupAddress,
		Pickup:         entities.Coordinates{Lat: d.PickupLat, Lng: d.PickupLng},
		DropoffAddress: d.DropoffAddress,
		Dropoff:        entities.Coordinates{Lat: d.DropoffLat, Lng: d.DropoffLng},
		CustomerName:   d.CustomerName,
		CustomerPhone:  d.CustomerPhone,
		Phases: entities.PhaseTimestamps{
			AssignedAt:       d.AssignedAt,
			EnRouteAt:        d.EnRouteAt,
			ArrivedPickupAt:  d.ArrivedPickupAt,
			PickedUpAt:       d.PickedUpAt,
			ArrivingAt:       d.ArrivingAt,
			ArrivedDropoffAt: d.ArrivedDropoffAt,
			DeliveredAt:      d.DeliveredAt,
			CanceledAt:       d.CanceledAt,
		},
		TrackingStartedAt:   d.TrackingStartedAt,
		TrackingCompletedAt: d.TrackingCompletedAt,
		CreatedAt:           d.CreatedAt,
		UpdatedAt:           d.UpdatedAt,
	}

	if d.RouteCalculatedAt != nil {
		route := &entities.RouteSnapshot{CalculatedAt: *d.RouteCalculatedAt}
		if d.RoutePolyline != nil {
			route.Polyline = *d.RoutePolyline
		}
		if d.RouteDistanceMeters != nil {
			route.DistanceMeters = *d.RouteDistanceMeters
		}
		if d.RouteDurationSeconds != nil {
			route.DurationSeconds = *d.RouteDurationSeconds
		}
		result.Route = route
	}

	if d.ETACalculatedAt != nil && d.CurrentEstimatedDurationSeconds != nil && d.EstimatedArrivalAt != nil {
		result.ETA = &entities.ETA{
			CurrentDurationSeconds: *d.CurrentEstimatedDurationSeconds,
			EstimatedArrivalAt:     *d.EstimatedArrivalAt,
			CalculatedAt:           *d.ETACalculatedAt,
		}
	}

	return result, nil
}

func ToDomainList(deliveriesDB []DeliveryDB) ([]entities.Delivery, error) {
	result := make([]entities.Delivery, 0, len(deliveriesDB))
	for i := range deliveriesDB {
		d, err := ToDomain(&deliveriesDB[i])
		if err != nil {
			return nil, err
		}
		result = append(result, *d)
	}
	return result, nil
}

// phaseColumn колонка с моментом входа в статус.
func phaseColumn(status entities.DeliveryStatus) (string, bool) {
	switch status {
	case entities.DeliveryAssigned:
		return "assigned_at", true
	case entities.DeliveryEnRoute:
		return "en_route_at", true
	case entities.DeliveryArrivedPickup:
		return "arrived_pickup_at", true
	case entities.DeliveryLeftPickup:
		return "picked_up_at", true
	case entities.DeliveryArrivedDropoff:
		return "arrived_dropoff_at", true
	case entities.DeliveryDelivered:
		return "delivered_at", true
	case entities.DeliveryCanceled:
		return "canceled_at", true
	default:
		return "", false
	}
}
