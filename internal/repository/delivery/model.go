package delivery

import "time"

type DeliveryDB struct {
	ID          int64
	PublicToken string
	Status      string
	CourierID   *int64

	PickupAddress  string
	PickupLat      float64
	PickupLng      float64
	DropoffAddress string
	DropoffLat     float64
	DropoffLng     float64
	CustomerName   string
	CustomerPhone  string

	RoutePolyline        *string
	RouteDistanceMeters  *int64
	RouteDurationSeconds *int64
	RouteCalculatedAt    *time.Time

	CurrentEstimatedDurationSeconds *int64
	EstimatedArrivalAt              *time.Time
	ETACalculatedAt                 *time.Time

	AssignedAt       *time.Time
	EnRouteAt        *time.Time
	ArrivedPickupAt  *time.Time
	PickedUpAt       *time.Time
	ArrivingAt       *time.Time
	ArrivedDropoffAt *time.Time
	DeliveredAt      *time.Time
	CanceledAt       *time.Time

	TrackingStartedAt   *time.Time
	TrackingCompletedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// columns порядок совпадает с (*DeliveryDB).scanTargets.
var columns = []string{
	"id", "public_token", "status", "courier_id",
	"pickup_address", "pickup_lat", "pickup_lng",
	"dropoff_address", "dropoff_lat", "dropoff_lng",
	"customer_name", "customer_phone",
	"route_polyline", "route_distance_meters", "route_duration_seconds", "route_calculated_at",
	"current_estimated_duration_seconds", "estimated_arrival_at", "eta_calculated_at",
	"assigned_at", "en_route_at", "arrived_pickup_at", "picked_up_at",
	"arriving_at", "arrived_dropoff_at", "delivered_at", "canceled_at",
	"tracking_started_at", "tracking_completed_at",
	"created_at", "updated_at",
}

func (d *DeliveryDB) scanTargets() []any {
	return []any{
		&d.ID, &d.PublicToken, &d.Status, &d.CourierID,
		&d.PickupAddress, &d.PickupLat, &d.PickupLng,
		&d.DropoffAddress, &d.DropoffLat, &d.DropoffLng,
		&d.CustomerName, &d.CustomerPhone,
		&d.RoutePolyline, &d.RouteDistanceMeters, &d.RouteDurationSeconds, &d.RouteCalculatedAt,
		&d.CurrentEstimatedDurationSeconds, &d.EstimatedArrivalAt, &d.ETACalculatedAt,
		&d.AssignedAt, &d.EnRouteAt, &d.ArrivedPickupAt, &d.PickedUpAt,
		&d.ArrivingAt, &d.ArrivedDropoffAt, &d.DeliveredAt, &d.CanceledAt,
		&d.TrackingStartedAt, &d.TrackingCompletedAt,
		&d.CreatedAt, &d.UpdatedAt,
	}
}
