package entities

import "time"

type TimelineEntry struct {
	Phase     string
	Completed bool
	Timestamp *time.Time
}

type CourierSummary struct {
	ID            int64
	Name          string
	TransportType CourierTransportType
}

type CourierPosition struct {
	Location Coordinates
	Speed    *float64
	Heading  *float64
	PingedAt time.Time
}

type ETAView struct {
	EstimatedAt            time.Time
	CalculatedAt           time.Time
	CurrentDurationSeconds int64
	IsDelayed              bool
}

// TrackingView публичное представление доставки по токену.
type TrackingView struct {
	DeliveryID         int64
	PublicToken        string
	Status             DeliveryStatus
	Arriving           bool
	ProgressPercentage int
	Pickup             Coordinates
	PickupAddress      string
	Dropoff            Coordinates
	DropoffAddress     string
	Route              *RouteSnapshot
	ETA                *ETAView
	Courier            *CourierSummary
	CurrentLocation    *CourierPosition
	Timeline           []TimelineEntry
	UpdatedAt          time.Time
}
