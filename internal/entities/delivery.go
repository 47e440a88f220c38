package entities

import (
	"fmt"
	"time"
)

type DeliveryStatus string

const (
	DeliveryCreated        DeliveryStatus = "created"
	DeliveryAssigned       DeliveryStatus = "assigned"
	DeliveryEnRoute        DeliveryStatus = "en_route"
	DeliveryArrivedPickup  DeliveryStatus = "arrived_pickup"
	DeliveryLeftPickup     DeliveryStatus = "left_pickup"
	DeliveryArrivedDropoff DeliveryStatus = "arrived_dropoff"
	DeliveryDelivered      DeliveryStatus = "delivered"
	DeliveryCanceled       DeliveryStatus = "canceled"
)

// successors прямой порядок жизненного цикла доставки. canceled в него не входит.
var successors = map[DeliveryStatus]DeliveryStatus{
	DeliveryCreated:        DeliveryAssigned,
	DeliveryAssigned:       DeliveryEnRoute,
	DeliveryEnRoute:        DeliveryArrivedPickup,
	DeliveryArrivedPickup:  DeliveryLeftPickup,
	DeliveryLeftPickup:     DeliveryArrivedDropoff,
	DeliveryArrivedDropoff: DeliveryDelivered,
}

// DeliveryStatuses канонический набор в порядке жизненного цикла.
var DeliveryStatuses = []DeliveryStatus{
	DeliveryCreated,
	DeliveryAssigned,
	DeliveryEnRoute,
	DeliveryArrivedPickup,
	DeliveryLeftPickup,
	DeliveryArrivedDropoff,
	DeliveryDelivered,
	DeliveryCanceled,
}

func ParseDeliveryStatus(s string) (DeliveryStatus, error) {
	status := DeliveryStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("unknown delivery status %q", s)
	}
	return status, nil
}

func (s DeliveryStatus) String() string {
	return string(s)
}

func (s DeliveryStatus) IsValid() bool {
	switch s {
	case DeliveryCreated, DeliveryAssigned, DeliveryEnRoute, DeliveryArrivedPickup,
		DeliveryLeftPickup, DeliveryArrivedDropoff, DeliveryDelivered, DeliveryCanceled:
		return true
	default:
		return false
	}
}

// Successor следующий статус в прямом порядке. false для терминальных статусов.
func (s DeliveryStatus) Successor() (DeliveryStatus, bool) {
	next, ok := successors[s]
	return next, ok
}

func (s DeliveryStatus) IsTerminal() bool {
	return s == DeliveryDelivered || s == DeliveryCanceled
}

// CanTransitionTo переход допустим только в непосредственного преемника
// или в canceled из любого нетерминального статуса.
func (s DeliveryStatus) CanTransitionTo(target DeliveryStatus) bool {
	if s.IsTerminal() {
		return false
	}
	if target == DeliveryCanceled {
		return true
	}
	next, ok := s.Successor()
	return ok && next == target
}

// Reached true, если статус s не раньше other в прямом порядке. canceled ничего не достигает.
func (s DeliveryStatus) Reached(other DeliveryStatus) bool {
	if s == DeliveryCanceled || other == DeliveryCanceled {
		return s == other
	}
	return s.rank() >= other.rank()
}

func (s DeliveryStatus) rank() int {
	for i, status := range DeliveryStatuses {
		if status == s {
			return i
		}
	}
	return -1
}

type RouteSnapshot struct {
	Polyline        string
	DistanceMeters  int64
	DurationSeconds int64
	CalculatedAt    time.Time
}

type ETA struct {
	CurrentDurationSeconds int64
	EstimatedArrivalAt     time.Time
	CalculatedAt           time.Time
}

// PhaseTimestamps моменты входа в фазы жизненного цикла.
type PhaseTimestamps struct {
	AssignedAt       *time.Time
	EnRouteAt        *time.Time
	ArrivedPickupAt  *time.Time
	PickedUpAt       *time.Time
	ArrivingAt       *time.Time
	ArrivedDropoffAt *time.Time
	DeliveredAt      *time.Time
	CanceledAt       *time.Time
}

// At момент входа в статус status, nil если фаза не наступала.
func (p PhaseTimestamps) At(status DeliveryStatus) *time.Time {
	switch status {
	case DeliveryAssigned:
		return p.AssignedAt
	case DeliveryEnRoute:
		return p.EnRouteAt
	case DeliveryArrivedPickup:
		return p.ArrivedPickupAt
	case DeliveryLeftPickup:
		return p.PickedUpAt
	case DeliveryArrivedDropoff:
		return p.ArrivedDropoffAt
	case DeliveryDelivered:
		return p.DeliveredAt
	case DeliveryCanceled:
		return p.CanceledAt
	default:
		return nil
	}
}

type Delivery struct {
	ID          int64
	PublicToken string
	Status      DeliveryStatus
	CourierID   *int64

	PickupAddress  string
	Pickup         Coordinates
	DropoffAddress string
	Dropoff        Coordinates
	CustomerName   string
	CustomerPhone  string

	Route *RouteSnapshot
	ETA   *ETA

	Phases PhaseTimestamps

	TrackingStartedAt   *time.Time
	TrackingCompletedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (d *Delivery) HasCourier() bool {
	return d.CourierID != nil
}

func (d *Delivery) IsActive() bool {
	return !d.Status.IsTerminal()
}

type DeliveryModify struct {
	ID             *int64
	PublicToken    *string
	Status         *DeliveryStatus
	CourierID      *int64
	PickupAddress  *string
	Pickup         *Coordinates
	DropoffAddress *string
	Dropoff        *Coordinates
	CustomerName   *string
	CustomerPhone  *string
}
