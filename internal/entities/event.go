package entities

import "time"

type EventType string

const (
	EventLocationUpdate EventType = "location_update"
	EventStatusChange   EventType = "status_change"
	EventNotification   EventType = "notification"
)

func (t EventType) String() string {
	return string(t)
}

// Имена событий для внешних получателей (вебхук магазина, сообщения клиенту).
const (
	NotificationCourierAssigned = "delivery.courier_assigned"
	NotificationStatusChanged   = "delivery.status_changed"
	NotificationArrivedPickup   = "delivery.arrived_pickup"
	NotificationArrivedDropoff  = "delivery.arrived_dropoff"
	NotificationArriving        = "delivery.arriving"
	NotificationDelivered       = "delivery.delivered"
	NotificationCanceled        = "delivery.canceled"
)

// Имена событий типа notification: короткие сообщения для страницы
// отслеживания, только в живой канал.
const (
	LiveCourierAssigned = "courier_assigned"
	LiveEnRoute         = "en_route"
	LivePickupCompleted = "pickup_completed"
	LiveArriving        = "arriving"
	LiveDelivered       = "delivered"
	LiveETAUpdated      = "eta_updated"
)

// TrackingEvent событие живого канала и внешних уведомлений.
type TrackingEvent struct {
	ID          string
	Type        EventType
	Name        string
	DeliveryID  int64
	PublicToken string
	Status      DeliveryStatus
	Data        map[string]any
	OccurredAt  time.Time
}

// NotificationMessage сообщение в топике внешних уведомлений.
type NotificationMessage struct {
	EventID       string         `json:"event_id"`
	Event         string         `json:"event"`
	Type          string         `json:"type"`
	DeliveryID    int64          `json:"delivery_id"`
	PublicToken   string         `json:"public_token"`
	Status        string         `json:"status"`
	CustomerName  string         `json:"customer_name,omitempty"`
	CustomerPhone string         `json:"customer_phone,omitempty"`
	Data          map[string]any `json:"data,omitempty"`
	OccurredAt    time.Time      `json:"occurred_at"`
}
