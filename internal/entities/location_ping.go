package entities

import "time"

// LocationPing неизменяемый факт: где был курьер в момент PingedAt.
type LocationPing struct {
	ID         int64
	CourierID  int64
	DeliveryID *int64
	Location   Coordinates
	Speed      *float64
	Heading    *float64
	Accuracy   *float64
	PingedAt   time.Time
	CreatedAt  time.Time
}

// PingReport входные данные одного отчёта о местоположении.
type PingReport struct {
	CourierID int64
	Location  Coordinates
	Speed     *float64
	Heading   *float64
	Accuracy  *float64
	// PingedAt время на устройстве, нулевое значение заменяется временем приёма
	PingedAt time.Time
}

// IngestResult результат приёма пинга. Delivery и Progress nil, если у курьера нет активной доставки.
type IngestResult struct {
	Ping     *LocationPing
	Delivery *Delivery
	Progress *int
}
