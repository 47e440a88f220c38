package progress

import (
	"fmt"
	"math"
	"time"

	"tracking-service/internal/entities"
)

// statusProgress процент по статусу, когда нет живого ETA.
// Значения монотонны вдоль прямого порядка статусов.
var statusProgress = map[entities.DeliveryStatus]int{
	entities.DeliveryCreated:        0,
	entities.DeliveryAssigned:       10,
	entities.DeliveryEnRoute:        20,
	entities.DeliveryArrivedPickup:  25,
	entities.DeliveryLeftPickup:     50,
	entities.DeliveryArrivedDropoff: 90,
	entities.DeliveryDelivered:      100,
}

const arrivingProgress = 90

type Estimator struct {
	now func() time.Time
}

func New() *Estimator {
	return &Estimator{
		now: time.Now,
	}
}

// Progress процент выполнения доставки.
// Результат не ограничен сверху: курьер, опережающий исходную оценку маршрута,
// даёт больше 100. Для отображения используйте Clamp.
func (e *Estimator) Progress(delivery *entities.Delivery) int {
	if delivery == nil {
		return 0
	}
	if delivery.Status == entities.DeliveryDelivered {
		return 100
	}
	if !delivery.HasCourier() || delivery.Route == nil || delivery.Route.DistanceMeters <= 0 {
		return 0
	}

	if delivery.ETA != nil && delivery.Route.DurationSeconds > 0 {
		original := float64(delivery.Route.DurationSeconds)
		current := float64(delivery.ETA.CurrentDurationSeconds)

		p := int(math.Round((original - current) / original * 100))
		return max(0, p)
	}

	return byStatus(delivery)
}

// ByStatus процент только по статусу, без учёта живого ETA.
func (e *Estimator) ByStatus(delivery *entities.Delivery) int {
	return byStatus(delivery)
}

func byStatus(delivery *entities.Delivery) int {
	if delivery.Status == entities.DeliveryLeftPickup && delivery.Phases.ArrivingAt != nil {
		return arrivingProgress
	}
	return statusProgress[delivery.Status]
}

// Clamp приводит процент к диапазону [0,100] для отображения.
func Clamp(p int) int {
	return min(100, max(0, p))
}

// Timeline упорядоченный список фаз с отметкой о прохождении.
func (e *Estimator) Timeline(delivery *entities.Delivery) []entities.TimelineEntry {
	createdAt := delivery.CreatedAt

	timeline := []entities.TimelineEntry{
		{
			Phase:     entities.DeliveryCreated.String(),
			Completed: true,
			Timestamp: &createdAt,
		},
	}

	phases := []entities.DeliveryStatus{
		entities.DeliveryAssigned,
		entities.DeliveryEnRoute,
		entities.DeliveryArrivedPickup,
		entities.DeliveryLeftPickup,
	}
	for _, phase := range phases {
		timeline = append(timeline, entities.TimelineEntry{
			Phase:     phase.String(),
			Completed: delivery.Status.Reached(phase),
			Timestamp: delivery.Phases.At(phase),
		})
	}

	timeline = append(timeline, entities.TimelineEntry{
		Phase:     "arriving",
		Completed: delivery.Phases.ArrivingAt != nil || delivery.Status.Reached(entities.DeliveryArrivedDropoff),
		Timestamp: delivery.Phases.ArrivingAt,
	})

	for _, phase := range []entities.DeliveryStatus{entities.DeliveryArrivedDropoff, entities.DeliveryDelivered} {
		timeline = append(timeline, entities.TimelineEntry{
			Phase:     phase.String(),
			Completed: delivery.Status.Reached(phase),
			Timestamp: delivery.Phases.At(phase),
		})
	}

	if delivery.Status == entities.DeliveryCanceled {
		timeline = append(timeline, entities.TimelineEntry{
			Phase:     entities.DeliveryCanceled.String(),
			Completed: true,
			Timestamp: delivery.Phases.CanceledAt,
		})
	}

	return timeline
}

// ETAView живой ETA для публичной страницы, nil если ETA ещё не считался.
func (e *Estimator) ETAView(delivery *entities.Delivery) *entities.ETAView {
	if delivery.ETA == nil {
		return nil
	}
	return &entities.ETAView{
		EstimatedAt:            delivery.ETA.EstimatedArrivalAt,
		CalculatedAt:           delivery.ETA.CalculatedAt,
		CurrentDurationSeconds: delivery.ETA.CurrentDurationSeconds,
		IsDelayed:              delivery.IsActive() && delivery.ETA.EstimatedArrivalAt.Before(e.now()),
	}
}

func FormatDistance(meters int64) string {
	if meters < 1000 {
		return fmt.Sprintf("%dm", meters)
	}
	return fmt.Sprintf("%.1fkm", float64(meters)/1000)
}

func FormatDuration(seconds int64) string {
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dmin", hours, minutes)
	}
	return fmt.Sprintf("%dmin", minutes)
}
