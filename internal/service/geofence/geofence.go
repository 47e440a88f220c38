package geofence

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"tracking-service/internal/entities"
	"tracking-service/internal/service/status"
	"tracking-service/pkg/logger"
)

const (
	DefaultPickupRadiusMeters   = 50.0
	DefaultDropoffRadiusMeters  = 50.0
	DefaultApproachRadiusMeters = 100.0

	// phaseArriving мягкая фаза "курьер рядом", в статусах не хранится
	phaseArriving = "arriving"
)

type Config struct {
	PickupRadiusMeters   float64
	DropoffRadiusMeters  float64
	ApproachRadiusMeters float64
}

// Outcome что сделала одна оценка пинга.
type Outcome struct {
	Events        []string
	StatusChanged bool
	Status        entities.DeliveryStatus
}

// Evaluator сравнивает позицию курьера с точками забора и выдачи.
// Всегда читает актуальное состояние доставки, поэтому повторная оценка
// того же пинга ничего не меняет.
type Evaluator struct {
	log        handlerLogger
	repository Repository
	machine    StatusMachine
	publisher  Publisher
	cfg        Config
	now        func() time.Time
}

func New(
	log handlerLogger,
	repository Repository,
	machine StatusMachine,
	publisher Publisher,
	cfg Config,
) *Evaluator {
	if cfg.PickupRadiusMeters <= 0 {
		cfg.PickupRadiusMeters = DefaultPickupRadiusMeters
	}
	if cfg.DropoffRadiusMeters <= 0 {
		cfg.DropoffRadiusMeters = DefaultDropoffRadiusMeters
	}
	if cfg.ApproachRadiusMeters <= 0 {
		cfg.ApproachRadiusMeters = DefaultApproachRadiusMeters
	}

	return &Evaluator{
		log:        log.With(logger.NewField("component", "geofence")),
		repository: repository,
		machine:    machine,
		publisher:  publisher,
		cfg:        cfg,
		now:        time.Now,
	}
}

func (e *Evaluator) Evaluate(ctx context.Context, deliveryID int64, ping entities.Coordinates) (*Outcome, error) {
	if deliveryID <= 0 {
		return nil, ErrInvalidDeliveryID
	}
	if !ping.Valid() {
		return nil, ErrInvalidLocation
	}

	delivery, err := e.repository.GetByID(ctx, deliveryID)
	if err != nil {
		return nil, fmt.Errorf("get delivery: %w", err)
	}

	outcome := &Outcome{Status: delivery.Status}
	if delivery.Status.IsTerminal() {
		return outcome, nil
	}

	toPickup := ping.DistanceTo(delivery.Pickup)
	toDropoff := ping.DistanceTo(delivery.Dropoff)

	switch {
	case (delivery.Status == entities.DeliveryAssigned || delivery.Status == entities.DeliveryEnRoute) &&
		toPickup <= e.cfg.PickupRadiusMeters:
		delivery, err = e.advanceTo(ctx, delivery, entities.DeliveryArrivedPickup, outcome)
		if err != nil {
			return nil, err
		}
		if delivery.Status == entities.DeliveryArrivedPickup && outcome.StatusChanged {
			e.emit(outcome, entities.NotificationArrivedPickup, deliveryID, toPickup)
		}

	case delivery.Status == entities.DeliveryLeftPickup && toDropoff <= e.cfg.DropoffRadiusMeters:
		delivery, err = e.advanceTo(ctx, delivery, entities.DeliveryArrivedDropoff, outcome)
		if err != nil {
			return nil, err
		}
		if delivery.Status == entities.DeliveryArrivedDropoff && outcome.StatusChanged {
			e.emit(outcome, entities.NotificationArrivedDropoff, deliveryID, toDropoff)
		}
	}

	if err := e.checkApproach(ctx, delivery, toDropoff, outcome); err != nil {
		return nil, err
	}

	outcome.Status = delivery.Status
	return outcome, nil
}

// advanceTo идёт по цепочке преемников до target. Переход, отклонённый из-за
// того, что доставка уже ушла дальше, не считается ошибкой.
func (e *Evaluator) advanceTo(
	ctx context.Context,
	delivery *entities.Delivery,
	target entities.DeliveryStatus,
	outcome *Outcome,
) (*entities.Delivery, error) {
	current := delivery
	for current.Status != target {
		next, ok := current.Status.Successor()
		if !ok {
			return current, nil
		}

		updated, err := e.machine.Transition(ctx, current.ID, next)
		if err != nil {
			if errors.Is(err, status.ErrInvalidTransition) {
				e.log.Info("geofence transition already applied",
					logger.NewField("delivery_id", current.ID),
					logger.NewField("target", next.String()),
				)
				return current, nil
			}
			return nil, fmt.Errorf("transition to %s: %w", next, err)
		}

		outcome.StatusChanged = true
		current = updated
	}
	return current, nil
}

// checkApproach ставит отметку "курьер рядом" один раз за доставку.
func (e *Evaluator) checkApproach(ctx context.Context, delivery *entities.Delivery, toDropoff float64, outcome *Outcome) error {
	if delivery.Status != entities.DeliveryEnRoute && delivery.Status != entities.DeliveryLeftPickup {
		return nil
	}
	if delivery.Phases.ArrivingAt != nil || toDropoff > e.cfg.ApproachRadiusMeters {
		return nil
	}

	at := e.now().UTC()
	marked, err := e.repository.MarkArriving(ctx, delivery.ID, at)
	if err != nil {
		return fmt.Errorf("mark arriving: %w", err)
	}
	if !marked {
		return nil
	}

	delivery.Phases.ArrivingAt = &at
	e.publisher.Publish(ctx, delivery, entities.EventStatusChange, entities.NotificationArriving, map[string]any{
		"status":          phaseArriving,
		"timestamp":       at.Format(time.RFC3339),
		"distance_meters": math.Round(toDropoff),
	})
	e.publisher.Publish(ctx, delivery, entities.EventNotification, entities.LiveArriving, map[string]any{
		"message":         "Entregador está chegando ao destino",
		"distance_meters": math.Round(toDropoff),
	})
	e.emit(outcome, entities.NotificationArriving, delivery.ID, toDropoff)
	return nil
}

func (e *Evaluator) emit(outcome *Outcome, event string, deliveryID int64, distance float64) {
	outcome.Events = append(outcome.Events, event)
	GeofenceEventsTotal.WithLabelValues(event).Inc()

	e.log.Info("geofence event",
		logger.NewField("delivery_id", deliveryID),
		logger.NewField("event", event),
		logger.NewField("distance_meters", math.Round(distance)),
	)
}
