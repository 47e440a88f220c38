package status

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tracking-service/internal/entities"
	"tracking-service/internal/service/delivery"
	"tracking-service/internal/service/progress"
	"tracking-service/pkg/logger"
	"tracking-service/pkg/tx"
)

// Machine единственное место, где меняется статус доставки.
type Machine struct {
	log        handlerLogger
	repository Repository
	couriers   CourierService
	txManager  TxManager
	dispatcher Dispatcher
	routes     RouteCalculator
	tracking   TrackingBookkeeper
	publisher  Publisher
	progress   ProgressEstimator
	now        func() time.Time
}

func New(
	log handlerLogger,
	repository Repository,
	couriers CourierService,
	txManager TxManager,
	dispatcher Dispatcher,
	routes RouteCalculator,
	tracking TrackingBookkeeper,
	publisher Publisher,
	estimator ProgressEstimator,
) *Machine {
	return &Machine{
		log:        log.With(logger.NewField("component", "status_machine")),
		repository: repository,
		couriers:   couriers,
		txManager:  txManager,
		dispatcher: dispatcher,
		routes:     routes,
		tracking:   tracking,
		publisher:  publisher,
		progress:   estimator,
		now:        time.Now,
	}
}

// Transition переводит доставку в target. Допустим только переход в непосредственного
// преемника или в canceled; остальное отклоняется с *InvalidTransitionError.
func (m *Machine) Transition(ctx context.Context, deliveryID int64, target entities.DeliveryStatus) (*entities.Delivery, error) {
	if deliveryID <= 0 {
		return nil, delivery.ErrInvalidDeliveryID
	}
	if !target.IsValid() {
		return nil, ErrInvalidStatus
	}

	updated, err := m.withConflictRetry(ctx, deliveryID, func(ctx context.Context) (*entities.Delivery, error) {
		return m.applyTransition(ctx, deliveryID, target)
	})
	if err != nil {
		return nil, err
	}

	m.afterTransition(ctx, updated, "")
	return updated, nil
}

// Assign назначает курьера и переводит доставку created -> assigned.
func (m *Machine) Assign(ctx context.Context, deliveryID, courierID int64) (*entities.Delivery, error) {
	if deliveryID <= 0 {
		return nil, delivery.ErrInvalidDeliveryID
	}
	if courierID <= 0 {
		return nil, delivery.ErrInvalidCourierID
	}

	courier, err := m.couriers.GetCourier(ctx, courierID)
	if err != nil {
		return nil, fmt.Errorf("get courier: %w", err)
	}

	updated, err := m.withConflictRetry(ctx, deliveryID, func(ctx context.Context) (*entities.Delivery, error) {
		var assigned *entities.Delivery
		err := m.txManager.Do(ctx, func(ctx context.Context) error {
			current, err := m.repository.GetByIDForUpdate(ctx, deliveryID)
			if err != nil {
				return fmt.Errorf("get delivery: %w", err)
			}

			if !current.Status.CanTransitionTo(entities.DeliveryAssigned) {
				return &InvalidTransitionError{From: current.Status, To: entities.DeliveryAssigned}
			}

			assigned, err = m.repository.AssignCourier(ctx, deliveryID, courierID, m.now().UTC())
			if err != nil {
				return fmt.Errorf("assign courier: %w", err)
			}
			return nil
		})
		return assigned, err
	})
	if err != nil {
		return nil, err
	}

	m.afterTransition(ctx, updated, courier.Name)
	return updated, nil
}

func (m *Machine) applyTransition(ctx context.Context, deliveryID int64, target entities.DeliveryStatus) (*entities.Delivery, error) {
	var updated *entities.Delivery

	err := m.txManager.Do(ctx, func(ctx context.Context) error {
		current, err := m.repository.GetByIDForUpdate(ctx, deliveryID)
		if err != nil {
			return fmt.Errorf("get delivery: %w", err)
		}

		if !current.Status.CanTransitionTo(target) {
			return &InvalidTransitionError{From: current.Status, To: target}
		}
		if target == entities.DeliveryAssigned && !current.HasCourier() {
			return ErrCourierRequired
		}

		updated, err = m.repository.UpdateStatus(ctx, deliveryID, current.Status, target, m.now().UTC())
		if err != nil {
			return fmt.Errorf("update delivery status: %w", err)
		}
		return nil
	})

	return updated, err
}

// withConflictRetry повторяет fn один раз при потерянной гонке за строку доставки.
// Повтор перечитывает актуальный статус, поэтому доставка, ушедшая дальше,
// даёт InvalidTransition, а не повторное применение.
func (m *Machine) withConflictRetry(
	ctx context.Context,
	deliveryID int64,
	fn func(ctx context.Context) (*entities.Delivery, error),
) (*entities.Delivery, error) {
	updated, err := fn(ctx)
	if err == nil || !isConflict(err) {
		return updated, err
	}

	m.log.Warn("delivery update conflict, retrying once",
		logger.NewField("delivery_id", deliveryID),
		logger.NewField("error", err),
	)

	updated, err = fn(ctx)
	if err != nil && isConflict(err) {
		return nil, fmt.Errorf("%w: %w", delivery.ErrConcurrencyConflict, err)
	}
	return updated, err
}

func isConflict(err error) bool {
	return errors.Is(err, delivery.ErrConcurrencyConflict) || errors.Is(err, tx.ErrSerialization)
}

// afterTransition courierName известно только при назначении.
func (m *Machine) afterTransition(ctx context.Context, d *entities.Delivery, courierName string) {
	pct := progress.Clamp(m.progress.Progress(d))
	data := map[string]any{
		"status":    d.Status.String(),
		"timestamp": d.UpdatedAt.UTC().Format(time.RFC3339),
		"progress":  pct,
	}
	m.publisher.Publish(ctx, d, entities.EventStatusChange, notificationName(d.Status), data)

	if name, message, ok := liveNotification(d.Status, courierName); ok {
		m.publisher.Publish(ctx, d, entities.EventNotification, name, map[string]any{
			"message":  message,
			"status":   d.Status.String(),
			"progress": pct,
		})
	}

	deliveryID := d.ID
	switch d.Status {
	case entities.DeliveryAssigned:
		if d.HasCourier() {
			m.dispatcher.Submit("route.calculate", func(ctx context.Context) error {
				return m.routes.CalculateRoute(ctx, deliveryID)
			})
		}
	case entities.DeliveryEnRoute:
		m.dispatcher.Submit("tracking.start", func(ctx context.Context) error {
			return m.tracking.StartTracking(ctx, deliveryID)
		})
	case entities.DeliveryDelivered, entities.DeliveryCanceled:
		m.dispatcher.Submit("tracking.complete", func(ctx context.Context) error {
			return m.tracking.CompleteTracking(ctx, deliveryID)
		})
	}

	m.log.Info("delivery status changed",
		logger.NewField("delivery_id", d.ID),
		logger.NewField("status", d.Status.String()),
	)
}

// liveNotification текст для страницы отслеживания. Не у каждого статуса он есть.
func liveNotification(status entities.DeliveryStatus, courierName string) (string, string, bool) {
	switch status {
	case entities.DeliveryAssigned:
		if courierName == "" {
			return entities.LiveCourierAssigned, "Um entregador foi designado para sua entrega", true
		}
		return entities.LiveCourierAssigned, "Entregador " + courierName + " foi designado para sua entrega", true
	case entities.DeliveryEnRoute:
		return entities.LiveEnRoute, "Entregador está a caminho para coletar seu pedido", true
	case entities.DeliveryLeftPickup:
		return entities.LivePickupCompleted, "Seu pedido foi coletado e está a caminho", true
	case entities.DeliveryDelivered:
		return entities.LiveDelivered, "Entrega realizada com sucesso!", true
	default:
		return "", "", false
	}
}

func notificationName(status entities.DeliveryStatus) string {
	switch status {
	case entities.DeliveryAssigned:
		return entities.NotificationCourierAssigned
	case entities.DeliveryArrivedPickup:
		return entities.NotificationArrivedPickup
	case entities.DeliveryArrivedDropoff:
		return entities.NotificationArrivedDropoff
	case entities.DeliveryDelivered:
		return entities.NotificationDelivered
	case entities.DeliveryCanceled:
		return entities.NotificationCanceled
	default:
		return entities.NotificationStatusChanged
	}
}
