package tracking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"tracking-service/internal/entities"
	"tracking-service/internal/pkg/livehub"
	"tracking-service/internal/service/courier"
	"tracking-service/internal/service/progress"
	"tracking-service/pkg/logger"
)

const (
	DefaultRetainPings = 100

	// minBearingMeters меньшие смещения дают шумный азимут
	minBearingMeters = 5.0
)

type Config struct {
	// RetainPings сколько последних пингов хранится на доставку
	RetainPings uint64
}

// Tracking публичный вид доставки по токену и учёт сессии отслеживания.
type Tracking struct {
	log        handlerLogger
	deliveries DeliveryRepository
	pings      PingRepository
	couriers   CourierService
	estimator  ProgressEstimator
	hub        LiveHub
	cfg        Config
	now        func() time.Time
}

func New(
	log handlerLogger,
	deliveries DeliveryRepository,
	pings PingRepository,
	couriers CourierService,
	estimator ProgressEstimator,
	hub LiveHub,
	cfg Config,
) *Tracking {
	if cfg.RetainPings == 0 {
		cfg.RetainPings = DefaultRetainPings
	}

	return &Tracking{
		log:        log.With(logger.NewField("component", "tracking")),
		deliveries: deliveries,
		pings:      pings,
		couriers:   couriers,
		estimator:  estimator,
		hub:        hub,
		cfg:        cfg,
		now:        time.Now,
	}
}

func (t *Tracking) View(ctx context.Context, token string) (*entities.TrackingView, error) {
	if !isValidToken(token) {
		return nil, ErrInvalidToken
	}

	delivery, err := t.deliveries.GetByPublicToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("get delivery by token: %w", err)
	}

	return t.buildView(ctx, delivery)
}

// Subscribe открывает живой канал и возвращает снимок состояния. Подписка
// оформляется до чтения снимка, поэтому события между ними не теряются.
// Вызывающий обязан закрыть подписку.
func (t *Tracking) Subscribe(ctx context.Context, token string) (*entities.TrackingView, *livehub.Subscription, error) {
	if !isValidToken(token) {
		return nil, nil, ErrInvalidToken
	}

	sub := t.hub.Subscribe(token)

	view, err := t.View(ctx, token)
	if err != nil {
		sub.Close()
		return nil, nil, err
	}
	return view, sub, nil
}

func (t *Tracking) StartTracking(ctx context.Context, deliveryID int64) error {
	if deliveryID <= 0 {
		return ErrInvalidDeliveryID
	}

	if err := t.deliveries.StartTracking(ctx, deliveryID, t.now().UTC()); err != nil {
		return fmt.Errorf("start tracking: %w", err)
	}

	t.log.Info("tracking started", logger.NewField("delivery_id", deliveryID))
	return nil
}

// CompleteTracking закрывает сессию и сжимает историю пингов доставки.
func (t *Tracking) CompleteTracking(ctx context.Context, deliveryID int64) error {
	if deliveryID <= 0 {
		return ErrInvalidDeliveryID
	}

	if err := t.deliveries.CompleteTracking(ctx, deliveryID, t.now().UTC()); err != nil {
		return fmt.Errorf("complete tracking: %w", err)
	}

	removed, err := t.pings.TrimDelivery(ctx, deliveryID, t.cfg.RetainPings)
	if err != nil {
		return fmt.Errorf("trim pings: %w", err)
	}

	t.log.Info("tracking completed",
		logger.NewField("delivery_id", deliveryID),
		logger.NewField("pings_removed", removed),
	)
	return nil
}

// TrimPings применяет ограничение хранения ко всем доставкам.
func (t *Tracking) TrimPings(ctx context.Context) (int64, error) {
	removed, err := t.pings.TrimAll(ctx, t.cfg.RetainPings)
	if err != nil {
		return 0, fmt.Errorf("trim pings: %w", err)
	}
	return removed, nil
}

func (t *Tracking) buildView(ctx context.Context, delivery *entities.Delivery) (*entities.TrackingView, error) {
	view := &entities.TrackingView{
		DeliveryID:         delivery.ID,
		PublicToken:        delivery.PublicToken,
		Status:             delivery.Status,
		Arriving:           isArriving(delivery),
		ProgressPercentage: progress.Clamp(t.estimator.Progress(delivery)),
		Pickup:             delivery.Pickup,
		PickupAddress:      delivery.PickupAddress,
		Dropoff:            delivery.Dropoff,
		DropoffAddress:     delivery.DropoffAddress,
		Route:              delivery.Route,
		ETA:                t.estimator.ETAView(delivery),
		Timeline:           t.estimator.Timeline(delivery),
		UpdatedAt:          delivery.UpdatedAt,
	}

	if delivery.HasCourier() {
		c, err := t.couriers.GetCourier(ctx, *delivery.CourierID)
		switch {
		case errors.Is(err, courier.ErrCourierNotFound):
			t.log.Warn("assigned courier not found",
				logger.NewField("delivery_id", delivery.ID),
				logger.NewField("courier_id", *delivery.CourierID),
			)
		case err != nil:
			return nil, fmt.Errorf("get courier: %w", err)
		default:
			view.Courier = &entities.CourierSummary{
				ID:            c.ID,
				Name:          c.Name,
				TransportType: c.TransportType,
			}
		}
	}

	pings, err := t.pings.LatestByDelivery(ctx, delivery.ID, 2)
	if err != nil {
		return nil, fmt.Errorf("get latest pings: %w", err)
	}
	view.CurrentLocation = currentPosition(pings)

	return view, nil
}

// currentPosition последняя позиция курьера; pings от новых к старым.
// Курс без данных устройства выводится из двух последних пингов.
func currentPosition(pings []entities.LocationPing) *entities.CourierPosition {
	if len(pings) == 0 {
		return nil
	}

	latest := pings[0]
	position := &entities.CourierPosition{
		Location: latest.Location,
		Speed:    latest.Speed,
		Heading:  latest.Heading,
		PingedAt: latest.PingedAt,
	}

	if position.Heading == nil && len(pings) > 1 {
		previous := pings[1].Location
		if previous.DistanceTo(latest.Location) >= minBearingMeters {
			heading := previous.BearingTo(latest.Location)
			position.Heading = &heading
		}
	}
	return position
}

func isArriving(delivery *entities.Delivery) bool {
	if delivery.Phases.ArrivingAt == nil {
		return false
	}
	return delivery.Status == entities.DeliveryEnRoute || delivery.Status == entities.DeliveryLeftPickup
}

func isValidToken(token string) bool {
	return strings.TrimSpace(token) != "" && len(token) <= 64
}
