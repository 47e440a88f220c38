package ingestion

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tracking-service/internal/entities"
	"tracking-service/internal/service/courier"
	"tracking-service/internal/service/delivery"
	"tracking-service/pkg/logger"
)

const (
	jobGeofence = "geofence.evaluate"
	jobETA      = "eta.refresh"
)

// Ingestor принимает пинги курьеров. Оценка геозон и пересчёт ETA запускаются
// после коммита в фоне и могут быть отброшены под нагрузкой.
type Ingestor struct {
	log        handlerLogger
	pings      PingRepository
	deliveries DeliveryRepository
	couriers   CourierService
	txManager  TxManager
	dispatcher Dispatcher
	geofence   GeofenceEvaluator
	eta        ETARefresher
	publisher  Publisher
	progress   ProgressEstimator
	now        func() time.Time
}

func New(
	log handlerLogger,
	pings PingRepository,
	deliveries DeliveryRepository,
	couriers CourierService,
	txManager TxManager,
	dispatcher Dispatcher,
	geofence GeofenceEvaluator,
	eta ETARefresher,
	publisher Publisher,
	estimator ProgressEstimator,
) *Ingestor {
	return &Ingestor{
		log:        log.With(logger.NewField("component", "ingestion")),
		pings:      pings,
		deliveries: deliveries,
		couriers:   couriers,
		txManager:  txManager,
		dispatcher: dispatcher,
		geofence:   geofence,
		eta:        eta,
		publisher:  publisher,
		progress:   estimator,
		now:        time.Now,
	}
}

// Record сохраняет пинг курьера и привязывает его к активной доставке, если она есть.
func (i *Ingestor) Record(ctx context.Context, report entities.PingReport) (*entities.IngestResult, error) {
	if err := validateReport(report); err != nil {
		PingsIngestedTotal.WithLabelValues("invalid").Inc()
		return nil, err
	}

	return i.ingest(ctx, report, func(ctx context.Context) (*entities.Delivery, error) {
		active, err := i.deliveries.GetActiveByCourier(ctx, report.CourierID)
		if errors.Is(err, delivery.ErrDeliveryNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("get active delivery: %w", err)
		}
		return active, nil
	})
}

// RecordForDelivery вариант приёма по публичному токену доставки: пинг пишется
// от имени назначенного курьера.
func (i *Ingestor) RecordForDelivery(ctx context.Context, token string, report entities.PingReport) (*entities.IngestResult, error) {
	if !isValidToken(token) {
		return nil, ErrInvalidToken
	}

	tracked, err := i.deliveries.GetByPublicToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("get delivery by token: %w", err)
	}
	if tracked.Status.IsTerminal() || !tracked.HasCourier() {
		return nil, ErrDeliveryNotActive
	}

	report.CourierID = *tracked.CourierID
	if err := validateReport(report); err != nil {
		PingsIngestedTotal.WithLabelValues("invalid").Inc()
		return nil, err
	}

	return i.ingest(ctx, report, func(context.Context) (*entities.Delivery, error) {
		return tracked, nil
	})
}

func (i *Ingestor) ingest(
	ctx context.Context,
	report entities.PingReport,
	resolve func(ctx context.Context) (*entities.Delivery, error),
) (*entities.IngestResult, error) {
	pingedAt := report.PingedAt
	if pingedAt.IsZero() {
		pingedAt = i.now()
	}

	result := &entities.IngestResult{}
	err := i.txManager.DoReadCommitted(ctx, func(ctx context.Context) error {
		if _, err := i.couriers.GetCourier(ctx, report.CourierID); err != nil {
			if errors.Is(err, courier.ErrCourierNotFound) {
				return ErrCourierNotFound
			}
			return fmt.Errorf("get courier: %w", err)
		}

		active, err := resolve(ctx)
		if err != nil {
			return err
		}

		ping := entities.LocationPing{
			CourierID: report.CourierID,
			Location:  report.Location,
			Speed:     report.Speed,
			Heading:   report.Heading,
			Accuracy:  report.Accuracy,
			PingedAt:  pingedAt.UTC(),
		}
		if active != nil {
			ping.DeliveryID = &active.ID
		}

		saved, err := i.pings.Create(ctx, ping)
		if err != nil {
			return fmt.Errorf("save ping: %w", err)
		}

		result.Ping = saved
		result.Delivery = active
		return nil
	})
	if err != nil {
		PingsIngestedTotal.WithLabelValues("failed").Inc()
		return nil, err
	}

	if result.Delivery == nil {
		PingsIngestedTotal.WithLabelValues("idle").Inc()
		return result, nil
	}

	progress := i.progress.Progress(result.Delivery)
	result.Progress = &progress
	PingsIngestedTotal.WithLabelValues("tracked").Inc()

	i.afterCommit(ctx, result.Delivery, result.Ping, progress)
	return result, nil
}

// afterCommit ничего не ждёт и не возвращает ошибок вызывающему.
func (i *Ingestor) afterCommit(ctx context.Context, active *entities.Delivery, ping *entities.LocationPing, progress int) {
	data := map[string]any{
		"lat":       ping.Location.Lat,
		"lng":       ping.Location.Lng,
		"pinged_at": ping.PingedAt.Format(time.RFC3339),
		"progress":  progress,
	}
	if ping.Speed != nil {
		data["speed"] = *ping.Speed
	}
	if ping.Heading != nil {
		data["heading"] = *ping.Heading
	}
	if ping.Accuracy != nil {
		data["accuracy"] = *ping.Accuracy
	}
	i.publisher.Publish(ctx, active, entities.EventLocationUpdate, entities.EventLocationUpdate.String(), data)

	deliveryID := active.ID
	location := ping.Location

	if !i.dispatcher.Submit(jobGeofence, func(ctx context.Context) error {
		_, err := i.geofence.Evaluate(ctx, deliveryID, location)
		return err
	}) {
		i.log.Warn("geofence evaluation dropped", logger.NewField("delivery_id", deliveryID))
	}

	if !i.dispatcher.Submit(jobETA, func(ctx context.Context) error {
		return i.eta.RefreshETA(ctx, deliveryID, location)
	}) {
		i.log.Warn("eta refresh dropped", logger.NewField("delivery_id", deliveryID))
	}
}

func validateReport(report entities.PingReport) error {
	if report.CourierID <= 0 {
		return ErrInvalidCourierID
	}
	if !report.Location.Valid() {
		return ErrInvalidCoordinates
	}
	if !isValidTelemetry(report) {
		return ErrInvalidTelemetry
	}
	return nil
}
