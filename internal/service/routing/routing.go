package routing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tracking-service/internal/entities"
	"tracking-service/internal/service/progress"
	"tracking-service/pkg/logger"
	retrierconfig "tracking-service/pkg/retrier"
	"tracking-service/pkg/retrier/backoff_adapter"
)

const (
	defaultMaxAttempts   = 5
	defaultBackfillBatch = 50

	jobRoute = "route"
	jobETA   = "eta"
)

type retrier interface {
	ExecuteWithContext(ctx context.Context, fn func(context.Context) error) error
}

type Config struct {
	Retry retrierconfig.Config

	// ETARefreshInterval не чаще одного запроса ETA на доставку за интервал
	ETARefreshInterval time.Duration
	BackfillBatch      uint64
}

// Routing фоновые задачи маршрута и ETA. Провайдер вызывается вне блокировки
// доставки, результат применяется под новой блокировкой после перепроверки статуса.
type Routing struct {
	log        handlerLogger
	provider   Provider
	repository Repository
	txManager  TxManager
	publisher  Publisher
	progress   ProgressEstimator
	retrier    retrier
	cfg        Config
	now        func() time.Time
}

func New(
	log handlerLogger,
	provider Provider,
	repository Repository,
	txManager TxManager,
	publisher Publisher,
	estimator ProgressEstimator,
	cfg Config,
) *Routing {
	retryConfig := cfg.Retry
	if retryConfig.MaxAttempts == 0 {
		retryConfig.MaxAttempts = defaultMaxAttempts
	}
	// повторяются только сетевые отказы, остальное окончательно
	retryConfig.ShouldRetry = IsRetryable

	log = log.With(logger.NewField("component", "routing"))
	retryConfig.OnRetry = func(attempt uint64, err error, wait time.Duration) {
		log.Warn("maps provider call failed, retrying",
			logger.NewField("attempt", attempt),
			logger.NewField("wait", wait.String()),
			logger.NewField("error", err),
		)
	}

	if cfg.BackfillBatch == 0 {
		cfg.BackfillBatch = defaultBackfillBatch
	}

	return &Routing{
		log:        log,
		provider:   provider,
		repository: repository,
		txManager:  txManager,
		publisher:  publisher,
		progress:   estimator,
		retrier:    backoff_adapter.New(retryConfig),
		cfg:        cfg,
		now:        time.Now,
	}
}

func IsRetryable(err error) bool {
	return errors.Is(err, ErrNetwork)
}

// CalculateRoute строит маршрут от точки забора до точки выдачи.
// При отказе провайдера сохранённый маршрут не меняется.
func (r *Routing) CalculateRoute(ctx context.Context, deliveryID int64) error {
	if deliveryID <= 0 {
		return ErrInvalidDeliveryID
	}

	snapshot, err := r.repository.GetByID(ctx, deliveryID)
	if err != nil {
		return fmt.Errorf("get delivery: %w", err)
	}
	if snapshot.Status.IsTerminal() {
		RouteJobsTotal.WithLabelValues(jobRoute, "skipped").Inc()
		return nil
	}

	var route *entities.RouteSnapshot
	err = r.retrier.ExecuteWithContext(ctx, func(ctx context.Context) error {
		var err error
		route, err = r.provider.Route(ctx, snapshot.Pickup, snapshot.Dropoff)
		return err
	})
	if err != nil {
		RouteJobsTotal.WithLabelValues(jobRoute, "failed").Inc()
		r.log.Warn("route calculation failed",
			logger.NewField("delivery_id", deliveryID),
			logger.NewField("error", err),
		)
		return fmt.Errorf("calculate route: %w", err)
	}

	route.CalculatedAt = r.now().UTC()

	applied, err := r.applyIfActive(ctx, deliveryID, func(ctx context.Context) error {
		return r.repository.UpdateRoute(ctx, deliveryID, *route)
	})
	if err != nil {
		RouteJobsTotal.WithLabelValues(jobRoute, "failed").Inc()
		return fmt.Errorf("save route: %w", err)
	}
	if applied == nil {
		RouteJobsTotal.WithLabelValues(jobRoute, "skipped").Inc()
		return nil
	}

	RouteJobsTotal.WithLabelValues(jobRoute, "ok").Inc()
	r.log.Info("route calculated",
		logger.NewField("delivery_id", deliveryID),
		logger.NewField("distance_meters", route.DistanceMeters),
		logger.NewField("duration_seconds", route.DurationSeconds),
	)
	return nil
}

// RefreshETA пересчитывает ETA от текущей позиции курьера до точки выдачи.
func (r *Routing) RefreshETA(ctx context.Context, deliveryID int64, from entities.Coordinates) error {
	if deliveryID <= 0 {
		return ErrInvalidDeliveryID
	}
	if !from.Valid() {
		return ErrInvalidOrigin
	}

	snapshot, err := r.repository.GetByID(ctx, deliveryID)
	if err != nil {
		return fmt.Errorf("get delivery: %w", err)
	}
	if snapshot.Status.IsTerminal() || r.etaIsFresh(snapshot) {
		RouteJobsTotal.WithLabelValues(jobETA, "skipped").Inc()
		return nil
	}

	var duration time.Duration
	err = r.retrier.ExecuteWithContext(ctx, func(ctx context.Context) error {
		var err error
		duration, err = r.provider.ETA(ctx, from, snapshot.Dropoff)
		return err
	})
	if err != nil {
		RouteJobsTotal.WithLabelValues(jobETA, "failed").Inc()
		r.log.Warn("eta refresh failed",
			logger.NewField("delivery_id", deliveryID),
			logger.NewField("error", err),
		)
		return fmt.Errorf("refresh eta: %w", err)
	}

	now := r.now().UTC()
	eta := entities.ETA{
		CurrentDurationSeconds: int64(duration / time.Second),
		EstimatedArrivalAt:     now.Add(duration),
		CalculatedAt:           now,
	}

	applied, err := r.applyIfActive(ctx, deliveryID, func(ctx context.Context) error {
		return r.repository.UpdateETA(ctx, deliveryID, eta)
	})
	if err != nil {
		RouteJobsTotal.WithLabelValues(jobETA, "failed").Inc()
		return fmt.Errorf("save eta: %w", err)
	}
	if applied == nil {
		RouteJobsTotal.WithLabelValues(jobETA, "skipped").Inc()
		return nil
	}

	RouteJobsTotal.WithLabelValues(jobETA, "ok").Inc()
	applied.ETA = &eta
	r.publisher.Publish(ctx, applied, entities.EventNotification, entities.LiveETAUpdated, map[string]any{
		"message":                  "Tempo estimado de chegada atualizado",
		"eta":                      eta.EstimatedArrivalAt.Format(time.RFC3339),
		"current_duration_seconds": eta.CurrentDurationSeconds,
		"progress":                 progress.Clamp(r.progress.Progress(applied)),
	})
	return nil
}

// BackfillRoutes досчитывает маршруты активных доставок с курьером, но без маршрута.
// Возвращает число доставок, для которых маршрут сохранён.
func (r *Routing) BackfillRoutes(ctx context.Context) (int, error) {
	deliveries, err := r.repository.ListMissingRoute(ctx, r.cfg.BackfillBatch)
	if err != nil {
		return 0, fmt.Errorf("list deliveries without route: %w", err)
	}

	calculated := 0
	for _, d := range deliveries {
		if err := ctx.Err(); err != nil {
			return calculated, err
		}
		if err := r.CalculateRoute(ctx, d.ID); err != nil {
			continue
		}
		calculated++
	}
	return calculated, nil
}

func (r *Routing) etaIsFresh(d *entities.Delivery) bool {
	if r.cfg.ETARefreshInterval <= 0 || d.ETA == nil {
		return false
	}
	return r.now().Sub(d.ETA.CalculatedAt) < r.cfg.ETARefreshInterval
}

// applyIfActive выполняет fn под блокировкой строки, только если доставка ещё активна.
// Возвращает доставку, прочитанную под блокировкой, или nil, если fn не выполнялась.
func (r *Routing) applyIfActive(ctx context.Context, deliveryID int64, fn func(ctx context.Context) error) (*entities.Delivery, error) {
	var applied *entities.Delivery
	err := r.txManager.Do(ctx, func(ctx context.Context) error {
		current, err := r.repository.GetByIDForUpdate(ctx, deliveryID)
		if err != nil {
			return fmt.Errorf("get delivery: %w", err)
		}
		if current.Status.IsTerminal() {
			return nil
		}
		if err := fn(ctx); err != nil {
			return err
		}
		applied = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return applied, nil
}
