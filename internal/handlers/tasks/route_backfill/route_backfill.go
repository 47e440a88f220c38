package route_backfill

import (
	"context"
	"time"

	"tracking-service/pkg/logger"
)

// RouteBackfill досчитывает маршруты активных доставок, для которых расчёт
// при назначении не удался или был отброшен диспетчером.
type RouteBackfill struct {
	log      handlerLogger
	service  Service
	interval time.Duration
}

func NewRouteBackfill(log handlerLogger, service Service, interval time.Duration) *RouteBackfill {
	return &RouteBackfill{
		log:      log,
		service:  service,
		interval: interval,
	}
}

func (r *RouteBackfill) TTL() time.Duration {
	return r.interval
}

func (r *RouteBackfill) Do(ctx context.Context) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, r.interval)
	defer cancel()

	calculated, err := r.service.BackfillRoutes(ctxWithTimeout)

	if calculated > 0 {
		r.log.With(
			logger.NewField("routes_calculated", calculated),
		).Info("route backfill")
	}

	return err
}

func (r *RouteBackfill) Info() string {
	return "route backfill"
}
