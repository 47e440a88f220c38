package ping_retention

import (
	"context"
	"time"

	"tracking-service/pkg/logger"
)

// PingRetention периодически обрезает историю пингов до лимита хранения.
type PingRetention struct {
	log      handlerLogger
	service  Service
	interval time.Duration
}

func NewPingRetention(log handlerLogger, service Service, interval time.Duration) *PingRetention {
	return &PingRetention{
		log:      log,
		service:  service,
		interval: interval,
	}
}

func (p *PingRetention) TTL() time.Duration {
	return p.interval
}

func (p *PingRetention) Do(ctx context.Context) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, p.interval)
	defer cancel()

	removed, err := p.service.TrimPings(ctxWithTimeout)

	if removed > 0 {
		p.log.With(
			logger.NewField("pings_removed", removed),
		).Info("ping retention")
	}

	return err
}

func (p *PingRetention) Info() string {
	return "ping retention"
}
