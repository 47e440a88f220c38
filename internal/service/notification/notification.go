package notification

import (
	"context"
	"encoding/json"
	"maps"
	"time"

	"github.com/google/uuid"
	"tracking-service/internal/entities"
	"tracking-service/pkg/logger"
)

const jobExternal = "notification.external"

// Fanout раздаёт события доставки живым подписчикам и во внешний топик уведомлений.
// Publish не блокируется и не возвращает ошибок: сбои только логируются.
type Fanout struct {
	log        handlerLogger
	hub        LiveHub
	sink       Sink
	dispatcher Dispatcher
	now        func() time.Time
}

// New sink может быть nil, тогда внешние уведомления не отправляются.
func New(log handlerLogger, hub LiveHub, sink Sink, dispatcher Dispatcher) *Fanout {
	return &Fanout{
		log:        log.With(logger.NewField("component", "notification_fanout")),
		hub:        hub,
		sink:       sink,
		dispatcher: dispatcher,
		now:        time.Now,
	}
}

func (f *Fanout) Publish(
	_ context.Context,
	delivery *entities.Delivery,
	eventType entities.EventType,
	name string,
	data map[string]any,
) {
	if delivery == nil {
		return
	}

	event := entities.TrackingEvent{
		ID:          uuid.NewString(),
		Type:        eventType,
		Name:        name,
		DeliveryID:  delivery.ID,
		PublicToken: delivery.PublicToken,
		Status:      delivery.Status,
		Data:        maps.Clone(data),
		OccurredAt:  f.now().UTC(),
	}

	f.hub.Publish(delivery.PublicToken, event)

	// внешний топик получает только смены статуса
	if eventType != entities.EventStatusChange || f.sink == nil {
		return
	}

	message := entities.NotificationMessage{
		EventID:       event.ID,
		Event:         name,
		Type:          eventType.String(),
		DeliveryID:    delivery.ID,
		PublicToken:   delivery.PublicToken,
		Status:        delivery.Status.String(),
		CustomerName:  delivery.CustomerName,
		CustomerPhone: delivery.CustomerPhone,
		Data:          event.Data,
		OccurredAt:    event.OccurredAt,
	}

	payload, err := json.Marshal(message)
	if err != nil {
		f.log.Error("marshal notification",
			logger.NewField("delivery_id", delivery.ID),
			logger.NewField("error", err),
		)
		return
	}

	key := delivery.PublicToken
	submitted := f.dispatcher.Submit(jobExternal, func(ctx context.Context) error {
		return f.sink.Send(ctx, key, payload)
	})
	if !submitted {
		f.log.Warn("external notification dropped",
			logger.NewField("delivery_id", delivery.ID),
			logger.NewField("event", name),
		)
	}
}
