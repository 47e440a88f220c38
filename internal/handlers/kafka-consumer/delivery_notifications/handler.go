package delivery_notifications

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/IBM/sarama"
	"tracking-service/internal/entities"
	"tracking-service/pkg/logger"
)

// Handler читает топик уведомлений и отдаёт каждое событие Service.
// Доставка best-effort: после исчерпания повторов сообщение всё равно коммитится.
type Handler struct {
	service                  Service
	log                      handlerLogger
	messageProcessingTimeout time.Duration
}

func New(log handlerLogger, service Service, timeout time.Duration) *Handler {
	handlerLog := log.With(logger.NewField("handler", "delivery_notifications"))

	return &Handler{
		service:                  service,
		log:                      handlerLog,
		messageProcessingTimeout: timeout,
	}
}

func (h *Handler) Setup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *Handler) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *Handler) ConsumeClaim(sess sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok {
				h.log.Info("claim messages channel closed, exiting ConsumeClaim")
				return nil
			}

			if shouldExit := h.Process(sess.Context(), message); shouldExit {
				return nil
			}
			sess.MarkMessage(message, "")

		case <-sess.Context().Done():
			// rebalance или остановка consumer group
			h.log.Info("session context done, exiting ConsumeClaim")
			return nil
		}
	}
}

// Process обрабатывает одно сообщение. true: контекст сессии отменён,
// сообщение не коммитится и будет перечитано.
func (h *Handler) Process(sessCtx context.Context, message *sarama.ConsumerMessage) bool {
	ctx, cancel := context.WithTimeout(sessCtx, h.messageProcessingTimeout)
	defer cancel()

	var notification entities.NotificationMessage
	if err := json.Unmarshal(message.Value, &notification); err != nil {
		h.log.With(
			logger.NewField("error", err),
			logger.NewField("offset", message.Offset),
		).Error("bad notification message")
		return false
	}

	msgLog := h.log.With(
		logger.NewField("event_id", notification.EventID),
		logger.NewField("event", notification.Event),
		logger.NewField("delivery_id", notification.DeliveryID),
		logger.NewField("offset", message.Offset),
	)

	err := h.service.Deliver(ctx, notification)
	if err != nil {
		if sessCtx.Err() != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
			msgLog.With(
				logger.NewField("error", err),
			).Warn("session cancelled, notification will be reprocessed")
			return true
		}

		msgLog.With(
			logger.NewField("error", err),
		).Warn("notification not delivered")
		return false
	}

	msgLog.Info("notification processed")
	return false
}
