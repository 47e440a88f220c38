package notifier

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"tracking-service/internal/entities"
	"tracking-service/pkg/logger"
	retrierconfig "tracking-service/pkg/retrier"
	"tracking-service/pkg/retrier/backoff_adapter"
)

const (
	defaultMaxAttempts = 3

	channelWebhook  = "webhook"
	channelWhatsApp = "whatsapp"
)

type retrier interface {
	ExecuteWithContext(ctx context.Context, fn func(context.Context) error) error
}

type Config struct {
	Retry retrierconfig.Config

	// TrackingBaseURL база публичной ссылки отслеживания, к ней добавляется токен
	TrackingBaseURL string
}

// Notifier доставляет событие из топика уведомлений вебхуку магазина и клиенту в WhatsApp.
// Любой канал может быть nil, тогда он пропускается.
type Notifier struct {
	log      handlerLogger
	webhook  WebhookGateway
	whatsapp MessagingGateway
	retrier  retrier
	cfg      Config
}

func New(log handlerLogger, webhook WebhookGateway, whatsapp MessagingGateway, cfg Config) *Notifier {
	retryConfig := cfg.Retry
	if retryConfig.MaxAttempts == 0 {
		retryConfig.MaxAttempts = defaultMaxAttempts
	}
	retryConfig.ShouldRetry = IsRetryable

	log = log.With(logger.NewField("component", "notifier"))
	retryConfig.OnRetry = func(attempt uint64, err error, wait time.Duration) {
		log.Warn("notification delivery failed, retrying",
			logger.NewField("attempt", attempt),
			logger.NewField("wait", wait.String()),
			logger.NewField("error", err),
		)
	}

	return &Notifier{
		log:      log,
		webhook:  webhook,
		whatsapp: whatsapp,
		retrier:  backoff_adapter.New(retryConfig),
		cfg:      cfg,
	}
}

func IsRetryable(err error) bool {
	return errors.Is(err, ErrTemporary)
}

// Deliver отправляет сообщение во все настроенные каналы. Отказ одного канала
// не мешает другому, ошибки объединяются.
func (n *Notifier) Deliver(ctx context.Context, message entities.NotificationMessage) error {
	msgLog := n.log.With(
		logger.NewField("event_id", message.EventID),
		logger.NewField("event", message.Event),
		logger.NewField("delivery_id", message.DeliveryID),
	)

	var errs []error

	if n.webhook != nil {
		err := n.send(ctx, channelWebhook, func(ctx context.Context) error {
			return n.webhook.Send(ctx, message)
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("webhook: %w", err))
		} else {
			msgLog.Info("webhook delivered")
		}
	}

	if n.whatsapp != nil && message.CustomerPhone != "" {
		text := CustomerMessage(message, n.TrackingURL(message.PublicToken))
		if text != "" {
			err := n.send(ctx, channelWhatsApp, func(ctx context.Context) error {
				return n.whatsapp.SendText(ctx, message.CustomerPhone, text)
			})
			if err != nil {
				errs = append(errs, fmt.Errorf("whatsapp: %w", err))
			} else {
				msgLog.Info("customer message sent")
			}
		}
	}

	return errors.Join(errs...)
}

// TrackingURL публичная ссылка отслеживания, пустая без TrackingBaseURL.
func (n *Notifier) TrackingURL(token string) string {
	if n.cfg.TrackingBaseURL == "" || token == "" {
		return ""
	}
	return strings.TrimRight(n.cfg.TrackingBaseURL, "/") + "/track/" + token
}

func (n *Notifier) send(ctx context.Context, channel string, fn func(context.Context) error) error {
	err := n.retrier.ExecuteWithContext(ctx, fn)
	switch {
	case err == nil:
		NotificationsTotal.WithLabelValues(channel, "delivered").Inc()
	case errors.Is(err, ErrPermanent):
		NotificationsTotal.WithLabelValues(channel, "rejected").Inc()
	default:
		NotificationsTotal.WithLabelValues(channel, "failed").Inc()
	}
	return err
}
