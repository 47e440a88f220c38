package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"tracking-service/internal/entities"
	"tracking-service/internal/service/notifier"
)

const (
	defaultTimeout = 10 * time.Second
	maxErrorBody   = 512

	HeaderEvent     = "X-Delivery-Event"
	HeaderEventID   = "X-Delivery-Event-Id"
	HeaderSignature = "X-Signature-256"
)

type Config struct {
	URL     string
	Secret  string
	Timeout time.Duration
}

// WebhookGateway POST события доставки на вебхук магазина.
// Тело подписывается HMAC-SHA256, если задан Secret.
type WebhookGateway struct {
	url     string
	secret  []byte
	timeout time.Duration
	client  httpClient
}

func New(cfg Config, client httpClient) *WebhookGateway {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &WebhookGateway{
		url:     cfg.URL,
		secret:  []byte(cfg.Secret),
		timeout: timeout,
		client:  client,
	}
}

func (g *WebhookGateway) Send(ctx context.Context, message entities.NotificationMessage) error {
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("%w: marshal message: %w", notifier.ErrPermanent, err)
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: build request: %w", notifier.ErrPermanent, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(HeaderEvent, message.Event)
	req.Header.Set(HeaderEventID, message.EventID)
	if len(g.secret) > 0 {
		req.Header.Set(HeaderSignature, "sha256="+Sign(g.secret, body))
	}

	start := time.Now()
	resp, err := g.client.Do(req)
	if err != nil {
		GatewayRequestDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
		return fmt.Errorf("%w: %w", notifier.ErrTemporary, err)
	}
	defer resp.Body.Close()
	GatewayRequestDuration.WithLabelValues(strconv.Itoa(resp.StatusCode)).Observe(time.Since(start).Seconds())

	errBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return notifier.ResponseError(resp.StatusCode, string(errBody))
}

// Sign hex HMAC-SHA256 тела запроса.
func Sign(secret, body []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
