package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"tracking-service/internal/service/notifier"
)

const (
	defaultBaseURL = "https://graph.facebook.com/v17.0"
	defaultTimeout = 10 * time.Second
	maxErrorBody   = 512
)

type Config struct {
	BaseURL       string
	Token         string
	PhoneNumberID string
	Timeout       time.Duration
}

// Configured оба параметра Cloud API заданы.
func (c Config) Configured() bool {
	return c.Token != "" && c.PhoneNumberID != ""
}

// WhatsAppGateway текстовые сообщения клиенту через WhatsApp Cloud API.
type WhatsAppGateway struct {
	endpoint string
	token    string
	timeout  time.Duration
	client   httpClient
}

func New(cfg Config, client httpClient) *WhatsAppGateway {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &WhatsAppGateway{
		endpoint: baseURL + "/" + cfg.PhoneNumberID + "/messages",
		token:    cfg.Token,
		timeout:  timeout,
		client:   client,
	}
}

type textMessage struct {
	MessagingProduct string   `json:"messaging_product"`
	To               string   `json:"to"`
	Type             string   `json:"type"`
	Text             textBody `json:"text"`
}

type textBody struct {
	PreviewURL bool   `json:"preview_url"`
	Body       string `json:"body"`
}

func (g *WhatsAppGateway) SendText(ctx context.Context, phone string, text string) error {
	body, err := json.Marshal(textMessage{
		MessagingProduct: "whatsapp",
		To:               phone,
		Type:             "text",
		Text:             textBody{PreviewURL: strings.Contains(text, "http"), Body: text},
	})
	if err != nil {
		return fmt.Errorf("%w: marshal message: %w", notifier.ErrPermanent, err)
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: build request: %w", notifier.ErrPermanent, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.token)

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
