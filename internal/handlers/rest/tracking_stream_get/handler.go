package tracking_stream_get

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"tracking-service/internal/handlers/rest/views"
	"tracking-service/internal/service/delivery"
	"tracking-service/internal/service/tracking"
	"tracking-service/pkg/logger"
)

const (
	DefaultHeartbeat = 15 * time.Second

	eventSnapshot = "snapshot"
)

// Handler живая подписка на доставку через Server-Sent Events. Первое событие
// snapshot с полным видом доставки, дальше события живого канала по мере появления.
type Handler struct {
	log       handlerLogger
	service   Service
	heartbeat time.Duration
}

func New(log handlerLogger, service Service, heartbeat time.Duration) *Handler {
	handlerLog := log.With(logger.NewField("handler", "tracking_stream_get"))

	if heartbeat <= 0 {
		heartbeat = DefaultHeartbeat
	}

	return &Handler{
		log:       handlerLog,
		service:   service,
		heartbeat: heartbeat,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	token := mux.Vars(r)["token"]

	view, sub, err := h.service.Subscribe(ctx, token)
	if err != nil {
		switch {
		case errors.Is(err, tracking.ErrInvalidToken):
			w.WriteHeader(http.StatusBadRequest)
		case errors.Is(err, delivery.ErrDeliveryNotFound):
			w.WriteHeader(http.StatusNotFound)
		default:
			h.log.Error("subscribe to delivery", logger.NewField("error", err))
			w.WriteHeader(http.StatusInternalServerError)
		}
		return
	}
	defer sub.Close()

	rc := http.NewResponseController(w)
	// поток живёт дольше WriteTimeout сервера
	if err := rc.SetWriteDeadline(time.Time{}); err != nil && !errors.Is(err, http.ErrNotSupported) {
		h.log.Warn("reset write deadline", logger.NewField("error", err))
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	streamLog := h.log.With(logger.NewField("delivery_id", view.DeliveryID))

	if err := writeEvent(w, "", eventSnapshot, views.TrackingView(view)); err != nil {
		streamLog.Warn("write snapshot", logger.NewField("error", err))
		return
	}
	if err := rc.Flush(); err != nil {
		streamLog.Error("stream flush not supported", logger.NewField("error", err))
		return
	}

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-ticker.C:
			if _, err := io.WriteString(w, ": keepalive\n\n"); err != nil {
				return
			}

		case event, ok := <-sub.Events():
			if !ok {
				return
			}
			if err := writeEvent(w, event.ID, event.Type.String(), views.TrackingEvent(event)); err != nil {
				streamLog.Warn("write event", logger.NewField("error", err))
				return
			}
		}

		if err := rc.Flush(); err != nil {
			return
		}
	}
}

func writeEvent(w io.Writer, id, name string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", name, err)
	}

	if id != "" {
		if _, err := fmt.Fprintf(w, "id: %s\n", id); err != nil {
			return err
		}
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, data)
	return err
}
