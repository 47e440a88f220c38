package delivery_status_post

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"tracking-service/internal/entities"
	"tracking-service/internal/generated/dto"
	"tracking-service/internal/handlers/rest/views"
	"tracking-service/internal/pkg/validation"
	"tracking-service/internal/service/delivery"
	"tracking-service/internal/service/status"
	"tracking-service/pkg/logger"
)

// Handler ручной перевод статуса доставки (приложение курьера, оператор).
type Handler struct {
	log     handlerLogger
	service Service
}

func New(log handlerLogger, service Service) *Handler {
	handlerLog := log.With(logger.NewField("handler", "delivery_status_post"))

	return &Handler{
		log:     handlerLog,
		service: service,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	deliveryID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	var statusDTO dto.DeliveryStatusRequest
	err = json.NewDecoder(r.Body).Decode(&statusDTO)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if err := validation.Struct(statusDTO); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	target, err := entities.ParseDeliveryStatus(statusDTO.Status)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	updated, err := h.service.Transition(r.Context(), deliveryID, target)
	if err != nil {
		var transitionErr *status.InvalidTransitionError
		switch {
		case errors.Is(err, delivery.ErrInvalidDeliveryID),
			errors.Is(err, status.ErrInvalidStatus):
			w.WriteHeader(http.StatusBadRequest)
		case errors.Is(err, delivery.ErrDeliveryNotFound):
			w.WriteHeader(http.StatusNotFound)
		case errors.As(err, &transitionErr):
			h.log.Info("status transition rejected",
				logger.NewField("delivery_id", deliveryID),
				logger.NewField("from", transitionErr.From.String()),
				logger.NewField("to", transitionErr.To.String()),
			)
			w.WriteHeader(http.StatusConflict)
		case errors.Is(err, status.ErrCourierRequired),
			errors.Is(err, delivery.ErrConcurrencyConflict):
			w.WriteHeader(http.StatusConflict)
		default:
			h.log.Error("transition delivery status", logger.NewField("error", err))
			w.WriteHeader(http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	err = json.NewEncoder(w).Encode(views.Delivery(updated))
	if err != nil {
		h.log.With(
			logger.NewField("error", err),
		).Error("encode JSON response")
	}
}
