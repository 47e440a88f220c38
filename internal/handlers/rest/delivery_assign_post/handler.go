package delivery_assign_post

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"tracking-service/internal/generated/dto"
	"tracking-service/internal/handlers/rest/views"
	"tracking-service/internal/pkg/validation"
	"tracking-service/internal/service/courier"
	"tracking-service/internal/service/delivery"
	"tracking-service/internal/service/status"
	"tracking-service/pkg/logger"
)

type Handler struct {
	log     handlerLogger
	service Service
}

func New(log handlerLogger, service Service) *Handler {
	handlerLog := log.With(logger.NewField("handler", "delivery_assign_post"))

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

	var deliveryAssignDTO dto.DeliveryAssignRequest
	err = json.NewDecoder(r.Body).Decode(&deliveryAssignDTO)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if err := validation.Struct(deliveryAssignDTO); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	deliveryEntity, err := h.service.Assign(r.Context(), deliveryID, deliveryAssignDTO.CourierId)
	if err != nil {
		switch {
		case errors.Is(err, delivery.ErrInvalidDeliveryID),
			errors.Is(err, delivery.ErrInvalidCourierID):
			w.WriteHeader(http.StatusBadRequest)
		case errors.Is(err, delivery.ErrDeliveryNotFound),
			errors.Is(err, courier.ErrCourierNotFound):
			w.WriteHeader(http.StatusNotFound)
		case errors.Is(err, delivery.ErrCourierBusy),
			errors.Is(err, delivery.ErrConcurrencyConflict),
			errors.Is(err, status.ErrInvalidTransition):
			h.log.Info("delivery assignment rejected",
				logger.NewField("delivery_id", deliveryID),
				logger.NewField("courier_id", deliveryAssignDTO.CourierId),
				logger.NewField("reason", err.Error()),
			)
			w.WriteHeader(http.StatusConflict)
		default:
			h.log.Error("assign courier", logger.NewField("error", err))
			w.WriteHeader(http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	err = json.NewEncoder(w).Encode(views.Delivery(deliveryEntity))
	if err != nil {
		h.log.With(
			logger.NewField("error", err),
		).Error("encode JSON response")
	}
}
