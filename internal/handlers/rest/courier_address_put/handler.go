package courier_address_put

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
	"tracking-service/pkg/logger"
)

// Handler меняет адрес курьера. Адрес геокодируется сразу, отказ
// геокодера возвращается клиенту как 422.
type Handler struct {
	log     handlerLogger
	service Service
}

func New(log handlerLogger, service Service) *Handler {
	handlerLog := log.With(logger.NewField("handler", "courier_address_put"))

	return &Handler{
		log:     handlerLog,
		service: service,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	var addressDTO dto.CourierAddressUpdate
	err = json.NewDecoder(r.Body).Decode(&addressDTO)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if err := validation.Struct(addressDTO); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	res, err := h.service.UpdateAddress(r.Context(), id, addressDTO.Address)
	if err != nil {
		switch {
		case errors.Is(err, courier.ErrInvalidCourierID),
			errors.Is(err, courier.ErrInvalidAddress):
			w.WriteHeader(http.StatusBadRequest)
		case errors.Is(err, courier.ErrCourierNotFound):
			w.WriteHeader(http.StatusNotFound)
		case errors.Is(err, courier.ErrGeocodingFailed):
			h.log.Warn("courier address geocoding failed",
				logger.NewField("courier_id", id),
				logger.NewField("error", err),
			)
			w.WriteHeader(http.StatusUnprocessableEntity)
		default:
			h.log.Error("update courier address", logger.NewField("error", err))
			w.WriteHeader(http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	err = json.NewEncoder(w).Encode(views.Courier(res))
	if err != nil {
		h.log.With(
			logger.NewField("error", err),
		).Error("encode JSON response")
	}
}
