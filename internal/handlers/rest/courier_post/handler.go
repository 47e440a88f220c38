package courier_post

import (
	"encoding/json"
	"errors"
	"net/http"

	"tracking-service/internal/entities"
	"tracking-service/internal/generated/dto"
	"tracking-service/internal/pkg/validation"
	"tracking-service/internal/service/courier"
	"tracking-service/pkg/logger"
)

type Handler struct {
	log     handlerLogger
	service Service
}

func New(log handlerLogger, service Service) *Handler {
	handlerLog := log.With(logger.NewField("handler", "courier_post"))

	return &Handler{
		log:     handlerLog,
		service: service,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var courierCreateDTO dto.CourierCreate
	err := json.NewDecoder(r.Body).Decode(&courierCreateDTO)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if err := validation.Struct(courierCreateDTO); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	courierModify := entities.CourierModify{
		Name:    &courierCreateDTO.Name,
		Phone:   &courierCreateDTO.Phone,
		Address: courierCreateDTO.Address,
	}
	if courierCreateDTO.Status != nil {
		status := entities.CourierStatusType(*courierCreateDTO.Status)
		courierModify.Status = &status
	}
	if courierCreateDTO.TransportType != nil {
		transport := entities.CourierTransportType(*courierCreateDTO.TransportType)
		courierModify.TransportType = &transport
	}

	id, err := h.service.CreateCourier(r.Context(), courierModify)
	if err != nil {
		switch {
		case errors.Is(err, courier.ErrMissingRequiredFields),
			errors.Is(err, courier.ErrInvalidName),
			errors.Is(err, courier.ErrInvalidPhone),
			errors.Is(err, courier.ErrInvalidStatus),
			errors.Is(err, courier.ErrInvalidTransport),
			errors.Is(err, courier.ErrInvalidAddress):
			w.WriteHeader(http.StatusBadRequest)
		case errors.Is(err, courier.ErrConflict):
			w.WriteHeader(http.StatusConflict)
		default:
			h.log.Error("create courier", logger.NewField("error", err))
			w.WriteHeader(http.StatusInternalServerError)
		}
		return
	}

	response := dto.CourierCreateResponse{
		Id: id,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	err = json.NewEncoder(w).Encode(response)
	if err != nil {
		h.log.With(
			logger.NewField("error", err),
		).Error("encode JSON response")
	}
}
