package delivery_post

import (
	"encoding/json"
	"errors"
	"net/http"

	"tracking-service/internal/entities"
	"tracking-service/internal/generated/dto"
	"tracking-service/internal/handlers/rest/views"
	"tracking-service/internal/pkg/validation"
	"tracking-service/internal/service/delivery"
	"tracking-service/pkg/logger"
)

type Handler struct {
	log     handlerLogger
	service Service
}

func New(log handlerLogger, service Service) *Handler {
	handlerLog := log.With(logger.NewField("handler", "delivery_post"))

	return &Handler{
		log:     handlerLog,
		service: service,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var deliveryCreateDTO dto.DeliveryCreate
	err := json.NewDecoder(r.Body).Decode(&deliveryCreateDTO)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if err := validation.Struct(deliveryCreateDTO); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	deliveryModify := entities.DeliveryModify{
		PickupAddress:  &deliveryCreateDTO.PickupAddress,
		DropoffAddress: &deliveryCreateDTO.DropoffAddress,
		CustomerName:   deliveryCreateDTO.CustomerName,
		CustomerPhone:  deliveryCreateDTO.CustomerPhone,
	}
	// без координат точка геокодируется по адресу
	if deliveryCreateDTO.Pickup != nil {
		deliveryModify.Pickup = &entities.Coordinates{Lat: deliveryCreateDTO.Pickup.Lat, Lng: deliveryCreateDTO.Pickup.Lng}
	}
	if deliveryCreateDTO.Dropoff != nil {
		deliveryModify.Dropoff = &entities.Coordinates{Lat: deliveryCreateDTO.Dropoff.Lat, Lng: deliveryCreateDTO.Dropoff.Lng}
	}

	created, err := h.service.CreateDelivery(r.Context(), deliveryModify)
	if err != nil {
		switch {
		case errors.Is(err, delivery.ErrMissingRequiredFields),
			errors.Is(err, delivery.ErrInvalidAddress),
			errors.Is(err, delivery.ErrInvalidCoordinates),
			errors.Is(err, delivery.ErrInvalidPhone):
			w.WriteHeader(http.StatusBadRequest)
		case errors.Is(err, delivery.ErrGeocodingFailed):
			h.log.Warn("delivery address geocoding failed", logger.NewField("error", err))
			w.WriteHeader(http.StatusUnprocessableEntity)
		default:
			h.log.Error("create delivery", logger.NewField("error", err))
			w.WriteHeader(http.StatusInternalServerError)
		}
		return
	}

	h.log.Info("delivery created",
		logger.NewField("delivery_id", created.ID),
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	err = json.NewEncoder(w).Encode(views.Delivery(created))
	if err != nil {
		h.log.With(
			logger.NewField("error", err),
		).Error("encode JSON response")
	}
}
