package tracking_location_post

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"tracking-service/internal/generated/dto"
	"tracking-service/internal/handlers/rest/views"
	"tracking-service/internal/pkg/validation"
	"tracking-service/internal/service/delivery"
	"tracking-service/internal/service/ingestion"
	"tracking-service/pkg/logger"
)

// Handler приём пинга по публичному токену доставки.
type Handler struct {
	log     handlerLogger
	service Service
}

func New(log handlerLogger, service Service) *Handler {
	handlerLog := log.With(logger.NewField("handler", "tracking_location_post"))

	return &Handler{
		log:     handlerLog,
		service: service,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]

	var reportDTO dto.LocationReport
	err := json.NewDecoder(r.Body).Decode(&reportDTO)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if err := validation.Struct(reportDTO); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	result, err := h.service.RecordForDelivery(r.Context(), token, views.PingReport(reportDTO))
	if err != nil {
		switch {
		case errors.Is(err, ingestion.ErrInvalidToken),
			errors.Is(err, ingestion.ErrInvalidCoordinates),
			errors.Is(err, ingestion.ErrInvalidTelemetry):
			w.WriteHeader(http.StatusBadRequest)
		case errors.Is(err, delivery.ErrDeliveryNotFound),
			errors.Is(err, ingestion.ErrCourierNotFound):
			w.WriteHeader(http.StatusNotFound)
		case errors.Is(err, ingestion.ErrDeliveryNotActive):
			w.WriteHeader(http.StatusConflict)
		default:
			h.log.Error("record location by token", logger.NewField("error", err))
			w.WriteHeader(http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	err = json.NewEncoder(w).Encode(views.IngestResult(result))
	if err != nil {
		h.log.With(
			logger.NewField("error", err),
		).Error("encode JSON response")
	}
}
