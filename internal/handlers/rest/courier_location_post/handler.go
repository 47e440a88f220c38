package courier_location_post

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"tracking-service/internal/generated/dto"
	"tracking-service/internal/handlers/rest/views"
	"tracking-service/internal/pkg/validation"
	"tracking-service/internal/service/ingestion"
	"tracking-service/pkg/logger"
)

// Handler приём пинга от приложения курьера. Сбои карт и фоновых задач
// на ответ не влияют: они выполняются после сохранения пинга.
type Handler struct {
	log     handlerLogger
	service Service
}

func New(log handlerLogger, service Service) *Handler {
	handlerLog := log.With(logger.NewField("handler", "courier_location_post"))

	return &Handler{
		log:     handlerLog,
		service: service,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	courierID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	var reportDTO dto.LocationReport
	err = json.NewDecoder(r.Body).Decode(&reportDTO)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if err := validation.Struct(reportDTO); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	report := views.PingReport(reportDTO)
	report.CourierID = courierID

	result, err := h.service.Record(r.Context(), report)
	if err != nil {
		switch {
		case errors.Is(err, ingestion.ErrInvalidCourierID),
			errors.Is(err, ingestion.ErrInvalidCoordinates),
			errors.Is(err, ingestion.ErrInvalidTelemetry):
			w.WriteHeader(http.StatusBadRequest)
		case errors.Is(err, ingestion.ErrCourierNotFound):
			w.WriteHeader(http.StatusNotFound)
		default:
			h.log.Error("record location",
				logger.NewField("courier_id", courierID),
				logger.NewField("error", err),
			)
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
