package views

import (
	"tracking-service/internal/entities"
	"tracking-service/internal/generated/dto"
)

// PingReport отчёт устройства без идентификатора курьера: его задаёт маршрут.
// Наличие lat и lng проверяет validation.Struct до вызова.
func PingReport(report dto.LocationReport) entities.PingReport {
	res := entities.PingReport{
		Speed:    report.Speed,
		Heading:  report.Heading,
		Accuracy: report.Accuracy,
	}
	if report.Lat != nil && report.Lng != nil {
		res.Location = entities.Coordinates{Lat: *report.Lat, Lng: *report.Lng}
	}
	if report.Timestamp != nil {
		res.PingedAt = *report.Timestamp
	}
	return res
}

func IngestResult(result *entities.IngestResult) dto.LocationReportResponse {
	res := dto.LocationReportResponse{
		PingId:   result.Ping.ID,
		Progress: result.Progress,
	}
	if result.Delivery != nil {
		id := result.Delivery.ID
		res.DeliveryId = &id
	}
	return res
}
