package ingestion

import (
	"strings"

	"tracking-service/internal/entities"
)

func isValidTelemetry(report entities.PingReport) bool {
	if report.Speed != nil && *report.Speed < 0 {
		return false
	}
	if report.Accuracy != nil && *report.Accuracy <= 0 {
		return false
	}
	if report.Heading != nil && (*report.Heading < 0 || *report.Heading >= 360) {
		return false
	}
	return true
}

func isValidToken(token string) bool {
	return strings.TrimSpace(token) != "" && len(token) <= 64
}
