package courier

import (
	"strings"

	"tracking-service/internal/entities"
)

func isValidID(id int64) bool {
	return id > 0
}

func isValidName(name string) bool {
	return strings.TrimSpace(name) != ""
}

func isValidPhone(phone string) bool {
	phone = strings.TrimSpace(phone)
	if len(phone) < 2 || !strings.HasPrefix(phone, "+") {
		return false
	}

	for _, char := range phone[1:] {
		if char < '0' || char > '9' {
			return false
		}
	}
	return true
}

func isValidStatus(status entities.CourierStatusType) bool {
	switch status {
	case entities.CourierAvailable, entities.CourierBusy, entities.CourierPaused:
		return true
	default:
		return false
	}
}

func isValidTransport(transport entities.CourierTransportType) bool {
	switch transport {
	case entities.OnFoot, entities.Bicycle, entities.Scooter, entities.Car:
		return true
	default:
		return false
	}
}

func isValidAddress(address string) bool {
	address = strings.TrimSpace(address)
	return address != "" && len(address) <= 512
}
