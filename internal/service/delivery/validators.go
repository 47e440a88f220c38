package delivery

import (
	"strings"

	"tracking-service/internal/entities"
)

func isValidID(id int64) bool {
	return id > 0
}

func isValidAddress(address string) bool {
	return strings.TrimSpace(address) != ""
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

func isValidToken(token string) bool {
	return strings.TrimSpace(token) != "" && len(token) <= 64
}

func isValidLocation(location *entities.Coordinates) bool {
	return location == nil || location.Valid()
}
