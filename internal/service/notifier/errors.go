package notifier

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrTemporary сетевой сбой, таймаут, 408, 429 или 5xx получателя. Повторяется.
	ErrTemporary = errors.New("temporary delivery failure")
	// ErrPermanent получатель отверг сообщение. Не повторяется.
	ErrPermanent = errors.New("permanent delivery failure")
)

// ResponseError классифицирует ответ получателя: 2xx успех, 408, 429 и 5xx
// временные отказы, остальное окончательный.
func ResponseError(statusCode int, body string) error {
	if statusCode >= 200 && statusCode < 300 {
		return nil
	}

	kind := ErrPermanent
	if statusCode == http.StatusRequestTimeout ||
		statusCode == http.StatusTooManyRequests ||
		statusCode >= http.StatusInternalServerError {
		kind = ErrTemporary
	}
	return fmt.Errorf("%w: status %d: %s", kind, statusCode, strings.TrimSpace(body))
}
