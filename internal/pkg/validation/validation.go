package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var ErrInvalidRequest = errors.New("invalid request")

// validate кэширует разбор тегов, безопасен для конкурентного использования
var validate = validator.New(validator.WithRequiredStructEnabled())

// Struct проверяет теги validate. Ошибка оборачивает ErrInvalidRequest
// и перечисляет поля, не прошедшие проверку.
func Struct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	fields := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields = append(fields, fe.Field()+":"+fe.Tag())
	}
	return fmt.Errorf("%w: %s", ErrInvalidRequest, strings.Join(fields, ", "))
}
