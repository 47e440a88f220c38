package status

import (
	"errors"
	"fmt"

	"tracking-service/internal/entities"
)

var (
	ErrInvalidStatus     = errors.New("invalid delivery status")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrCourierRequired   = errors.New("courier must be assigned before this transition")
)

// InvalidTransitionError нарушение правила переходов. errors.Is(err, ErrInvalidTransition) == true.
type InvalidTransitionError struct {
	From entities.DeliveryStatus
	To   entities.DeliveryStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition from %s to %s", e.From, e.To)
}

func (e *InvalidTransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}
