package get_calendar

import (
	"fmt"

	"github.com/m04kA/guide-sessions/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ProductID <= 0 {
		return fmt.Errorf("%w: %w", ErrInvalidInput, domain.NewValidationError("productId", "must be positive"))
	}

	if req.Days < 0 || req.Days > domain.MaxCalendarWindowDays {
		return fmt.Errorf("%w: %w", ErrInvalidInput,
			domain.NewValidationError("days", fmt.Sprintf("must be between 1 and %d", domain.MaxCalendarWindowDays)))
	}

	return nil
}
