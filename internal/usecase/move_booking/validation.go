package move_booking

import (
	"fmt"

	"github.com/m04kA/guide-sessions/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.GuideID <= 0 {
		return fmt.Errorf("%w: %w", ErrInvalidInput, domain.NewValidationError("guideId", "must be positive"))
	}
	if req.BookingID <= 0 {
		return fmt.Errorf("%w: %w", ErrInvalidInput, domain.NewValidationError("bookingId", "must be positive"))
	}
	if req.TargetSessionID <= 0 {
		return fmt.Errorf("%w: %w", ErrInvalidInput, domain.NewValidationError("targetSessionId", "must be positive"))
	}
	return nil
}
