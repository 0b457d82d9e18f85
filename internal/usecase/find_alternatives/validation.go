package find_alternatives

import (
	"fmt"

	"github.com/m04kA/guide-sessions/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.GuideID <= 0 {
		return fmt.Errorf("%w: %w", ErrInvalidInput, domain.NewValidationError("guideId", "must be positive"))
	}
	if req.SessionID <= 0 {
		return fmt.Errorf("%w: %w", ErrInvalidInput, domain.NewValidationError("sessionId", "must be positive"))
	}
	return nil
}
