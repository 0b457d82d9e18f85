package delete_session

import (
	"fmt"

	"github.com/m04kA/guide-sessions/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.GuideID <= 0 {
		return invalid("guideId", "must be positive")
	}
	if req.SessionID <= 0 {
		return invalid("sessionId", "must be positive")
	}
	if !req.Disposition.IsValid() {
		return invalid("disposition", "must be one of delete_with_bookings, move_to")
	}
	if req.Disposition == DispositionMoveTo {
		if req.TargetSessionID == nil || *req.TargetSessionID <= 0 {
			return invalid("targetSessionId", "is required for move_to")
		}
		if *req.TargetSessionID == req.SessionID {
			return invalid("targetSessionId", "must differ from the deleted session")
		}
	}
	return nil
}

func invalid(field, reason string) error {
	return fmt.Errorf("%w: %w", ErrInvalidInput, domain.NewValidationError(field, reason))
}
