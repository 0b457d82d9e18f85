package delete_session

import (
	"errors"

	"github.com/m04kA/guide-sessions/internal/api/handlers"
	"github.com/m04kA/guide-sessions/internal/domain"
	deleteSession "github.com/m04kA/guide-sessions/internal/usecase/delete_session"
)

// DeleteSessionResponse HTTP response model
type DeleteSessionResponse struct {
	SessionID         int64   `json:"sessionId"`
	Disposition       string  `json:"disposition,omitempty"`
	CancelledBookings int     `json:"cancelledBookings"`
	MovedBookingIDs   []int64 `json:"movedBookingIds"`
	TargetSessionID   *int64  `json:"targetSessionId,omitempty"`
}

// MoveFailureResponse бронирование, которое не помещается в целевую сессию
type MoveFailureResponse struct {
	BookingID      int64                     `json:"bookingId"`
	ProductID      int64                     `json:"productId"`
	NumberOfPeople int                       `json:"numberOfPeople"`
	Reason         string                    `json:"reason"`
	Capacity       *handlers.CapacityDetails `json:"capacity,omitempty"`
}

// AbortedDetails подробности отказа в удалении
type AbortedDetails struct {
	SessionID       int64                 `json:"sessionId"`
	TargetSessionID int64                 `json:"targetSessionId"`
	Failures        []MoveFailureResponse `json:"failures"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *deleteSession.Response) *DeleteSessionResponse {
	moved := resp.MovedBookingIDs
	if moved == nil {
		moved = []int64{}
	}
	return &DeleteSessionResponse{
		SessionID:         resp.SessionID,
		Disposition:       string(resp.Disposition),
		CancelledBookings: resp.CancelledBookings,
		MovedBookingIDs:   moved,
		TargetSessionID:   resp.TargetSessionID,
	}
}

// FromAbortedError собирает подробности отказа
func FromAbortedError(e *deleteSession.AbortedError) AbortedDetails {
	details := AbortedDetails{
		SessionID:       e.SessionID,
		TargetSessionID: e.TargetSessionID,
		Failures:        make([]MoveFailureResponse, 0, len(e.Failures)),
	}
	for _, f := range e.Failures {
		item := MoveFailureResponse{
			BookingID:      f.BookingID,
			ProductID:      f.ProductID,
			NumberOfPeople: f.NumberOfPeople,
			Reason:         domain.ConflictReason(f.Err),
		}
		var capErr *domain.CapacityError
		if errors.As(f.Err, &capErr) {
			d := handlers.NewCapacityDetails(capErr)
			item.Capacity = &d
		}
		details.Failures = append(details.Failures, item)
	}
	return details
}
