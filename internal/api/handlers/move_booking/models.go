package move_booking

import (
	"github.com/m04kA/guide-sessions/internal/service/bookings/models"
	moveBooking "github.com/m04kA/guide-sessions/internal/usecase/move_booking"
)

// MoveBookingRequest HTTP request model
type MoveBookingRequest struct {
	TargetSessionID int64 `json:"targetSessionId"`
}

// MoveBookingResponse HTTP response model
type MoveBookingResponse struct {
	FromSessionID int64                   `json:"fromSessionId"`
	ToSessionID   int64                   `json:"toSessionId"`
	Booking       *models.BookingResponse `json:"booking"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *moveBooking.Response) *MoveBookingResponse {
	return &MoveBookingResponse{
		FromSessionID: resp.FromSessionID,
		ToSessionID:   resp.ToSessionID,
		Booking:       models.FromDomainBooking(resp.Booking),
	}
}
