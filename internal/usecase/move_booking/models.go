package move_booking

import "github.com/m04kA/guide-sessions/internal/domain"

// Request модель запроса переноса бронирования
type Request struct {
	GuideID         int64
	BookingID       int64
	TargetSessionID int64
}

// Response модель ответа
type Response struct {
	Booking       *domain.Booking
	FromSessionID int64
	ToSessionID   int64
}
