package get_session_bookings

import (
	"context"

	"github.com/m04kA/guide-sessions/internal/service/bookings/models"
)

type BookingService interface {
	ListBySession(ctx context.Context, req *models.ListBySessionRequest) (*models.BookingListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
