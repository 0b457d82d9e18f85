package move_booking

import (
	"context"

	"github.com/m04kA/guide-sessions/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	MoveToSession(ctx context.Context, id int64, sessionID int64) error
}

// SessionRepository интерфейс репозитория сессий
type SessionRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Session, error)
	LockForUpdate(ctx context.Context, ids []int64) error
}

// Metrics бизнес-метрики
type Metrics interface {
	CapacityConflict(operation, reason string)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
