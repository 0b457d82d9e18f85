package allocator

import (
	"context"

	"github.com/m04kA/guide-sessions/internal/domain"
)

// SessionRepository интерфейс репозитория сессий
type SessionRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Session, error)
	LockForUpdate(ctx context.Context, ids []int64) error
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
}

// VoucherRepository интерфейс репозитория промокодов
type VoucherRepository interface {
	GetByCode(ctx context.Context, guideID int64, code string) (*domain.Voucher, error)
	IncrementUsage(ctx context.Context, id int64) error
}
