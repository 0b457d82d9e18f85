package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/guide-sessions/internal/domain"
	"github.com/m04kA/guide-sessions/internal/integrations/notification"
	"github.com/m04kA/guide-sessions/internal/integrations/payment"
)

// SessionRepository интерфейс репозитория сессий
type SessionRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Session, error)
}

// ProductRepository интерфейс репозитория продуктов
type ProductRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
}

// GuideRepository интерфейс репозитория гидов (настройки оплаты)
type GuideRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Guide, error)
}

// VoucherRepository интерфейс репозитория промокодов
type VoucherRepository interface {
	GetByCode(ctx context.Context, guideID int64, code string) (*domain.Voucher, error)
}

// Allocator фиксирует бронирование внутри транзакции
type Allocator interface {
	Commit(
		ctx context.Context,
		draft *domain.BookingDraft,
		status domain.BookingStatus,
		amountPaid float64,
		paymentReference *string,
		now time.Time,
	) (*domain.Booking, *domain.Session, error)
}

// PaymentClient интерфейс платёжного сервиса
type PaymentClient interface {
	CreateIntent(ctx context.Context, in payment.IntentRequest) (*payment.Intent, error)
}

// DraftStore хранилище черновиков, ожидающих оплаты
type DraftStore interface {
	Save(ctx context.Context, draft *domain.BookingDraft) error
}

// Notifier интерфейс публикации уведомлений
type Notifier interface {
	Publish(ctx context.Context, msg notification.Message) error
}

// Metrics бизнес-метрики бронирования
type Metrics interface {
	BookingCommitted(origin string)
	CapacityConflict(operation, reason string)
	PaymentIntent(outcome string)
	NotificationFailed(template string)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время в UTC
func (p *RealTimeProvider) Now() time.Time {
	return time.Now().UTC()
}
