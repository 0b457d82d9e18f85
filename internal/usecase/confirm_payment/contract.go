package confirm_payment

import (
	"context"
	"time"

	"github.com/m04kA/guide-sessions/internal/domain"
	"github.com/m04kA/guide-sessions/internal/integrations/notification"
	"github.com/m04kA/guide-sessions/internal/integrations/payment"
)

// DraftStore хранилище черновиков, ожидающих оплаты
type DraftStore interface {
	Get(ctx context.Context, handle string) (*domain.BookingDraft, error)
	Claim(ctx context.Context, handle string) error
	Release(ctx context.Context, handle string) error
	Delete(ctx context.Context, handle string) error
}

// PaymentClient источник истины о состоянии оплаты
type PaymentClient interface {
	GetIntent(ctx context.Context, handle string) (*payment.Intent, error)
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

// Notifier интерфейс публикации уведомлений
type Notifier interface {
	Publish(ctx context.Context, msg notification.Message) error
}

// Metrics бизнес-метрики оплаты
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
