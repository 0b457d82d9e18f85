package delete_session

import (
	"context"
	"time"

	"github.com/m04kA/guide-sessions/internal/domain"
	"github.com/m04kA/guide-sessions/internal/integrations/notification"
)

// SessionRepository интерфейс репозитория сессий
type SessionRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Session, error)
	LockForUpdate(ctx context.Context, ids []int64) error
	Delete(ctx context.Context, id int64) error
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	MoveToSession(ctx context.Context, id int64, sessionID int64) error
	CancelBySession(ctx context.Context, sessionID int64) (int64, error)
}

// Notifier интерфейс публикации уведомлений
type Notifier interface {
	Publish(ctx context.Context, msg notification.Message) error
}

// Metrics бизнес-метрики
type Metrics interface {
	SessionDeletion(disposition, outcome string)
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
