package get_calendar

import (
	"context"
	"time"

	"github.com/m04kA/guide-sessions/internal/domain"
)

// ProductRepository интерфейс репозитория продуктов
type ProductRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
}

// SessionRepository интерфейс репозитория сессий
type SessionRepository interface {
	List(ctx context.Context, filter domain.SessionFilter) ([]*domain.Session, error)
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

// Now возвращает текущее время в UTC. Даты и время сессий хранятся без часового пояса
func (p *RealTimeProvider) Now() time.Time {
	return time.Now().UTC()
}
