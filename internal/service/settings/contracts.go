package settings

import (
	"context"

	"github.com/m04kA/guide-sessions/internal/domain"
)

// GuideRepository интерфейс репозитория гидов
type GuideRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Guide, error)
	UpdateSettings(ctx context.Context, id int64, settings domain.PaymentSettings) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
