package duplicate_session

import (
	"time"

	"github.com/m04kA/guide-sessions/internal/domain"
)

// Mode режим дублирования
type Mode string

const (
	ModeDaily   Mode = "daily"
	ModeWeekend Mode = "weekend"
	ModeCustom  Mode = "custom"
)

// IsValid проверяет, что режим известен
func (m Mode) IsValid() bool {
	return m == ModeDaily || m == ModeWeekend || m == ModeCustom
}

// Request модель запроса дублирования сессии
type Request struct {
	GuideID   int64
	SessionID int64
	Mode      Mode
	StartDate *time.Time  // daily и weekend
	EndDate   *time.Time  // daily и weekend, включительно
	Dates     []time.Time // custom
}

// Response модель ответа
type Response struct {
	Created []*domain.Session
}
