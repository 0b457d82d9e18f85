package get_calendar

import (
	"time"

	"github.com/m04kA/guide-sessions/internal/domain"
	"github.com/m04kA/guide-sessions/pkg/types"
)

// Request модель запроса календаря продукта
type Request struct {
	ProductID int64
	From      *time.Time // первая дата окна, по умолчанию сегодня
	Days      int        // длина окна, 0 - значение из конфигурации
}

// CompetingProduct продукт, занявший сессию вместо запрошенного
type CompetingProduct struct {
	ProductID   int64
	ProductName string
	SessionID   int64
	TimeSlot    domain.TimeSlot
	StartTime   types.TimeString
}

// Day статус одной даты
type Day struct {
	Date      time.Time
	Status    domain.CalendarStatus
	Competing []CompetingProduct // только для otherProduct
}

// Response модель ответа с календарём
type Response struct {
	ProductID int64
	From      time.Time
	Days      []Day
}
