package find_alternatives

import (
	"time"

	"github.com/m04kA/guide-sessions/internal/domain"
	"github.com/m04kA/guide-sessions/pkg/types"
)

// Request модель запроса поиска альтернативных сессий
type Request struct {
	GuideID   int64
	SessionID int64
}

// ProductCompatibility сравнение общего продукта исходной и альтернативной сессий
type ProductCompatibility struct {
	ProductID   int64
	ProductName string
	Required    int // участников в активных бронированиях исходной сессии
	Remaining   int
	Available   bool
	Compatible  bool
}

// Alternative сессия, в которую можно перенести бронирования
type Alternative struct {
	SessionID       int64
	Date            time.Time
	TimeSlot        domain.TimeSlot
	StartTime       types.TimeString
	IsMagicRotation bool
	Status          domain.SessionStatus
	IsPast          bool
	SharedProducts  []ProductCompatibility
	// Все активные бронирования исходной сессии помещаются сюда одновременно
	AllProductsCompatible bool
}

// Response модель ответа
type Response struct {
	SessionID    int64
	Alternatives []Alternative
}
