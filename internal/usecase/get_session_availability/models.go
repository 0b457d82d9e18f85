package get_session_availability

import (
	"time"

	"github.com/m04kA/guide-sessions/internal/domain"
	"github.com/m04kA/guide-sessions/pkg/types"
)

// Request модель запроса доступности сессии
type Request struct {
	SessionID int64
}

// ProductAvailability доступность одного продукта сессии
type ProductAvailability struct {
	ProductID       int64
	ProductName     string
	PricePerPerson  float64
	Capacity        int
	Booked          int
	RemainingPlaces int
	Available       bool
	Reason          domain.AvailabilityReason
}

// Response модель ответа
type Response struct {
	SessionID       int64
	Date            time.Time
	TimeSlot        domain.TimeSlot
	StartTime       types.TimeString
	IsMagicRotation bool
	Status          domain.SessionStatus
	IsPast          bool
	Products        []ProductAvailability
}
