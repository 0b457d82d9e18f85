package domain

// AvailabilityReason почему продукт недоступен в сессии
type AvailabilityReason string

const (
	ReasonNone         AvailabilityReason = ""
	ReasonClosed       AvailabilityReason = "closed"
	ReasonFull         AvailabilityReason = "full"
	ReasonOtherProduct AvailabilityReason = "other_product"
	ReasonNotOffered   AvailabilityReason = "not_offered"
)

// Availability результат резолвера вместимости для пары сессия/продукт
type Availability struct {
	SessionID       int64
	ProductID       int64
	Available       bool
	RemainingPlaces int
	Capacity        int
	Booked          int
	Reason          AvailabilityReason
	// Продукты той же сессии с активными бронированиями (кроме целевого)
	BookedOtherProducts []int64
}

// Accommodates возвращает true, если в сессии есть места для people человек
func (a Availability) Accommodates(people int) bool {
	return a.Available && a.RemainingPlaces >= people
}

// HasOtherProductBookings возвращает true, если в сессии есть бронирования других продуктов
func (a Availability) HasOtherProductBookings() bool {
	return len(a.BookedOtherProducts) > 0
}

// OccupancyRate returns the occupancy rate as a percentage (0-100)
func (a Availability) OccupancyRate() float64 {
	if a.Capacity == 0 {
		return 0
	}
	return float64(a.Booked) / float64(a.Capacity) * 100
}

// CalendarStatus статус даты в календаре продукта
type CalendarStatus string

const (
	CalendarAvailable    CalendarStatus = "available"
	CalendarOtherProduct CalendarStatus = "otherProduct"
	CalendarFull         CalendarStatus = "full"
	CalendarClosed       CalendarStatus = "closed"
	CalendarPast         CalendarStatus = "past"
)
