package capacity

import (
	"github.com/m04kA/guide-sessions/internal/domain"
)

// Placement результат пробного размещения одного бронирования
type Placement struct {
	Booking *domain.Booking
	Err     error
}

// Simulate по очереди размещает бронирования в копии target, учитывая уже размещённые.
// Исходная сессия не меняется. Бронирования проверяются в переданном порядке
func Simulate(target *domain.Session, bookings []*domain.Booking) []Placement {
	sim := *target
	sim.Bookings = make([]*domain.Booking, len(target.Bookings), len(target.Bookings)+len(bookings))
	copy(sim.Bookings, target.Bookings)

	result := make([]Placement, 0, len(bookings))
	for _, b := range bookings {
		err := Check(&sim, b.ProductID, b.NumberOfPeople)
		result = append(result, Placement{Booking: b, Err: err})
		if err != nil {
			continue
		}

		placed := *b
		placed.SessionID = sim.ID
		sim.Bookings = append(sim.Bookings, &placed)
	}

	return result
}

// AllPlaced возвращает true, если все бронирования размещены без ошибок
func AllPlaced(placements []Placement) bool {
	for _, p := range placements {
		if p.Err != nil {
			return false
		}
	}
	return true
}
