package domain

import (
	"sort"
	"time"

	"github.com/m04kA/guide-sessions/pkg/types"
)

// TimeSlot часть дня, на которую приходится сессия
type TimeSlot string

const (
	TimeSlotMorning   TimeSlot = "matin"
	TimeSlotAfternoon TimeSlot = "après-midi"
	TimeSlotFullDay   TimeSlot = "journée"
)

// IsValid проверяет, что слот известен
func (s TimeSlot) IsValid() bool {
	return s == TimeSlotMorning || s == TimeSlotAfternoon || s == TimeSlotFullDay
}

// SessionStatus статус сессии
type SessionStatus string

const (
	SessionOpen   SessionStatus = "open"
	SessionFull   SessionStatus = "full"
	SessionClosed SessionStatus = "closed"
)

// IsValid проверяет, что статус известен
func (s SessionStatus) IsValid() bool {
	return s == SessionOpen || s == SessionFull || s == SessionClosed
}

// SessionProduct продукт, прикреплённый к сессии, с необязательными переопределениями
type SessionProduct struct {
	ProductID      int64
	Position       int
	Product        *Product
	PriceOverride  *float64       // цена за человека только в этой сессии
	StatusOverride *SessionStatus // closed закрывает продукт только в этой сессии
}

// Session бронируемый временной слот гида
type Session struct {
	ID              int64
	GuideID         int64
	Date            time.Time
	TimeSlot        TimeSlot
	StartTime       types.TimeString
	IsMagicRotation bool
	Status          SessionStatus
	Products        []SessionProduct
	Bookings        []*Booking
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// FindProduct возвращает прикреплённый продукт по ID
func (s *Session) FindProduct(productID int64) (*SessionProduct, bool) {
	for i := range s.Products {
		if s.Products[i].ProductID == productID {
			return &s.Products[i], true
		}
	}
	return nil, false
}

// HasProduct возвращает true, если продукт прикреплён к сессии
func (s *Session) HasProduct(productID int64) bool {
	_, ok := s.FindProduct(productID)
	return ok
}

// ProductIDs возвращает ID прикреплённых продуктов в порядке Position
func (s *Session) ProductIDs() []int64 {
	ids := make([]int64, 0, len(s.Products))
	for _, p := range s.Products {
		ids = append(ids, p.ProductID)
	}
	return ids
}

// ActiveBookings возвращает неотменённые бронирования
func (s *Session) ActiveBookings() []*Booking {
	active := make([]*Booking, 0, len(s.Bookings))
	for _, b := range s.Bookings {
		if b.IsActive() {
			active = append(active, b)
		}
	}
	return active
}

// BookedPeople суммирует участников неотменённых бронирований продукта
func (s *Session) BookedPeople(productID int64) int {
	total := 0
	for _, b := range s.Bookings {
		if b.IsActive() && b.ProductID == productID {
			total += b.NumberOfPeople
		}
	}
	return total
}

// BookedPeopleExcept суммирует участников неотменённых бронирований всех продуктов, кроме указанного
func (s *Session) BookedPeopleExcept(productID int64) int {
	total := 0
	for _, b := range s.Bookings {
		if b.IsActive() && b.ProductID != productID {
			total += b.NumberOfPeople
		}
	}
	return total
}

// BookedProductIDs возвращает отсортированные ID продуктов с активными бронированиями
func (s *Session) BookedProductIDs() []int64 {
	seen := make(map[int64]struct{})
	ids := make([]int64, 0)
	for _, b := range s.Bookings {
		if !b.IsActive() {
			continue
		}
		if _, ok := seen[b.ProductID]; ok {
			continue
		}
		seen[b.ProductID] = struct{}{}
		ids = append(ids, b.ProductID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// StartsAt возвращает момент начала сессии в часовом поясе её даты.
// Если время не задано - начало дня
func (s *Session) StartsAt() time.Time {
	if s.StartTime.IsZero() {
		y, m, d := s.Date.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, s.Date.Location())
	}
	start, err := s.StartTime.On(s.Date)
	if err != nil {
		y, m, d := s.Date.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, s.Date.Location())
	}
	return start
}

// IsPast возвращает true, если сессия уже началась относительно now
func (s *Session) IsPast(now time.Time) bool {
	return s.StartsAt().Before(now)
}

// SortSessions упорядочивает сессии по дате, времени начала и ID
func SortSessions(sessions []*Session) {
	sort.SliceStable(sessions, func(i, j int) bool {
		a, b := sessions[i], sessions[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.StartTime != b.StartTime {
			return a.StartTime.IsBefore(b.StartTime)
		}
		return a.ID < b.ID
	})
}

// SessionFilter фильтр выборки сессий гида
type SessionFilter struct {
	GuideID   int64
	ProductID *int64     // только сессии, где прикреплён продукт
	StartDate *time.Time // включительно
	EndDate   *time.Time // включительно
	ExcludeID *int64
}

// DateOnly обнуляет время, сохраняя часовой пояс
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// CivilDate переносит календарную дату t в пояс loc без сдвига дня
func CivilDate(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// SameDay возвращает true, если даты совпадают
func SameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
