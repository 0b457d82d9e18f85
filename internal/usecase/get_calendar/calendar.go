package get_calendar

import (
	"time"

	"github.com/m04kA/guide-sessions/internal/domain"
	"github.com/m04kA/guide-sessions/internal/service/capacity"
)

// aggregateDay вычисляет статус даты по сессиям этой даты, содержащим продукт.
//
// Приоритет: available > otherProduct > full > closed.
// Прошедшие сессии и сессии со статусом closed не участвуют в выборе.
// Если остались только прошедшие сессии, дата past; если есть будущая закрытая сессия, дата closed.
func aggregateDay(date time.Time, sessions []*domain.Session, productID int64, now time.Time) Day {
	day := Day{Date: date, Status: domain.CalendarClosed}
	if len(sessions) == 0 {
		return day
	}

	sorted := make([]*domain.Session, len(sessions))
	copy(sorted, sessions)
	domain.SortSessions(sorted)

	var qualifying []*domain.Session
	hasPast, hasFutureClosed := false, false
	for _, s := range sorted {
		switch {
		case s.IsPast(now):
			hasPast = true
		case s.Status == domain.SessionClosed:
			hasFutureClosed = true
		default:
			qualifying = append(qualifying, s)
		}
	}

	if len(qualifying) == 0 {
		if hasPast && !hasFutureClosed {
			day.Status = domain.CalendarPast
		}
		return day
	}

	var (
		competing []CompetingProduct
		anyFull   bool
	)
	for _, s := range qualifying {
		a := capacity.Resolve(s, productID)
		if a.Available {
			return Day{Date: date, Status: domain.CalendarAvailable}
		}

		if a.HasOtherProductBookings() {
			competing = append(competing, competingFor(s, a.BookedOtherProducts)...)
			continue
		}

		if a.Reason == domain.ReasonFull {
			anyFull = true
		}
	}

	switch {
	case len(competing) > 0:
		day.Status = domain.CalendarOtherProduct
		day.Competing = competing
	case anyFull:
		day.Status = domain.CalendarFull
	}

	return day
}

func competingFor(s *domain.Session, productIDs []int64) []CompetingProduct {
	result := make([]CompetingProduct, 0, len(productIDs))
	for _, pid := range productIDs {
		cp := CompetingProduct{
			ProductID: pid,
			SessionID: s.ID,
			TimeSlot:  s.TimeSlot,
			StartTime: s.StartTime,
		}
		if sp, ok := s.FindProduct(pid); ok && sp.Product != nil {
			cp.ProductName = sp.Product.Name
		}
		result = append(result, cp)
	}
	return result
}

// groupByDate раскладывает сессии по дате в формате YYYY-MM-DD
func groupByDate(sessions []*domain.Session) map[string][]*domain.Session {
	result := make(map[string][]*domain.Session)
	for _, s := range sessions {
		key := s.Date.Format(domain.DateFormat)
		result[key] = append(result[key], s)
	}
	return result
}
