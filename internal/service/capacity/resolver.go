package capacity

import (
	"github.com/m04kA/guide-sessions/internal/domain"
)

// Resolve вычисляет доступность продукта в сессии.
// Результат никогда не кэшируется: при коммите его нужно пересчитать на заблокированных данных
func Resolve(session *domain.Session, productID int64) domain.Availability {
	a := domain.Availability{
		SessionID:           session.ID,
		ProductID:           productID,
		Booked:              session.BookedPeople(productID),
		BookedOtherProducts: otherBookedProducts(session, productID),
	}

	sp, ok := session.FindProduct(productID)
	if !ok {
		a.Reason = domain.ReasonNotOffered
		return a
	}
	if sp.Product != nil {
		a.Capacity = sp.Product.MaxCapacity
	}

	remaining := a.Capacity - a.Booked
	if remaining < 0 {
		remaining = 0
	}

	// Любой статус кроме open закрывает продажу, в том числе full, выставленный гидом вручную
	switch {
	case session.Status != domain.SessionOpen:
		a.Reason = domain.ReasonClosed
		return a
	case sp.StatusOverride != nil && *sp.StatusOverride != domain.SessionOpen:
		a.Reason = domain.ReasonClosed
		return a
	}

	// В режиме ротации гид занят другим продуктом, собственная вместимость не важна
	if session.IsMagicRotation && session.BookedPeopleExcept(productID) > 0 {
		a.Reason = domain.ReasonOtherProduct
		return a
	}

	a.RemainingPlaces = remaining
	if remaining <= 0 {
		a.Reason = domain.ReasonFull
		return a
	}

	a.Available = true
	return a
}

// ResolveAll вычисляет доступность каждого прикреплённого продукта в порядке Position
func ResolveAll(session *domain.Session) []domain.Availability {
	result := make([]domain.Availability, 0, len(session.Products))
	for _, sp := range session.Products {
		result = append(result, Resolve(session, sp.ProductID))
	}
	return result
}

// Check проверяет, что в сессии хватает мест для people человек.
// Возвращает *domain.CapacityError с указанием конфликтующего ресурса
func Check(session *domain.Session, productID int64, people int) error {
	a := Resolve(session, productID)
	if a.Reason == domain.ReasonNotOffered {
		return domain.NewValidationError("productId", "product is not offered in this session")
	}
	if a.Accommodates(people) {
		return nil
	}

	reason := a.Reason
	if reason == domain.ReasonNone {
		reason = domain.ReasonFull
	}
	return &domain.CapacityError{
		SessionID: session.ID,
		ProductID: productID,
		Date:      session.Date,
		Requested: people,
		Remaining: a.RemainingPlaces,
		Reason:    reason,
	}
}

func otherBookedProducts(session *domain.Session, productID int64) []int64 {
	ids := session.BookedProductIDs()
	result := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id != productID {
			result = append(result, id)
		}
	}
	return result
}
