package find_alternatives

import (
	"sort"
	"time"

	"github.com/m04kA/guide-sessions/internal/domain"
	"github.com/m04kA/guide-sessions/internal/service/capacity"
)

// evaluate сравнивает кандидата с исходной сессией.
// Второе значение false, если у сессий нет общих продуктов или все общие продукты недоступны
func evaluate(source, candidate *domain.Session, now time.Time) (Alternative, bool) {
	alt := Alternative{
		SessionID:       candidate.ID,
		Date:            candidate.Date,
		TimeSlot:        candidate.TimeSlot,
		StartTime:       candidate.StartTime,
		IsMagicRotation: candidate.IsMagicRotation,
		Status:          candidate.Status,
		IsPast:          candidate.IsPast(now),
	}

	anyAvailable := false
	for _, sp := range source.Products {
		if !candidate.HasProduct(sp.ProductID) {
			continue
		}

		a := capacity.Resolve(candidate, sp.ProductID)
		required := source.BookedPeople(sp.ProductID)
		pc := ProductCompatibility{
			ProductID:  sp.ProductID,
			Required:   required,
			Remaining:  a.RemainingPlaces,
			Available:  a.Available,
			Compatible: required == 0 || a.Accommodates(required),
		}
		if sp.Product != nil {
			pc.ProductName = sp.Product.Name
		}
		alt.SharedProducts = append(alt.SharedProducts, pc)

		if a.Available {
			anyAvailable = true
		}
	}

	if !anyAvailable {
		return Alternative{}, false
	}

	active := source.ActiveBookings()
	sort.Slice(active, func(i, j int) bool { return active[i].ID < active[j].ID })
	alt.AllProductsCompatible = capacity.AllPlaced(capacity.Simulate(candidate, active))

	return alt, true
}
