package domain

// PriceGroup групповой тариф: действует, когда в группе не меньше Min человек
type PriceGroup struct {
	Min   int
	Price float64
}

// Product активность (каньон), которую гид предлагает в сессиях
type Product struct {
	ID              int64
	GuideID         int64
	Name            string
	MaxCapacity     int
	DurationMinutes int
	PriceIndividual float64
	PriceGroup      *PriceGroup
	ShoeRentalPrice *float64 // nil - аренда обуви не предлагается
	Color           string   // только для отображения
}

// HasGroupRate возвращает true, если у продукта задан групповой тариф
func (p *Product) HasGroupRate() bool {
	return p.PriceGroup != nil && p.PriceGroup.Min > 0
}
