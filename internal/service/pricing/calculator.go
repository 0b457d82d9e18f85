package pricing

import (
	"math"

	"github.com/m04kA/guide-sessions/internal/domain"
)

// Input входные данные расчёта стоимости
type Input struct {
	NumberOfPeople  int
	Product         *domain.Product
	PriceOverride   *float64        // цена за человека, переопределённая в сессии
	Voucher         *domain.Voucher // уже найденный по коду промокод
	ShoeRentalCount int
	Settings        domain.PaymentSettings
	PayFullAmount   bool
}

// Quote результат расчёта стоимости
type Quote struct {
	PerPersonPrice     float64
	GroupRateApplied   bool
	TotalPrice         float64 // до скидки
	DiscountAmount     float64
	FinalPrice         float64
	DepositRequired    bool
	DepositAmount      float64
	AmountToCollectNow float64
}

// Calculate рассчитывает стоимость бронирования. Чистая функция без побочных эффектов
func Calculate(in Input) (*Quote, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	q := &Quote{}

	// Цена сессии (PriceOverride) заменяет индивидуальную цену продукта.
	// Групповой тариф от порога только снижает цену сессии и никогда её не поднимает.
	// Промокод и групповой тариф не суммируются: с промокодом всегда цена сессии
	q.PerPersonPrice = in.Product.PriceIndividual
	if in.PriceOverride != nil {
		q.PerPersonPrice = *in.PriceOverride
	}
	if in.Voucher == nil && in.Product.HasGroupRate() && in.NumberOfPeople >= in.Product.PriceGroup.Min &&
		in.Product.PriceGroup.Price < q.PerPersonPrice {
		q.PerPersonPrice = in.Product.PriceGroup.Price
		q.GroupRateApplied = true
	}

	total := q.PerPersonPrice * float64(in.NumberOfPeople)
	if in.ShoeRentalCount > 0 && in.Product.ShoeRentalPrice != nil {
		total += *in.Product.ShoeRentalPrice * float64(in.ShoeRentalCount)
	}
	q.TotalPrice = round(total)

	if in.Voucher != nil {
		if in.Voucher.MinOrderAmount != nil && q.TotalPrice < *in.Voucher.MinOrderAmount {
			return nil, domain.NewValidationError("voucherCode", "order amount is below voucher minimum")
		}
		q.DiscountAmount = discount(q.TotalPrice, in.Voucher)
	}

	q.FinalPrice = round(q.TotalPrice - q.DiscountAmount)

	q.DepositRequired = in.Settings.PaymentMode.RequiresDeposit()
	if q.DepositRequired {
		q.DepositAmount = deposit(q.FinalPrice, in.Settings)
	}

	switch {
	case in.Settings.PaymentMode == domain.PaymentOnsiteOnly:
		q.AmountToCollectNow = 0
	case in.PayFullAmount:
		q.AmountToCollectNow = q.FinalPrice
	case q.DepositRequired:
		q.AmountToCollectNow = q.DepositAmount
	default:
		q.AmountToCollectNow = q.FinalPrice
	}

	return q, nil
}

func validateInput(in Input) error {
	if in.Product == nil {
		return domain.NewValidationError("productId", "is required")
	}
	if in.NumberOfPeople < domain.MinNumberOfPeople {
		return domain.NewValidationError("numberOfPeople", "must be at least 1")
	}
	if in.ShoeRentalCount < 0 {
		return domain.NewValidationError("shoeRentalCount", "must not be negative")
	}
	if in.PriceOverride != nil && *in.PriceOverride < 0 {
		return domain.NewValidationError("priceOverride", "must not be negative")
	}
	if in.Voucher != nil && in.Voucher.Amount < 0 {
		return domain.NewValidationError("voucherCode", "voucher amount must not be negative")
	}
	if in.Settings.DepositAmount < 0 {
		return domain.NewValidationError("depositAmount", "must not be negative")
	}
	return nil
}

// discount скидка, ограниченная диапазоном [0, total]
func discount(total float64, v *domain.Voucher) float64 {
	var d float64
	if v.DiscountType == domain.DiscountPercentage {
		d = total * v.Amount / 100
	} else {
		d = v.Amount
	}
	return round(math.Min(math.Max(d, 0), total))
}

func deposit(finalPrice float64, s domain.PaymentSettings) float64 {
	var d float64
	if s.DepositType == domain.DepositFixed {
		d = s.DepositAmount
	} else {
		d = finalPrice * s.DepositAmount / 100
	}
	return round(math.Min(finalPrice, d))
}

// round округляет до центов
func round(v float64) float64 {
	return math.Round(v*100) / 100
}
