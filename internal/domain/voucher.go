package domain

import "time"

// DiscountType тип скидки промокода
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// IsValid проверяет, что тип скидки известен
func (t DiscountType) IsValid() bool {
	return t == DiscountPercentage || t == DiscountFixed
}

// Voucher промокод или подарочный сертификат гида
type Voucher struct {
	ID             int64
	GuideID        int64
	Code           string
	Amount         float64
	DiscountType   DiscountType
	MinOrderAmount *float64 // минимальная сумма заказа до скидки
	MaxUsages      *int     // nil - без ограничений
	UsageCount     int
	ExpiresAt      *time.Time
}

// IsExpired возвращает true, если срок действия истёк к моменту now
func (v *Voucher) IsExpired(now time.Time) bool {
	return v.ExpiresAt != nil && !now.Before(*v.ExpiresAt)
}

// CanBeUsedOnceMore возвращает true, если ещё одно применение не превысит MaxUsages
func (v *Voucher) CanBeUsedOnceMore() bool {
	return v.MaxUsages == nil || v.UsageCount+1 <= *v.MaxUsages
}
