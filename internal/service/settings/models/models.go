package models

import (
	"github.com/m04kA/guide-sessions/internal/domain"
)

// Request модели

// UpdateSettingsRequest запрос на обновление настроек оплаты
// Все поля опциональны - обновляются только переданные значения
type UpdateSettingsRequest struct {
	GuideID       int64    `json:"-"`
	PaymentMode   *string  `json:"paymentMode,omitempty"`
	DepositType   *string  `json:"depositType,omitempty"`
	DepositAmount *float64 `json:"depositAmount,omitempty"` // процент или сумма, в зависимости от depositType
	Currency      *string  `json:"currency,omitempty"`
}

// Response модели

// SettingsResponse ответ с настройками оплаты гида
type SettingsResponse struct {
	GuideID       int64   `json:"guideId"`
	PaymentMode   string  `json:"paymentMode"`
	DepositType   string  `json:"depositType"`
	DepositAmount float64 `json:"depositAmount"`
	Currency      string  `json:"currency"`
}

// FromDomainGuide конвертирует domain модель в DTO
func FromDomainGuide(g *domain.Guide) *SettingsResponse {
	if g == nil {
		return nil
	}

	return &SettingsResponse{
		GuideID:       g.ID,
		PaymentMode:   string(g.Settings.PaymentMode),
		DepositType:   string(g.Settings.DepositType),
		DepositAmount: g.Settings.DepositAmount,
		Currency:      g.Settings.Currency,
	}
}

// Apply накладывает переданные поля на текущие настройки
func (r *UpdateSettingsRequest) Apply(current domain.PaymentSettings) domain.PaymentSettings {
	updated := current

	if r.PaymentMode != nil {
		updated.PaymentMode = domain.PaymentMode(*r.PaymentMode)
	}
	if r.DepositType != nil {
		updated.DepositType = domain.DepositType(*r.DepositType)
	}
	if r.DepositAmount != nil {
		updated.DepositAmount = *r.DepositAmount
	}
	if r.Currency != nil {
		updated.Currency = *r.Currency
	}

	return updated
}
