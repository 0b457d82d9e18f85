package domain

// PaymentMode политика оплаты гида
type PaymentMode string

const (
	PaymentOnsiteOnly     PaymentMode = "onsite_only"
	PaymentFullOnly       PaymentMode = "full_only"
	PaymentDepositOnly    PaymentMode = "deposit_only"
	PaymentDepositAndFull PaymentMode = "deposit_and_full"
	PaymentFullOrLater    PaymentMode = "full_or_later"
)

// IsValid проверяет, что режим оплаты известен
func (m PaymentMode) IsValid() bool {
	switch m {
	case PaymentOnsiteOnly, PaymentFullOnly, PaymentDepositOnly, PaymentDepositAndFull, PaymentFullOrLater:
		return true
	}
	return false
}

// RequiresDeposit возвращает true, если режим предполагает предоплату
func (m PaymentMode) RequiresDeposit() bool {
	return m == PaymentDepositOnly || m == PaymentDepositAndFull
}

// DepositType способ расчёта предоплаты
type DepositType string

const (
	DepositPercentage DepositType = "percentage"
	DepositFixed      DepositType = "fixed"
)

// IsValid проверяет, что тип предоплаты известен
func (t DepositType) IsValid() bool {
	return t == DepositPercentage || t == DepositFixed
}

// PaymentSettings настройки оплаты гида. Движок только читает их
type PaymentSettings struct {
	PaymentMode   PaymentMode
	DepositType   DepositType
	DepositAmount float64
	Currency      string
}

// Guide гид - владелец продуктов и сессий
type Guide struct {
	ID       int64
	Name     string
	Settings PaymentSettings
}
