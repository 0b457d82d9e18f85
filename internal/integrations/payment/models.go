package payment

// IntentRequest запрос на создание намерения оплаты
type IntentRequest struct {
	Amount         float64           `json:"amount"`
	Currency       string            `json:"currency"`
	Description    string            `json:"description"`
	CustomerEmail  string            `json:"customer_email"`
	IdempotencyKey string            `json:"-"`
	Metadata       map[string]string `json:"metadata,omitempty"`
}

// Статусы намерения оплаты в платёжном сервисе
const (
	StatusRequiresPayment = "requires_payment"
	StatusProcessing      = "processing"
	StatusSucceeded       = "succeeded"
	StatusFailed          = "failed"
	StatusCanceled        = "canceled"
)

// Intent намерение оплаты, созданное платёжным сервисом
type Intent struct {
	Handle      string  `json:"handle"`
	Status      string  `json:"status"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	CheckoutURL string  `json:"checkout_url"`
	Reference   string  `json:"reference,omitempty"` // ID проведённого платежа, есть только у succeeded
}

// IsSucceeded деньги получены
func (i *Intent) IsSucceeded() bool {
	return i.Status == StatusSucceeded
}

// IsFinalFailure оплата уже не пройдёт
func (i *Intent) IsFinalFailure() bool {
	return i.Status == StatusFailed || i.Status == StatusCanceled
}

// ErrorResponse модель ошибки от платёжного сервиса
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
