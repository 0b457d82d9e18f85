package create_booking

import (
	"github.com/m04kA/guide-sessions/internal/domain"
	"github.com/m04kA/guide-sessions/internal/service/pricing"
)

// Outcome результат создания бронирования
type Outcome string

const (
	// OutcomeBooked бронирование создано сразу, оплата не требуется
	OutcomeBooked Outcome = "booked"
	// OutcomePaymentRequired создано намерение оплаты, бронирование появится после подтверждения
	OutcomePaymentRequired Outcome = "payment_required"
)

// Request модель запроса на создание бронирования
type Request struct {
	SessionID       int64
	ProductID       int64
	NumberOfPeople  int
	VoucherCode     *string
	PayFullAmount   bool
	ShoeRentalCount int
	ClientName      string
	ClientEmail     string
	ClientPhone     *string
	Notes           *string
}

// PaymentIntent данные для перехода клиента к оплате
type PaymentIntent struct {
	Handle      string
	CheckoutURL string
	Amount      float64
	Currency    string
}

// Response модель ответа
type Response struct {
	Outcome Outcome
	Quote   pricing.Quote
	Booking *domain.Booking // только для OutcomeBooked
	Payment *PaymentIntent  // только для OutcomePaymentRequired
}
