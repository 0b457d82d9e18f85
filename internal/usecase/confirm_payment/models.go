package confirm_payment

import "github.com/m04kA/guide-sessions/internal/domain"

// Outcome результат обработки callback
type Outcome string

const (
	OutcomeConfirmed Outcome = "confirmed"
	OutcomeDiscarded Outcome = "discarded"
)

// Request модель callback платёжного сервиса.
// Succeeded и PaymentReference только сообщают о событии, решение принимается по GetIntent
type Request struct {
	Handle           string
	Succeeded        bool
	PaymentReference string
}

// Response модель ответа
type Response struct {
	Outcome Outcome
	Booking *domain.Booking // только для OutcomeConfirmed
}
