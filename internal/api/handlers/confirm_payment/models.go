package confirm_payment

import (
	"github.com/m04kA/guide-sessions/internal/service/bookings/models"
	confirmPayment "github.com/m04kA/guide-sessions/internal/usecase/confirm_payment"
)

// CallbackRequest уведомление платёжного сервиса
type CallbackRequest struct {
	Handle           string `json:"handle"`
	Succeeded        bool   `json:"succeeded"`
	PaymentReference string `json:"paymentReference"`
}

// CallbackResponse HTTP response model
type CallbackResponse struct {
	Outcome string                  `json:"outcome"`
	Booking *models.BookingResponse `json:"booking,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CallbackRequest) ToUseCaseRequest() *confirmPayment.Request {
	return &confirmPayment.Request{
		Handle:           r.Handle,
		Succeeded:        r.Succeeded,
		PaymentReference: r.PaymentReference,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *confirmPayment.Response) *CallbackResponse {
	return &CallbackResponse{
		Outcome: string(resp.Outcome),
		Booking: models.FromDomainBooking(resp.Booking),
	}
}
