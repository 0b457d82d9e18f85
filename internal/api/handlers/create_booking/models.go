package create_booking

import (
	"github.com/m04kA/guide-sessions/internal/service/bookings/models"
	createBooking "github.com/m04kA/guide-sessions/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	SessionID       int64   `json:"sessionId"`
	ProductID       int64   `json:"productId"`
	NumberOfPeople  int     `json:"numberOfPeople"`
	VoucherCode     *string `json:"voucherCode,omitempty"`
	PayFullAmount   bool    `json:"payFullAmount"`
	ShoeRentalCount int     `json:"shoeRentalCount"`
	ClientName      string  `json:"clientName"`
	ClientEmail     string  `json:"clientEmail"`
	ClientPhone     *string `json:"clientPhone,omitempty"`
	Notes           *string `json:"notes,omitempty"`
}

// QuoteResponse расчёт стоимости
type QuoteResponse struct {
	PerPersonPrice     float64 `json:"perPersonPrice"`
	GroupRateApplied   bool    `json:"groupRateApplied"`
	TotalPrice         float64 `json:"totalPrice"`
	DiscountAmount     float64 `json:"discountAmount"`
	FinalPrice         float64 `json:"finalPrice"`
	DepositRequired    bool    `json:"depositRequired"`
	DepositAmount      float64 `json:"depositAmount"`
	AmountToCollectNow float64 `json:"amountToCollectNow"`
}

// PaymentResponse данные для перехода к оплате
type PaymentResponse struct {
	Handle      string  `json:"handle"`
	CheckoutURL string  `json:"checkoutUrl"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
}

// CreateBookingResponse HTTP response model
type CreateBookingResponse struct {
	Outcome string                  `json:"outcome"`
	Quote   QuoteResponse           `json:"quote"`
	Booking *models.BookingResponse `json:"booking,omitempty"`
	Payment *PaymentResponse        `json:"payment,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest() *createBooking.Request {
	return &createBooking.Request{
		SessionID:       r.SessionID,
		ProductID:       r.ProductID,
		NumberOfPeople:  r.NumberOfPeople,
		VoucherCode:     r.VoucherCode,
		PayFullAmount:   r.PayFullAmount,
		ShoeRentalCount: r.ShoeRentalCount,
		ClientName:      r.ClientName,
		ClientEmail:     r.ClientEmail,
		ClientPhone:     r.ClientPhone,
		Notes:           r.Notes,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *CreateBookingResponse {
	q := resp.Quote
	result := &CreateBookingResponse{
		Outcome: string(resp.Outcome),
		Quote: QuoteResponse{
			PerPersonPrice:     q.PerPersonPrice,
			GroupRateApplied:   q.GroupRateApplied,
			TotalPrice:         q.TotalPrice,
			DiscountAmount:     q.DiscountAmount,
			FinalPrice:         q.FinalPrice,
			DepositRequired:    q.DepositRequired,
			DepositAmount:      q.DepositAmount,
			AmountToCollectNow: q.AmountToCollectNow,
		},
		Booking: models.FromDomainBooking(resp.Booking),
	}

	if resp.Payment != nil {
		result.Payment = &PaymentResponse{
			Handle:      resp.Payment.Handle,
			CheckoutURL: resp.Payment.CheckoutURL,
			Amount:      resp.Payment.Amount,
			Currency:    resp.Payment.Currency,
		}
	}

	return result
}
