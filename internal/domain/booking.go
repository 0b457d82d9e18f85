package domain

import "time"

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
)

// IsValid проверяет, что статус известен
func (s BookingStatus) IsValid() bool {
	return s == StatusPending || s == StatusConfirmed || s == StatusCancelled
}

// Client контактные данные клиента
type Client struct {
	Name  string
	Email string
	Phone *string
}

// Booking represents places reserved by a client in a session for one product
type Booking struct {
	ID             int64
	SessionID      int64
	ProductID      int64
	NumberOfPeople int
	Status         BookingStatus

	TotalPrice     float64 // до скидки
	DiscountAmount float64
	AmountPaid     float64
	VoucherID      *int64

	ShoeRentalCount  int
	Client           Client
	Notes            *string
	PaymentReference *string
	ReminderSentAt   *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking counts towards capacity
func (b *Booking) IsActive() bool {
	return b.Status != StatusCancelled
}

// IsCancelled returns true if the booking has been cancelled
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

// CanBeCancelled returns true if the booking can be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// FinalPrice цена после скидки
func (b *Booking) FinalPrice() float64 {
	return b.TotalPrice - b.DiscountAmount
}

// RemainingBalance остаток к оплате на месте
func (b *Booking) RemainingBalance() float64 {
	rest := b.FinalPrice() - b.AmountPaid
	if rest < 0 {
		return 0
	}
	return rest
}

// BookingDraft черновик бронирования, ожидающий подтверждения оплаты
type BookingDraft struct {
	IntentHandle       string    `json:"intentHandle"`
	IdempotencyKey     string    `json:"idempotencyKey"`
	GuideID            int64     `json:"guideId"`
	SessionID          int64     `json:"sessionId"`
	ProductID          int64     `json:"productId"`
	NumberOfPeople     int       `json:"numberOfPeople"`
	TotalPrice         float64   `json:"totalPrice"`
	DiscountAmount     float64   `json:"discountAmount"`
	AmountToCollectNow float64   `json:"amountToCollectNow"`
	Currency           string    `json:"currency"`
	VoucherID          *int64    `json:"voucherId,omitempty"`
	VoucherCode        string    `json:"voucherCode,omitempty"`
	ShoeRentalCount    int       `json:"shoeRentalCount"`
	ClientName         string    `json:"clientName"`
	ClientEmail        string    `json:"clientEmail"`
	ClientPhone        *string   `json:"clientPhone,omitempty"`
	Notes              *string   `json:"notes,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
}

// ToBooking собирает бронирование из черновика
func (d *BookingDraft) ToBooking(status BookingStatus, amountPaid float64, paymentReference *string) *Booking {
	return &Booking{
		SessionID:        d.SessionID,
		ProductID:        d.ProductID,
		NumberOfPeople:   d.NumberOfPeople,
		Status:           status,
		TotalPrice:       d.TotalPrice,
		DiscountAmount:   d.DiscountAmount,
		AmountPaid:       amountPaid,
		VoucherID:        d.VoucherID,
		ShoeRentalCount:  d.ShoeRentalCount,
		Client:           Client{Name: d.ClientName, Email: d.ClientEmail, Phone: d.ClientPhone},
		Notes:            d.Notes,
		PaymentReference: paymentReference,
	}
}
