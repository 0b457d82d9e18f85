package models

import (
	"errors"
	"time"

	"github.com/m04kA/guide-sessions/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// UpdateStatusRequest запрос на обновление статуса бронирования
type UpdateStatusRequest struct {
	GuideID int64  `json:"-"`
	Status  string `json:"status"`
}

// ListBySessionRequest запрос на получение бронирований сессии
type ListBySessionRequest struct {
	GuideID          int64 `json:"-"`
	SessionID        int64 `json:"sessionId"`
	IncludeCancelled bool  `json:"includeCancelled,omitempty"`
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID              int64   `json:"id"`
	SessionID       int64   `json:"sessionId"`
	ProductID       int64   `json:"productId"`
	NumberOfPeople  int     `json:"numberOfPeople"`
	Status          string  `json:"status"`
	TotalPrice      float64 `json:"totalPrice"`
	DiscountAmount  float64 `json:"discountAmount"`
	FinalPrice      float64 `json:"finalPrice"`
	AmountPaid      float64 `json:"amountPaid"`
	RemainingAmount float64 `json:"remainingAmount"`
	VoucherID       *int64  `json:"voucherId,omitempty"`
	ShoeRentalCount int     `json:"shoeRentalCount"`

	ClientName  string  `json:"clientName"`
	ClientEmail string  `json:"clientEmail"`
	ClientPhone *string `json:"clientPhone,omitempty"`
	Notes       *string `json:"notes,omitempty"`

	PaymentReference *string `json:"paymentReference,omitempty"`
	ReminderSentAt   *string `json:"reminderSentAt,omitempty"` // ISO 8601

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:               b.ID,
		SessionID:        b.SessionID,
		ProductID:        b.ProductID,
		NumberOfPeople:   b.NumberOfPeople,
		Status:           string(b.Status),
		TotalPrice:       b.TotalPrice,
		DiscountAmount:   b.DiscountAmount,
		FinalPrice:       b.FinalPrice(),
		AmountPaid:       b.AmountPaid,
		RemainingAmount:  b.RemainingBalance(),
		VoucherID:        b.VoucherID,
		ShoeRentalCount:  b.ShoeRentalCount,
		ClientName:       b.Client.Name,
		ClientEmail:      b.Client.Email,
		ClientPhone:      b.Client.Phone,
		Notes:            b.Notes,
		PaymentReference: b.PaymentReference,
		CreatedAt:        b.CreatedAt,
		UpdatedAt:        b.UpdatedAt,
	}

	if b.ReminderSentAt != nil {
		sent := b.ReminderSentAt.Format(time.RFC3339)
		resp.ReminderSentAt = &sent
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}

	return resp
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus с валидацией
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s := domain.BookingStatus(status)
	if !s.IsValid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}
