package notification

import (
	"fmt"
	"time"

	"github.com/m04kA/guide-sessions/internal/domain"
)

// Template тип уведомления
type Template string

const (
	TemplateBookingConfirmation Template = "booking_confirmation"
	TemplateBookingReminder     Template = "booking_reminder"
	TemplatePaymentConfirmation Template = "payment_confirmation"
	TemplateBookingCancelled    Template = "booking_cancelled"
)

// Message сообщение для сервиса уведомлений. Форматирование и доставка на его стороне
type Message struct {
	Template    Template          `json:"template"`
	BookingID   int64             `json:"booking_id"`
	SessionID   int64             `json:"session_id"`
	ProductID   int64             `json:"product_id"`
	GuideID     int64             `json:"guide_id"`
	ClientEmail string            `json:"client_email"`
	ClientName  string            `json:"client_name"`
	Variables   map[string]string `json:"variables"`
	OccurredAt  time.Time         `json:"occurred_at"`
}

// NewMessage собирает сообщение по завершённому бронированию
func NewMessage(template Template, b *domain.Booking, s *domain.Session, p *domain.Product, currency string, now time.Time) Message {
	vars := map[string]string{
		"client_name":       b.Client.Name,
		"number_of_people":  fmt.Sprintf("%d", b.NumberOfPeople),
		"total_price":       money(b.TotalPrice),
		"discount_amount":   money(b.DiscountAmount),
		"final_price":       money(b.FinalPrice()),
		"amount_paid":       money(b.AmountPaid),
		"remaining_balance": money(b.RemainingBalance()),
		"currency":          currency,
		"status":            string(b.Status),
	}
	if s != nil {
		vars["session_date"] = s.Date.Format(domain.DateFormat)
		vars["start_time"] = s.StartTime.String()
		vars["time_slot"] = string(s.TimeSlot)
	}
	if p != nil {
		vars["product_name"] = p.Name
		vars["duration_minutes"] = fmt.Sprintf("%d", p.DurationMinutes)
	}

	msg := Message{
		Template:    template,
		BookingID:   b.ID,
		SessionID:   b.SessionID,
		ProductID:   b.ProductID,
		ClientEmail: b.Client.Email,
		ClientName:  b.Client.Name,
		Variables:   vars,
		OccurredAt:  now.UTC(),
	}
	if s != nil {
		msg.GuideID = s.GuideID
	}
	return msg
}

func money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
