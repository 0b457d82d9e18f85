package get_session_availability

import (
	"github.com/m04kA/guide-sessions/internal/domain"
	getAvailability "github.com/m04kA/guide-sessions/internal/usecase/get_session_availability"
)

// ProductAvailabilityResponse доступность продукта в сессии
type ProductAvailabilityResponse struct {
	ProductID       int64   `json:"productId"`
	ProductName     string  `json:"productName"`
	PricePerPerson  float64 `json:"pricePerPerson"`
	Capacity        int     `json:"capacity"`
	Booked          int     `json:"booked"`
	RemainingPlaces int     `json:"remainingPlaces"`
	Available       bool    `json:"available"`
	Reason          string  `json:"reason,omitempty"`
}

// SessionAvailabilityResponse HTTP response model
type SessionAvailabilityResponse struct {
	SessionID       int64                         `json:"sessionId"`
	Date            string                        `json:"date"`
	TimeSlot        string                        `json:"timeSlot"`
	StartTime       string                        `json:"startTime,omitempty"`
	IsMagicRotation bool                          `json:"isMagicRotation"`
	Status          string                        `json:"status"`
	IsPast          bool                          `json:"isPast"`
	Products        []ProductAvailabilityResponse `json:"products"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailability.Response) *SessionAvailabilityResponse {
	result := &SessionAvailabilityResponse{
		SessionID:       resp.SessionID,
		Date:            resp.Date.Format(domain.DateFormat),
		TimeSlot:        string(resp.TimeSlot),
		StartTime:       resp.StartTime.String(),
		IsMagicRotation: resp.IsMagicRotation,
		Status:          string(resp.Status),
		IsPast:          resp.IsPast,
		Products:        make([]ProductAvailabilityResponse, 0, len(resp.Products)),
	}

	for _, p := range resp.Products {
		result.Products = append(result.Products, ProductAvailabilityResponse{
			ProductID:       p.ProductID,
			ProductName:     p.ProductName,
			PricePerPerson:  p.PricePerPerson,
			Capacity:        p.Capacity,
			Booked:          p.Booked,
			RemainingPlaces: p.RemainingPlaces,
			Available:       p.Available,
			Reason:          string(p.Reason),
		})
	}

	return result
}
