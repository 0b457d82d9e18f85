package find_alternatives

import (
	"github.com/m04kA/guide-sessions/internal/domain"
	findAlternatives "github.com/m04kA/guide-sessions/internal/usecase/find_alternatives"
)

// ProductCompatibilityResponse совместимость общего продукта
type ProductCompatibilityResponse struct {
	ProductID   int64  `json:"productId"`
	ProductName string `json:"productName"`
	Required    int    `json:"required"`
	Remaining   int    `json:"remaining"`
	Available   bool   `json:"available"`
	Compatible  bool   `json:"compatible"`
}

// AlternativeResponse альтернативная сессия
type AlternativeResponse struct {
	SessionID             int64                          `json:"sessionId"`
	Date                  string                         `json:"date"`
	TimeSlot              string                         `json:"timeSlot"`
	StartTime             string                         `json:"startTime,omitempty"`
	IsMagicRotation       bool                           `json:"isMagicRotation"`
	Status                string                         `json:"status"`
	IsPast                bool                           `json:"isPast"`
	AllProductsCompatible bool                           `json:"allProductsCompatible"`
	SharedProducts        []ProductCompatibilityResponse `json:"sharedProducts"`
}

// FindAlternativesResponse HTTP response model
type FindAlternativesResponse struct {
	SessionID    int64                 `json:"sessionId"`
	Alternatives []AlternativeResponse `json:"alternatives"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *findAlternatives.Response) *FindAlternativesResponse {
	result := &FindAlternativesResponse{
		SessionID:    resp.SessionID,
		Alternatives: make([]AlternativeResponse, 0, len(resp.Alternatives)),
	}

	for _, alt := range resp.Alternatives {
		item := AlternativeResponse{
			SessionID:             alt.SessionID,
			Date:                  alt.Date.Format(domain.DateFormat),
			TimeSlot:              string(alt.TimeSlot),
			StartTime:             alt.StartTime.String(),
			IsMagicRotation:       alt.IsMagicRotation,
			Status:                string(alt.Status),
			IsPast:                alt.IsPast,
			AllProductsCompatible: alt.AllProductsCompatible,
			SharedProducts:        make([]ProductCompatibilityResponse, 0, len(alt.SharedProducts)),
		}
		for _, p := range alt.SharedProducts {
			item.SharedProducts = append(item.SharedProducts, ProductCompatibilityResponse(p))
		}
		result.Alternatives = append(result.Alternatives, item)
	}

	return result
}
