package get_calendar

import (
	"github.com/m04kA/guide-sessions/internal/domain"
	getCalendar "github.com/m04kA/guide-sessions/internal/usecase/get_calendar"
)

// CompetingProductResponse продукт, занявший сессию
type CompetingProductResponse struct {
	ProductID   int64  `json:"productId"`
	ProductName string `json:"productName"`
	SessionID   int64  `json:"sessionId"`
	TimeSlot    string `json:"timeSlot"`
	StartTime   string `json:"startTime,omitempty"`
}

// DayResponse статус одной даты
type DayResponse struct {
	Date              string                     `json:"date"` // "2026-07-04"
	Status            string                     `json:"status"`
	CompetingProducts []CompetingProductResponse `json:"competingProducts,omitempty"`
}

// CalendarResponse HTTP response model
type CalendarResponse struct {
	ProductID int64         `json:"productId"`
	From      string        `json:"from"`
	Days      []DayResponse `json:"days"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getCalendar.Response) *CalendarResponse {
	result := &CalendarResponse{
		ProductID: resp.ProductID,
		From:      resp.From.Format(domain.DateFormat),
		Days:      make([]DayResponse, 0, len(resp.Days)),
	}

	for _, d := range resp.Days {
		day := DayResponse{
			Date:   d.Date.Format(domain.DateFormat),
			Status: string(d.Status),
		}
		for _, c := range d.Competing {
			day.CompetingProducts = append(day.CompetingProducts, CompetingProductResponse{
				ProductID:   c.ProductID,
				ProductName: c.ProductName,
				SessionID:   c.SessionID,
				TimeSlot:    string(c.TimeSlot),
				StartTime:   c.StartTime.String(),
			})
		}
		result.Days = append(result.Days, day)
	}

	return result
}
