package duplicate_session

import (
	"fmt"
	"time"

	"github.com/m04kA/guide-sessions/internal/domain"
	duplicateSession "github.com/m04kA/guide-sessions/internal/usecase/duplicate_session"
)

// DuplicateSessionRequest HTTP request model
type DuplicateSessionRequest struct {
	Mode      string   `json:"mode"`                // daily, weekend, custom
	StartDate *string  `json:"startDate,omitempty"` // "2026-07-01"
	EndDate   *string  `json:"endDate,omitempty"`
	Dates     []string `json:"dates,omitempty"`
}

// SessionResponse созданная сессия
type SessionResponse struct {
	ID              int64   `json:"id"`
	Date            string  `json:"date"`
	TimeSlot        string  `json:"timeSlot"`
	StartTime       string  `json:"startTime,omitempty"`
	IsMagicRotation bool    `json:"isMagicRotation"`
	Status          string  `json:"status"`
	ProductIDs      []int64 `json:"productIds"`
}

// DuplicateSessionResponse HTTP response model
type DuplicateSessionResponse struct {
	Created []SessionResponse `json:"created"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case (с парсингом дат)
func (r *DuplicateSessionRequest) ToUseCaseRequest(guideID, sessionID int64) (*duplicateSession.Request, error) {
	req := &duplicateSession.Request{
		GuideID:   guideID,
		SessionID: sessionID,
		Mode:      duplicateSession.Mode(r.Mode),
	}

	var err error
	if req.StartDate, err = parseOptionalDate(r.StartDate); err != nil {
		return nil, err
	}
	if req.EndDate, err = parseOptionalDate(r.EndDate); err != nil {
		return nil, err
	}

	for _, s := range r.Dates {
		d, err := time.Parse(domain.DateFormat, s)
		if err != nil {
			return nil, fmt.Errorf("invalid date %q: %w", s, err)
		}
		req.Dates = append(req.Dates, d)
	}

	return req, nil
}

func parseOptionalDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	d, err := time.Parse(domain.DateFormat, *s)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", *s, err)
	}
	return &d, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *duplicateSession.Response) *DuplicateSessionResponse {
	result := &DuplicateSessionResponse{Created: make([]SessionResponse, 0, len(resp.Created))}
	for _, s := range resp.Created {
		result.Created = append(result.Created, SessionResponse{
			ID:              s.ID,
			Date:            s.Date.Format(domain.DateFormat),
			TimeSlot:        string(s.TimeSlot),
			StartTime:       s.StartTime.String(),
			IsMagicRotation: s.IsMagicRotation,
			Status:          string(s.Status),
			ProductIDs:      s.ProductIDs(),
		})
	}
	return result
}
