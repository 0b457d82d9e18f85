package get_session_availability

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/guide-sessions/internal/domain"
	sessionRepo "github.com/m04kA/guide-sessions/internal/infra/storage/session"
	"github.com/m04kA/guide-sessions/internal/service/capacity"
)

// UseCase use case доступности продуктов одной сессии
type UseCase struct {
	sessionRepo  SessionRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(sessionRepo SessionRepository, logger Logger) *UseCase {
	return &UseCase{
		sessionRepo:  sessionRepo,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute возвращает результат резолвера для каждого прикреплённого продукта.
// Для уже начавшейся сессии все продукты недоступны с причиной closed
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetSessionAvailability: session=%d", req.SessionID)

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetSessionAvailability: validation failed: %v", err)
		return nil, err
	}

	session, err := uc.sessionRepo.GetByID(ctx, req.SessionID)
	if err != nil {
		if errors.Is(err, sessionRepo.ErrSessionNotFound) {
			uc.logger.Warn("GetSessionAvailability: session id=%d not found", req.SessionID)
			return nil, ErrSessionNotFound
		}
		uc.logger.Error("GetSessionAvailability: failed to get session id=%d: %v", req.SessionID, err)
		return nil, fmt.Errorf("%w: failed to get session: %v", ErrInternal, err)
	}

	isPast := session.IsPast(uc.timeProvider.Now())

	resp := &Response{
		SessionID:       session.ID,
		Date:            session.Date,
		TimeSlot:        session.TimeSlot,
		StartTime:       session.StartTime,
		IsMagicRotation: session.IsMagicRotation,
		Status:          session.Status,
		IsPast:          isPast,
		Products:        make([]ProductAvailability, 0, len(session.Products)),
	}

	for _, sp := range session.Products {
		a := capacity.Resolve(session, sp.ProductID)
		item := ProductAvailability{
			ProductID:       sp.ProductID,
			Capacity:        a.Capacity,
			Booked:          a.Booked,
			RemainingPlaces: a.RemainingPlaces,
			Available:       a.Available,
			Reason:          a.Reason,
		}
		if sp.Product != nil {
			item.ProductName = sp.Product.Name
			item.PricePerPerson = sp.Product.PriceIndividual
		}
		if sp.PriceOverride != nil {
			item.PricePerPerson = *sp.PriceOverride
		}
		if isPast {
			item.Available = false
			item.RemainingPlaces = 0
			item.Reason = domain.ReasonClosed
		}
		resp.Products = append(resp.Products, item)
	}

	return resp, nil
}
