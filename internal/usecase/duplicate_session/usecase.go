package duplicate_session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/guide-sessions/internal/domain"
	sessionRepo "github.com/m04kA/guide-sessions/internal/infra/storage/session"
)

// UseCase use case дублирования сессии по набору дат
type UseCase struct {
	sessionRepo SessionRepository
	txManager   TransactionManager
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(sessionRepo SessionRepository, txManager TransactionManager, logger Logger) *UseCase {
	return &UseCase{
		sessionRepo: sessionRepo,
		txManager:   txManager,
		logger:      logger,
	}
}

// Execute создает копии сессии-шаблона на каждую дату набора.
// Копируются слот, время начала, режим ротации и продукты без переопределений.
// Бронирования не копируются. Все сессии создаются в одной транзакции
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("DuplicateSession: guide=%d, session=%d, mode=%s", req.GuideID, req.SessionID, req.Mode)

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("DuplicateSession: validation failed: %v", err)
		return nil, err
	}

	template, err := uc.sessionRepo.GetByID(ctx, req.SessionID)
	if err != nil {
		if errors.Is(err, sessionRepo.ErrSessionNotFound) {
			uc.logger.Warn("DuplicateSession: session id=%d not found", req.SessionID)
			return nil, ErrSessionNotFound
		}
		uc.logger.Error("DuplicateSession: failed to get session id=%d: %v", req.SessionID, err)
		return nil, fmt.Errorf("%w: failed to get session: %v", ErrInternal, err)
	}
	if template.GuideID != req.GuideID {
		uc.logger.Warn("DuplicateSession: session id=%d belongs to guide=%d", template.ID, template.GuideID)
		return nil, ErrAccessDenied
	}

	dates, err := GenerateDates(req.Mode, req.StartDate, req.EndDate, req.Dates, template.Date)
	if err != nil {
		uc.logger.Warn("DuplicateSession: no dates generated: %v", err)
		if errors.Is(err, domain.ErrValidation) {
			return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		return nil, err
	}

	created := make([]*domain.Session, 0, len(dates))
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		for _, date := range dates {
			s, err := uc.sessionRepo.Create(txCtx, clone(template, date))
			if err != nil {
				return fmt.Errorf("create session on %s: %w", date.Format(domain.DateFormat), err)
			}
			created = append(created, s)
		}
		return nil
	})
	if err != nil {
		uc.logger.Error("DuplicateSession: failed to create sessions: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	uc.logger.Info("DuplicateSession: %d sessions created from session=%d", len(created), template.ID)
	return &Response{Created: created}, nil
}

// clone копирует шаблон на дату без бронирований и переопределений
func clone(template *domain.Session, date time.Time) *domain.Session {
	s := &domain.Session{
		GuideID:         template.GuideID,
		Date:            date,
		TimeSlot:        template.TimeSlot,
		StartTime:       template.StartTime,
		IsMagicRotation: template.IsMagicRotation,
		Status:          domain.SessionOpen,
		Products:        make([]domain.SessionProduct, 0, len(template.Products)),
	}
	for i, sp := range template.Products {
		s.Products = append(s.Products, domain.SessionProduct{
			ProductID: sp.ProductID,
			Position:  i,
			Product:   sp.Product,
		})
	}
	return s
}
