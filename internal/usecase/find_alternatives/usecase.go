package find_alternatives

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/guide-sessions/internal/domain"
	sessionRepo "github.com/m04kA/guide-sessions/internal/infra/storage/session"
)

// UseCase use case поиска сессий для переноса бронирований
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

// Execute возвращает сессии того же гида с общими продуктами,
// где хотя бы один общий продукт доступен. Порядок: дата, время начала, ID
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("FindAlternatives: guide=%d, session=%d", req.GuideID, req.SessionID)

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("FindAlternatives: validation failed: %v", err)
		return nil, err
	}

	source, err := uc.sessionRepo.GetByID(ctx, req.SessionID)
	if err != nil {
		if errors.Is(err, sessionRepo.ErrSessionNotFound) {
			uc.logger.Warn("FindAlternatives: session id=%d not found", req.SessionID)
			return nil, ErrSessionNotFound
		}
		uc.logger.Error("FindAlternatives: failed to get session id=%d: %v", req.SessionID, err)
		return nil, fmt.Errorf("%w: failed to get session: %v", ErrInternal, err)
	}
	if source.GuideID != req.GuideID {
		uc.logger.Warn("FindAlternatives: session id=%d belongs to guide=%d", source.ID, source.GuideID)
		return nil, ErrAccessDenied
	}

	candidates, err := uc.sessionRepo.List(ctx, domain.SessionFilter{
		GuideID:   source.GuideID,
		ExcludeID: &source.ID,
	})
	if err != nil {
		uc.logger.Error("FindAlternatives: failed to list sessions of guide=%d: %v", source.GuideID, err)
		return nil, fmt.Errorf("%w: failed to list sessions: %v", ErrInternal, err)
	}
	domain.SortSessions(candidates)

	now := uc.timeProvider.Now()
	resp := &Response{SessionID: source.ID, Alternatives: make([]Alternative, 0)}
	for _, c := range candidates {
		if alt, ok := evaluate(source, c, now); ok {
			resp.Alternatives = append(resp.Alternatives, alt)
		}
	}

	uc.logger.Info("FindAlternatives: %d of %d sessions are alternatives for session=%d",
		len(resp.Alternatives), len(candidates), source.ID)
	return resp, nil
}
