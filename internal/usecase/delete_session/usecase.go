package delete_session

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/m04kA/guide-sessions/internal/domain"
	sessionRepo "github.com/m04kA/guide-sessions/internal/infra/storage/session"
	"github.com/m04kA/guide-sessions/internal/integrations/notification"
	"github.com/m04kA/guide-sessions/internal/service/capacity"
)

// UseCase use case удаления сессии с обработкой бронирований
type UseCase struct {
	sessionRepo  SessionRepository
	bookingRepo  BookingRepository
	notifier     Notifier
	metrics      Metrics
	txManager    TransactionManager
	currency     string
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	sessionRepo SessionRepository,
	bookingRepo BookingRepository,
	notifier Notifier,
	metrics Metrics,
	txManager TransactionManager,
	currency string,
	logger Logger,
) *UseCase {
	if currency == "" {
		currency = domain.DefaultCurrency
	}
	return &UseCase{
		sessionRepo:  sessionRepo,
		bookingRepo:  bookingRepo,
		notifier:     notifier,
		metrics:      metrics,
		txManager:    txManager,
		currency:     currency,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute удаляет сессию.
// Без активных бронирований сессия удаляется сразу. Иначе нужен способ обработки:
// отмена всех бронирований или перенос всех в другую сессию. Перенос выполняется
// целиком или не выполняется вовсе
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("DeleteSession: guide=%d, session=%d, disposition=%q", req.GuideID, req.SessionID, req.Disposition)

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("DeleteSession: validation failed: %v", err)
		return nil, err
	}

	var (
		resp      *Response
		source    *domain.Session
		cancelled []*domain.Booking
		failures  []MoveFailure
	)

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		resp, source, cancelled, failures = nil, nil, nil, nil

		ids := []int64{req.SessionID}
		if req.Disposition == DispositionMoveTo {
			ids = append(ids, *req.TargetSessionID)
			sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		}

		// 1. Блокируем сессии в порядке возрастания ID
		if err := uc.sessionRepo.LockForUpdate(txCtx, ids); err != nil {
			if errors.Is(err, sessionRepo.ErrSessionNotFound) {
				return uc.whichMissing(txCtx, req.SessionID)
			}
			return fmt.Errorf("%w: failed to lock sessions: %w", ErrInternal, err)
		}

		var err error
		source, err = uc.sessionRepo.GetByID(txCtx, req.SessionID)
		if err != nil {
			if errors.Is(err, sessionRepo.ErrSessionNotFound) {
				return ErrSessionNotFound
			}
			return fmt.Errorf("%w: failed to get session: %w", ErrInternal, err)
		}
		if source.GuideID != req.GuideID {
			return ErrAccessDenied
		}

		active := source.ActiveBookings()
		resp = &Response{SessionID: source.ID, Disposition: req.Disposition}

		// 2. Бронирований нет - удаляем без условий
		if len(active) == 0 {
			resp.Disposition = DispositionNone
			return uc.delete(txCtx, source.ID)
		}

		switch req.Disposition {
		case DispositionDeleteWithBookings:
			n, err := uc.bookingRepo.CancelBySession(txCtx, source.ID)
			if err != nil {
				return fmt.Errorf("%w: failed to cancel bookings: %w", ErrInternal, err)
			}
			resp.CancelledBookings = int(n)
			cancelled = active
			return uc.delete(txCtx, source.ID)

		case DispositionMoveTo:
			moved, moveFailures, err := uc.moveAll(txCtx, source, active, *req.TargetSessionID)
			if err != nil {
				failures = moveFailures
				return err
			}
			resp.MovedBookingIDs = moved
			resp.TargetSessionID = req.TargetSessionID
			return uc.delete(txCtx, source.ID)
		}

		return ErrDispositionRequired
	})
	if err != nil {
		return nil, uc.translate(req, err, failures)
	}

	outcome := "deleted"
	if resp.Disposition == DispositionNone {
		outcome = "empty"
	}
	uc.metrics.SessionDeletion(string(req.Disposition), outcome)

	uc.notifyCancelled(ctx, source, cancelled)

	uc.logger.Info("DeleteSession: session id=%d deleted, cancelled=%d, moved=%d",
		resp.SessionID, resp.CancelledBookings, len(resp.MovedBookingIDs))
	return resp, nil
}

// moveAll проверяет размещение всех бронирований в целевой сессии до первого изменения.
// Любой отказ откатывает удаление целиком
func (uc *UseCase) moveAll(ctx context.Context, source *domain.Session, active []*domain.Booking, targetID int64) ([]int64, []MoveFailure, error) {
	target, err := uc.sessionRepo.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, sessionRepo.ErrSessionNotFound) {
			return nil, nil, ErrTargetNotFound
		}
		return nil, nil, fmt.Errorf("%w: failed to get target session: %w", ErrInternal, err)
	}
	if target.GuideID != source.GuideID {
		return nil, nil, ErrDifferentGuide
	}

	ordered := make([]*domain.Booking, len(active))
	copy(ordered, active)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })

	var failures []MoveFailure
	for _, p := range capacity.Simulate(target, ordered) {
		if p.Err != nil {
			failures = append(failures, MoveFailure{
				BookingID:      p.Booking.ID,
				ProductID:      p.Booking.ProductID,
				NumberOfPeople: p.Booking.NumberOfPeople,
				Err:            p.Err,
			})
		}
	}
	if len(failures) > 0 {
		return nil, failures, fmt.Errorf("%w: %d of %d bookings do not fit session=%d",
			domain.ErrPartialMoveFailure, len(failures), len(ordered), target.ID)
	}

	moved := make([]int64, 0, len(ordered))
	for _, b := range ordered {
		if err := uc.bookingRepo.MoveToSession(ctx, b.ID, target.ID); err != nil {
			return nil, nil, fmt.Errorf("%w: failed to move booking id=%d: %w", ErrInternal, b.ID, err)
		}
		moved = append(moved, b.ID)
	}
	return moved, nil, nil
}

func (uc *UseCase) delete(ctx context.Context, id int64) error {
	if err := uc.sessionRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, sessionRepo.ErrSessionNotFound) {
			return ErrSessionNotFound
		}
		return fmt.Errorf("%w: failed to delete session: %w", ErrInternal, err)
	}
	return nil
}

// whichMissing уточняет, какая из сессий не найдена
func (uc *UseCase) whichMissing(ctx context.Context, sessionID int64) error {
	if _, err := uc.sessionRepo.GetByID(ctx, sessionID); err != nil {
		if errors.Is(err, sessionRepo.ErrSessionNotFound) {
			return ErrSessionNotFound
		}
		return fmt.Errorf("%w: failed to get session: %w", ErrInternal, err)
	}
	return ErrTargetNotFound
}

func (uc *UseCase) translate(req *Request, err error, failures []MoveFailure) error {
	if errors.Is(err, domain.ErrPartialMoveFailure) {
		uc.metrics.SessionDeletion(string(req.Disposition), "aborted")
		uc.logger.Warn("DeleteSession: session id=%d kept: %v", req.SessionID, err)
		target := int64(0)
		if req.TargetSessionID != nil {
			target = *req.TargetSessionID
		}
		return &AbortedError{SessionID: req.SessionID, TargetSessionID: target, Failures: failures}
	}

	switch {
	case errors.Is(err, ErrInternal):
		uc.metrics.SessionDeletion(string(req.Disposition), "failed")
		uc.logger.Error("DeleteSession: session id=%d: %v", req.SessionID, err)
		return err
	case errors.Is(err, ErrSessionNotFound), errors.Is(err, ErrTargetNotFound),
		errors.Is(err, ErrAccessDenied), errors.Is(err, ErrDifferentGuide),
		errors.Is(err, ErrDispositionRequired):
		uc.logger.Warn("DeleteSession: session id=%d: %v", req.SessionID, err)
		return err
	}

	uc.metrics.SessionDeletion(string(req.Disposition), "failed")
	uc.logger.Error("DeleteSession: session id=%d: %v", req.SessionID, err)
	return fmt.Errorf("%w: %v", ErrInternal, err)
}

// notifyCancelled сообщает клиентам об отмене. Сессия уже удалена, уведомления не откатывают её
func (uc *UseCase) notifyCancelled(ctx context.Context, session *domain.Session, bookings []*domain.Booking) {
	now := uc.timeProvider.Now()
	for _, b := range bookings {
		cp := *b
		cp.Status = domain.StatusCancelled

		var product *domain.Product
		if sp, ok := session.FindProduct(b.ProductID); ok {
			product = sp.Product
		}

		msg := notification.NewMessage(notification.TemplateBookingCancelled, &cp, session, product, uc.currency, now)
		if err := uc.notifier.Publish(ctx, msg); err != nil {
			uc.metrics.NotificationFailed(string(msg.Template))
			uc.logger.Error("DeleteSession: failed to publish %s for booking id=%d: %v", msg.Template, b.ID, err)
		}
	}
}
