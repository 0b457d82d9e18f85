package move_booking

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/m04kA/guide-sessions/internal/domain"
	bookingRepo "github.com/m04kA/guide-sessions/internal/infra/storage/booking"
	sessionRepo "github.com/m04kA/guide-sessions/internal/infra/storage/session"
	"github.com/m04kA/guide-sessions/internal/service/capacity"
)

// UseCase use case переноса бронирования в другую сессию
type UseCase struct {
	bookingRepo BookingRepository
	sessionRepo SessionRepository
	metrics     Metrics
	txManager   TransactionManager
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	sessionRepo SessionRepository,
	metrics Metrics,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo: bookingRepo,
		sessionRepo: sessionRepo,
		metrics:     metrics,
		txManager:   txManager,
		logger:      logger,
	}
}

// Execute переносит бронирование целиком или не меняет ничего.
// Цена, оплата и скидка бронирования не меняются
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("MoveBooking: guide=%d, booking=%d, target=%d", req.GuideID, req.BookingID, req.TargetSessionID)

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("MoveBooking: validation failed: %v", err)
		return nil, err
	}

	var resp *Response

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 1. Бронирование под блокировкой
		booking, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: failed to get booking: %w", ErrInternal, err)
		}
		if booking.IsCancelled() {
			return ErrBookingCancelled
		}
		if booking.SessionID == req.TargetSessionID {
			return ErrSameSession
		}

		// 2. Блокируем обе сессии в порядке возрастания ID
		ids := []int64{booking.SessionID, req.TargetSessionID}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		if err := uc.sessionRepo.LockForUpdate(txCtx, ids); err != nil {
			if errors.Is(err, sessionRepo.ErrSessionNotFound) {
				return ErrTargetNotFound
			}
			return fmt.Errorf("%w: failed to lock sessions: %w", ErrInternal, err)
		}

		// 3. Проверяем владельца и целевую сессию на свежих данных
		source, err := uc.sessionRepo.GetByID(txCtx, booking.SessionID)
		if err != nil {
			return fmt.Errorf("%w: failed to get source session: %w", ErrInternal, err)
		}
		if source.GuideID != req.GuideID {
			return ErrAccessDenied
		}

		target, err := uc.sessionRepo.GetByID(txCtx, req.TargetSessionID)
		if err != nil {
			if errors.Is(err, sessionRepo.ErrSessionNotFound) {
				return ErrTargetNotFound
			}
			return fmt.Errorf("%w: failed to get target session: %w", ErrInternal, err)
		}
		if target.GuideID != source.GuideID {
			return ErrDifferentGuide
		}

		// 4. Переносимое бронирование ещё не учтено в целевой сессии
		if err := capacity.Check(target, booking.ProductID, booking.NumberOfPeople); err != nil {
			return err
		}

		if err := uc.bookingRepo.MoveToSession(txCtx, booking.ID, target.ID); err != nil {
			return fmt.Errorf("%w: failed to move booking: %w", ErrInternal, err)
		}

		from := booking.SessionID
		booking.SessionID = target.ID
		resp = &Response{Booking: booking, FromSessionID: from, ToSessionID: target.ID}
		return nil
	})
	if err != nil {
		return nil, uc.translate(req, err)
	}

	uc.logger.Info("MoveBooking: booking id=%d moved from session=%d to session=%d",
		resp.Booking.ID, resp.FromSessionID, resp.ToSessionID)
	return resp, nil
}

func (uc *UseCase) translate(req *Request, err error) error {
	switch {
	case domain.IsBusinessError(err):
		uc.metrics.CapacityConflict("move", domain.ConflictReason(err))
		uc.logger.Warn("MoveBooking: booking id=%d rejected: %v", req.BookingID, err)
		return err
	case errors.Is(err, ErrInternal):
		uc.logger.Error("MoveBooking: booking id=%d: %v", req.BookingID, err)
		return err
	case errors.Is(err, ErrBookingNotFound), errors.Is(err, ErrTargetNotFound),
		errors.Is(err, ErrAccessDenied), errors.Is(err, ErrDifferentGuide),
		errors.Is(err, ErrBookingCancelled), errors.Is(err, ErrSameSession):
		uc.logger.Warn("MoveBooking: booking id=%d: %v", req.BookingID, err)
		return err
	}

	uc.logger.Error("MoveBooking: booking id=%d: %v", req.BookingID, err)
	return fmt.Errorf("%w: %v", ErrInternal, err)
}
