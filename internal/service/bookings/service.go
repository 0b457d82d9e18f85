package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/guide-sessions/internal/domain"
	bookingRepo "github.com/m04kA/guide-sessions/internal/infra/storage/booking"
	sessionRepo "github.com/m04kA/guide-sessions/internal/infra/storage/session"
	"github.com/m04kA/guide-sessions/internal/integrations/notification"
	"github.com/m04kA/guide-sessions/internal/service/bookings/models"
)

// Service сервис для работы с бронированиями гида
type Service struct {
	bookingRepo BookingRepository
	sessionRepo SessionRepository
	notifier    Notifier
	metrics     Metrics
	txManager   TransactionManager
	currency    string
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	sessionRepo SessionRepository,
	notifier Notifier,
	metrics Metrics,
	txManager TransactionManager,
	currency string,
	logger Logger,
) *Service {
	if currency == "" {
		currency = domain.DefaultCurrency
	}
	return &Service{
		bookingRepo: bookingRepo,
		sessionRepo: sessionRepo,
		notifier:    notifier,
		metrics:     metrics,
		txManager:   txManager,
		currency:    currency,
		logger:      logger,
	}
}

// GetByID получает бронирование по ID
// Гид видит только бронирования своих сессий
func (s *Service) GetByID(ctx context.Context, id int64, guideID int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for guide=%d", id, guideID)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if _, err := s.checkGuideAccess(ctx, booking.SessionID, guideID); err != nil {
		s.logger.Warn("GetByID: access denied for guide=%d to booking id=%d", guideID, id)
		return nil, err
	}

	s.logger.Info("GetByID: successfully fetched booking id=%d", id)
	return models.FromDomainBooking(booking), nil
}

// ListBySession получает бронирования сессии
// Отменённые бронирования возвращаются только по запросу
func (s *Service) ListBySession(ctx context.Context, req *models.ListBySessionRequest) (*models.BookingListResponse, error) {
	s.logger.Info("ListBySession: fetching bookings for session=%d, guide=%d, includeCancelled=%t",
		req.SessionID, req.GuideID, req.IncludeCancelled)

	if _, err := s.checkGuideAccess(ctx, req.SessionID, req.GuideID); err != nil {
		return nil, err
	}

	bookings, err := s.bookingRepo.ListBySession(ctx, req.SessionID)
	if err != nil {
		s.logger.Error("ListBySession: repository error for session=%d: %v", req.SessionID, err)
		return nil, fmt.Errorf("%w: ListBySession - repository error: %v", ErrInternal, err)
	}

	if !req.IncludeCancelled {
		active := make([]*domain.Booking, 0, len(bookings))
		for _, b := range bookings {
			if b.IsActive() {
				active = append(active, b)
			}
		}
		bookings = active
	}

	s.logger.Info("ListBySession: successfully fetched %d bookings for session=%d", len(bookings), req.SessionID)
	return models.FromDomainBookingList(bookings), nil
}

// Cancel отменяет бронирование
// Запись остаётся для истории, места сразу возвращаются в сессию
func (s *Service) Cancel(ctx context.Context, bookingID int64, guideID int64) error {
	s.logger.Info("Cancel: cancelling booking id=%d by guide=%d", bookingID, guideID)

	var (
		booking *domain.Booking
		session *domain.Session
	)

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		var err error
		booking, err = s.bookingRepo.GetByID(txCtx, bookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: Cancel - repository error: %w", ErrInternal, err)
		}

		session, err = s.checkGuideAccess(txCtx, booking.SessionID, guideID)
		if err != nil {
			return err
		}

		if !booking.CanBeCancelled() {
			return ErrCannotCancel
		}

		if err := s.bookingRepo.UpdateStatus(txCtx, bookingID, domain.StatusCancelled); err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: Cancel - repository error: %w", ErrInternal, err)
		}
		booking.Status = domain.StatusCancelled
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInternal) {
			s.logger.Error("Cancel: booking id=%d: %v", bookingID, err)
		} else {
			s.logger.Warn("Cancel: booking id=%d: %v", bookingID, err)
		}
		return err
	}

	var product *domain.Product
	if sp, ok := session.FindProduct(booking.ProductID); ok {
		product = sp.Product
	}
	msg := notification.NewMessage(notification.TemplateBookingCancelled, booking, session, product, s.currency, time.Now())
	if err := s.notifier.Publish(ctx, msg); err != nil {
		s.metrics.NotificationFailed(string(msg.Template))
		s.logger.Error("Cancel: failed to publish %s for booking id=%d: %v", msg.Template, bookingID, err)
	}

	s.logger.Info("Cancel: successfully cancelled booking id=%d", bookingID)
	return nil
}

// UpdateStatus подтверждает бронирование (например, после оплаты на месте).
// Отмена выполняется через Cancel, вернуть отменённое бронирование нельзя
func (s *Service) UpdateStatus(ctx context.Context, bookingID int64, req *models.UpdateStatusRequest) error {
	s.logger.Info("UpdateStatus: updating booking id=%d to status=%s by guide=%d",
		bookingID, req.Status, req.GuideID)

	newStatus, err := models.ToDomainBookingStatus(req.Status)
	if err != nil || newStatus == domain.StatusCancelled {
		s.logger.Warn("UpdateStatus: invalid status=%s for booking id=%d", req.Status, bookingID)
		return fmt.Errorf("%w: status must be pending or confirmed", ErrInvalidStatus)
	}

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		booking, err := s.bookingRepo.GetByID(txCtx, bookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: UpdateStatus - repository error: %w", ErrInternal, err)
		}

		if _, err := s.checkGuideAccess(txCtx, booking.SessionID, req.GuideID); err != nil {
			return err
		}

		if booking.IsCancelled() {
			return fmt.Errorf("%w: booking is cancelled", ErrInvalidStatus)
		}

		if err := s.bookingRepo.UpdateStatus(txCtx, bookingID, newStatus); err != nil {
			return fmt.Errorf("%w: UpdateStatus - repository error: %w", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInternal) {
			s.logger.Error("UpdateStatus: booking id=%d: %v", bookingID, err)
		} else {
			s.logger.Warn("UpdateStatus: booking id=%d: %v", bookingID, err)
		}
		return err
	}

	s.logger.Info("UpdateStatus: successfully updated booking id=%d to status=%s", bookingID, newStatus)
	return nil
}

// Вспомогательные методы

// checkGuideAccess проверяет, что сессия принадлежит гиду, и возвращает её
func (s *Service) checkGuideAccess(ctx context.Context, sessionID int64, guideID int64) (*domain.Session, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, sessionRepo.ErrSessionNotFound) {
			s.logger.Warn("checkGuideAccess: session id=%d not found", sessionID)
			return nil, ErrSessionNotFound
		}
		s.logger.Error("checkGuideAccess: failed to get session id=%d: %v", sessionID, err)
		return nil, fmt.Errorf("%w: checkGuideAccess - failed to get session: %w", ErrInternal, err)
	}

	if session.GuideID != guideID {
		s.logger.Warn("checkGuideAccess: guide=%d does not own session=%d", guideID, sessionID)
		return nil, ErrAccessDenied
	}

	return session, nil
}
