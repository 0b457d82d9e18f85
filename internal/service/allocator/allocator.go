package allocator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/guide-sessions/internal/domain"
	sessionRepo "github.com/m04kA/guide-sessions/internal/infra/storage/session"
	voucherRepo "github.com/m04kA/guide-sessions/internal/infra/storage/voucher"
	"github.com/m04kA/guide-sessions/internal/service/capacity"
)

// Allocator фиксирует бронирование по черновику.
// Commit вызывается только внутри транзакции: он блокирует сессию и заново
// проверяет вместимость и промокод на свежих данных
type Allocator struct {
	sessionRepo SessionRepository
	bookingRepo BookingRepository
	voucherRepo VoucherRepository
}

// New создает Allocator
func New(sessionRepo SessionRepository, bookingRepo BookingRepository, voucherRepo VoucherRepository) *Allocator {
	return &Allocator{
		sessionRepo: sessionRepo,
		bookingRepo: bookingRepo,
		voucherRepo: voucherRepo,
	}
}

// Commit создает бронирование из черновика.
// Возвращает созданное бронирование и сессию, в которой проверялась вместимость
func (a *Allocator) Commit(
	ctx context.Context,
	draft *domain.BookingDraft,
	status domain.BookingStatus,
	amountPaid float64,
	paymentReference *string,
	now time.Time,
) (*domain.Booking, *domain.Session, error) {
	if err := a.sessionRepo.LockForUpdate(ctx, []int64{draft.SessionID}); err != nil {
		if errors.Is(err, sessionRepo.ErrSessionNotFound) {
			return nil, nil, ErrSessionNotFound
		}
		return nil, nil, fmt.Errorf("%w: lock session id=%d: %w", ErrInternal, draft.SessionID, err)
	}

	session, err := a.sessionRepo.GetByID(ctx, draft.SessionID)
	if err != nil {
		if errors.Is(err, sessionRepo.ErrSessionNotFound) {
			return nil, nil, ErrSessionNotFound
		}
		return nil, nil, fmt.Errorf("%w: load session id=%d: %w", ErrInternal, draft.SessionID, err)
	}

	if err := CheckBookable(session, draft.ProductID, draft.NumberOfPeople, now); err != nil {
		return nil, session, err
	}

	if draft.VoucherID != nil {
		if err := a.consumeVoucher(ctx, draft, now); err != nil {
			return nil, session, err
		}
	}

	created, err := a.bookingRepo.Create(ctx, draft.ToBooking(status, amountPaid, paymentReference))
	if err != nil {
		return nil, session, fmt.Errorf("%w: create booking: %w", ErrInternal, err)
	}

	return created, session, nil
}

// CheckBookable проверяет, что клиент может забронировать места: сессия ещё не началась
// и резолвер вместимости подтверждает наличие мест
func CheckBookable(session *domain.Session, productID int64, people int, now time.Time) error {
	if session.IsPast(now) {
		return &domain.CapacityError{
			SessionID: session.ID,
			ProductID: productID,
			Date:      session.Date,
			Requested: people,
			Reason:    domain.ReasonClosed,
		}
	}
	return capacity.Check(session, productID, people)
}

// CheckVoucher проверяет срок действия и лимит использований промокода
func CheckVoucher(v *domain.Voucher, now time.Time) error {
	if v.IsExpired(now) {
		return domain.ErrVoucherExpired
	}
	if !v.CanBeUsedOnceMore() {
		return domain.ErrVoucherExhausted
	}
	return nil
}

func (a *Allocator) consumeVoucher(ctx context.Context, draft *domain.BookingDraft, now time.Time) error {
	v, err := a.voucherRepo.GetByCode(ctx, draft.GuideID, draft.VoucherCode)
	if err != nil {
		if errors.Is(err, voucherRepo.ErrVoucherNotFound) {
			return ErrVoucherNotFound
		}
		return fmt.Errorf("%w: load voucher: %w", ErrInternal, err)
	}

	if err := CheckVoucher(v, now); err != nil {
		return err
	}

	if err := a.voucherRepo.IncrementUsage(ctx, v.ID); err != nil {
		if errors.Is(err, voucherRepo.ErrUsageLimitReached) {
			return domain.ErrVoucherExhausted
		}
		return fmt.Errorf("%w: increment voucher usage: %w", ErrInternal, err)
	}

	return nil
}
