package confirm_payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/guide-sessions/internal/domain"
	"github.com/m04kA/guide-sessions/internal/infra/cache/paymentintent"
	"github.com/m04kA/guide-sessions/internal/integrations/notification"
	"github.com/m04kA/guide-sessions/internal/integrations/payment"
	"github.com/m04kA/guide-sessions/internal/service/allocator"
)

// UseCase use case подтверждения оплаты
type UseCase struct {
	drafts       DraftStore
	payments     PaymentClient
	allocator    Allocator
	notifier     Notifier
	metrics      Metrics
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	drafts DraftStore,
	payments PaymentClient,
	allocator Allocator,
	notifier Notifier,
	metrics Metrics,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		drafts:       drafts,
		payments:     payments,
		allocator:    allocator,
		notifier:     notifier,
		metrics:      metrics,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute обрабатывает callback платёжного сервиса.
// Места и промокод проверяются заново: проверка при создании намерения оплаты уже устарела
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ConfirmPayment: handle=%s, succeeded=%t", req.Handle, req.Succeeded)

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ConfirmPayment: validation failed: %v", err)
		return nil, err
	}

	// 1. Черновик бронирования
	draft, err := uc.drafts.Get(ctx, req.Handle)
	if err != nil {
		if errors.Is(err, paymentintent.ErrDraftNotFound) {
			uc.logger.Warn("ConfirmPayment: draft for handle=%s not found", req.Handle)
			return nil, ErrIntentNotFound
		}
		uc.logger.Error("ConfirmPayment: failed to get draft handle=%s: %v", req.Handle, err)
		return nil, fmt.Errorf("%w: failed to get draft: %v", ErrInternal, err)
	}

	// 2. Повторный callback с тем же handle не должен создать второе бронирование
	if err := uc.drafts.Claim(ctx, req.Handle); err != nil {
		if errors.Is(err, paymentintent.ErrAlreadyClaimed) {
			uc.logger.Warn("ConfirmPayment: handle=%s is already being processed", req.Handle)
			return nil, ErrAlreadyProcessing
		}
		uc.logger.Error("ConfirmPayment: failed to claim draft handle=%s: %v", req.Handle, err)
		return nil, fmt.Errorf("%w: failed to claim draft: %v", ErrInternal, err)
	}

	// 3. Состояние оплаты берётся у платёжного сервиса, тело callback не доверенное
	intent, err := uc.payments.GetIntent(ctx, req.Handle)
	if err != nil {
		uc.release(ctx, req.Handle)
		if errors.Is(err, payment.ErrIntentNotFound) {
			uc.metrics.PaymentIntent("unverified")
			uc.logger.Warn("ConfirmPayment: payment service does not know handle=%s", req.Handle)
			return nil, fmt.Errorf("%w: %v", ErrPaymentNotVerified, err)
		}
		uc.logger.Error("ConfirmPayment: failed to verify handle=%s: %v", req.Handle, err)
		return nil, fmt.Errorf("%w: %v", ErrPaymentUnavailable, err)
	}

	// 4. Оплата не прошла: черновик больше не нужен
	if intent.IsFinalFailure() {
		uc.discard(ctx, req.Handle)
		uc.metrics.PaymentIntent("discarded")
		uc.logger.Info("ConfirmPayment: payment for handle=%s %s, draft discarded", req.Handle, intent.Status)
		return &Response{Outcome: OutcomeDiscarded}, nil
	}

	if err := verifyIntent(intent, draft); err != nil {
		uc.release(ctx, req.Handle)
		uc.metrics.PaymentIntent("unverified")
		uc.logger.Warn("ConfirmPayment: callback for handle=%s (succeeded=%t) rejected: %v", req.Handle, req.Succeeded, err)
		return nil, err
	}

	now := uc.timeProvider.Now()
	reference := intent.Reference
	if reference == "" {
		reference = intent.Handle
	}

	// 5. Фиксация с повторной проверкой мест под блокировкой сессии
	var (
		booking *domain.Booking
		session *domain.Session
	)
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		var err error
		booking, session, err = uc.allocator.Commit(txCtx, draft, domain.StatusConfirmed, draft.AmountToCollectNow, &reference, now)
		return err
	})
	if err != nil {
		if isUnfulfillable(err) {
			uc.discard(ctx, req.Handle)
			uc.metrics.PaymentIntent("not_fulfillable")
			uc.metrics.CapacityConflict("confirm_payment", domain.ConflictReason(err))
			uc.logger.Error("ConfirmPayment: payment %s (ref=%s, amount=%.2f %s) cannot be fulfilled, manual resolution required: %v",
				req.Handle, reference, draft.AmountToCollectNow, draft.Currency, err)
			return nil, fmt.Errorf("%w: %w", ErrNotFulfillable, err)
		}

		uc.release(ctx, req.Handle)
		uc.logger.Error("ConfirmPayment: failed to commit booking for handle=%s: %v", req.Handle, err)
		return nil, fmt.Errorf("%w: failed to commit booking: %v", ErrInternal, err)
	}

	uc.discard(ctx, req.Handle)
	uc.metrics.BookingCommitted("payment")
	uc.metrics.PaymentIntent("confirmed")

	var product *domain.Product
	if sp, ok := session.FindProduct(booking.ProductID); ok {
		product = sp.Product
	}
	msg := notification.NewMessage(notification.TemplatePaymentConfirmation, booking, session, product, draft.Currency, now)
	if err := uc.notifier.Publish(ctx, msg); err != nil {
		uc.metrics.NotificationFailed(string(msg.Template))
		uc.logger.Error("ConfirmPayment: failed to publish %s for booking id=%d: %v", msg.Template, booking.ID, err)
	}

	uc.logger.Info("ConfirmPayment: booking id=%d confirmed, paid=%.2f", booking.ID, booking.AmountPaid)
	return &Response{Outcome: OutcomeConfirmed, Booking: booking}, nil
}

func (uc *UseCase) release(ctx context.Context, handle string) {
	if err := uc.drafts.Release(ctx, handle); err != nil {
		uc.logger.Error("ConfirmPayment: failed to release draft handle=%s: %v", handle, err)
	}
}

func (uc *UseCase) discard(ctx context.Context, handle string) {
	if err := uc.drafts.Delete(ctx, handle); err != nil {
		uc.logger.Error("ConfirmPayment: failed to delete draft handle=%s: %v", handle, err)
	}
}

// isUnfulfillable отличает отказ по бизнес-правилам от сбоя инфраструктуры
func isUnfulfillable(err error) bool {
	return domain.IsBusinessError(err) ||
		errors.Is(err, allocator.ErrSessionNotFound) ||
		errors.Is(err, allocator.ErrVoucherNotFound)
}
