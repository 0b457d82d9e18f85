package create_booking

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/guide-sessions/internal/domain"
	productRepo "github.com/m04kA/guide-sessions/internal/infra/storage/product"
	sessionRepo "github.com/m04kA/guide-sessions/internal/infra/storage/session"
	voucherRepo "github.com/m04kA/guide-sessions/internal/infra/storage/voucher"
	"github.com/m04kA/guide-sessions/internal/integrations/notification"
	"github.com/m04kA/guide-sessions/internal/integrations/payment"
	"github.com/m04kA/guide-sessions/internal/service/allocator"
	"github.com/m04kA/guide-sessions/internal/service/pricing"
)

// UseCase use case для создания бронирования
type UseCase struct {
	sessionRepo   SessionRepository
	productRepo   ProductRepository
	guideRepo     GuideRepository
	voucherRepo   VoucherRepository
	allocator     Allocator
	paymentClient PaymentClient
	drafts        DraftStore
	notifier      Notifier
	metrics       Metrics
	txManager     TransactionManager
	timeProvider  TimeProvider
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	sessionRepo SessionRepository,
	productRepo ProductRepository,
	guideRepo GuideRepository,
	voucherRepo VoucherRepository,
	allocator Allocator,
	paymentClient PaymentClient,
	drafts DraftStore,
	notifier Notifier,
	metrics Metrics,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		sessionRepo:   sessionRepo,
		productRepo:   productRepo,
		guideRepo:     guideRepo,
		voucherRepo:   voucherRepo,
		allocator:     allocator,
		paymentClient: paymentClient,
		drafts:        drafts,
		notifier:      notifier,
		metrics:       metrics,
		txManager:     txManager,
		timeProvider:  &RealTimeProvider{},
		logger:        logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case создания бронирования.
// Если клиенту нужно что-то оплатить сейчас, возвращается намерение оплаты,
// а бронирование фиксируется только после подтверждения платежа
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: session=%d, product=%d, people=%d, payFull=%t",
		req.SessionID, req.ProductID, req.NumberOfPeople, req.PayFullAmount)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	// 2. Получаем сессию вместе с бронированиями
	session, err := uc.sessionRepo.GetByID(ctx, req.SessionID)
	if err != nil {
		if errors.Is(err, sessionRepo.ErrSessionNotFound) {
			uc.logger.Warn("CreateBooking: session id=%d not found", req.SessionID)
			return nil, ErrSessionNotFound
		}
		uc.logger.Error("CreateBooking: failed to get session id=%d: %v", req.SessionID, err)
		return nil, fmt.Errorf("%w: failed to get session: %v", ErrInternal, err)
	}

	sp, ok := session.FindProduct(req.ProductID)
	if !ok {
		uc.logger.Warn("CreateBooking: product id=%d is not offered in session id=%d", req.ProductID, session.ID)
		return nil, invalid("productId", "is not offered in this session")
	}

	// 3. Получаем продукт
	product, err := uc.productRepo.GetByID(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, productRepo.ErrProductNotFound) {
			uc.logger.Warn("CreateBooking: product id=%d not found", req.ProductID)
			return nil, ErrProductNotFound
		}
		uc.logger.Error("CreateBooking: failed to get product id=%d: %v", req.ProductID, err)
		return nil, fmt.Errorf("%w: failed to get product: %v", ErrInternal, err)
	}
	if product.GuideID != session.GuideID {
		uc.logger.Warn("CreateBooking: product id=%d belongs to guide=%d, session guide=%d",
			product.ID, product.GuideID, session.GuideID)
		return nil, ErrProductNotFound
	}

	// 4. Предварительная проверка мест. Окончательная выполняется при фиксации
	if err := allocator.CheckBookable(session, product.ID, req.NumberOfPeople, now); err != nil {
		uc.metrics.CapacityConflict("create", domain.ConflictReason(err))
		uc.logger.Warn("CreateBooking: %v", err)
		return nil, err
	}

	// 5. Настройки оплаты гида
	guide, err := uc.guideRepo.GetByID(ctx, session.GuideID)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to get guide id=%d: %v", session.GuideID, err)
		return nil, fmt.Errorf("%w: failed to get guide: %v", ErrInternal, err)
	}

	// 6. Промокод
	code := voucherCode(req)
	var voucher *domain.Voucher
	if code != "" {
		voucher, err = uc.voucherRepo.GetByCode(ctx, guide.ID, code)
		if err != nil {
			if errors.Is(err, voucherRepo.ErrVoucherNotFound) {
				uc.logger.Warn("CreateBooking: voucher %q not found for guide=%d", code, guide.ID)
				return nil, invalid("voucherCode", "not found")
			}
			uc.logger.Error("CreateBooking: failed to get voucher %q: %v", code, err)
			return nil, fmt.Errorf("%w: failed to get voucher: %v", ErrInternal, err)
		}
		if err := allocator.CheckVoucher(voucher, now); err != nil {
			uc.logger.Warn("CreateBooking: voucher %q rejected: %v", code, err)
			return nil, err
		}
	}

	// 7. Расчёт стоимости
	quote, err := pricing.Calculate(pricing.Input{
		NumberOfPeople:  req.NumberOfPeople,
		Product:         product,
		PriceOverride:   sp.PriceOverride,
		Voucher:         voucher,
		ShoeRentalCount: req.ShoeRentalCount,
		Settings:        guide.Settings,
		PayFullAmount:   req.PayFullAmount,
	})
	if err != nil {
		uc.logger.Warn("CreateBooking: pricing failed: %v", err)
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	draft := &domain.BookingDraft{
		GuideID:            guide.ID,
		SessionID:          session.ID,
		ProductID:          product.ID,
		NumberOfPeople:     req.NumberOfPeople,
		TotalPrice:         quote.TotalPrice,
		DiscountAmount:     quote.DiscountAmount,
		AmountToCollectNow: quote.AmountToCollectNow,
		Currency:           currency(guide),
		ShoeRentalCount:    req.ShoeRentalCount,
		ClientName:         req.ClientName,
		ClientEmail:        req.ClientEmail,
		ClientPhone:        req.ClientPhone,
		Notes:              req.Notes,
		CreatedAt:          now,
	}
	if voucher != nil {
		draft.VoucherID = &voucher.ID
		draft.VoucherCode = voucher.Code
	}

	// 8. Оплата сейчас: отдаём намерение оплаты, бронирование появится в ConfirmPayment
	if quote.AmountToCollectNow > 0 {
		intent, err := uc.requestPayment(ctx, draft, product)
		if err != nil {
			return nil, err
		}
		return &Response{Outcome: OutcomePaymentRequired, Quote: *quote, Payment: intent}, nil
	}

	// 9. Оплата не требуется: фиксируем сразу
	booking, err := uc.commit(ctx, draft, now)
	if err != nil {
		return nil, err
	}

	uc.metrics.BookingCommitted("direct")
	uc.notify(ctx, notification.NewMessage(notification.TemplateBookingConfirmation, booking, session, product, draft.Currency, now))

	uc.logger.Info("CreateBooking: booking id=%d created in session=%d", booking.ID, booking.SessionID)
	return &Response{Outcome: OutcomeBooked, Quote: *quote, Booking: booking}, nil
}

func (uc *UseCase) commit(ctx context.Context, draft *domain.BookingDraft, now time.Time) (*domain.Booking, error) {
	var booking *domain.Booking

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		var err error
		booking, _, err = uc.allocator.Commit(txCtx, draft, domain.StatusPending, 0, nil, now)
		return err
	})
	if err == nil {
		return booking, nil
	}

	switch {
	case errors.Is(err, allocator.ErrSessionNotFound):
		uc.logger.Warn("CreateBooking: session id=%d disappeared before commit", draft.SessionID)
		return nil, ErrSessionNotFound
	case errors.Is(err, allocator.ErrVoucherNotFound):
		uc.logger.Warn("CreateBooking: voucher %q disappeared before commit", draft.VoucherCode)
		return nil, invalid("voucherCode", "not found")
	case domain.IsBusinessError(err):
		uc.metrics.CapacityConflict("create", domain.ConflictReason(err))
		uc.logger.Warn("CreateBooking: commit rejected: %v", err)
		return nil, err
	}

	uc.logger.Error("CreateBooking: failed to commit booking: %v", err)
	return nil, fmt.Errorf("%w: failed to commit booking: %v", ErrInternal, err)
}

func (uc *UseCase) requestPayment(ctx context.Context, draft *domain.BookingDraft, product *domain.Product) (*PaymentIntent, error) {
	draft.IdempotencyKey = uuid.NewString()

	intent, err := uc.paymentClient.CreateIntent(ctx, payment.IntentRequest{
		Amount:         draft.AmountToCollectNow,
		Currency:       draft.Currency,
		Description:    fmt.Sprintf("%s x%d", product.Name, draft.NumberOfPeople),
		CustomerEmail:  draft.ClientEmail,
		IdempotencyKey: draft.IdempotencyKey,
		Metadata: map[string]string{
			"session_id": strconv.FormatInt(draft.SessionID, 10),
			"product_id": strconv.FormatInt(draft.ProductID, 10),
			"guide_id":   strconv.FormatInt(draft.GuideID, 10),
		},
	})
	if err != nil {
		uc.metrics.PaymentIntent("failed")
		uc.logger.Error("CreateBooking: failed to create payment intent: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrPaymentUnavailable, err)
	}

	draft.IntentHandle = intent.Handle
	if err := uc.drafts.Save(ctx, draft); err != nil {
		uc.metrics.PaymentIntent("failed")
		uc.logger.Error("CreateBooking: failed to save draft for intent %s: %v", intent.Handle, err)
		return nil, fmt.Errorf("%w: failed to save booking draft: %v", ErrInternal, err)
	}

	uc.metrics.PaymentIntent("created")
	uc.logger.Info("CreateBooking: payment intent %s created, amount=%.2f %s",
		intent.Handle, draft.AmountToCollectNow, draft.Currency)

	return &PaymentIntent{
		Handle:      intent.Handle,
		CheckoutURL: intent.CheckoutURL,
		Amount:      draft.AmountToCollectNow,
		Currency:    draft.Currency,
	}, nil
}

// notify публикует уведомление. Ошибка доставки не отменяет бронирование
func (uc *UseCase) notify(ctx context.Context, msg notification.Message) {
	if err := uc.notifier.Publish(ctx, msg); err != nil {
		uc.metrics.NotificationFailed(string(msg.Template))
		uc.logger.Error("CreateBooking: failed to publish %s for booking id=%d: %v", msg.Template, msg.BookingID, err)
	}
}

func currency(g *domain.Guide) string {
	if g.Settings.Currency == "" {
		return domain.DefaultCurrency
	}
	return g.Settings.Currency
}
