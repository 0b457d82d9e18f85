package confirm_payment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/guide-sessions/internal/domain"
	"github.com/m04kA/guide-sessions/internal/integrations/notification"
	"github.com/m04kA/guide-sessions/internal/integrations/payment"
	"github.com/m04kA/guide-sessions/internal/service/allocator"
	"github.com/m04kA/guide-sessions/internal/testutil/memstore"
	"github.com/m04kA/guide-sessions/pkg/ptr"
)

var now = time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)

type fixture struct {
	store    *memstore.Store
	drafts   *memstore.Drafts
	payments *memstore.PaymentClient
	notifier *memstore.Notifier
	metrics  *memstore.Metrics
	uc       *UseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:    memstore.New(),
		drafts:   memstore.NewDrafts(),
		payments: &memstore.PaymentClient{},
		notifier: &memstore.Notifier{},
		metrics:  memstore.NewMetrics(),
	}
	f.store.AddProduct(domain.Product{ID: 1, GuideID: 1, Name: "Canyon A", MaxCapacity: 4, PriceIndividual: 50})
	f.store.AddSession(domain.Session{
		ID: 10, GuideID: 1, Date: time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC), StartTime: "09:00",
		Status: domain.SessionOpen, Products: []domain.SessionProduct{{ProductID: 1}},
	})
	f.store.AddVoucher(domain.Voucher{ID: 5, GuideID: 1, Code: "SUMMER", Amount: 10, DiscountType: domain.DiscountFixed, MaxUsages: ptr.Ptr(1)})

	require.NoError(t, f.drafts.Save(context.Background(), &domain.BookingDraft{
		IntentHandle:       "pi_1",
		GuideID:            1,
		SessionID:          10,
		ProductID:          1,
		NumberOfPeople:     3,
		TotalPrice:         150,
		AmountToCollectNow: 45,
		Currency:           "EUR",
		ClientName:         "Anna",
		ClientEmail:        "anna@example.com",
	}))

	f.payments.SetIntent(payment.Intent{Handle: "pi_1", Status: payment.StatusSucceeded, Amount: 45, Currency: "EUR", Reference: "ch_42"})

	alloc := allocator.New(f.store.Sessions(), f.store.Bookings(), f.store.Vouchers())
	f.uc = NewUseCase(f.drafts, f.payments, alloc, f.notifier, f.metrics, f.store.Tx(), memstore.NopLogger{}).
		WithTimeProvider(memstore.FixedClock{T: now})
	return f
}

func TestExecute_Confirmed(t *testing.T) {
	f := newFixture(t)

	resp, err := f.uc.Execute(context.Background(), &Request{Handle: "pi_1", Succeeded: true, PaymentReference: "ch_42"})
	require.NoError(t, err)

	assert.Equal(t, OutcomeConfirmed, resp.Outcome)
	assert.Equal(t, domain.StatusConfirmed, resp.Booking.Status)
	assert.Equal(t, 45.0, resp.Booking.AmountPaid)
	require.NotNil(t, resp.Booking.PaymentReference)
	assert.Equal(t, "ch_42", *resp.Booking.PaymentReference)

	assert.Equal(t, 0, f.drafts.Len())
	assert.Equal(t, []notification.Template{notification.TemplatePaymentConfirmation}, f.notifier.Templates())
	assert.Equal(t, "Canyon A", f.notifier.Messages[0].Variables["product_name"])
	assert.Equal(t, 1, f.metrics.Committed["payment"])
}

func TestExecute_RecheckFailsWhenPlacesTaken(t *testing.T) {
	f := newFixture(t)
	f.store.AddBooking(domain.Booking{ID: 1, SessionID: 10, ProductID: 1, NumberOfPeople: 2, Status: domain.StatusPending})

	resp, err := f.uc.Execute(context.Background(), &Request{Handle: "pi_1", Succeeded: true, PaymentReference: "ch_42"})

	assert.Nil(t, resp)
	assert.True(t, errors.Is(err, ErrNotFulfillable))
	assert.True(t, errors.Is(err, domain.ErrInsufficientCapacity))
	assert.Len(t, f.store.BookingsOf(10), 1)
	assert.Equal(t, 0, f.drafts.Len())
	assert.Equal(t, 1, f.metrics.Intents["not_fulfillable"])
}

func TestExecute_VoucherExhaustedMeanwhile(t *testing.T) {
	f := newFixture(t)
	draft, err := f.drafts.Get(context.Background(), "pi_1")
	require.NoError(t, err)
	draft.VoucherID = ptr.Ptr(int64(5))
	draft.VoucherCode = "SUMMER"
	require.NoError(t, f.drafts.Save(context.Background(), draft))

	v, _ := f.store.Voucher(5)
	v.UsageCount = 1
	f.store.AddVoucher(v)

	_, err = f.uc.Execute(context.Background(), &Request{Handle: "pi_1", Succeeded: true, PaymentReference: "ch_42"})

	assert.True(t, errors.Is(err, ErrNotFulfillable))
	assert.True(t, errors.Is(err, domain.ErrVoucherExhausted))
	assert.Empty(t, f.store.BookingsOf(10))
}

func TestExecute_FailedPaymentDiscardsDraft(t *testing.T) {
	f := newFixture(t)
	f.payments.SetIntent(payment.Intent{Handle: "pi_1", Status: payment.StatusFailed, Amount: 45, Currency: "EUR"})

	resp, err := f.uc.Execute(context.Background(), &Request{Handle: "pi_1"})
	require.NoError(t, err)

	assert.Equal(t, OutcomeDiscarded, resp.Outcome)
	assert.Equal(t, 0, f.drafts.Len())
	assert.Empty(t, f.store.BookingsOf(10))
	assert.Empty(t, f.notifier.Messages)
}

func TestExecute_UnpaidIntentIsNotConfirmed(t *testing.T) {
	f := newFixture(t)
	f.payments.SetIntent(payment.Intent{Handle: "pi_1", Status: payment.StatusRequiresPayment, Amount: 45, Currency: "EUR"})

	resp, err := f.uc.Execute(context.Background(), &Request{Handle: "pi_1", Succeeded: true, PaymentReference: "forged"})

	assert.Nil(t, resp)
	assert.True(t, errors.Is(err, ErrPaymentNotVerified))
	assert.Empty(t, f.store.BookingsOf(10))
	assert.Equal(t, 1, f.drafts.Len(), "draft waits for the real payment")
	assert.Equal(t, 1, f.metrics.Intents["unverified"])

	// после настоящей оплаты тот же handle подтверждается
	f.payments.Pay("pi_1", "ch_real")
	resp, err = f.uc.Execute(context.Background(), &Request{Handle: "pi_1", Succeeded: true, PaymentReference: "forged"})
	require.NoError(t, err)
	assert.Equal(t, "ch_real", *resp.Booking.PaymentReference)
}

func TestExecute_PaidAmountMismatch(t *testing.T) {
	tests := []struct {
		name   string
		intent payment.Intent
	}{
		{"amount", payment.Intent{Handle: "pi_1", Status: payment.StatusSucceeded, Amount: 1, Currency: "EUR"}},
		{"currency", payment.Intent{Handle: "pi_1", Status: payment.StatusSucceeded, Amount: 45, Currency: "USD"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.payments.SetIntent(tt.intent)

			_, err := f.uc.Execute(context.Background(), &Request{Handle: "pi_1", Succeeded: true})

			assert.True(t, errors.Is(err, ErrPaymentNotVerified))
			assert.Empty(t, f.store.BookingsOf(10))
		})
	}
}

func TestExecute_PaymentServiceDown(t *testing.T) {
	f := newFixture(t)
	f.payments.Err = errors.New("connection refused")

	_, err := f.uc.Execute(context.Background(), &Request{Handle: "pi_1", Succeeded: true})

	assert.True(t, errors.Is(err, ErrPaymentUnavailable))
	assert.Empty(t, f.store.BookingsOf(10))
	assert.Equal(t, 1, f.drafts.Len())
	require.NoError(t, f.drafts.Claim(context.Background(), "pi_1"), "claim is released for a retry")
}

func TestExecute_DuplicateCallback(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.drafts.Claim(context.Background(), "pi_1"))

	_, err := f.uc.Execute(context.Background(), &Request{Handle: "pi_1", Succeeded: true, PaymentReference: "ch_42"})
	assert.True(t, errors.Is(err, ErrAlreadyProcessing))

	_, err = f.uc.Execute(context.Background(), &Request{Handle: "pi_404", Succeeded: true, PaymentReference: "ch_42"})
	assert.True(t, errors.Is(err, ErrIntentNotFound))
}

func TestExecute_InfrastructureFailureReleasesDraft(t *testing.T) {
	f := newFixture(t)
	f.store.FailBookingCreate = errors.New("disk full")

	_, err := f.uc.Execute(context.Background(), &Request{Handle: "pi_1", Succeeded: true, PaymentReference: "ch_42"})
	assert.True(t, errors.Is(err, ErrInternal))
	assert.Equal(t, 1, f.drafts.Len(), "draft stays for a retry")

	f.store.FailBookingCreate = nil
	resp, err := f.uc.Execute(context.Background(), &Request{Handle: "pi_1", Succeeded: true, PaymentReference: "ch_42"})
	require.NoError(t, err)
	assert.Equal(t, OutcomeConfirmed, resp.Outcome)
}
