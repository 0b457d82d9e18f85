package delete_session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/guide-sessions/internal/domain"
	"github.com/m04kA/guide-sessions/internal/integrations/notification"
	"github.com/m04kA/guide-sessions/internal/testutil/memstore"
	"github.com/m04kA/guide-sessions/pkg/ptr"
)

var now = time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)

type fixture struct {
	store    *memstore.Store
	notifier *memstore.Notifier
	metrics  *memstore.Metrics
	uc       *UseCase
}

// Сессия 10: A (продукт 1, 3 чел.) и B (продукт 1, 3 чел.), плюс отменённое C.
// Сессия 20 вмещает 4 человека продукта 1: A переносится, B уже нет.
// Сессия 30 вмещает обоих.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{store: memstore.New(), notifier: &memstore.Notifier{}, metrics: memstore.NewMetrics()}
	date := time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)

	f.store.AddProduct(domain.Product{ID: 1, GuideID: 1, Name: "Canyon A", MaxCapacity: 8})
	f.store.AddProduct(domain.Product{ID: 2, GuideID: 1, Name: "Canyon Small", MaxCapacity: 4})

	f.store.AddSession(domain.Session{
		ID: 10, GuideID: 1, Date: date, StartTime: "09:00", Status: domain.SessionOpen,
		Products: []domain.SessionProduct{{ProductID: 1}},
		Bookings: []*domain.Booking{
			{ID: 1, ProductID: 1, NumberOfPeople: 3, Status: domain.StatusConfirmed, Client: domain.Client{Email: "a@example.com"}},
			{ID: 2, ProductID: 1, NumberOfPeople: 3, Status: domain.StatusPending, Client: domain.Client{Email: "b@example.com"}},
			{ID: 3, ProductID: 1, NumberOfPeople: 2, Status: domain.StatusCancelled},
		},
	})
	f.store.AddSession(domain.Session{
		ID: 20, GuideID: 1, Date: date, StartTime: "14:00", Status: domain.SessionOpen,
		Products: []domain.SessionProduct{{ProductID: 1}},
		Bookings: []*domain.Booking{{ID: 4, ProductID: 1, NumberOfPeople: 4, Status: domain.StatusConfirmed}},
	})
	f.store.AddSession(domain.Session{
		ID: 30, GuideID: 1, Date: date.AddDate(0, 0, 1), StartTime: "09:00", Status: domain.SessionOpen,
		Products: []domain.SessionProduct{{ProductID: 1}},
	})
	f.store.AddSession(domain.Session{
		ID: 40, GuideID: 1, Date: date.AddDate(0, 0, 2), StartTime: "09:00", Status: domain.SessionOpen,
		Products: []domain.SessionProduct{{ProductID: 2}},
	})

	f.uc = NewUseCase(f.store.Sessions(), f.store.Bookings(), f.notifier, f.metrics, f.store.Tx(), "EUR", memstore.NopLogger{}).
		WithTimeProvider(memstore.FixedClock{T: now})
	return f
}

func TestExecute_EmptySessionDeletedUnconditionally(t *testing.T) {
	f := newFixture(t)

	resp, err := f.uc.Execute(context.Background(), &Request{GuideID: 1, SessionID: 30})
	require.NoError(t, err)

	assert.Equal(t, DispositionNone, resp.Disposition)
	assert.False(t, f.store.HasSession(30))
	assert.Equal(t, 1, f.metrics.Deletions["/empty"])
}

func TestExecute_DispositionRequired(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Execute(context.Background(), &Request{GuideID: 1, SessionID: 10})

	assert.True(t, errors.Is(err, ErrDispositionRequired))
	assert.True(t, f.store.HasSession(10))
}

func TestExecute_DeleteWithBookings(t *testing.T) {
	f := newFixture(t)

	resp, err := f.uc.Execute(context.Background(), &Request{GuideID: 1, SessionID: 10, Disposition: DispositionDeleteWithBookings})
	require.NoError(t, err)

	assert.Equal(t, 2, resp.CancelledBookings)
	assert.False(t, f.store.HasSession(10))
	assert.Empty(t, f.store.BookingsOf(10))

	assert.Equal(t, []notification.Template{notification.TemplateBookingCancelled, notification.TemplateBookingCancelled},
		f.notifier.Templates())
	assert.Equal(t, "cancelled", f.notifier.Messages[0].Variables["status"])
	assert.Equal(t, 1, f.metrics.Deletions["delete_with_bookings/deleted"])
}

func TestExecute_MoveToRelocatesEverything(t *testing.T) {
	f := newFixture(t)

	resp, err := f.uc.Execute(context.Background(), &Request{
		GuideID: 1, SessionID: 10, Disposition: DispositionMoveTo, TargetSessionID: ptr.Ptr(int64(30)),
	})
	require.NoError(t, err)

	assert.Equal(t, []int64{1, 2}, resp.MovedBookingIDs)
	assert.False(t, f.store.HasSession(10))
	assert.Len(t, f.store.BookingsOf(30), 2)
	assert.Empty(t, f.notifier.Messages)
}

func TestExecute_MoveToAbortsWhenOneBookingDoesNotFit(t *testing.T) {
	f := newFixture(t)
	before := f.store.BookingsOf(10)

	resp, err := f.uc.Execute(context.Background(), &Request{
		GuideID: 1, SessionID: 10, Disposition: DispositionMoveTo, TargetSessionID: ptr.Ptr(int64(20)),
	})

	assert.Nil(t, resp)
	assert.True(t, errors.Is(err, ErrDeletionAborted))
	assert.False(t, errors.Is(err, domain.ErrPartialMoveFailure))
	assert.False(t, errors.Is(err, domain.ErrInsufficientCapacity))

	var aborted *AbortedError
	require.True(t, errors.As(err, &aborted))
	require.Len(t, aborted.Failures, 1)
	assert.Equal(t, int64(2), aborted.Failures[0].BookingID)
	assert.True(t, errors.Is(aborted.Failures[0].Err, domain.ErrInsufficientCapacity))

	assert.True(t, f.store.HasSession(10))
	assert.Equal(t, before, f.store.BookingsOf(10))
	assert.Len(t, f.store.BookingsOf(20), 1)
	assert.Equal(t, 1, f.metrics.Deletions["move_to/aborted"])
}

func TestExecute_MoveToProductNotOffered(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Execute(context.Background(), &Request{
		GuideID: 1, SessionID: 10, Disposition: DispositionMoveTo, TargetSessionID: ptr.Ptr(int64(40)),
	})

	var aborted *AbortedError
	require.True(t, errors.As(err, &aborted))
	assert.Len(t, aborted.Failures, 2)
	assert.True(t, f.store.HasSession(10))
}

func TestExecute_StorageFailureMidMoveRollsBack(t *testing.T) {
	f := newFixture(t)
	f.store.FailMoveBookingID = 2
	before := f.store.BookingsOf(10)

	_, err := f.uc.Execute(context.Background(), &Request{
		GuideID: 1, SessionID: 10, Disposition: DispositionMoveTo, TargetSessionID: ptr.Ptr(int64(30)),
	})

	assert.True(t, errors.Is(err, ErrInternal))
	assert.Equal(t, before, f.store.BookingsOf(10))
	assert.Empty(t, f.store.BookingsOf(30))
}

func TestExecute_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.Execute(ctx, &Request{GuideID: 2, SessionID: 10, Disposition: DispositionDeleteWithBookings})
	assert.True(t, errors.Is(err, ErrAccessDenied))

	_, err = f.uc.Execute(ctx, &Request{GuideID: 1, SessionID: 99})
	assert.True(t, errors.Is(err, ErrSessionNotFound))

	_, err = f.uc.Execute(ctx, &Request{GuideID: 1, SessionID: 10, Disposition: DispositionMoveTo, TargetSessionID: ptr.Ptr(int64(99))})
	assert.True(t, errors.Is(err, ErrTargetNotFound))

	_, err = f.uc.Execute(ctx, &Request{GuideID: 1, SessionID: 10, Disposition: DispositionMoveTo})
	assert.True(t, errors.Is(err, ErrInvalidInput))

	_, err = f.uc.Execute(ctx, &Request{GuideID: 1, SessionID: 10, Disposition: "archive"})
	assert.True(t, errors.Is(err, ErrInvalidInput))

	assert.True(t, f.store.HasSession(10))
}
