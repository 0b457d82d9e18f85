package move_booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/guide-sessions/internal/domain"
	"github.com/m04kA/guide-sessions/internal/testutil/memstore"
)

func setup(t *testing.T) (*memstore.Store, *memstore.Metrics, *UseCase) {
	t.Helper()
	store := memstore.New()
	date := time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)

	store.AddProduct(domain.Product{ID: 1, GuideID: 1, MaxCapacity: 6})
	store.AddProduct(domain.Product{ID: 2, GuideID: 1, MaxCapacity: 6})

	store.AddSession(domain.Session{
		ID: 10, GuideID: 1, Date: date, StartTime: "09:00", Status: domain.SessionOpen,
		Products: []domain.SessionProduct{{ProductID: 1}},
		Bookings: []*domain.Booking{
			{ID: 1, ProductID: 1, NumberOfPeople: 4, Status: domain.StatusConfirmed, TotalPrice: 200, AmountPaid: 60},
			{ID: 2, ProductID: 1, NumberOfPeople: 1, Status: domain.StatusCancelled},
		},
	})
	store.AddSession(domain.Session{
		ID: 20, GuideID: 1, Date: date.AddDate(0, 0, 1), StartTime: "09:00", Status: domain.SessionOpen,
		Products: []domain.SessionProduct{{ProductID: 1}},
		Bookings: []*domain.Booking{{ID: 3, ProductID: 1, NumberOfPeople: 2, Status: domain.StatusPending}},
	})
	store.AddSession(domain.Session{
		ID: 30, GuideID: 1, Date: date.AddDate(0, 0, 2), StartTime: "09:00", IsMagicRotation: true, Status: domain.SessionOpen,
		Products: []domain.SessionProduct{{ProductID: 1}, {ProductID: 2}},
		Bookings: []*domain.Booking{{ID: 4, ProductID: 2, NumberOfPeople: 1, Status: domain.StatusConfirmed}},
	})
	store.AddSession(domain.Session{
		ID: 40, GuideID: 2, Date: date, StartTime: "09:00", Status: domain.SessionOpen,
		Products: []domain.SessionProduct{{ProductID: 1}},
	})

	metrics := memstore.NewMetrics()
	uc := NewUseCase(store.Bookings(), store.Sessions(), metrics, store.Tx(), memstore.NopLogger{})
	return store, metrics, uc
}

func TestExecute_Moves(t *testing.T) {
	store, _, uc := setup(t)
	before, _ := store.Booking(1)

	resp, err := uc.Execute(context.Background(), &Request{GuideID: 1, BookingID: 1, TargetSessionID: 20})
	require.NoError(t, err)

	assert.Equal(t, int64(10), resp.FromSessionID)
	assert.Equal(t, int64(20), resp.ToSessionID)

	after, _ := store.Booking(1)
	assert.Equal(t, int64(20), after.SessionID)
	assert.Equal(t, before.TotalPrice, after.TotalPrice)
	assert.Equal(t, before.AmountPaid, after.AmountPaid)
	assert.Equal(t, before.DiscountAmount, after.DiscountAmount)
	assert.Len(t, store.BookingsOf(20), 2)
}

func TestExecute_FailedMoveLeavesBookingUntouched(t *testing.T) {
	tests := []struct {
		name    string
		req     *Request
		wantErr error
	}{
		{"rotation blocked", &Request{GuideID: 1, BookingID: 1, TargetSessionID: 30}, domain.ErrInsufficientCapacity},
		{"other guide target", &Request{GuideID: 1, BookingID: 1, TargetSessionID: 40}, ErrDifferentGuide},
		{"foreign booking", &Request{GuideID: 2, BookingID: 1, TargetSessionID: 40}, ErrAccessDenied},
		{"missing target", &Request{GuideID: 1, BookingID: 1, TargetSessionID: 99}, ErrTargetNotFound},
		{"same session", &Request{GuideID: 1, BookingID: 1, TargetSessionID: 10}, ErrSameSession},
		{"cancelled booking", &Request{GuideID: 1, BookingID: 2, TargetSessionID: 20}, ErrBookingCancelled},
		{"missing booking", &Request{GuideID: 1, BookingID: 99, TargetSessionID: 20}, ErrBookingNotFound},
		{"invalid input", &Request{GuideID: 1, BookingID: 0, TargetSessionID: 20}, ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, _, uc := setup(t)
			before, _ := store.Booking(1)

			_, err := uc.Execute(context.Background(), tt.req)

			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			after, _ := store.Booking(1)
			assert.Equal(t, before, after)
		})
	}
}

func TestExecute_NotEnoughPlaces(t *testing.T) {
	store, metrics, uc := setup(t)
	store.AddBooking(domain.Booking{ID: 5, SessionID: 20, ProductID: 1, NumberOfPeople: 3, Status: domain.StatusConfirmed})

	_, err := uc.Execute(context.Background(), &Request{GuideID: 1, BookingID: 1, TargetSessionID: 20})

	var capErr *domain.CapacityError
	require.True(t, errors.As(err, &capErr))
	assert.Equal(t, int64(20), capErr.SessionID)
	assert.Equal(t, 1, capErr.Remaining)
	assert.Equal(t, 1, metrics.Conflicts["move/full"])

	b, _ := store.Booking(1)
	assert.Equal(t, int64(10), b.SessionID)
}

func TestExecute_StorageFailureRollsBack(t *testing.T) {
	store, _, uc := setup(t)
	store.FailMoveBookingID = 1

	_, err := uc.Execute(context.Background(), &Request{GuideID: 1, BookingID: 1, TargetSessionID: 20})

	assert.True(t, errors.Is(err, ErrInternal))
	b, _ := store.Booking(1)
	assert.Equal(t, int64(10), b.SessionID)
	assert.Equal(t, 1, store.Rollbacks)
}
