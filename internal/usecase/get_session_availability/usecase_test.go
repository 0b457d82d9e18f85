package get_session_availability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/guide-sessions/internal/domain"
	"github.com/m04kA/guide-sessions/internal/testutil/memstore"
	"github.com/m04kA/guide-sessions/pkg/ptr"
)

var now = time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)

func setup(t *testing.T, date time.Time) (*memstore.Store, *UseCase) {
	t.Helper()
	store := memstore.New()
	store.AddProduct(domain.Product{ID: 1, GuideID: 1, Name: "Canyon A", MaxCapacity: 6, PriceIndividual: 70})
	store.AddProduct(domain.Product{ID: 2, GuideID: 1, Name: "Canyon B", MaxCapacity: 6, PriceIndividual: 60})
	store.AddSession(domain.Session{
		ID: 10, GuideID: 1, Date: date, StartTime: "09:00", IsMagicRotation: true, Status: domain.SessionOpen,
		Products: []domain.SessionProduct{
			{ProductID: 1, Position: 0},
			{ProductID: 2, Position: 1, PriceOverride: ptr.Ptr(55.0)},
		},
		Bookings: []*domain.Booking{{ID: 1, ProductID: 1, NumberOfPeople: 3, Status: domain.StatusConfirmed}},
	})

	uc := NewUseCase(store.Sessions(), memstore.NopLogger{}).WithTimeProvider(memstore.FixedClock{T: now})
	return store, uc
}

func TestExecute_RotationSession(t *testing.T) {
	_, uc := setup(t, time.Date(2026, 6, 5, 0, 0, 0, 0, time.UTC))

	resp, err := uc.Execute(context.Background(), &Request{SessionID: 10})
	require.NoError(t, err)
	require.Len(t, resp.Products, 2)

	assert.False(t, resp.IsPast)
	assert.True(t, resp.Products[0].Available)
	assert.Equal(t, 3, resp.Products[0].RemainingPlaces)
	assert.Equal(t, "Canyon A", resp.Products[0].ProductName)

	assert.False(t, resp.Products[1].Available)
	assert.Equal(t, domain.ReasonOtherProduct, resp.Products[1].Reason)
	assert.Equal(t, 55.0, resp.Products[1].PricePerPerson)
}

func TestExecute_PastSession(t *testing.T) {
	_, uc := setup(t, time.Date(2026, 5, 30, 0, 0, 0, 0, time.UTC))

	resp, err := uc.Execute(context.Background(), &Request{SessionID: 10})
	require.NoError(t, err)

	assert.True(t, resp.IsPast)
	for _, p := range resp.Products {
		assert.False(t, p.Available)
		assert.Equal(t, domain.ReasonClosed, p.Reason)
	}
}

func TestExecute_Errors(t *testing.T) {
	_, uc := setup(t, now)

	_, err := uc.Execute(context.Background(), &Request{SessionID: 99})
	assert.True(t, errors.Is(err, ErrSessionNotFound))

	_, err = uc.Execute(context.Background(), &Request{})
	assert.True(t, errors.Is(err, ErrInvalidInput))
}
