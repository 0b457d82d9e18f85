package duplicate_session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/guide-sessions/internal/domain"
	"github.com/m04kA/guide-sessions/internal/testutil/memstore"
	"github.com/m04kA/guide-sessions/pkg/ptr"
)

func setup(t *testing.T) (*memstore.Store, *UseCase) {
	t.Helper()
	store := memstore.New()
	store.AddProduct(domain.Product{ID: 1, GuideID: 1, MaxCapacity: 6})
	store.AddProduct(domain.Product{ID: 2, GuideID: 1, MaxCapacity: 4})
	store.AddSession(domain.Session{
		ID: 10, GuideID: 1, Date: monday, TimeSlot: domain.TimeSlotAfternoon, StartTime: "13:30",
		IsMagicRotation: true, Status: domain.SessionFull,
		Products: []domain.SessionProduct{
			{ProductID: 1, Position: 0, PriceOverride: ptr.Ptr(40.0)},
			{ProductID: 2, Position: 1, StatusOverride: ptr.Ptr(domain.SessionClosed)},
		},
		Bookings: []*domain.Booking{{ID: 1, ProductID: 1, NumberOfPeople: 2, Status: domain.StatusConfirmed}},
	})
	return store, NewUseCase(store.Sessions(), store.Tx(), memstore.NopLogger{})
}

func TestExecute_WeekendCopies(t *testing.T) {
	store, uc := setup(t)

	resp, err := uc.Execute(context.Background(), &Request{
		GuideID: 1, SessionID: 10, Mode: ModeWeekend, StartDate: ptrTime(monday), EndDate: ptrTime(date(13)),
	})
	require.NoError(t, err)
	require.Len(t, resp.Created, 4)
	assert.Equal(t, 5, store.SessionCount())

	for _, s := range resp.Created {
		stored, err := store.Sessions().GetByID(context.Background(), s.ID)
		require.NoError(t, err)

		assert.Equal(t, domain.TimeSlotAfternoon, stored.TimeSlot)
		assert.Equal(t, "13:30", stored.StartTime.String())
		assert.True(t, stored.IsMagicRotation)
		assert.Equal(t, domain.SessionOpen, stored.Status)
		assert.Empty(t, stored.Bookings)
		require.Len(t, stored.Products, 2)
		for _, sp := range stored.Products {
			assert.Nil(t, sp.PriceOverride)
			assert.Nil(t, sp.StatusOverride)
		}
		assert.Equal(t, int64(1), stored.Products[0].ProductID)
	}
}

func TestExecute_Errors(t *testing.T) {
	_, uc := setup(t)
	ctx := context.Background()

	_, err := uc.Execute(ctx, &Request{GuideID: 1, SessionID: 10, Mode: ModeCustom})
	assert.True(t, errors.Is(err, domain.ErrEmptyDateSet))

	_, err = uc.Execute(ctx, &Request{GuideID: 2, SessionID: 10, Mode: ModeCustom})
	assert.True(t, errors.Is(err, ErrAccessDenied))

	_, err = uc.Execute(ctx, &Request{GuideID: 1, SessionID: 99, Mode: ModeDaily})
	assert.True(t, errors.Is(err, ErrSessionNotFound))

	_, err = uc.Execute(ctx, &Request{GuideID: 1, SessionID: 10, Mode: "monthly"})
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestExecute_AllOrNothing(t *testing.T) {
	store, uc := setup(t)
	store.FailSessionCreate = errors.New("insert failed")

	_, err := uc.Execute(context.Background(), &Request{
		GuideID: 1, SessionID: 10, Mode: ModeDaily, StartDate: ptrTime(date(1)), EndDate: ptrTime(date(3)),
	})

	assert.True(t, errors.Is(err, ErrInternal))
	assert.Equal(t, 1, store.SessionCount())
}
