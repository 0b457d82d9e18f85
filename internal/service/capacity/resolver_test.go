package capacity

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/guide-sessions/internal/domain"
	"github.com/m04kA/guide-sessions/pkg/ptr"
)

func newSession(rotation bool, caps ...int) *domain.Session {
	s := &domain.Session{
		ID:              10,
		Date:            time.Date(2026, 7, 4, 0, 0, 0, 0, time.UTC),
		StartTime:       "09:00",
		IsMagicRotation: rotation,
		Status:          domain.SessionOpen,
	}
	for i, c := range caps {
		id := int64(i + 1)
		s.Products = append(s.Products, domain.SessionProduct{
			ProductID: id,
			Position:  i,
			Product:   &domain.Product{ID: id, MaxCapacity: c},
		})
	}
	return s
}

func book(s *domain.Session, productID int64, people int, status domain.BookingStatus) {
	s.Bookings = append(s.Bookings, &domain.Booking{
		ID:             int64(len(s.Bookings) + 1),
		SessionID:      s.ID,
		ProductID:      productID,
		NumberOfPeople: people,
		Status:         status,
	})
}

func TestResolve_RotationExclusivity(t *testing.T) {
	s := newSession(true, 6, 6)
	book(s, 1, 3, domain.StatusConfirmed)

	p1 := Resolve(s, 1)
	assert.True(t, p1.Available)
	assert.Equal(t, 3, p1.RemainingPlaces)

	p2 := Resolve(s, 2)
	assert.False(t, p2.Available)
	assert.Equal(t, domain.ReasonOtherProduct, p2.Reason)
	assert.Equal(t, []int64{1}, p2.BookedOtherProducts)
	assert.Equal(t, 0, p2.Booked)
}

func TestResolve_WithoutRotationProductsAreIndependent(t *testing.T) {
	s := newSession(false, 6, 6)
	book(s, 1, 3, domain.StatusConfirmed)

	p2 := Resolve(s, 2)
	assert.True(t, p2.Available)
	assert.Equal(t, 6, p2.RemainingPlaces)
	assert.True(t, p2.HasOtherProductBookings())
}

func TestResolve_CancelledBookingsIgnored(t *testing.T) {
	s := newSession(true, 6, 6)
	book(s, 1, 6, domain.StatusCancelled)

	p1 := Resolve(s, 1)
	p2 := Resolve(s, 2)

	assert.True(t, p1.Available)
	assert.Equal(t, 6, p1.RemainingPlaces)
	assert.True(t, p2.Available)
}

func TestResolve_Statuses(t *testing.T) {
	t.Run("closed session", func(t *testing.T) {
		s := newSession(false, 6)
		s.Status = domain.SessionClosed
		assert.Equal(t, domain.ReasonClosed, Resolve(s, 1).Reason)
	})

	t.Run("full status set by guide closes the session", func(t *testing.T) {
		s := newSession(false, 6)
		s.Status = domain.SessionFull
		a := Resolve(s, 1)
		assert.False(t, a.Available)
		assert.Equal(t, domain.ReasonClosed, a.Reason)
		assert.Equal(t, 0, a.RemainingPlaces)
	})

	t.Run("product marked full by override", func(t *testing.T) {
		s := newSession(false, 6, 6)
		s.Products[1].StatusOverride = ptr.Ptr(domain.SessionFull)
		assert.Equal(t, domain.ReasonClosed, Resolve(s, 2).Reason)
		assert.True(t, Resolve(s, 1).Available)
	})

	t.Run("product closed by override", func(t *testing.T) {
		s := newSession(false, 6, 6)
		s.Products[0].StatusOverride = ptr.Ptr(domain.SessionClosed)
		assert.Equal(t, domain.ReasonClosed, Resolve(s, 1).Reason)
		assert.True(t, Resolve(s, 2).Available)
	})

	t.Run("capacity reached", func(t *testing.T) {
		s := newSession(false, 4)
		book(s, 1, 2, domain.StatusPending)
		book(s, 1, 2, domain.StatusConfirmed)
		a := Resolve(s, 1)
		assert.False(t, a.Available)
		assert.Equal(t, domain.ReasonFull, a.Reason)
		assert.Equal(t, 0, a.RemainingPlaces)
	})

	t.Run("not offered", func(t *testing.T) {
		s := newSession(false, 4)
		assert.Equal(t, domain.ReasonNotOffered, Resolve(s, 99).Reason)
	})
}

func TestCheck(t *testing.T) {
	s := newSession(true, 6, 6)
	book(s, 1, 4, domain.StatusConfirmed)

	require.NoError(t, Check(s, 1, 2))

	err := Check(s, 1, 3)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInsufficientCapacity))
	var capErr *domain.CapacityError
	require.True(t, errors.As(err, &capErr))
	assert.Equal(t, int64(10), capErr.SessionID)
	assert.Equal(t, 2, capErr.Remaining)
	assert.Equal(t, 3, capErr.Requested)
	assert.Equal(t, domain.ReasonFull, capErr.Reason)

	err = Check(s, 2, 1)
	assert.True(t, errors.Is(err, domain.ErrInsufficientCapacity))
	require.True(t, errors.As(err, &capErr))
	assert.Equal(t, domain.ReasonOtherProduct, capErr.Reason)

	s.Status = domain.SessionClosed
	assert.True(t, errors.Is(Check(s, 1, 1), domain.ErrSessionClosed))

	assert.True(t, errors.Is(Check(s, 42, 1), domain.ErrValidation))
}

func TestResolveAll_FollowsPosition(t *testing.T) {
	s := newSession(true, 6, 8, 4)
	book(s, 2, 1, domain.StatusConfirmed)

	all := ResolveAll(s)
	require.Len(t, all, 3)
	assert.Equal(t, int64(1), all[0].ProductID)
	assert.False(t, all[0].Available)
	assert.True(t, all[1].Available)
	assert.Equal(t, 7, all[1].RemainingPlaces)
	assert.False(t, all[2].Available)
}

func TestSimulate_CumulativePlacement(t *testing.T) {
	target := newSession(false, 6, 4)
	book(target, 1, 2, domain.StatusConfirmed)

	incoming := []*domain.Booking{
		{ID: 101, ProductID: 1, NumberOfPeople: 3, Status: domain.StatusConfirmed},
		{ID: 102, ProductID: 1, NumberOfPeople: 2, Status: domain.StatusPending},
		{ID: 103, ProductID: 2, NumberOfPeople: 4, Status: domain.StatusConfirmed},
	}

	placements := Simulate(target, incoming)

	require.Len(t, placements, 3)
	assert.NoError(t, placements[0].Err)
	assert.True(t, errors.Is(placements[1].Err, domain.ErrInsufficientCapacity))
	assert.NoError(t, placements[2].Err)
	assert.False(t, AllPlaced(placements))

	assert.Len(t, target.Bookings, 1, "target must stay untouched")
}

func TestSimulate_RotationBlocksSecondProduct(t *testing.T) {
	target := newSession(true, 6, 6)

	placements := Simulate(target, []*domain.Booking{
		{ID: 1, ProductID: 1, NumberOfPeople: 2},
		{ID: 2, ProductID: 2, NumberOfPeople: 1},
	})

	assert.NoError(t, placements[0].Err)
	var capErr *domain.CapacityError
	require.True(t, errors.As(placements[1].Err, &capErr))
	assert.Equal(t, domain.ReasonOtherProduct, capErr.Reason)
}
