package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSession_BookedPeopleIgnoresCancelled(t *testing.T) {
	s := &Session{Bookings: []*Booking{
		{ProductID: 1, NumberOfPeople: 3, Status: StatusConfirmed},
		{ProductID: 1, NumberOfPeople: 2, Status: StatusCancelled},
		{ProductID: 2, NumberOfPeople: 4, Status: StatusPending},
	}}

	assert.Equal(t, 3, s.BookedPeople(1))
	assert.Equal(t, 4, s.BookedPeopleExcept(1))
	assert.Equal(t, []int64{1, 2}, s.BookedProductIDs())
	assert.Len(t, s.ActiveBookings(), 2)
}

func TestSortSessions(t *testing.T) {
	day := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	sessions := []*Session{
		{ID: 3, Date: day, StartTime: "13:30"},
		{ID: 2, Date: day.AddDate(0, 0, -1), StartTime: "14:00"},
		{ID: 1, Date: day, StartTime: "09:00"},
		{ID: 0, Date: day, StartTime: "09:00"},
	}

	SortSessions(sessions)

	ids := []int64{sessions[0].ID, sessions[1].ID, sessions[2].ID, sessions[3].ID}
	assert.Equal(t, []int64{2, 0, 1, 3}, ids)
}

func TestSession_IsPast(t *testing.T) {
	s := &Session{Date: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), StartTime: "09:00"}

	assert.True(t, s.IsPast(time.Date(2026, 6, 1, 9, 1, 0, 0, time.UTC)))
	assert.False(t, s.IsPast(time.Date(2026, 6, 1, 8, 59, 0, 0, time.UTC)))
}

func TestSession_StartsAtUsesDateLocation(t *testing.T) {
	paris := time.FixedZone("CEST", 2*60*60)
	s := &Session{Date: CivilDate(time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC), paris), StartTime: "09:00"}

	assert.Equal(t, "2026-06-10", s.Date.Format(DateFormat))
	assert.True(t, s.StartsAt().Equal(time.Date(2026, 6, 10, 7, 0, 0, 0, time.UTC)))

	// 08:30 UTC это 10:30 по местному времени, сессия уже началась
	assert.True(t, s.IsPast(time.Date(2026, 6, 10, 8, 30, 0, 0, time.UTC)))
	assert.False(t, s.IsPast(time.Date(2026, 6, 10, 6, 59, 0, 0, time.UTC)))
}

func TestVoucher_Limits(t *testing.T) {
	max := 2
	expires := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	v := &Voucher{MaxUsages: &max, UsageCount: 1, ExpiresAt: &expires}

	assert.True(t, v.CanBeUsedOnceMore())
	v.UsageCount = 2
	assert.False(t, v.CanBeUsedOnceMore())

	assert.False(t, v.IsExpired(expires.Add(-time.Second)))
	assert.True(t, v.IsExpired(expires))
}

func TestCapacityError_Unwrap(t *testing.T) {
	closed := &CapacityError{Reason: ReasonClosed}
	full := &CapacityError{Reason: ReasonFull}
	other := &CapacityError{Reason: ReasonOtherProduct}

	assert.True(t, errors.Is(closed, ErrSessionClosed))
	assert.False(t, errors.Is(closed, ErrInsufficientCapacity))
	assert.True(t, errors.Is(full, ErrInsufficientCapacity))
	assert.True(t, errors.Is(other, ErrInsufficientCapacity))
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("numberOfPeople", "must be at least 1")

	assert.True(t, errors.Is(err, ErrValidation))
	assert.Contains(t, err.Error(), "numberOfPeople")
}

func TestIsBusinessError(t *testing.T) {
	capErr := &CapacityError{SessionID: 1, Reason: ReasonOtherProduct}

	assert.True(t, IsBusinessError(capErr))
	assert.True(t, IsBusinessError(NewValidationError("x", "y")))
	assert.True(t, IsBusinessError(ErrVoucherExpired))
	assert.False(t, IsBusinessError(errors.New("boom")))

	assert.Equal(t, "other_product", ConflictReason(capErr))
	assert.Equal(t, "voucher_exhausted", ConflictReason(ErrVoucherExhausted))
}
