package get_calendar

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/guide-sessions/internal/domain"
)

func TestAggregateDay_PastAndFutureClosed(t *testing.T) {
	past := session(1, day(1), false, 1)
	past.StartTime = "07:00"
	past.Products[0].Product = &domain.Product{ID: 1, MaxCapacity: 4}

	closed := session(2, day(1), false, 1)
	closed.StartTime = "14:00"
	closed.Status = domain.SessionClosed

	got := aggregateDay(day(1), []*domain.Session{&past, &closed}, 1, now)
	assert.Equal(t, domain.CalendarClosed, got.Status)

	got = aggregateDay(day(1), []*domain.Session{&past}, 1, now)
	assert.Equal(t, domain.CalendarPast, got.Status)
}

func TestAggregateDay_FutureSessionOverridesPast(t *testing.T) {
	past := session(1, day(1), false, 1)
	past.StartTime = "07:00"

	future := session(2, day(1), false, 1)
	future.StartTime = "15:00"
	future.Products[0].Product = &domain.Product{ID: 1, MaxCapacity: 4}

	got := aggregateDay(day(1), []*domain.Session{&future, &past}, 1, now)
	assert.Equal(t, domain.CalendarAvailable, got.Status)
}

func TestAggregateDay_AvailableWinsOverOtherProduct(t *testing.T) {
	blocked := session(1, day(2), true, 1, 2)
	blocked.Products[0].Product = &domain.Product{ID: 1, MaxCapacity: 4}
	blocked.Products[1].Product = &domain.Product{ID: 2, Name: "B", MaxCapacity: 4}
	blocked.Bookings = []*domain.Booking{{ID: 1, ProductID: 2, NumberOfPeople: 1, Status: domain.StatusConfirmed}}

	open := session(2, day(2), false, 1)
	open.StartTime = "13:00"
	open.Products[0].Product = &domain.Product{ID: 1, MaxCapacity: 4}

	got := aggregateDay(day(2), []*domain.Session{&blocked, &open}, 1, now)
	assert.Equal(t, domain.CalendarAvailable, got.Status)
	assert.Empty(t, got.Competing)
}

func TestAggregateDay_FullTargetWithOtherBookingsIsOtherProduct(t *testing.T) {
	s := session(1, day(2), false, 1, 2)
	s.Products[0].Product = &domain.Product{ID: 1, MaxCapacity: 2}
	s.Products[1].Product = &domain.Product{ID: 2, Name: "B", MaxCapacity: 4}
	s.Bookings = []*domain.Booking{
		{ID: 1, ProductID: 1, NumberOfPeople: 2, Status: domain.StatusConfirmed},
		{ID: 2, ProductID: 2, NumberOfPeople: 1, Status: domain.StatusPending},
	}

	got := aggregateDay(day(2), []*domain.Session{&s}, 1, now)
	assert.Equal(t, domain.CalendarOtherProduct, got.Status)
	assert.Len(t, got.Competing, 1)
}

func TestAggregateDay_CancelledBookingsDoNotBlock(t *testing.T) {
	s := session(1, day(2), true, 1, 2)
	s.Products[0].Product = &domain.Product{ID: 1, MaxCapacity: 4}
	s.Products[1].Product = &domain.Product{ID: 2, MaxCapacity: 4}
	s.Bookings = []*domain.Booking{{ID: 1, ProductID: 2, NumberOfPeople: 3, Status: domain.StatusCancelled}}

	got := aggregateDay(day(2), []*domain.Session{&s}, 1, now)
	assert.Equal(t, domain.CalendarAvailable, got.Status)
}
