package get_calendar

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

var now = time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)

func day(d int) time.Time {
	return time.Date(2026, 6, d, 0, 0, 0, 0, time.UTC)
}

func session(id int64, date time.Time, rotation bool, productIDs ...int64) domain.Session {
	s := domain.Session{
		ID:              id,
		GuideID:         1,
		Date:            date,
		TimeSlot:        domain.TimeSlotMorning,
		StartTime:       "09:00",
		IsMagicRotation: rotation,
		Status:          domain.SessionOpen,
	}
	for i, pid := range productIDs {
		s.Products = append(s.Products, domain.SessionProduct{ProductID: pid, Position: i})
	}
	return s
}

func setup(t *testing.T) (*memstore.Store, *UseCase) {
	t.Helper()
	store := memstore.New()
	store.AddProduct(domain.Product{ID: 1, GuideID: 1, Name: "Canyon A", MaxCapacity: 4})
	store.AddProduct(domain.Product{ID: 2, GuideID: 1, Name: "Canyon B", MaxCapacity: 6})

	uc := NewUseCase(store.Products(), store.Sessions(), 60, memstore.NopLogger{}).
		WithTimeProvider(memstore.FixedClock{T: now})
	return store, uc
}

func TestExecute_StatusPerDate(t *testing.T) {
	store, uc := setup(t)

	// 1 июня: сессия в 07:00 уже началась
	past := session(10, day(1), false, 1)
	past.StartTime = "07:00"
	store.AddSession(past)

	// 2 июня: ротация, занята продуктом 2
	rotation := session(20, day(2), true, 1, 2)
	rotation.Bookings = []*domain.Booking{{ID: 1, ProductID: 2, NumberOfPeople: 3, Status: domain.StatusConfirmed}}
	store.AddSession(rotation)

	// 3 июня: все места проданы
	full := session(30, day(3), false, 1)
	full.Bookings = []*domain.Booking{{ID: 2, ProductID: 1, NumberOfPeople: 4, Status: domain.StatusPending}}
	store.AddSession(full)

	// 4 июня: закрытая сессия не мешает открытой
	closed := session(40, day(4), false, 1)
	closed.Status = domain.SessionClosed
	store.AddSession(closed)
	store.AddSession(session(41, day(4), false, 1))

	resp, err := uc.Execute(context.Background(), &Request{ProductID: 1, Days: 5})
	require.NoError(t, err)
	require.Len(t, resp.Days, 5)

	assert.Equal(t, day(1), resp.From)
	assert.Equal(t, domain.CalendarPast, resp.Days[0].Status)
	assert.Equal(t, domain.CalendarOtherProduct, resp.Days[1].Status)
	assert.Equal(t, domain.CalendarFull, resp.Days[2].Status)
	assert.Equal(t, domain.CalendarAvailable, resp.Days[3].Status)
	assert.Equal(t, domain.CalendarClosed, resp.Days[4].Status)

	require.Len(t, resp.Days[1].Competing, 1)
	competing := resp.Days[1].Competing[0]
	assert.Equal(t, int64(2), competing.ProductID)
	assert.Equal(t, "Canyon B", competing.ProductName)
	assert.Equal(t, int64(20), competing.SessionID)
	assert.Equal(t, domain.TimeSlotMorning, competing.TimeSlot)
}

func TestExecute_DefaultWindow(t *testing.T) {
	_, uc := setup(t)

	resp, err := uc.Execute(context.Background(), &Request{ProductID: 1})
	require.NoError(t, err)

	assert.Len(t, resp.Days, domain.DefaultCalendarWindowDays)
	for _, d := range resp.Days {
		assert.Equal(t, domain.CalendarClosed, d.Status)
	}
}

func TestExecute_IgnoresOtherGuidesAndProducts(t *testing.T) {
	store, uc := setup(t)

	foreign := session(50, day(2), false, 1)
	foreign.GuideID = 2
	store.AddSession(foreign)
	store.AddSession(session(51, day(3), false, 2))

	from := day(2)
	resp, err := uc.Execute(context.Background(), &Request{ProductID: 1, From: &from, Days: 2})
	require.NoError(t, err)

	assert.Equal(t, domain.CalendarClosed, resp.Days[0].Status)
	assert.Equal(t, domain.CalendarClosed, resp.Days[1].Status)
}

func TestExecute_TodayInConfiguredTimezone(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	store := memstore.New()
	store.AddProduct(domain.Product{ID: 1, GuideID: 1, Name: "Canyon A", MaxCapacity: 4})

	early := session(60, time.Date(2026, 6, 2, 0, 0, 0, 0, loc), false, 1)
	early.StartTime = "00:15"
	store.AddSession(early)
	store.AddSession(session(61, time.Date(2026, 6, 3, 0, 0, 0, 0, loc), false, 1))

	// в UTC ещё 1 июня, по местному времени уже 00:30 2 июня
	lateNight := time.Date(2026, 6, 1, 22, 30, 0, 0, time.UTC)
	uc := NewUseCase(store.Products(), store.Sessions(), 60, memstore.NopLogger{}).
		WithLocation(loc).
		WithTimeProvider(memstore.FixedClock{T: lateNight})

	resp, err := uc.Execute(context.Background(), &Request{ProductID: 1, Days: 2})
	require.NoError(t, err)
	require.Len(t, resp.Days, 2)

	assert.Equal(t, "2026-06-02", resp.From.Format(domain.DateFormat))
	assert.Equal(t, loc, resp.From.Location())
	assert.Equal(t, domain.CalendarPast, resp.Days[0].Status)
	assert.Equal(t, domain.CalendarAvailable, resp.Days[1].Status)
}

func TestExecute_Errors(t *testing.T) {
	_, uc := setup(t)

	_, err := uc.Execute(context.Background(), &Request{ProductID: 99})
	assert.True(t, errors.Is(err, ErrProductNotFound))

	_, err = uc.Execute(context.Background(), &Request{ProductID: 0})
	assert.True(t, errors.Is(err, ErrInvalidInput))
	assert.True(t, errors.Is(err, domain.ErrValidation))

	_, err = uc.Execute(context.Background(), &Request{ProductID: 1, Days: domain.MaxCalendarWindowDays + 1})
	assert.True(t, errors.Is(err, ErrInvalidInput))
}
