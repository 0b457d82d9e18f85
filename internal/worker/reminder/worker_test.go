package reminder

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
	"github.com/m04kA/guide-sessions/pkg/types"
)

var now = time.Date(2026, 6, 9, 10, 0, 0, 0, time.UTC)

func addSession(store *memstore.Store, id int64, date time.Time, start string, bookings ...*domain.Booking) {
	store.AddSession(domain.Session{
		ID: id, GuideID: 1, Date: date, StartTime: types.TimeString(start),
		Status: domain.SessionOpen, Products: []domain.SessionProduct{{ProductID: 1}},
		Bookings: bookings,
	})
}

func setup(t *testing.T) (*memstore.Store, *memstore.Notifier, *memstore.Metrics, *Worker) {
	t.Helper()
	store := memstore.New()
	store.AddProduct(domain.Product{ID: 1, GuideID: 1, Name: "Canyon A", MaxCapacity: 6})

	june9 := time.Date(2026, 6, 9, 0, 0, 0, 0, time.UTC)
	june10 := time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)

	addSession(store, 10, june10, "09:00",
		&domain.Booking{ID: 1, ProductID: 1, NumberOfPeople: 2, Status: domain.StatusConfirmed, Client: domain.Client{Email: "a@example.com"}},
		&domain.Booking{ID: 2, ProductID: 1, NumberOfPeople: 1, Status: domain.StatusCancelled},
		&domain.Booking{ID: 3, ProductID: 1, NumberOfPeople: 1, Status: domain.StatusPending, ReminderSentAt: ptr.Ptr(now.Add(-time.Hour))},
	)
	addSession(store, 11, june10, "12:00",
		&domain.Booking{ID: 4, ProductID: 1, NumberOfPeople: 1, Status: domain.StatusConfirmed},
	)
	addSession(store, 12, june9, "08:00",
		&domain.Booking{ID: 5, ProductID: 1, NumberOfPeople: 1, Status: domain.StatusConfirmed},
	)

	notifier := &memstore.Notifier{}
	m := memstore.NewMetrics()
	w := NewWorker(store.Bookings(), store.Sessions(), notifier, m, "EUR", time.Minute, 24*time.Hour, memstore.NopLogger{}).
		WithTimeProvider(memstore.FixedClock{T: now})
	return store, notifier, m, w
}

func TestWorker_RunOnce(t *testing.T) {
	store, notifier, m, w := setup(t)

	stats, err := w.RunOnce(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, stats.Sent)
	assert.Equal(t, 2, stats.Skipped)
	assert.Equal(t, 1, m.Reminders)

	require.Len(t, notifier.Messages, 1)
	msg := notifier.Messages[0]
	assert.Equal(t, notification.TemplateBookingReminder, msg.Template)
	assert.Equal(t, int64(1), msg.BookingID)
	assert.Equal(t, "Canyon A", msg.Variables["product_name"])

	b, _ := store.Booking(1)
	require.NotNil(t, b.ReminderSentAt)
	assert.Equal(t, now, *b.ReminderSentAt)

	untouched, _ := store.Booking(4)
	assert.Nil(t, untouched.ReminderSentAt)
}

func TestWorker_RunOnceIsIdempotent(t *testing.T) {
	_, notifier, _, w := setup(t)

	_, err := w.RunOnce(context.Background())
	require.NoError(t, err)
	stats, err := w.RunOnce(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, stats.Sent)
	assert.Len(t, notifier.Messages, 1)
}

func TestWorker_PublishFailureIsRetried(t *testing.T) {
	store, notifier, m, w := setup(t)
	notifier.Err = errors.New("broker down")

	stats, err := w.RunOnce(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, stats.Failed)
	assert.Equal(t, 1, m.NotificationFails)
	b, _ := store.Booking(1)
	assert.Nil(t, b.ReminderSentAt)

	notifier.Err = nil
	stats, err = w.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Sent)
}

func TestWorker_SessionAfterLocalMidnight(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	store := memstore.New()
	store.AddProduct(domain.Product{ID: 1, GuideID: 1, Name: "Canyon A", MaxCapacity: 6})

	// 00:30 10 июня по местному времени, в UTC это ещё 9 июня
	addSession(store, 20, time.Date(2026, 6, 10, 0, 0, 0, 0, loc), "00:30",
		&domain.Booking{ID: 7, ProductID: 1, NumberOfPeople: 2, Status: domain.StatusConfirmed},
	)

	evening := time.Date(2026, 6, 9, 20, 0, 0, 0, time.UTC)
	notifier := &memstore.Notifier{}
	w := NewWorker(store.Bookings(), store.Sessions(), notifier, memstore.NewMetrics(), "EUR", time.Minute, 2*time.Hour, memstore.NopLogger{}).
		WithLocation(loc).
		WithTimeProvider(memstore.FixedClock{T: evening})

	stats, err := w.RunOnce(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, stats.Sent)
	require.Len(t, notifier.Messages, 1)
	assert.Equal(t, int64(7), notifier.Messages[0].BookingID)
}

func TestWorker_StartStopsOnCancel(t *testing.T) {
	_, _, _, w := setup(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}
