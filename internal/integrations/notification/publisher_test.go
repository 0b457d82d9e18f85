package notification

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/guide-sessions/internal/domain"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeChannel struct {
	key       string
	published []amqp.Publishing
	err       error
	closed    bool
}

func (f *fakeChannel) PublishWithContext(_ context.Context, _, key string, _, _ bool, msg amqp.Publishing) error {
	if f.err != nil {
		return f.err
	}
	f.key = key
	f.published = append(f.published, msg)
	return nil
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

func testMessage() Message {
	b := &domain.Booking{
		ID: 7, SessionID: 3, ProductID: 2, NumberOfPeople: 4, Status: domain.StatusConfirmed,
		TotalPrice: 200, DiscountAmount: 20, AmountPaid: 54,
		Client: domain.Client{Name: "Anna", Email: "anna@example.com"},
	}
	s := &domain.Session{ID: 3, GuideID: 1, Date: time.Date(2026, 7, 4, 0, 0, 0, 0, time.UTC), StartTime: "09:30", TimeSlot: domain.TimeSlotMorning}
	p := &domain.Product{ID: 2, Name: "Canyon du Diable", DurationMinutes: 180}
	return NewMessage(TemplatePaymentConfirmation, b, s, p, "EUR", time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC))
}

func TestNewMessage(t *testing.T) {
	msg := testMessage()

	assert.Equal(t, int64(1), msg.GuideID)
	assert.Equal(t, "180.00", msg.Variables["final_price"])
	assert.Equal(t, "126.00", msg.Variables["remaining_balance"])
	assert.Equal(t, "2026-07-04", msg.Variables["session_date"])
	assert.Equal(t, "09:30", msg.Variables["start_time"])
	assert.Equal(t, "Canyon du Diable", msg.Variables["product_name"])
}

func TestPublisher_Publish(t *testing.T) {
	ch := &fakeChannel{}
	p := &Publisher{channel: ch, queue: "notifications", log: nopLogger{}}

	require.NoError(t, p.Publish(context.Background(), testMessage()))

	require.Len(t, ch.published, 1)
	assert.Equal(t, "notifications", ch.key)
	assert.Equal(t, amqp.Persistent, ch.published[0].DeliveryMode)
	assert.Equal(t, string(TemplatePaymentConfirmation), ch.published[0].Type)

	var decoded Message
	require.NoError(t, json.Unmarshal(ch.published[0].Body, &decoded))
	assert.Equal(t, int64(7), decoded.BookingID)

	require.NoError(t, p.Close())
	assert.True(t, ch.closed)
}

func TestPublisher_PublishError(t *testing.T) {
	p := &Publisher{channel: &fakeChannel{err: errors.New("channel closed")}, queue: "q", log: nopLogger{}}

	err := p.Publish(context.Background(), testMessage())
	assert.True(t, errors.Is(err, ErrPublish))
}
