package memstore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/m04kA/guide-sessions/internal/domain"
	"github.com/m04kA/guide-sessions/internal/infra/cache/paymentintent"
	"github.com/m04kA/guide-sessions/internal/integrations/notification"
	"github.com/m04kA/guide-sessions/internal/integrations/payment"
)

// NopLogger логгер, который ничего не пишет
type NopLogger struct{}

func (NopLogger) Info(string, ...interface{})  {}
func (NopLogger) Warn(string, ...interface{})  {}
func (NopLogger) Error(string, ...interface{}) {}

// FixedClock провайдер фиксированного времени
type FixedClock struct {
	T time.Time
}

// Now возвращает фиксированное время
func (c FixedClock) Now() time.Time { return c.T }

// Notifier запоминает опубликованные уведомления
type Notifier struct {
	mu       sync.Mutex
	Messages []notification.Message
	Err      error
}

// Publish сохраняет сообщение
func (n *Notifier) Publish(_ context.Context, msg notification.Message) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.Err != nil {
		return n.Err
	}
	n.Messages = append(n.Messages, msg)
	return nil
}

// Templates возвращает шаблоны опубликованных сообщений
func (n *Notifier) Templates() []notification.Template {
	n.mu.Lock()
	defer n.mu.Unlock()
	result := make([]notification.Template, 0, len(n.Messages))
	for _, m := range n.Messages {
		result = append(result, m.Template)
	}
	return result
}

// Metrics счётчики бизнес-метрик
type Metrics struct {
	mu                sync.Mutex
	Committed         map[string]int
	Conflicts         map[string]int
	Intents           map[string]int
	Deletions         map[string]int
	NotificationFails int
	Reminders         int
}

// NewMetrics создает пустые счётчики
func NewMetrics() *Metrics {
	return &Metrics{
		Committed: map[string]int{},
		Conflicts: map[string]int{},
		Intents:   map[string]int{},
		Deletions: map[string]int{},
	}
}

func (m *Metrics) BookingCommitted(origin string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Committed[origin]++
}

func (m *Metrics) CapacityConflict(operation, reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Conflicts[operation+"/"+reason]++
}

func (m *Metrics) PaymentIntent(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Intents[outcome]++
}

func (m *Metrics) SessionDeletion(disposition, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Deletions[disposition+"/"+outcome]++
}

func (m *Metrics) NotificationFailed(string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.NotificationFails++
}

// PaymentClient фейковый платёжный сервис
type PaymentClient struct {
	mu       sync.Mutex
	Requests []payment.IntentRequest
	Err      error
	seq      int
	intents  map[string]payment.Intent
}

// CreateIntent создает намерение с handle pi_<n>
func (c *PaymentClient) CreateIntent(_ context.Context, in payment.IntentRequest) (*payment.Intent, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return nil, c.Err
	}
	c.seq++
	c.Requests = append(c.Requests, in)
	intent := payment.Intent{
		Handle:      fmt.Sprintf("pi_%d", c.seq),
		Status:      payment.StatusRequiresPayment,
		Amount:      in.Amount,
		Currency:    in.Currency,
		CheckoutURL: fmt.Sprintf("https://pay.example.com/pi_%d", c.seq),
	}
	c.put(intent)
	return &intent, nil
}

// GetIntent возвращает сохранённое намерение
func (c *PaymentClient) GetIntent(_ context.Context, handle string) (*payment.Intent, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return nil, c.Err
	}
	intent, ok := c.intents[handle]
	if !ok {
		return nil, payment.ErrIntentNotFound
	}
	return &intent, nil
}

// SetIntent сохраняет намерение как есть
func (c *PaymentClient) SetIntent(intent payment.Intent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.put(intent)
}

// Pay переводит намерение в succeeded
func (c *PaymentClient) Pay(handle, reference string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	intent := c.intents[handle]
	intent.Handle = handle
	intent.Status = payment.StatusSucceeded
	intent.Reference = reference
	c.put(intent)
}

func (c *PaymentClient) put(intent payment.Intent) {
	if c.intents == nil {
		c.intents = map[string]payment.Intent{}
	}
	c.intents[intent.Handle] = intent
}

// Drafts хранилище черновиков в памяти
type Drafts struct {
	mu      sync.Mutex
	drafts  map[string]domain.BookingDraft
	claimed map[string]bool
}

// NewDrafts создает хранилище черновиков
func NewDrafts() *Drafts {
	return &Drafts{drafts: map[string]domain.BookingDraft{}, claimed: map[string]bool{}}
}

// Save сохраняет черновик
func (d *Drafts) Save(_ context.Context, draft *domain.BookingDraft) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.drafts[draft.IntentHandle] = *draft
	return nil
}

// Get возвращает черновик
func (d *Drafts) Get(_ context.Context, handle string) (*domain.BookingDraft, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	draft, ok := d.drafts[handle]
	if !ok {
		return nil, paymentintent.ErrDraftNotFound
	}
	return &draft, nil
}

// Claim захватывает черновик
func (d *Drafts) Claim(_ context.Context, handle string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.claimed[handle] {
		return paymentintent.ErrAlreadyClaimed
	}
	d.claimed[handle] = true
	return nil
}

// Release снимает захват
func (d *Drafts) Release(_ context.Context, handle string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.claimed, handle)
	return nil
}

// Delete удаляет черновик
func (d *Drafts) Delete(_ context.Context, handle string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.drafts, handle)
	delete(d.claimed, handle)
	return nil
}

// Len количество черновиков
func (d *Drafts) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.drafts)
}

func (m *Metrics) ReminderSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Reminders++
}
