// Package reminder периодически рассылает напоминания о предстоящих сессиях
package reminder

import (
	"context"
	"errors"
	"time"

	"github.com/m04kA/guide-sessions/internal/domain"
	sessionRepo "github.com/m04kA/guide-sessions/internal/infra/storage/session"
	"github.com/m04kA/guide-sessions/internal/integrations/notification"
)

const (
	DefaultInterval = 15 * time.Minute
	DefaultLead     = 24 * time.Hour
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	ListDueReminders(ctx context.Context, from, to time.Time) ([]*domain.Booking, error)
	MarkReminderSent(ctx context.Context, id int64, at time.Time) error
}

// SessionRepository интерфейс репозитория сессий
type SessionRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Session, error)
}

// Notifier интерфейс публикации уведомлений
type Notifier interface {
	Publish(ctx context.Context, msg notification.Message) error
}

// Metrics бизнес-метрики
type Metrics interface {
	ReminderSent()
	NotificationFailed(template string)
}

// TimeProvider интерфейс для получения текущего времени
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

type realTimeProvider struct{}

func (realTimeProvider) Now() time.Time { return time.Now().UTC() }

// Stats результат одного прохода
type Stats struct {
	Sent    int
	Skipped int
	Failed  int
}

// Worker рассылает booking_reminder по бронированиям на сессии,
// которые начнутся в пределах lead
type Worker struct {
	bookingRepo  BookingRepository
	sessionRepo  SessionRepository
	notifier     Notifier
	metrics      Metrics
	currency     string
	interval     time.Duration
	lead         time.Duration
	location     *time.Location
	timeProvider TimeProvider
	logger       Logger
}

// NewWorker создает воркер напоминаний
func NewWorker(
	bookingRepo BookingRepository,
	sessionRepo SessionRepository,
	notifier Notifier,
	metrics Metrics,
	currency string,
	interval time.Duration,
	lead time.Duration,
	logger Logger,
) *Worker {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if lead <= 0 {
		lead = DefaultLead
	}
	if currency == "" {
		currency = domain.DefaultCurrency
	}
	return &Worker{
		bookingRepo:  bookingRepo,
		sessionRepo:  sessionRepo,
		notifier:     notifier,
		metrics:      metrics,
		currency:     currency,
		interval:     interval,
		lead:         lead,
		location:     time.UTC,
		timeProvider: realTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider устанавливает провайдер времени (для тестов)
func (w *Worker) WithTimeProvider(tp TimeProvider) *Worker {
	w.timeProvider = tp
	return w
}

// WithLocation задаёт пояс дат сессий для предварительной выборки
func (w *Worker) WithLocation(loc *time.Location) *Worker {
	if loc != nil {
		w.location = loc
	}
	return w
}

// Start запускает цикл до отмены контекста
func (w *Worker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("Reminder worker started: interval=%s, lead=%s", w.interval, w.lead)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Reminder worker stopped")
			return
		case <-ticker.C:
			if _, err := w.RunOnce(ctx); err != nil {
				w.logger.Error("Reminder worker: pass failed: %v", err)
			}
		}
	}
}

// RunOnce выполняет один проход.
// Бронирование, по которому не удалось опубликовать напоминание, не помечается и будет обработано в следующий раз
func (w *Worker) RunOnce(ctx context.Context) (Stats, error) {
	var stats Stats
	now := w.timeProvider.Now()
	deadline := now.Add(w.lead)

	due, err := w.bookingRepo.ListDueReminders(ctx, now.In(w.location), deadline.In(w.location))
	if err != nil {
		return stats, err
	}
	if len(due) == 0 {
		return stats, nil
	}

	sessions := make(map[int64]*domain.Session)

	for _, b := range due {
		select {
		case <-ctx.Done():
			w.logger.Info("RunOnce: interrupted by context cancellation")
			return stats, ctx.Err()
		default:
		}

		session, ok := sessions[b.SessionID]
		if !ok {
			session, err = w.sessionRepo.GetByID(ctx, b.SessionID)
			if err != nil {
				if errors.Is(err, sessionRepo.ErrSessionNotFound) {
					// сессию удалили между запросами
					stats.Skipped++
					continue
				}
				w.logger.Error("RunOnce: failed to load session id=%d: %v", b.SessionID, err)
				stats.Failed++
				continue
			}
			sessions[b.SessionID] = session
		}

		// выборка идёт по датам, точное окно проверяем по времени начала
		starts := session.StartsAt()
		if starts.Before(now) || starts.After(deadline) {
			stats.Skipped++
			continue
		}

		var product *domain.Product
		if sp, found := session.FindProduct(b.ProductID); found {
			product = sp.Product
		}

		msg := notification.NewMessage(notification.TemplateBookingReminder, b, session, product, w.currency, now)
		if err := w.notifier.Publish(ctx, msg); err != nil {
			w.metrics.NotificationFailed(string(msg.Template))
			w.logger.Error("RunOnce: failed to publish reminder for booking id=%d: %v", b.ID, err)
			stats.Failed++
			continue
		}

		if err := w.bookingRepo.MarkReminderSent(ctx, b.ID, now); err != nil {
			w.logger.Error("RunOnce: failed to mark reminder for booking id=%d: %v", b.ID, err)
			stats.Failed++
			continue
		}

		w.metrics.ReminderSent()
		stats.Sent++
	}

	w.logger.Info("RunOnce: reminders sent=%d, skipped=%d, failed=%d", stats.Sent, stats.Skipped, stats.Failed)
	if stats.Failed > 0 {
		w.logger.Warn("RunOnce: %d reminders will be retried on the next pass", stats.Failed)
	}

	return stats, nil
}
