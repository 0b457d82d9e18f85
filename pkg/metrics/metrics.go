package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics набор метрик сервиса
type Metrics struct {
	// HTTP
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// База данных
	DBQueryDuration  *prometheus.HistogramVec
	DBOpenConns      *prometheus.GaugeVec
	DBInUseConns     *prometheus.GaugeVec
	DBIdleConns      *prometheus.GaugeVec
	DBWaitCount      *prometheus.GaugeVec
	DBTxRetriesTotal *prometheus.CounterVec

	// Движок бронирований
	BookingsCommittedTotal   *prometheus.CounterVec
	CapacityConflictsTotal   *prometheus.CounterVec
	PaymentIntentsTotal      *prometheus.CounterVec
	SessionDeletionsTotal    *prometheus.CounterVec
	NotificationsFailedTotal *prometheus.CounterVec
	RemindersSentTotal       *prometheus.CounterVec
}

// New регистрирует метрики в глобальном реестре prometheus
func New(serviceName string) *Metrics {
	return NewWithRegistry(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegistry регистрирует метрики в указанном реестре
func NewWithRegistry(serviceName string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	constLabels := prometheus.Labels{"service": serviceName}

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "route", "status"}),

		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),

		DBQueryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query duration in seconds",
			ConstLabels: constLabels,
			Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),

		DBOpenConns: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_open_connections",
			Help:        "Number of established connections",
			ConstLabels: constLabels,
		}, []string{}),

		DBInUseConns: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_in_use_connections",
			Help:        "Number of connections currently in use",
			ConstLabels: constLabels,
		}, []string{}),

		DBIdleConns: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_idle_connections",
			Help:        "Number of idle connections",
			ConstLabels: constLabels,
		}, []string{}),

		DBWaitCount: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_wait_count",
			Help:        "Total number of connections waited for",
			ConstLabels: constLabels,
		}, []string{}),

		DBTxRetriesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_tx_retries_total",
			Help:        "Serializable transactions retried after a serialization failure",
			ConstLabels: constLabels,
		}, []string{}),

		BookingsCommittedTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "bookings_committed_total",
			Help:        "Bookings committed, by origin (direct, payment)",
			ConstLabels: constLabels,
		}, []string{"origin"}),

		CapacityConflictsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "capacity_conflicts_total",
			Help:        "Operations rejected by the capacity resolver, by operation and reason",
			ConstLabels: constLabels,
		}, []string{"operation", "reason"}),

		PaymentIntentsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "payment_intents_total",
			Help:        "Payment intents by outcome (created, confirmed, failed, not_fulfillable)",
			ConstLabels: constLabels,
		}, []string{"outcome"}),

		SessionDeletionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "session_deletions_total",
			Help:        "Session deletions by disposition and outcome",
			ConstLabels: constLabels,
		}, []string{"disposition", "outcome"}),

		NotificationsFailedTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "notifications_failed_total",
			Help:        "Notifications that could not be published, by template",
			ConstLabels: constLabels,
		}, []string{"template"}),

		RemindersSentTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "reminders_sent_total",
			Help:        "Booking reminders published by the reminder worker",
			ConstLabels: constLabels,
		}, []string{}),
	}
}

// BookingCommitted учитывает зафиксированное бронирование
// Нулевой *Metrics допустим: все методы-счётчики ничего не делают
func (m *Metrics) BookingCommitted(origin string) {
	if m == nil {
		return
	}
	m.BookingsCommittedTotal.WithLabelValues(origin).Inc()
}

// CapacityConflict учитывает отказ резолвера вместимости
func (m *Metrics) CapacityConflict(operation, reason string) {
	if m == nil {
		return
	}
	m.CapacityConflictsTotal.WithLabelValues(operation, reason).Inc()
}

// PaymentIntent учитывает исход платёжного намерения
func (m *Metrics) PaymentIntent(outcome string) {
	if m == nil {
		return
	}
	m.PaymentIntentsTotal.WithLabelValues(outcome).Inc()
}

// SessionDeletion учитывает удаление сессии
func (m *Metrics) SessionDeletion(disposition, outcome string) {
	if m == nil {
		return
	}
	m.SessionDeletionsTotal.WithLabelValues(disposition, outcome).Inc()
}

// NotificationFailed учитывает неотправленное уведомление
func (m *Metrics) NotificationFailed(template string) {
	if m == nil {
		return
	}
	m.NotificationsFailedTotal.WithLabelValues(template).Inc()
}

// TxRetried учитывает повтор сериализуемой транзакции
func (m *Metrics) TxRetried() {
	if m == nil {
		return
	}
	m.DBTxRetriesTotal.WithLabelValues().Inc()
}

// ReminderSent учитывает отправленное напоминание
func (m *Metrics) ReminderSent() {
	if m == nil {
		return
	}
	m.RemindersSentTotal.WithLabelValues().Inc()
}
