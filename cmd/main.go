package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cancelBookingHandler "github.com/m04kA/guide-sessions/internal/api/handlers/cancel_booking"
	confirmPaymentHandler "github.com/m04kA/guide-sessions/internal/api/handlers/confirm_payment"
	createBookingHandler "github.com/m04kA/guide-sessions/internal/api/handlers/create_booking"
	deleteSessionHandler "github.com/m04kA/guide-sessions/internal/api/handlers/delete_session"
	duplicateSessionHandler "github.com/m04kA/guide-sessions/internal/api/handlers/duplicate_session"
	findAlternativesHandler "github.com/m04kA/guide-sessions/internal/api/handlers/find_alternatives"
	getBookingHandler "github.com/m04kA/guide-sessions/internal/api/handlers/get_booking"
	getCalendarHandler "github.com/m04kA/guide-sessions/internal/api/handlers/get_calendar"
	getGuideSettingsHandler "github.com/m04kA/guide-sessions/internal/api/handlers/get_guide_settings"
	getSessionAvailabilityHandler "github.com/m04kA/guide-sessions/internal/api/handlers/get_session_availability"
	getSessionBookingsHandler "github.com/m04kA/guide-sessions/internal/api/handlers/get_session_bookings"
	moveBookingHandler "github.com/m04kA/guide-sessions/internal/api/handlers/move_booking"
	updateBookingStatusHandler "github.com/m04kA/guide-sessions/internal/api/handlers/update_booking_status"
	updateGuideSettingsHandler "github.com/m04kA/guide-sessions/internal/api/handlers/update_guide_settings"
	"github.com/m04kA/guide-sessions/internal/api/middleware"
	"github.com/m04kA/guide-sessions/internal/config"
	"github.com/m04kA/guide-sessions/internal/infra/cache/paymentintent"
	bookingRepo "github.com/m04kA/guide-sessions/internal/infra/storage/booking"
	guideRepo "github.com/m04kA/guide-sessions/internal/infra/storage/guide"
	productRepo "github.com/m04kA/guide-sessions/internal/infra/storage/product"
	sessionRepo "github.com/m04kA/guide-sessions/internal/infra/storage/session"
	voucherRepo "github.com/m04kA/guide-sessions/internal/infra/storage/voucher"
	"github.com/m04kA/guide-sessions/internal/integrations/notification"
	"github.com/m04kA/guide-sessions/internal/integrations/payment"
	"github.com/m04kA/guide-sessions/internal/service/allocator"
	bookingsService "github.com/m04kA/guide-sessions/internal/service/bookings"
	settingsService "github.com/m04kA/guide-sessions/internal/service/settings"
	confirmPaymentUC "github.com/m04kA/guide-sessions/internal/usecase/confirm_payment"
	createBookingUC "github.com/m04kA/guide-sessions/internal/usecase/create_booking"
	deleteSessionUC "github.com/m04kA/guide-sessions/internal/usecase/delete_session"
	duplicateSessionUC "github.com/m04kA/guide-sessions/internal/usecase/duplicate_session"
	findAlternativesUC "github.com/m04kA/guide-sessions/internal/usecase/find_alternatives"
	getCalendarUC "github.com/m04kA/guide-sessions/internal/usecase/get_calendar"
	getSessionAvailabilityUC "github.com/m04kA/guide-sessions/internal/usecase/get_session_availability"
	moveBookingUC "github.com/m04kA/guide-sessions/internal/usecase/move_booking"
	"github.com/m04kA/guide-sessions/internal/worker/reminder"
	"github.com/m04kA/guide-sessions/pkg/dbmetrics"
	"github.com/m04kA/guide-sessions/pkg/logger"
	"github.com/m04kA/guide-sessions/pkg/metrics"
	"github.com/m04kA/guide-sessions/pkg/txmanager"
)

// notificationPublisher общий интерфейс RabbitMQ и лог-публикатора
type notificationPublisher interface {
	Publish(ctx context.Context, msg notification.Message) error
	Close() error
}

func main() {
	configPath := "config.toml"
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		configPath = p
	}

	// Загружаем конфигурацию
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting guide-sessions...")
	log.Info("Configuration loaded from %s", configPath)

	// Инициализируем метрики (если включены). nil-коллектор ничего не пишет
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)

	txMgr := txmanager.NewTransactionManager(
		wrappedDB,
		txmanager.WithMaxRetries(cfg.Booking.SerializableRetries),
		txmanager.WithRetryObserver(metricsCollector),
	)

	location := cfg.Location()

	// Репозитории
	sessionRepository := sessionRepo.NewRepository(wrappedDB, location)
	bookingRepository := bookingRepo.NewRepository(wrappedDB)
	productRepository := productRepo.NewRepository(wrappedDB)
	guideRepository := guideRepo.NewRepository(wrappedDB)
	voucherRepository := voucherRepo.NewRepository(wrappedDB)

	// Черновики бронирований, ожидающих оплаты
	startCtx, startCancel := context.WithTimeout(context.Background(), 5*time.Second)
	redisClient, err := paymentintent.NewRedisClient(startCtx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	startCancel()
	if err != nil {
		log.Fatal("Failed to connect to redis: %v", err)
	}
	defer redisClient.Close()
	drafts := paymentintent.NewStore(redisClient, cfg.PaymentIntentTTL())
	log.Info("Payment intent store initialized (redis=%s, ttl=%s)", cfg.Redis.Addr, cfg.PaymentIntentTTL())

	// Уведомления
	var notifier notificationPublisher
	if cfg.RabbitMQ.Enabled {
		publisher, err := notification.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Queue, log)
		if err != nil {
			log.Fatal("Failed to connect to rabbitmq: %v", err)
		}
		notifier = publisher
		log.Info("Notifications published to queue %s", cfg.RabbitMQ.Queue)
	} else {
		notifier = notification.NewLogPublisher(log)
		log.Warn("RabbitMQ disabled, notifications are only logged")
	}
	defer notifier.Close()

	paymentClient := payment.NewClient(
		cfg.PaymentService.URL,
		time.Duration(cfg.PaymentService.Timeout)*time.Second,
		log,
	)
	log.Info("Payment client initialized (url=%s, timeout=%ds)", cfg.PaymentService.URL, cfg.PaymentService.Timeout)

	alloc := allocator.New(sessionRepository, bookingRepository, voucherRepository)
	currency := cfg.PaymentService.Currency

	// Сервисы
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		sessionRepository,
		notifier,
		metricsCollector,
		txMgr,
		currency,
		log,
	)
	settingsSvc := settingsService.NewService(guideRepository, log)

	// Use cases
	getCalendarUseCase := getCalendarUC.NewUseCase(productRepository, sessionRepository, cfg.Booking.CalendarWindowDays, log).
		WithLocation(location)
	getSessionAvailabilityUseCase := getSessionAvailabilityUC.NewUseCase(sessionRepository, log)
	createBookingUseCase := createBookingUC.NewUseCase(
		sessionRepository,
		productRepository,
		guideRepository,
		voucherRepository,
		alloc,
		paymentClient,
		drafts,
		notifier,
		metricsCollector,
		txMgr,
		log,
	)
	confirmPaymentUseCase := confirmPaymentUC.NewUseCase(drafts, paymentClient, alloc, notifier, metricsCollector, txMgr, log)
	moveBookingUseCase := moveBookingUC.NewUseCase(bookingRepository, sessionRepository, metricsCollector, txMgr, log)
	duplicateSessionUseCase := duplicateSessionUC.NewUseCase(sessionRepository, txMgr, log)
	deleteSessionUseCase := deleteSessionUC.NewUseCase(
		sessionRepository,
		bookingRepository,
		notifier,
		metricsCollector,
		txMgr,
		currency,
		log,
	)
	findAlternativesUseCase := findAlternativesUC.NewUseCase(sessionRepository, log)

	// Handlers
	getCalendar := getCalendarHandler.NewHandler(getCalendarUseCase, log)
	getSessionAvailability := getSessionAvailabilityHandler.NewHandler(getSessionAvailabilityUseCase, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	confirmPayment := confirmPaymentHandler.NewHandler(confirmPaymentUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(bookingSvc, log)
	getSessionBookings := getSessionBookingsHandler.NewHandler(bookingSvc, log)
	moveBooking := moveBookingHandler.NewHandler(moveBookingUseCase, log)
	duplicateSession := duplicateSessionHandler.NewHandler(duplicateSessionUseCase, log)
	deleteSession := deleteSessionHandler.NewHandler(deleteSessionUseCase, log)
	findAlternatives := findAlternativesHandler.NewHandler(findAlternativesUseCase, log)
	getGuideSettings := getGuideSettingsHandler.NewHandler(settingsSvc, log)
	updateGuideSettings := updateGuideSettingsHandler.NewHandler(settingsSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (клиентская витрина и callback платёжного сервиса)
	// ============================================================

	api.HandleFunc("/products/{productId}/calendar", getCalendar.Handle).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{sessionId}/availability", getSessionAvailability.Handle).Methods(http.MethodGet)
	api.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	api.HandleFunc("/payments/callback", confirmPayment.Handle).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (требуют X-Guide-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/status", updateBookingStatus.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/move", moveBooking.Handle).Methods(http.MethodPatch)

	// --- Сессии ---
	protected.HandleFunc("/sessions/{sessionId}/bookings", getSessionBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/sessions/{sessionId}/duplicate", duplicateSession.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/sessions/{sessionId}/alternatives", findAlternatives.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/sessions/{sessionId}", deleteSession.Handle).Methods(http.MethodDelete)

	// --- Настройки гида ---
	protected.HandleFunc("/guides/{guideId}/settings", getGuideSettings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/guides/{guideId}/settings", updateGuideSettings.Handle).Methods(http.MethodPut)

	// Фоновые задачи
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()

	if cfg.ReminderInterval() > 0 {
		reminderWorker := reminder.NewWorker(
			bookingRepository,
			sessionRepository,
			notifier,
			metricsCollector,
			currency,
			cfg.ReminderInterval(),
			cfg.ReminderLead(),
			log,
		).WithLocation(location)
		go reminderWorker.Start(workerCtx)
		log.Info("Reminder worker started (interval=%s, lead=%s)", cfg.ReminderInterval(), cfg.ReminderLead())
	} else {
		log.Info("Reminder worker disabled")
	}

	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	stopWorkers()
	close(stopMetricsCh)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
