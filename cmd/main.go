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
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cancelBookingHandler "github.com/uslugi-platform/booking-service/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/uslugi-platform/booking-service/internal/api/handlers/create_booking"
	createReviewHandler "github.com/uslugi-platform/booking-service/internal/api/handlers/create_review"
	createServiceHandler "github.com/uslugi-platform/booking-service/internal/api/handlers/create_service"
	getAvailableSlotsHandler "github.com/uslugi-platform/booking-service/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/uslugi-platform/booking-service/internal/api/handlers/get_booking"
	getBookingStatsHandler "github.com/uslugi-platform/booking-service/internal/api/handlers/get_booking_stats"
	getProviderBookingsHandler "github.com/uslugi-platform/booking-service/internal/api/handlers/get_provider_bookings"
	getProviderServicesHandler "github.com/uslugi-platform/booking-service/internal/api/handlers/get_provider_services"
	getServiceHandler "github.com/uslugi-platform/booking-service/internal/api/handlers/get_service"
	getServiceReviewsHandler "github.com/uslugi-platform/booking-service/internal/api/handlers/get_service_reviews"
	getUserBookingsHandler "github.com/uslugi-platform/booking-service/internal/api/handlers/get_user_bookings"
	getWorkingHoursHandler "github.com/uslugi-platform/booking-service/internal/api/handlers/get_working_hours"
	updateBookingStatusHandler "github.com/uslugi-platform/booking-service/internal/api/handlers/update_booking_status"
	updateServiceHandler "github.com/uslugi-platform/booking-service/internal/api/handlers/update_service"
	updateWorkingHoursHandler "github.com/uslugi-platform/booking-service/internal/api/handlers/update_working_hours"
	"github.com/uslugi-platform/booking-service/internal/api/middleware"
	"github.com/uslugi-platform/booking-service/internal/app"
	"github.com/uslugi-platform/booking-service/internal/config"
	"github.com/uslugi-platform/booking-service/internal/infra/notify"
	bookingRepo "github.com/uslugi-platform/booking-service/internal/infra/storage/booking"
	paymentRepo "github.com/uslugi-platform/booking-service/internal/infra/storage/payment"
	reviewRepo "github.com/uslugi-platform/booking-service/internal/infra/storage/review"
	serviceRepo "github.com/uslugi-platform/booking-service/internal/infra/storage/service"
	workingHoursRepo "github.com/uslugi-platform/booking-service/internal/infra/storage/workinghours"
	bookingsService "github.com/uslugi-platform/booking-service/internal/service/bookings"
	catalogService "github.com/uslugi-platform/booking-service/internal/service/catalog"
	"github.com/uslugi-platform/booking-service/internal/service/notifications"
	reviewsService "github.com/uslugi-platform/booking-service/internal/service/reviews"
	scheduleService "github.com/uslugi-platform/booking-service/internal/service/schedule"
	createBookingUC "github.com/uslugi-platform/booking-service/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/uslugi-platform/booking-service/internal/usecase/get_available_slots"
	"github.com/uslugi-platform/booking-service/pkg/dbmetrics"
	"github.com/uslugi-platform/booking-service/pkg/logger"
	"github.com/uslugi-platform/booking-service/pkg/metrics"
	"github.com/uslugi-platform/booking-service/pkg/simpletxmanager"
	"github.com/uslugi-platform/booking-service/pkg/txmanager"
)

func main() {
	// Загружаем .env (если есть) и конфигурацию
	_ = godotenv.Load()

	cfg, err := config.Load("config.toml")
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

	log.Info("Starting booking-service...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
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

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.Name)

	// Применяем миграции
	migrator, err := app.NewMigrator(db, cfg.Database.MigrationsPath, log)
	if err != nil {
		log.Fatal("Failed to initialize migrator: %v", err)
	}
	if err := migrator.Run(context.Background()); err != nil {
		log.Fatal("Failed to apply migrations: %v", err)
	}

	// Инициализируем publisher уведомлений
	var publisher notifications.Publisher
	if cfg.Rabbit.Enabled {
		rabbitPublisher, err := notify.NewPublisher(cfg.Rabbit.URL, cfg.Rabbit.Exchange)
		if err != nil {
			log.Fatal("Failed to connect to RabbitMQ: %v", err)
		}
		defer rabbitPublisher.Close()
		publisher = rabbitPublisher
		log.Info("RabbitMQ publisher initialized (exchange=%s)", cfg.Rabbit.Exchange)
	} else {
		publisher = notify.NoopPublisher{}
		log.Info("RabbitMQ disabled, notifications will be dropped")
	}

	// Интерфейс для transaction manager (используется в сервисах и usecases)
	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}

	// Инициализируем репозитории (с метриками или без)
	var (
		bookingRepository      *bookingRepo.Repository
		serviceRepository      *serviceRepo.Repository
		workingHoursRepository *workingHoursRepo.Repository
		paymentRepository      *paymentRepo.Repository
		reviewRepository       *reviewRepo.Repository
		txMgr                  TxManager
	)

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		serviceRepository = serviceRepo.NewRepository(wrappedDB)
		workingHoursRepository = workingHoursRepo.NewRepository(wrappedDB)
		paymentRepository = paymentRepo.NewRepository(wrappedDB)
		reviewRepository = reviewRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		serviceRepository = serviceRepo.NewRepository(db)
		workingHoursRepository = workingHoursRepo.NewRepository(db)
		paymentRepository = paymentRepo.NewRepository(db)
		reviewRepository = reviewRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Диспетчер уведомлений
	var dispatcherMetrics notifications.Metrics
	if metricsCollector != nil {
		dispatcherMetrics = metricsCollector
	}
	dispatcher := notifications.NewDispatcher(publisher, dispatcherMetrics, log)

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		paymentRepository,
		dispatcher,
		txMgr,
		log,
	)
	catalogSvc := catalogService.NewService(serviceRepository, log)
	scheduleSvc := scheduleService.NewService(workingHoursRepository, txMgr, log)
	reviewsSvc := reviewsService.NewService(reviewRepository, bookingRepository, log)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		serviceRepository,
		workingHoursRepository,
		dispatcher,
		txMgr,
		log,
	)
	getAvailableSlotsUseCase := getAvailableSlotsUC.New(
		bookingRepository,
		serviceRepository,
		workingHoursRepository,
		&getAvailableSlotsUC.RealTimeProvider{},
		log,
	)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	getProviderBookings := getProviderBookingsHandler.NewHandler(bookingSvc, log)
	getBookingStats := getBookingStatsHandler.NewHandler(bookingSvc, log)
	createService := createServiceHandler.NewHandler(catalogSvc, log)
	updateService := updateServiceHandler.NewHandler(catalogSvc, log)
	getService := getServiceHandler.NewHandler(catalogSvc, log)
	getProviderServices := getProviderServicesHandler.NewHandler(catalogSvc, log)
	getWorkingHours := getWorkingHoursHandler.NewHandler(scheduleSvc, log)
	updateWorkingHours := updateWorkingHoursHandler.NewHandler(scheduleSvc, log)
	createReview := createReviewHandler.NewHandler(reviewsSvc, log)
	getServiceReviews := getServiceReviewsHandler.NewHandler(reviewsSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	r.Use(middleware.Logging(log))

	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Доступные слоты услуги на дату
	api.HandleFunc("/services/{serviceId}/available-slots",
		getAvailableSlots.Handle).Methods(http.MethodGet)

	// Карточка услуги
	api.HandleFunc("/services/{serviceId}",
		getService.Handle).Methods(http.MethodGet)

	// Отзывы об услуге
	api.HandleFunc("/services/{serviceId}/reviews",
		getServiceReviews.Handle).Methods(http.MethodGet)

	// Каталог услуг провайдера: провайдер с X-User-ID видит
	// и деактивированные услуги
	api.Handle("/providers/{providerId}/services",
		middleware.OptionalAuth(http.HandlerFunc(getProviderServices.Handle))).Methods(http.MethodGet)

	// Расписание провайдера
	api.HandleFunc("/providers/{providerId}/working-hours",
		getWorkingHours.Handle).Methods(http.MethodGet)

	// Создание бронирования: доступно гостям, но если передан X-User-ID,
	// бронирование привязывается к пользователю
	api.Handle("/bookings",
		middleware.OptionalAuth(http.HandlerFunc(createBooking.Handle))).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/status", updateBookingStatus.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// История бронирований пользователя
	protected.HandleFunc("/users/{userId}/bookings", getUserBookings.Handle).Methods(http.MethodGet)

	// --- Кабинет провайдера ---
	protected.HandleFunc("/providers/{providerId}/bookings", getProviderBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/providers/{providerId}/bookings/stats", getBookingStats.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/providers/{providerId}/working-hours", updateWorkingHours.Handle).Methods(http.MethodPut)

	// --- Услуги ---
	protected.HandleFunc("/services", createService.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/services/{serviceId}", updateService.Handle).Methods(http.MethodPatch)

	// --- Отзывы ---
	protected.HandleFunc("/reviews", createReview.Handle).Methods(http.MethodPost)

	// Воркер напоминаний
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	var reminderWorker *app.ReminderWorker
	if cfg.Reminder.Enabled {
		reminderWorker = app.NewReminderWorker(
			bookingRepository,
			dispatcher,
			time.Duration(cfg.Reminder.IntervalSeconds)*time.Second,
			log,
		)
		reminderWorker.Start(workerCtx)
	}

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
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

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	if reminderWorker != nil {
		reminderWorker.Stop()
	}
	workerCancel()

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

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
