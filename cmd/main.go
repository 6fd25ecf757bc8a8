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

	cancelBookingHandler "github.com/avmakarov/DrivingSchool-BookingService/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/avmakarov/DrivingSchool-BookingService/internal/api/handlers/create_booking"
	creditQuotaHandler "github.com/avmakarov/DrivingSchool-BookingService/internal/api/handlers/credit_quota"
	getAvailableSlotsHandler "github.com/avmakarov/DrivingSchool-BookingService/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/avmakarov/DrivingSchool-BookingService/internal/api/handlers/get_booking"
	getQuotaHandler "github.com/avmakarov/DrivingSchool-BookingService/internal/api/handlers/get_quota"
	getQuotaHistoryHandler "github.com/avmakarov/DrivingSchool-BookingService/internal/api/handlers/get_quota_history"
	getScheduleConfigHandler "github.com/avmakarov/DrivingSchool-BookingService/internal/api/handlers/get_schedule_config"
	getUserBookingsHandler "github.com/avmakarov/DrivingSchool-BookingService/internal/api/handlers/get_user_bookings"
	updateScheduleConfigHandler "github.com/avmakarov/DrivingSchool-BookingService/internal/api/handlers/update_schedule_config"
	"github.com/avmakarov/DrivingSchool-BookingService/internal/api/middleware"
	"github.com/avmakarov/DrivingSchool-BookingService/internal/config"
	bookingRepo "github.com/avmakarov/DrivingSchool-BookingService/internal/infra/storage/booking"
	quotaRepo "github.com/avmakarov/DrivingSchool-BookingService/internal/infra/storage/quota"
	scheduleRepo "github.com/avmakarov/DrivingSchool-BookingService/internal/infra/storage/schedule"
	calendarServiceClient "github.com/avmakarov/DrivingSchool-BookingService/internal/integrations/calendarservice"
	bookingsService "github.com/avmakarov/DrivingSchool-BookingService/internal/service/bookings"
	quotaService "github.com/avmakarov/DrivingSchool-BookingService/internal/service/quota"
	scheduleService "github.com/avmakarov/DrivingSchool-BookingService/internal/service/schedule"
	createBookingUC "github.com/avmakarov/DrivingSchool-BookingService/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/avmakarov/DrivingSchool-BookingService/internal/usecase/get_available_slots"
	"github.com/avmakarov/DrivingSchool-BookingService/pkg/dbmetrics"
	"github.com/avmakarov/DrivingSchool-BookingService/pkg/logger"
	"github.com/avmakarov/DrivingSchool-BookingService/pkg/metrics"
	"github.com/avmakarov/DrivingSchool-BookingService/pkg/simpletxmanager"
	"github.com/avmakarov/DrivingSchool-BookingService/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
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

	log.Info("Starting DrivingSchool-BookingService...")
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
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Инициализируем клиента внешнего календарного коннектора
	calendarClient := calendarServiceClient.NewClient(
		cfg.CalendarService.URL,
		time.Duration(cfg.CalendarService.Timeout)*time.Second,
		log,
	)
	log.Info("Calendar connector client initialized (url=%s, timeout=%ds)",
		cfg.CalendarService.URL, cfg.CalendarService.Timeout)

	// Инициализируем репозитории (с метриками или без)
	var (
		bookingRepository  *bookingRepo.Repository
		quotaRepository    *quotaRepo.Repository
		scheduleRepository *scheduleRepo.Repository
	)

	// Интерфейс для transaction manager (используется в usecases и сервисах)
	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		quotaRepository = quotaRepo.NewRepository(wrappedDB)
		scheduleRepository = scheduleRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		quotaRepository = quotaRepo.NewRepository(db)
		scheduleRepository = scheduleRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		quotaRepository,
		txMgr,
		log,
	)
	quotaSvc := quotaService.NewService(
		quotaRepository,
		txMgr,
		log,
	)
	scheduleSvc := scheduleService.NewService(
		scheduleRepository,
		txMgr,
		log,
	)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		quotaRepository,
		scheduleRepository,
		calendarClient,
		txMgr,
		log,
	)

	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		bookingRepository,
		scheduleRepository,
		calendarClient,
		log,
	)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	getQuota := getQuotaHandler.NewHandler(quotaSvc, log)
	creditQuota := creditQuotaHandler.NewHandler(quotaSvc, log)
	getQuotaHistory := getQuotaHistoryHandler.NewHandler(quotaSvc, log)
	getScheduleConfig := getScheduleConfigHandler.NewHandler(scheduleSvc, log)
	updateScheduleConfig := updateScheduleConfigHandler.NewHandler(scheduleSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Доступные слоты на дату
	api.HandleFunc("/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// Конфигурация расписания школы
	api.HandleFunc("/schedule-config", getScheduleConfig.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	// Создание бронирования
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// Получение бронирования по ID
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// Отмена бронирования
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// История бронирований пользователя
	protected.HandleFunc("/users/{userId}/bookings", getUserBookings.Handle).Methods(http.MethodGet)

	// --- Квота часов ---
	// Баланс квоты
	protected.HandleFunc("/users/{userId}/quota", getQuota.Handle).Methods(http.MethodGet)

	// Пополнение квоты
	protected.HandleFunc("/users/{userId}/quota/credit", creditQuota.Handle).Methods(http.MethodPost)

	// История операций с квотой
	protected.HandleFunc("/users/{userId}/quota/transactions", getQuotaHistory.Handle).Methods(http.MethodGet)

	// --- Расписание (школьная сторона) ---
	// Обновление конфигурации расписания и политики буфера
	protected.HandleFunc("/schedule-config", updateScheduleConfig.Handle).Methods(http.MethodPut)

	// Создаем HTTP сервер
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

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

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
