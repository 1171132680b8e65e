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
	"github.com/redis/go-redis/v9"

	cancelBookingHandler "github.com/m04kA/SMC-InstantBookingService/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/m04kA/SMC-InstantBookingService/internal/api/handlers/create_booking"
	getAvailableSlotsHandler "github.com/m04kA/SMC-InstantBookingService/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/SMC-InstantBookingService/internal/api/handlers/get_booking"
	getQuoteHandler "github.com/m04kA/SMC-InstantBookingService/internal/api/handlers/get_quote"
	getUserBookingsHandler "github.com/m04kA/SMC-InstantBookingService/internal/api/handlers/get_user_bookings"
	"github.com/m04kA/SMC-InstantBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-InstantBookingService/internal/config"
	"github.com/m04kA/SMC-InstantBookingService/internal/infra/cache/slothold"
	bookingRepo "github.com/m04kA/SMC-InstantBookingService/internal/infra/storage/booking"
	membershipRepo "github.com/m04kA/SMC-InstantBookingService/internal/infra/storage/membership"
	pricingRepo "github.com/m04kA/SMC-InstantBookingService/internal/infra/storage/pricing"
	providerRepo "github.com/m04kA/SMC-InstantBookingService/internal/infra/storage/provider"
	"github.com/m04kA/SMC-InstantBookingService/internal/pricing"
	bookingsService "github.com/m04kA/SMC-InstantBookingService/internal/service/bookings"
	quoteService "github.com/m04kA/SMC-InstantBookingService/internal/service/quote"
	createBookingUC "github.com/m04kA/SMC-InstantBookingService/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/SMC-InstantBookingService/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-InstantBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-InstantBookingService/pkg/logger"
	"github.com/m04kA/SMC-InstantBookingService/pkg/metrics"
	"github.com/m04kA/SMC-InstantBookingService/pkg/txmanager"
)

func main() {
	configPath := "config.toml"
	if v, ok := os.LookupEnv("CONFIG_PATH"); ok {
		configPath = v
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

	log.Info("Starting SMC-InstantBookingService...")
	log.Info("Configuration loaded from %s", configPath)

	// Инициализируем метрики (если включены)
	// Методы коллектора безопасны для nil, поэтому при выключенных метриках он просто nil
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

	// Обёртка собирает длительность запросов и статистику пула; без метрик просто проксирует
	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Репозитории
	bookingRepository := bookingRepo.NewRepository(wrappedDB)
	providerRepository := providerRepo.NewRepository(wrappedDB)
	pricingRepository := pricingRepo.NewRepository(wrappedDB)
	membershipRepository := membershipRepo.NewRepository(wrappedDB)

	// Удержание расписания исполнителей в Redis
	var slotHolder createBookingUC.SlotHolder = slothold.NopHolder{}
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		pingCtx, cancelPing := context.WithTimeout(context.Background(), 3*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			// Не критично: запись защищена ограничением в БД
			log.Warn("Redis is not reachable at %s, holds will be skipped until it is: %v", cfg.Redis.Addr, err)
		} else {
			log.Info("Connected to Redis at %s", cfg.Redis.Addr)
		}
		cancelPing()

		slotHolder = slothold.NewRedisHolder(redisClient, cfg.Booking.HoldTTLDuration())
	} else {
		log.Info("Redis disabled, slot holds are off")
	}

	// Движок ценообразования
	policy, err := cfg.Pricing.Policy.Build()
	if err != nil {
		log.Fatal("Failed to build pricing policy: %v", err)
	}
	defaults, err := cfg.Pricing.Defaults()
	if err != nil {
		log.Fatal("Failed to parse pricing defaults: %v", err)
	}
	engine := pricing.NewEngine(cfg.Pricing.TaxRateDecimal(), policy.Factors()...)
	log.Info("Pricing engine initialized (tax_rate=%s, default_hourly_price=%s)",
		engine.TaxRate().String(), defaults.HourlyPrice.StringFixed(2))

	location, err := cfg.Booking.Location()
	if err != nil {
		log.Fatal("Failed to load timezone %s: %v", cfg.Booking.Timezone, err)
	}

	// Инициализируем сервисы
	quoteSvc := quoteService.NewService(
		providerRepository,
		bookingRepository,
		pricingRepository,
		membershipRepository,
		engine,
		quoteService.Defaults{
			HourlyPrice:   defaults.HourlyPrice,
			ServiceFeePct: defaults.ServiceFeePct,
			DemandIndex:   defaults.DemandIndex,
		},
		location,
		metricsCollector,
		log,
	)
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		providerRepository,
		log,
	)

	workdayStart, workdayEnd, err := cfg.Booking.Workday()
	if err != nil {
		log.Fatal("Failed to parse workday: %v", err)
	}

	// Инициализируем use cases
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		providerRepository,
		bookingRepository,
		getAvailableSlotsUC.Settings{
			WorkdayStart:       workdayStart,
			WorkdayEnd:         workdayEnd,
			StepMinutes:        cfg.Booking.SlotStep(),
			AdvanceBookingDays: cfg.Booking.AdvanceBookingDays,
			Location:           location,
		},
		log,
	)
	createBookingUseCase := createBookingUC.NewUseCase(
		quoteSvc,
		bookingRepository,
		membershipRepository,
		slotHolder,
		txMgr,
		metricsCollector,
		log,
	)

	// Инициализируем handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getQuote := getQuoteHandler.NewHandler(quoteSvc, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID(log))

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Получение доступных слотов по услуге
	api.HandleFunc("/services/{serviceId}/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// Подбор исполнителя и расчет цены без записи
	protected.HandleFunc("/quotes", getQuote.Handle).Methods(http.MethodPost)

	// --- Бронирования ---
	// Мгновенное бронирование
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// Получение бронирования по ID
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// Отмена бронирования
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// История бронирований клиента
	protected.HandleFunc("/users/{userId}/bookings", getUserBookings.Handle).Methods(http.MethodGet)

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

	// Останавливаем сбор статистики connection pool
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
