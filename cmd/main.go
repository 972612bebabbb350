package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	bookingStatsHandler "github.com/sportafit/booking-service/internal/api/handlers/booking_stats"
	cancelBookingHandler "github.com/sportafit/booking-service/internal/api/handlers/cancel_booking"
	claimVoucherHandler "github.com/sportafit/booking-service/internal/api/handlers/claim_voucher"
	createBookingHandler "github.com/sportafit/booking-service/internal/api/handlers/create_booking"
	getAvailableSlotsHandler "github.com/sportafit/booking-service/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/sportafit/booking-service/internal/api/handlers/get_booking"
	getUserBookingsHandler "github.com/sportafit/booking-service/internal/api/handlers/get_user_bookings"
	getUserVouchersHandler "github.com/sportafit/booking-service/internal/api/handlers/get_user_vouchers"
	healthHandler "github.com/sportafit/booking-service/internal/api/handlers/health"
	listBookingsHandler "github.com/sportafit/booking-service/internal/api/handlers/list_bookings"
	loginHandler "github.com/sportafit/booking-service/internal/api/handlers/login"
	previewBookingHandler "github.com/sportafit/booking-service/internal/api/handlers/preview_booking"
	streamEventsHandler "github.com/sportafit/booking-service/internal/api/handlers/stream_events"
	updateBookingHandler "github.com/sportafit/booking-service/internal/api/handlers/update_booking"
	"github.com/sportafit/booking-service/internal/api/middleware"
	"github.com/sportafit/booking-service/internal/config"
	paymentConsumer "github.com/sportafit/booking-service/internal/consumer/payment"
	"github.com/sportafit/booking-service/internal/infra/events"
	"github.com/sportafit/booking-service/internal/infra/events/amqpsink"
	"github.com/sportafit/booking-service/internal/infra/events/redisbus"
	bookingRepo "github.com/sportafit/booking-service/internal/infra/storage/booking"
	courtRepo "github.com/sportafit/booking-service/internal/infra/storage/court"
	userRepo "github.com/sportafit/booking-service/internal/infra/storage/user"
	voucherRepo "github.com/sportafit/booking-service/internal/infra/storage/voucher"
	"github.com/sportafit/booking-service/internal/jobs"
	bookingsService "github.com/sportafit/booking-service/internal/service/bookings"
	vouchersService "github.com/sportafit/booking-service/internal/service/vouchers"
	createBookingUC "github.com/sportafit/booking-service/internal/usecase/create_booking"
	expireBookingsUC "github.com/sportafit/booking-service/internal/usecase/expire_bookings"
	getAvailableSlotsUC "github.com/sportafit/booking-service/internal/usecase/get_available_slots"
	loginUC "github.com/sportafit/booking-service/internal/usecase/login"
	previewBookingUC "github.com/sportafit/booking-service/internal/usecase/preview_booking"
	"github.com/sportafit/booking-service/pkg/auth"
	"github.com/sportafit/booking-service/pkg/dbmetrics"
	"github.com/sportafit/booking-service/pkg/logger"
	"github.com/sportafit/booking-service/pkg/metrics"
	"github.com/sportafit/booking-service/pkg/mq"
	"github.com/sportafit/booking-service/pkg/txmanager"
)

func main() {
	configPath := os.Getenv("SPORTAFIT_CONFIG")
	if configPath == "" {
		configPath = "config.toml"
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

	log.Info("Starting SportaFit booking service...")
	log.Info("Configuration loaded from %s", configPath)

	location, _ := cfg.Booking.Location() // проверено в Validate

	// Метрики (nil коллектор безопасен, все методы его проверяют)
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

	// Репозитории
	bookingRepository := bookingRepo.NewRepository(wrappedDB)
	courtRepository := courtRepo.NewRepository(wrappedDB)
	voucherRepository := voucherRepo.NewRepository(wrappedDB)
	userRepository := userRepo.NewRepository(wrappedDB)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Контекст фоновых процессов, отменяется при остановке
	bgCtx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()
	var background sync.WaitGroup

	// События: локальный хаб SSE, опционально Redis мост и RabbitMQ
	hub := events.NewHub(cfg.Events.SubscriberBuffer, metricsCollector, log)
	var transports []events.Transport

	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := redisClient.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			log.Fatal("Failed to ping redis at %s: %v", cfg.Redis.Addr, err)
		}

		bus := redisbus.New(redisClient, cfg.Redis.Channel, hub, log)
		transports = append(transports, bus)

		background.Add(1)
		go func() {
			defer background.Done()
			if err := bus.Run(bgCtx); err != nil {
				log.Error("Redis event bus stopped: %v", err)
			}
		}()
		log.Info("Redis event bus enabled (addr=%s, channel=%s)", cfg.Redis.Addr, cfg.Redis.Channel)
	} else {
		// без Redis события доставляются только подписчикам этого экземпляра
		transports = append(transports, hub)
	}

	var (
		publisher *mq.Publisher
		consumer  *mq.Consumer
	)
	if cfg.RabbitMQ.Enabled {
		publisher, err = mq.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.BookingExchange)
		if err != nil {
			log.Fatal("Failed to connect to rabbitmq publisher: %v", err)
		}
		defer publisher.Close()
		transports = append(transports, amqpsink.New(publisher))
		log.Info("RabbitMQ booking events enabled (exchange=%s)", cfg.RabbitMQ.BookingExchange)
	}

	relay := events.NewRelay(metricsCollector, transports...)
	timeProvider := &createBookingUC.RealTimeProvider{}

	// Сервисы
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		txMgr,
		relay,
		metricsCollector,
		timeProvider,
		location,
		log,
	)
	voucherSvc := vouchersService.NewService(voucherRepository, timeProvider, log)

	// Use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		courtRepository,
		voucherRepository,
		txMgr,
		relay,
		createBookingUC.Settings{
			ExpiryWindow:        cfg.Booking.ExpiryWindow(),
			ServiceFee:          cfg.Booking.ServiceFee,
			SlotDurationMinutes: cfg.Booking.SlotDurationMinutes,
			Location:            location,
		},
		timeProvider,
		log,
	)
	previewBookingUseCase := previewBookingUC.NewUseCase(
		courtRepository,
		bookingRepository,
		voucherRepository,
		previewBookingUC.Settings{
			ServiceFee:          cfg.Booking.ServiceFee,
			SlotDurationMinutes: cfg.Booking.SlotDurationMinutes,
			Location:            location,
		},
		timeProvider,
		log,
	)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		bookingRepository,
		courtRepository,
		getAvailableSlotsUC.Settings{
			SlotDurationMinutes: cfg.Booking.SlotDurationMinutes,
			Location:            location,
		},
		timeProvider,
		log,
	)
	expireBookingsUseCase := expireBookingsUC.NewUseCase(
		bookingRepository,
		relay,
		metricsCollector,
		cfg.Booking.SweepBatchSize,
		timeProvider,
		log,
	)

	issuer := auth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL())
	loginUseCase := loginUC.NewUseCase(userRepository, issuer, log)

	// Handlers
	login := loginHandler.NewHandler(loginUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	previewBooking := previewBookingHandler.NewHandler(previewBookingUseCase, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	bookingStats := bookingStatsHandler.NewHandler(bookingSvc, log)
	listBookings := listBookingsHandler.NewHandler(bookingSvc, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	updateBooking := updateBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	claimVoucher := claimVoucherHandler.NewHandler(voucherSvc, log)
	getUserVouchers := getUserVouchersHandler.NewHandler(voucherSvc, log)
	streamEvents := streamEventsHandler.NewHandler(hub, time.Duration(cfg.Events.HeartbeatSeconds)*time.Second, log)
	health := healthHandler.NewHandler(wrappedDB)

	authMW := middleware.NewAuth(issuer, userRepository, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	r.HandleFunc("/health", health.Handle).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	// ============================================================
	// PUBLIC ROUTES
	// ============================================================

	api.HandleFunc("/auth/login", login.Handle).Methods(http.MethodPost)
	api.HandleFunc("/courts/{courtId}/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// ============================================================
	// SSE (токен в заголовке или ?token=)
	// ============================================================

	api.Handle("/events", authMW.RequireStream(http.HandlerFunc(streamEvents.Handle))).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (Authorization: Bearer)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(authMW.Require)

	// Фиксированные пути регистрируются раньше /bookings/{invoiceNumber}
	protected.HandleFunc("/bookings/preview", previewBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/user/me", getUserBookings.Handle).Methods(http.MethodGet)

	admin := protected.PathPrefix("").Subrouter()
	admin.Use(middleware.RequireAdmin)
	admin.HandleFunc("/bookings/admin/stats", bookingStats.Stats).Methods(http.MethodGet)
	admin.HandleFunc("/bookings/admin/chart-data", bookingStats.ChartData).Methods(http.MethodGet)
	admin.HandleFunc("/bookings/admin/arena-stats", bookingStats.ArenaStats).Methods(http.MethodGet)
	admin.HandleFunc("/bookings", listBookings.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/bookings/{invoiceNumber}", updateBooking.Handle).Methods(http.MethodPut)

	protected.HandleFunc("/bookings/{invoiceNumber}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{invoiceNumber}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// --- Ваучеры ---
	protected.HandleFunc("/vouchers/me", getUserVouchers.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/vouchers/{code}/claim", claimVoucher.Handle).Methods(http.MethodPost)

	// Планировщик истечения бронирований
	sweeper, err := jobs.NewSweeper(
		cfg.Booking.SweepSchedule,
		time.Duration(cfg.Booking.SweepTimeout)*time.Second,
		expireBookingsUseCase,
		metricsCollector,
		log,
	)
	if err != nil {
		log.Fatal("Failed to create expiry sweeper: %v", err)
	}
	sweeper.Start()
	log.Info("Expiry sweeper started (schedule=%s)", cfg.Booking.SweepSchedule)

	// Потребитель событий оплаты
	if cfg.RabbitMQ.Enabled {
		consumer, err = mq.NewConsumer(
			cfg.RabbitMQ.URL,
			cfg.RabbitMQ.PaymentExchange,
			cfg.RabbitMQ.PaymentQueue,
			paymentConsumer.RoutingKeys,
			cfg.RabbitMQ.Prefetch,
		)
		if err != nil {
			log.Fatal("Failed to connect to rabbitmq consumer: %v", err)
		}
		payments := paymentConsumer.NewConsumer(consumer, bookingSvc, log)

		background.Add(1)
		go func() {
			defer background.Done()
			if err := payments.Run(bgCtx); err != nil {
				log.Error("Payment consumer stopped: %v", err)
			}
		}()
		log.Info("Payment consumer started (exchange=%s, queue=%s)",
			cfg.RabbitMQ.PaymentExchange, cfg.RabbitMQ.PaymentQueue)
	}

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := sweeper.Stop(shutdownCtx); err != nil {
		log.Error("Expiry sweeper did not stop in time: %v", err)
	}

	stopBackground()
	if consumer != nil {
		if err := consumer.Close(); err != nil {
			log.Error("Failed to close rabbitmq consumer: %v", err)
		}
	}

	// SSE потоки закрываются до Shutdown, иначе он ждал бы их до таймаута
	hub.Close()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	background.Wait()
	close(stopMetricsCh)

	log.Info("Server stopped gracefully")
}
