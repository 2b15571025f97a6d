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

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cancelBookingHandler "github.com/m04kA/SMC-RoomBookingService/internal/api/handlers/cancel_booking"
	checkInBookingHandler "github.com/m04kA/SMC-RoomBookingService/internal/api/handlers/check_in_booking"
	createBookingHandler "github.com/m04kA/SMC-RoomBookingService/internal/api/handlers/create_booking"
	createRoomHandler "github.com/m04kA/SMC-RoomBookingService/internal/api/handlers/create_room"
	getAllBookingsHandler "github.com/m04kA/SMC-RoomBookingService/internal/api/handlers/get_all_bookings"
	getAvailableSlotsHandler "github.com/m04kA/SMC-RoomBookingService/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/SMC-RoomBookingService/internal/api/handlers/get_booking"
	getRoomAvailabilityHandler "github.com/m04kA/SMC-RoomBookingService/internal/api/handlers/get_room_availability"
	getRulesHandler "github.com/m04kA/SMC-RoomBookingService/internal/api/handlers/get_rules"
	getUserBookingsHandler "github.com/m04kA/SMC-RoomBookingService/internal/api/handlers/get_user_bookings"
	listRoomsHandler "github.com/m04kA/SMC-RoomBookingService/internal/api/handlers/list_rooms"
	updateRoomHandler "github.com/m04kA/SMC-RoomBookingService/internal/api/handlers/update_room"
	updateRulesHandler "github.com/m04kA/SMC-RoomBookingService/internal/api/handlers/update_rules"
	"github.com/m04kA/SMC-RoomBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-RoomBookingService/internal/config"
	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	"github.com/m04kA/SMC-RoomBookingService/internal/infra/roomlock"
	bookingRepo "github.com/m04kA/SMC-RoomBookingService/internal/infra/storage/booking"
	roomRepo "github.com/m04kA/SMC-RoomBookingService/internal/infra/storage/room"
	ruleRepo "github.com/m04kA/SMC-RoomBookingService/internal/infra/storage/rule"
	"github.com/m04kA/SMC-RoomBookingService/internal/integrations/events"
	bookingsService "github.com/m04kA/SMC-RoomBookingService/internal/service/bookings"
	roomsService "github.com/m04kA/SMC-RoomBookingService/internal/service/rooms"
	rulesService "github.com/m04kA/SMC-RoomBookingService/internal/service/rules"
	checkAvailabilityUC "github.com/m04kA/SMC-RoomBookingService/internal/usecase/check_availability"
	createBookingUC "github.com/m04kA/SMC-RoomBookingService/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/SMC-RoomBookingService/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-RoomBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-RoomBookingService/pkg/logger"
	"github.com/m04kA/SMC-RoomBookingService/pkg/metrics"
	"github.com/m04kA/SMC-RoomBookingService/pkg/txmanager"
)

type eventPublisher interface {
	Publish(ctx context.Context, event events.BookingEvent) error
	Close() error
}

func main() {
	configPath := "config.toml"
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		configPath = path
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

	log.Info("Starting SMC-RoomBookingService...")
	log.Info("Configuration loaded from %s", configPath)

	location, err := cfg.Rules.Location()
	if err != nil {
		log.Fatal("Failed to load office timezone %q: %v", cfg.Rules.Timezone, err)
	}
	log.Info("Office timezone: %s", location)

	// Метрики бронирований нужны usecase всегда, наружу отдаются только если включены
	metricsCollector := metrics.New(cfg.Metrics.ServiceName)
	stopMetricsCh := make(chan struct{})

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

	// Обёртка нужна в любом случае: через неё работает transaction manager.
	// nil коллектор передаётся явно, чтобы не получить интерфейс с nil указателем внутри.
	var wrappedDB *dbmetrics.DB
	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
		log.Info("Database metrics collection started")
	} else {
		wrappedDB = dbmetrics.Wrap(db, nil)
	}

	// Инициализируем репозитории
	bookingRepository := bookingRepo.NewRepository(wrappedDB)
	roomRepository := roomRepo.NewRepository(wrappedDB)
	ruleRepository := ruleRepo.NewRepository(wrappedDB)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Правила бронирования: создаём строку по умолчанию и загружаем снимок
	rulesSvc := rulesService.NewService(
		ruleRepository,
		time.Duration(cfg.Rules.RefreshSeconds)*time.Second,
		log,
	)
	initCtx, initCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := rulesSvc.Init(initCtx); err != nil {
		initCancel()
		log.Fatal("Failed to load booking rules: %v", err)
	}
	initCancel()

	// Блокировка комнат
	var (
		locker      roomlock.Locker
		redisClient *redis.Client
	)
	switch cfg.Locks.Backend {
	case config.LockBackendRedis:
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			pingCancel()
			log.Fatal("Failed to connect to redis at %s: %v", cfg.Redis.Addr, err)
		}
		pingCancel()

		locker = roomlock.NewRedisLocker(redisClient, roomlock.RedisOptions{
			Prefix:        cfg.Redis.Prefix,
			TTL:           time.Duration(cfg.Locks.TTLMs) * time.Millisecond,
			Timeout:       cfg.Locks.Timeout(),
			RetryInterval: time.Duration(cfg.Locks.RetryIntervalMs) * time.Millisecond,
		}, log)
		log.Info("Room locks: redis (addr=%s, timeout=%s)", cfg.Redis.Addr, cfg.Locks.Timeout())
	default:
		locker = roomlock.NewLocalLocker(cfg.Locks.Timeout())
		log.Info("Room locks: in-process (timeout=%s)", cfg.Locks.Timeout())
	}

	// Публикация событий
	var publisher eventPublisher = events.NopPublisher{}
	if cfg.NATS.Enabled {
		natsPublisher, err := events.NewNatsPublisher(
			cfg.NATS.URL,
			cfg.NATS.SubjectPrefix,
			time.Duration(cfg.NATS.ConnectTimeout)*time.Second,
		)
		if err != nil {
			log.Fatal("Failed to connect to NATS at %s: %v", cfg.NATS.URL, err)
		}
		publisher = natsPublisher
		log.Info("Booking events are published to NATS (url=%s, prefix=%s)", cfg.NATS.URL, cfg.NATS.SubjectPrefix)
	}

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(bookingRepository, publisher, log)
	roomSvc := roomsService.NewService(roomRepository, txMgr, log)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		roomRepository,
		bookingRepository,
		rulesSvc,
		locker,
		txMgr,
		publisher,
		metricsCollector,
		location,
		log,
	)

	checkAvailabilityUseCase := checkAvailabilityUC.NewUseCase(
		roomRepository,
		bookingRepository,
		rulesSvc,
		location,
		log,
	)

	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		roomRepository,
		bookingRepository,
		rulesSvc,
		location,
		log,
	)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	getAllBookings := getAllBookingsHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	checkInBooking := checkInBookingHandler.NewHandler(bookingSvc, log)
	listRooms := listRoomsHandler.NewHandler(roomSvc, log)
	createRoom := createRoomHandler.NewHandler(roomSvc, log)
	updateRoom := updateRoomHandler.NewHandler(roomSvc, log)
	getRoomAvailability := getRoomAvailabilityHandler.NewHandler(checkAvailabilityUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getRules := getRulesHandler.NewHandler(rulesSvc, log)
	updateRules := updateRulesHandler.NewHandler(rulesSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// Все маршруты требуют access токен
	auth := middleware.NewAuthenticator(cfg.Auth.JWTSecret, cfg.Auth.Issuer, log)
	api.Use(auth.Middleware)

	adminOnly := middleware.RequireRole(domain.RoleAdmin)
	employeeOnly := middleware.RequireRole(domain.RoleEmployee)

	// --- Бронирования ---
	api.Handle("/bookings", employeeOnly(http.HandlerFunc(createBooking.Handle))).Methods(http.MethodPost)
	api.Handle("/bookings", adminOnly(http.HandlerFunc(getAllBookings.Handle))).Methods(http.MethodGet)
	api.HandleFunc("/bookings/my", getUserBookings.Handle).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{bookingId:[0-9]+}", getBooking.Handle).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{bookingId:[0-9]+}", cancelBooking.Handle).Methods(http.MethodDelete)
	api.HandleFunc("/bookings/{bookingId:[0-9]+}/checkin", checkInBooking.Handle).Methods(http.MethodPost)

	// --- Комнаты ---
	api.HandleFunc("/rooms", listRooms.Handle).Methods(http.MethodGet)
	api.Handle("/rooms", adminOnly(http.HandlerFunc(createRoom.Handle))).Methods(http.MethodPost)
	api.Handle("/rooms/{roomId:[0-9]+}", adminOnly(http.HandlerFunc(updateRoom.Handle))).Methods(http.MethodPatch)
	api.HandleFunc("/rooms/{roomId:[0-9]+}/availability", getRoomAvailability.Handle).Methods(http.MethodGet)
	api.HandleFunc("/rooms/{roomId:[0-9]+}/slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// --- Правила ---
	api.HandleFunc("/rules", getRules.Handle).Methods(http.MethodGet)
	api.Handle("/rules", adminOnly(http.HandlerFunc(updateRules.Handle))).Methods(http.MethodPut)

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

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	if err := publisher.Close(); err != nil {
		log.Error("Failed to close event publisher: %v", err)
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close redis client: %v", err)
		}
	}

	log.Info("Server stopped gracefully")
}
