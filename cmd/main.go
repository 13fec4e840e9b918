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

	_ "github.com/lib/pq"

	"github.com/m04kA/SMC-AppointmentService/internal/api"
	changeStatusHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/change_status"
	createBookingHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/create_booking"
	createServiceHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/create_service"
	getAppointmentHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_appointment"
	getAvailableSlotsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_available_slots"
	getClientAppointmentsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_client_appointments"
	getWorkingHoursHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_working_hours"
	listAppointmentsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/list_appointments"
	listServicesHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/list_services"
	updateServiceHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/update_service"
	updateWorkingHoursHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/update_working_hours"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/config"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	calendarCache "github.com/m04kA/SMC-AppointmentService/internal/infra/cache/calendar"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/storage/memory"
	serviceRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/service"
	workingHoursRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/workinghours"
	appointmentsService "github.com/m04kA/SMC-AppointmentService/internal/service/appointments"
	calendarService "github.com/m04kA/SMC-AppointmentService/internal/service/calendar"
	catalogService "github.com/m04kA/SMC-AppointmentService/internal/service/catalog"
	changeStatusUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/change_status"
	createBookingUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-AppointmentService/migrations"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/metrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/txmanager"
)

// Общие интерфейсы хранилищ, которые реализуют и Postgres, и memory
type (
	appointmentStore interface {
		FindOverlapping(ctx context.Context, start, end time.Time, exclude []domain.Status) ([]*domain.Appointment, error)
		FindByDateRange(ctx context.Context, start, end time.Time) ([]*domain.Appointment, error)
		FindByClient(ctx context.Context, clientID int64) ([]*domain.Appointment, error)
		List(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error)
		GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
		Insert(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error)
		UpdateStatus(ctx context.Context, id int64, status domain.Status) error
		LockDay(ctx context.Context, date time.Time) error
	}

	serviceStore interface {
		GetByID(ctx context.Context, id int64) (*domain.Service, error)
		List(ctx context.Context, onlyActive bool) ([]*domain.Service, error)
		Create(ctx context.Context, svc *domain.Service) (*domain.Service, error)
		Update(ctx context.Context, svc *domain.Service) (*domain.Service, error)
	}

	txManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
)

type storage struct {
	appointments appointmentStore
	services     serviceStore
	workingHours calendarCache.Repository
	tx           txManager
	close        func() error
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

	log.Info("Starting SMC-AppointmentService...")
	log.Info("Configuration loaded from %s", configPath)

	loc, err := cfg.Booking.Location()
	if err != nil {
		log.Fatal("Invalid booking timezone: %v", err)
	}

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Хранилище: PostgreSQL или память
	var store *storage
	switch cfg.Storage.Driver {
	case "memory":
		store = openMemory(loc)
		log.Warn("Using in-memory storage: data is lost on restart")
	default:
		store, err = openPostgres(cfg, loc, metricsCollector, log)
		if err != nil {
			log.Fatal("Failed to initialize postgres storage: %v", err)
		}
	}
	defer func() {
		if err := store.close(); err != nil {
			log.Error("Failed to close storage: %v", err)
		}
	}()

	// Расписание читается при каждом запросе слотов, поэтому кешируем его
	calendar := calendarCache.NewCachedRepository(store.workingHours,
		time.Duration(cfg.Cache.WorkingHoursTTL)*time.Second)

	// Метрики use case: nil-интерфейс, если метрики выключены
	var (
		slotsMetrics   getAvailableSlotsUC.Metrics
		bookingMetrics createBookingUC.Metrics
		statusMetrics  changeStatusUC.Metrics
	)
	if metricsCollector != nil {
		slotsMetrics, bookingMetrics, statusMetrics = metricsCollector, metricsCollector, metricsCollector
	}

	// Инициализируем use cases
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		store.appointments,
		store.services,
		calendar,
		slotsMetrics,
		getAvailableSlotsUC.Config{
			SlotStepMinutes: cfg.Booking.SlotStepMinutes,
			LeadTimeMinutes: cfg.Booking.LeadTimeMinutes,
			Location:        loc,
		},
		log,
	)

	createBookingUseCase := createBookingUC.NewUseCase(
		store.appointments,
		store.services,
		calendar,
		store.tx,
		bookingMetrics,
		createBookingUC.Config{
			LeadTimeMinutes: cfg.Booking.LeadTimeMinutes,
			MaxNotesLength:  cfg.Booking.MaxNotesLength,
			Location:        loc,
		},
		log,
	)

	changeStatusUseCase := changeStatusUC.NewUseCase(
		store.appointments,
		store.tx,
		statusMetrics,
		changeStatusUC.Config{ClientCancelNoticeMinutes: cfg.Booking.ClientCancelNoticeMinutes},
		log,
	)

	// Инициализируем сервисы
	appointmentsSvc := appointmentsService.NewService(store.appointments, loc, log)
	catalogSvc := catalogService.NewService(store.services, log)
	calendarSvc := calendarService.NewService(calendar, log)

	// Инициализируем handlers
	handlersSet := api.Handlers{
		GetAvailableSlots:     getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, loc, log),
		CreateBooking:         createBookingHandler.NewHandler(createBookingUseCase, log),
		ChangeStatus:          changeStatusHandler.NewHandler(changeStatusUseCase, log),
		GetAppointment:        getAppointmentHandler.NewHandler(appointmentsSvc, log),
		GetClientAppointments: getClientAppointmentsHandler.NewHandler(appointmentsSvc, log),
		ListAppointments:      listAppointmentsHandler.NewHandler(appointmentsSvc, log),
		GetWorkingHours:       getWorkingHoursHandler.NewHandler(calendarSvc, log),
		UpdateWorkingHours:    updateWorkingHoursHandler.NewHandler(calendarSvc, log),
		ListServices:          listServicesHandler.NewHandler(catalogSvc, log),
		CreateService:         createServiceHandler.NewHandler(catalogSvc, log),
		UpdateService:         updateServiceHandler.NewHandler(catalogSvc, log),
	}

	routerCfg := api.RouterConfig{
		Metrics:     metricsCollector,
		MetricsPath: cfg.Metrics.Path,
	}
	if cfg.RateLimit.Enabled {
		routerCfg.RateLimiter = middleware.NewRateLimiter(middleware.RateLimiterConfig{
			Rate:  middleware.PerMinute(cfg.RateLimit.RequestsPerMinute),
			Burst: cfg.RateLimit.Burst,
		})
		log.Info("Booking rate limit enabled: %.1f req/min, burst=%d", cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst)
	}

	r := api.NewRouter(handlersSet, routerCfg)

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
		log.Info("Starting server on %s (timezone=%s)", addr, loc)
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

	log.Info("Server stopped gracefully")
}

func openMemory(loc *time.Location) *storage {
	s := memory.NewSeededStore(loc)
	return &storage{
		appointments: s.Appointments(),
		services:     s.Services(),
		workingHours: s.WorkingHours(),
		tx:           s.TxManager(),
		close:        func() error { return nil },
	}
}

func openPostgres(cfg *config.Config, loc *time.Location, m *metrics.Metrics, log *logger.Logger) (*storage, error) {
	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Проверяем соединение
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	if cfg.Database.AutoMigrate {
		if err := migrations.Run(ctx, db, log); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	// Обёртка пишет метрики запросов; при выключенных метриках работает как есть
	var wrapped *dbmetrics.DB
	if m != nil {
		wrapped = dbmetrics.WrapWithDefault(db, m)
		log.Info("Database metrics collection started")
	} else {
		wrapped = dbmetrics.Wrap(db, nil)
	}

	return &storage{
		appointments: appointmentRepo.NewRepository(wrapped, loc),
		services:     serviceRepo.NewRepository(wrapped),
		workingHours: workingHoursRepo.NewRepository(wrapped),
		tx:           txmanager.New(wrapped, cfg.Database.MaxTxRetries),
		close:        db.Close,
	}, nil
}
