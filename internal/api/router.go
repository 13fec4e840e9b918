package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

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
	"github.com/m04kA/SMC-AppointmentService/pkg/metrics"
)

// Handlers все HTTP обработчики сервиса
type Handlers struct {
	GetAvailableSlots     *getAvailableSlotsHandler.Handler
	CreateBooking         *createBookingHandler.Handler
	ChangeStatus          *changeStatusHandler.Handler
	GetAppointment        *getAppointmentHandler.Handler
	GetClientAppointments *getClientAppointmentsHandler.Handler
	ListAppointments      *listAppointmentsHandler.Handler
	GetWorkingHours       *getWorkingHoursHandler.Handler
	UpdateWorkingHours    *updateWorkingHoursHandler.Handler
	ListServices          *listServicesHandler.Handler
	CreateService         *createServiceHandler.Handler
	UpdateService         *updateServiceHandler.Handler
}

// RouterConfig параметры роутера
type RouterConfig struct {
	Metrics     *metrics.Metrics // nil - метрики выключены
	MetricsPath string
	RateLimiter *middleware.RateLimiter // nil - без лимита на создание записей
}

// NewRouter собирает маршруты /api/v1
func NewRouter(h Handlers, cfg RouterConfig) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.RequestID)

	if cfg.Metrics != nil {
		r.Use(middleware.MetricsMiddleware(cfg.Metrics))
		r.Handle(cfg.MetricsPath, promhttp.Handler()).Methods(http.MethodGet)
	}

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	public := api.PathPrefix("").Subrouter()
	public.Use(middleware.OptionalAuth)

	// Каталог услуг (неактивные видит только персонал)
	public.HandleFunc("/services", h.ListServices.Handle).Methods(http.MethodGet)

	// Свободные слоты на дату
	public.HandleFunc("/services/{serviceId}/available-slots", h.GetAvailableSlots.Handle).Methods(http.MethodGet)

	// Недельное расписание
	public.HandleFunc("/working-hours", h.GetWorkingHours.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// Создание записи
	createBooking := http.Handler(http.HandlerFunc(h.CreateBooking.Handle))
	if cfg.RateLimiter != nil {
		createBooking = cfg.RateLimiter.Middleware(createBooking)
	}
	protected.Handle("/appointments", createBooking).Methods(http.MethodPost)

	// Запись по ID (клиент видит только свои)
	protected.HandleFunc("/appointments/{appointmentId}", h.GetAppointment.Handle).Methods(http.MethodGet)

	// Смена статуса: отмена клиентом, завершение и отмена персоналом
	protected.HandleFunc("/appointments/{appointmentId}/status", h.ChangeStatus.Handle).Methods(http.MethodPatch)

	// История записей клиента
	protected.HandleFunc("/clients/{clientId}/appointments", h.GetClientAppointments.Handle).Methods(http.MethodGet)

	// ============================================================
	// ADMIN ROUTES (только персонал)
	// ============================================================

	admin := protected.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.RequireStaff)

	admin.HandleFunc("/appointments", h.ListAppointments.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/services", h.CreateService.Handle).Methods(http.MethodPost)
	admin.HandleFunc("/services/{serviceId}", h.UpdateService.Handle).Methods(http.MethodPut)
	admin.HandleFunc("/working-hours/{weekday}", h.UpdateWorkingHours.Handle).Methods(http.MethodPut)

	return r
}
