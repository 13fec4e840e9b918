package list_appointments

import (
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
)

const (
	msgUnauthorized  = "требуется авторизация"
	msgInvalidParams = "некорректные параметры запроса, ожидается date=YYYY-MM-DD и status=scheduled|completed|cancelled"
	msgForbidden     = "доступно только персоналу"
)

var errorMessages = map[domain.Kind]string{
	domain.KindInvalidInput: msgInvalidParams,
	domain.KindForbidden:    msgForbidden,
}

type Handler struct {
	service AppointmentService
	logger  Logger
}

func NewHandler(service AppointmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/admin/appointments
// Query params: date, status (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	req := &models.ListAppointmentsRequest{
		Date:   r.URL.Query().Get("date"),
		Status: r.URL.Query().Get("status"),
	}

	result, err := h.service.List(r.Context(), req, actor)
	if err != nil {
		if domain.KindOf(err) == domain.KindInternal {
			h.logger.Error("GET /admin/appointments - Failed to list appointments: error=%v", err)
		} else {
			h.logger.Warn("GET /admin/appointments - Rejected: date=%q, status=%q, error=%v", req.Date, req.Status, err)
		}
		handlers.RespondDomainError(w, err, errorMessages)
		return
	}

	h.logger.Info("GET /admin/appointments - Appointments retrieved successfully: date=%q, status=%q, count=%d",
		req.Date, req.Status, len(result.Appointments))
	handlers.RespondJSON(w, http.StatusOK, result)
}
