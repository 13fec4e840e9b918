package update_working_hours

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/calendar/models"
)

const (
	msgInvalidWeekday     = "некорректный день недели, ожидается 0..6 (0 = воскресенье)"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgUnauthorized       = "требуется авторизация"
	msgForbidden          = "доступно только персоналу"
)

var errorMessages = map[domain.Kind]string{
	domain.KindForbidden: msgForbidden,
}

type Handler struct {
	service CalendarService
	logger  Logger
}

func NewHandler(service CalendarService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/admin/working-hours/{weekday}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	weekday, err := strconv.Atoi(mux.Vars(r)["weekday"])
	if err != nil {
		h.logger.Warn("PUT /admin/working-hours/{weekday} - Invalid weekday: %v", err)
		handlers.RespondBadRequest(w, msgInvalidWeekday)
		return
	}

	var req models.UpdateWorkingHoursRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /admin/working-hours/{weekday} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Сервис проверяет роль, диапазон дня и корректность часов
	result, err := h.service.Update(r.Context(), weekday, &req, actor)
	if err != nil {
		if domain.KindOf(err) == domain.KindInternal {
			h.logger.Error("PUT /admin/working-hours/{weekday} - Failed to update: weekday=%d, error=%v", weekday, err)
		} else {
			h.logger.Warn("PUT /admin/working-hours/{weekday} - Rejected: weekday=%d, error=%v", weekday, err)
		}
		handlers.RespondDomainError(w, err, errorMessages)
		return
	}

	h.logger.Info("PUT /admin/working-hours/{weekday} - Working hours updated: weekday=%d, open=%s, close=%s, active=%t",
		weekday, result.OpenTime, result.CloseTime, result.Active)
	handlers.RespondJSON(w, http.StatusOK, result)
}
