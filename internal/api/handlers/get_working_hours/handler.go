package get_working_hours

import (
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
)

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

// Handle GET /api/v1/working-hours
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("GET /working-hours - Failed to get working hours: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /working-hours - Working hours retrieved successfully: days=%d", len(result.Days))
	handlers.RespondJSON(w, http.StatusOK, result)
}
