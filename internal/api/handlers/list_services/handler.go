package list_services

import (
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
)

const msgInvalidParams = "некорректный параметр includeInactive"

type Handler struct {
	service CatalogService
	logger  Logger
}

func NewHandler(service CatalogService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/services
// Query params: includeInactive (опционально, учитывается только для персонала)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	includeInactive := false
	if raw := r.URL.Query().Get("includeInactive"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			h.logger.Warn("GET /services - Invalid includeInactive: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)
			return
		}
		includeInactive = parsed
	}

	// Маршрут публичный: без авторизации actor пустой и видит только активные услуги
	actor, _ := middleware.GetActor(r.Context())

	result, err := h.service.List(r.Context(), includeInactive, actor)
	if err != nil {
		h.logger.Error("GET /services - Failed to list services: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /services - Services retrieved successfully: count=%d", len(result.Services))
	handlers.RespondJSON(w, http.StatusOK, result)
}
