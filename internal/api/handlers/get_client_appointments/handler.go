package get_client_appointments

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

const (
	msgInvalidClientID = "некорректный ID клиента"
	msgUnauthorized    = "требуется авторизация"
	msgAccessDenied    = "доступ запрещен"
)

var errorMessages = map[domain.Kind]string{
	domain.KindNotOwner: msgAccessDenied,
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

// Handle GET /api/v1/clients/{clientId}/appointments
// История записей клиента, новые сверху
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	clientID, err := handlers.ParseID(mux.Vars(r)["clientId"])
	if err != nil {
		h.logger.Warn("GET /clients/{id}/appointments - Invalid client ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidClientID)
		return
	}

	result, err := h.service.ClientHistory(r.Context(), clientID, actor)
	if err != nil {
		if domain.KindOf(err) == domain.KindInternal {
			h.logger.Error("GET /clients/{id}/appointments - Failed to get appointments: client_id=%d, error=%v", clientID, err)
		} else {
			h.logger.Warn("GET /clients/{id}/appointments - Rejected: client_id=%d, actor_id=%d, error=%v", clientID, actor.ID, err)
		}
		handlers.RespondDomainError(w, err, errorMessages)
		return
	}

	h.logger.Info("GET /clients/{id}/appointments - Appointments retrieved successfully: client_id=%d, count=%d",
		clientID, len(result.Appointments))
	handlers.RespondJSON(w, http.StatusOK, result)
}
