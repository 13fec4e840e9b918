package change_status

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentModels "github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
	changeStatus "github.com/m04kA/SMC-AppointmentService/internal/usecase/change_status"
)

const (
	msgInvalidAppointmentID = "некорректный ID записи"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgUnauthorized         = "требуется авторизация"
	msgNotFound             = "запись не найдена"
	msgNotOwner             = "запись принадлежит другому клиенту"
	msgForbidden            = "доступ запрещен"
	msgInvalidTransition    = "недопустимая смена статуса"
	msgWindowExpired        = "срок, в который запись можно отменить, истёк"
)

var errorMessages = map[domain.Kind]string{
	domain.KindAppointmentNotFound:       msgNotFound,
	domain.KindNotOwner:                  msgNotOwner,
	domain.KindForbidden:                 msgForbidden,
	domain.KindInvalidTransition:         msgInvalidTransition,
	domain.KindCancellationWindowExpired: msgWindowExpired,
}

type Handler struct {
	useCase ChangeStatusUseCase
	logger  Logger
}

func NewHandler(useCase ChangeStatusUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/appointments/{appointmentId}/status
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	// Извлекаем appointmentId из URL
	appointmentID, err := handlers.ParseID(mux.Vars(r)["appointmentId"])
	if err != nil {
		h.logger.Warn("PATCH /appointments/{id}/status - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	var req ChangeStatusRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /appointments/{id}/status - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	target, err := domain.ParseStatus(req.Status)
	if err != nil {
		h.logger.Warn("PATCH /appointments/{id}/status - Invalid status: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &changeStatus.Request{
		AppointmentID: appointmentID,
		Target:        target,
		Actor:         actor,
	})
	if err != nil {
		if domain.KindOf(err) == domain.KindInternal {
			h.logger.Error("PATCH /appointments/{id}/status - Failed to change status: appointment_id=%d, error=%v", appointmentID, err)
		} else {
			h.logger.Warn("PATCH /appointments/{id}/status - Rejected: appointment_id=%d, actor=%s:%d, target=%s, error=%v",
				appointmentID, actor.Role, actor.ID, target, err)
		}
		handlers.RespondDomainError(w, err, errorMessages)
		return
	}

	h.logger.Info("PATCH /appointments/{id}/status - Status changed: appointment_id=%d, status=%s, changed=%t",
		appointmentID, result.Appointment.Status, result.Changed)
	handlers.RespondJSON(w, http.StatusOK, appointmentModels.FromDomainAppointment(result.Appointment))
}
