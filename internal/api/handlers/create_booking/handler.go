package create_booking

import (
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

const (
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgUnauthorized         = "требуется авторизация"
	msgInvalidDateTime      = "некорректная дата или время, ожидается YYYY-MM-DD и HH:MM"
	msgPastDateTime         = "нельзя записаться на прошедшее время"
	msgLeadTimeNotMet       = "слишком поздно для записи на это время"
	msgOutsideBusinessHours = "запись выходит за рабочие часы"
	msgNotesTooLong         = "слишком длинный комментарий"
	msgInvalidService       = "услуга не найдена или неактивна"
	msgSlotUnavailable      = "выбранное время уже занято"
)

var errorMessages = map[domain.Kind]string{
	domain.KindInvalidDateTime:      msgInvalidDateTime,
	domain.KindPastDateTime:         msgPastDateTime,
	domain.KindLeadTimeNotMet:       msgLeadTimeNotMet,
	domain.KindOutsideBusinessHours: msgOutsideBusinessHours,
	domain.KindNotesTooLong:         msgNotesTooLong,
	domain.KindInvalidService:       msgInvalidService,
	domain.KindSlotUnavailable:      msgSlotUnavailable,
}

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req CreateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(actor.ID))
	if err != nil {
		if domain.KindOf(err) == domain.KindInternal {
			h.logger.Error("POST /appointments - Failed to create appointment: client_id=%d, service_id=%d, error=%v",
				actor.ID, req.ServiceID, err)
		} else {
			h.logger.Warn("POST /appointments - Rejected: client_id=%d, service_id=%d, date=%s, time=%s, error=%v",
				actor.ID, req.ServiceID, req.Date, req.Time, err)
		}
		handlers.RespondDomainError(w, err, errorMessages)
		return
	}

	h.logger.Info("POST /appointments - Appointment created successfully: appointment_id=%d, client_id=%d, service_id=%d",
		result.ID, result.ClientID, result.ServiceID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
