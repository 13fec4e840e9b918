package create_booking

import (
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentModels "github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
	createBooking "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_booking"
)

// CreateAppointmentRequest HTTP request model
// Клиент берётся из заголовков авторизации, а не из тела
type CreateAppointmentRequest struct {
	ServiceID int64  `json:"serviceId" validate:"required,gt=0"`
	Date      string `json:"date" validate:"required"` // "2026-10-19"
	Time      string `json:"time" validate:"required"` // "10:00"
	Notes     string `json:"notes,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
// Разбор даты и времени выполняет use case
func (r *CreateAppointmentRequest) ToUseCaseRequest(clientID int64) *createBooking.Request {
	return &createBooking.Request{
		ClientID:  clientID,
		ServiceID: r.ServiceID,
		Date:      r.Date,
		Time:      r.Time,
		Notes:     r.Notes,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *appointmentModels.AppointmentResponse {
	return &appointmentModels.AppointmentResponse{
		ID:              resp.ID,
		ClientID:        resp.ClientID,
		ServiceID:       resp.ServiceID,
		ServiceName:     resp.ServiceName,
		Date:            resp.StartAt.Format(domain.DateFormat),
		Time:            resp.StartAt.Format(domain.TimeFormat),
		StartAt:         resp.StartAt,
		EndAt:           resp.EndAt,
		DurationMinutes: resp.DurationMinutes,
		Status:          resp.Status.String(),
		Notes:           resp.Notes,
		CreatedAt:       resp.CreatedAt,
		UpdatedAt:       resp.UpdatedAt,
	}
}
