package models

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Request модели

// ListAppointmentsRequest фильтр списка записей для персонала
// Пустые поля не фильтруют
type ListAppointmentsRequest struct {
	Date   string `json:"date,omitempty"`   // "2026-10-19"
	Status string `json:"status,omitempty"` // scheduled | completed | cancelled
}

// Response модели

// AppointmentResponse ответ с данными записи
type AppointmentResponse struct {
	ID              int64     `json:"id"`
	ClientID        int64     `json:"clientId"`
	ServiceID       int64     `json:"serviceId"`
	ServiceName     string    `json:"serviceName"`
	Date            string    `json:"date"` // "2026-10-19"
	Time            string    `json:"time"` // "10:00"
	StartAt         time.Time `json:"startAt"`
	EndAt           time.Time `json:"endAt"`
	DurationMinutes int       `json:"durationMinutes"`
	Status          string    `json:"status"`
	Notes           string    `json:"notes,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// AppointmentListResponse ответ со списком записей
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
}

// Методы конвертации

// FromDomainAppointment конвертирует domain модель в DTO
func FromDomainAppointment(a *domain.Appointment) *AppointmentResponse {
	if a == nil {
		return nil
	}

	return &AppointmentResponse{
		ID:              a.ID,
		ClientID:        a.ClientID,
		ServiceID:       a.ServiceID,
		ServiceName:     a.ServiceName,
		Date:            a.StartAt.Format(domain.DateFormat),
		Time:            a.StartAt.Format(domain.TimeFormat),
		StartAt:         a.StartAt,
		EndAt:           a.EndAt(),
		DurationMinutes: a.DurationMinutes,
		Status:          a.Status.String(),
		Notes:           a.Notes,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}

// FromDomainAppointmentList конвертирует список domain моделей в DTO
func FromDomainAppointmentList(appointments []*domain.Appointment) *AppointmentListResponse {
	resp := &AppointmentListResponse{
		Appointments: make([]AppointmentResponse, 0, len(appointments)),
	}

	for _, appt := range appointments {
		if dto := FromDomainAppointment(appt); dto != nil {
			resp.Appointments = append(resp.Appointments, *dto)
		}
	}

	return resp
}
