package create_booking

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Config правила бронирования
type Config struct {
	LeadTimeMinutes int            // Минимальное время от "сейчас" до начала записи
	MaxNotesLength  int            // Лимит комментария в символах
	Location        *time.Location // Часовой пояс расписания
}

// Request модель запроса на создание записи
type Request struct {
	ClientID  int64  // ID клиента (из контекста авторизации)
	ServiceID int64  // ID услуги
	Date      string // Дата в формате YYYY-MM-DD
	Time      string // Время начала в формате HH:MM
	Notes     string // Комментарий клиента
}

// Response модель ответа с созданной записью
type Response struct {
	ID              int64
	ClientID        int64
	ServiceID       int64
	ServiceName     string
	StartAt         time.Time
	EndAt           time.Time
	DurationMinutes int
	Status          domain.Status
	Notes           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func toResponse(a *domain.Appointment) *Response {
	return &Response{
		ID:              a.ID,
		ClientID:        a.ClientID,
		ServiceID:       a.ServiceID,
		ServiceName:     a.ServiceName,
		StartAt:         a.StartAt,
		EndAt:           a.EndAt(),
		DurationMinutes: a.DurationMinutes,
		Status:          a.Status,
		Notes:           a.Notes,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}
