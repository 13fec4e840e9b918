package change_status

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Config правила смены статуса
type Config struct {
	ClientCancelNoticeMinutes int // Минимальный запас до начала записи для отмены клиентом
}

// Request модель запроса на смену статуса записи
type Request struct {
	AppointmentID int64
	Target        domain.Status
	Actor         domain.Actor
}

// Response запись после смены статуса
type Response struct {
	Appointment *domain.Appointment
	Changed     bool // false, если запись уже была в целевом статусе
}

func (c Config) clientNotice() time.Duration {
	return time.Duration(c.ClientCancelNoticeMinutes) * time.Minute
}
