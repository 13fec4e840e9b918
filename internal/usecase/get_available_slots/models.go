package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Config правила генерации слотов
type Config struct {
	SlotStepMinutes int            // Шаг сетки слотов, не зависит от длительности услуги
	LeadTimeMinutes int            // Минимальное время от "сейчас" до начала слота
	Location        *time.Location // Часовой пояс расписания
}

// Request модель запроса на получение доступных слотов
type Request struct {
	ServiceID int64     // ID услуги
	Date      time.Time // Дата (время суток игнорируется)
}

// Response модель ответа со списком доступных слотов
type Response struct {
	Date      time.Time          // Дата, на которую запрашивались слоты
	ServiceID int64              // ID услуги
	Slots     []types.TimeString // Начала свободных слотов по возрастанию
	Reason    domain.EmptyReason // Причина пустого списка
}
