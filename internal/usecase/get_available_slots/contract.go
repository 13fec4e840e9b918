package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	// FindOverlapping возвращает записи, пересекающиеся с [start, end)
	FindOverlapping(ctx context.Context, start, end time.Time, exclude []domain.Status) ([]*domain.Appointment, error)
}

// ServiceRepository интерфейс каталога услуг
type ServiceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
}

// CalendarProvider источник недельного расписания
type CalendarProvider interface {
	Calendar(ctx context.Context) (*domain.Calendar, error)
}

// Metrics бизнес-метрики запроса слотов
type Metrics interface {
	ObserveSlotsQuery(reason string, count int)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
