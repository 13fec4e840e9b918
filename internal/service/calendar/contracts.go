package calendar

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// WorkingHoursRepository интерфейс репозитория рабочих часов
type WorkingHoursRepository interface {
	List(ctx context.Context) ([]domain.WorkingHoursRule, error)
	Get(ctx context.Context, weekday time.Weekday) (domain.WorkingHoursRule, error)
	Upsert(ctx context.Context, rule domain.WorkingHoursRule) (domain.WorkingHoursRule, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
