package update_working_hours

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/calendar/models"
)

type CalendarService interface {
	Update(ctx context.Context, weekday int, req *models.UpdateWorkingHoursRequest, actor domain.Actor) (*models.WorkingHoursResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
