package calendar

import (
	"errors"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

var (
	// ErrForbidden возвращается, когда расписание меняет не персонал
	ErrForbidden = domain.ErrForbidden

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = domain.ErrInvalidInput

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("calendar.service: internal error")
)
