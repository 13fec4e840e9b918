package appointments

import (
	"errors"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = domain.ErrAppointmentNotFound

	// ErrAccessDenied возвращается, когда клиент запрашивает чужие записи
	ErrAccessDenied = domain.ErrNotOwner

	// ErrForbidden возвращается, когда операция доступна только персоналу
	ErrForbidden = domain.ErrForbidden

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = domain.ErrInvalidInput

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("appointments.service: internal error")
)
