package change_status

import (
	"errors"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = domain.ErrInvalidInput

	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = domain.ErrAppointmentNotFound

	// ErrNotOwner возвращается, когда клиент пытается изменить чужую запись
	ErrNotOwner = domain.ErrNotOwner

	// ErrForbidden возвращается, когда операция недоступна роли
	ErrForbidden = domain.ErrForbidden

	// ErrInvalidTransition возвращается при недопустимом переходе статуса
	ErrInvalidTransition = domain.ErrInvalidTransition

	// ErrCancellationWindowExpired возвращается, если до начала записи меньше допустимого для отмены
	ErrCancellationWindowExpired = domain.ErrCancellationWindowExpired

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("change_status: internal error")
)
