package get_available_slots

import (
	"errors"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = domain.ErrInvalidInput

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = domain.ErrServiceNotFound

	// ErrInvalidService возвращается, когда услуга неактивна
	ErrInvalidService = domain.ErrInvalidService

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_available_slots: internal error")
)
