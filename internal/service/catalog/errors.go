package catalog

import (
	"errors"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = domain.ErrServiceNotFound

	// ErrForbidden возвращается, когда каталог меняет не персонал
	ErrForbidden = domain.ErrForbidden

	// ErrInvalidInput возвращается при некорректных данных услуги
	ErrInvalidInput = domain.ErrInvalidInput

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("catalog.service: internal error")
)
