package create_booking

import (
	"errors"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = domain.ErrInvalidInput

	// ErrInvalidService возвращается, когда услуга не найдена или неактивна
	ErrInvalidService = domain.ErrInvalidService

	// ErrInvalidDateTime возвращается, когда дату или время не удалось разобрать
	ErrInvalidDateTime = domain.ErrInvalidDateTime

	// ErrPastDateTime возвращается при попытке записаться на прошедшее время
	ErrPastDateTime = domain.ErrPastDateTime

	// ErrLeadTimeNotMet возвращается, если до начала записи осталось слишком мало времени
	ErrLeadTimeNotMet = domain.ErrLeadTimeNotMet

	// ErrOutsideBusinessHours возвращается, если запись не помещается в рабочие часы
	ErrOutsideBusinessHours = domain.ErrOutsideBusinessHours

	// ErrNotesTooLong возвращается, если комментарий длиннее лимита
	ErrNotesTooLong = domain.ErrNotesTooLong

	// ErrSlotUnavailable возвращается, если интервал пересекается с другой записью
	ErrSlotUnavailable = domain.ErrSlotUnavailable

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
