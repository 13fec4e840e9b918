package domain

import "errors"

// Kind машинно-читаемый вид бизнес-ошибки, уходит клиенту в поле "kind"
type Kind string

const (
	KindInvalidInput              Kind = "InvalidInput"
	KindInvalidService            Kind = "InvalidService"
	KindInvalidDateTime           Kind = "InvalidDateTime"
	KindNotesTooLong              Kind = "NotesTooLong"
	KindPastDateTime              Kind = "PastDateTime"
	KindLeadTimeNotMet            Kind = "LeadTimeNotMet"
	KindOutsideBusinessHours      Kind = "OutsideBusinessHours"
	KindCancellationWindowExpired Kind = "CancellationWindowExpired"
	KindInvalidTransition         Kind = "InvalidTransition"
	KindSlotUnavailable           Kind = "SlotUnavailable"
	KindServiceNotFound           Kind = "ServiceNotFound"
	KindAppointmentNotFound       Kind = "AppointmentNotFound"
	KindNotOwner                  Kind = "NotOwner"
	KindForbidden                 Kind = "Forbidden"
	KindInternal                  Kind = "Internal"
)

// Category группа ошибок, определяет HTTP код
type Category int

const (
	CategoryInternal Category = iota
	CategoryValidation
	CategoryPolicy
	CategoryConflict
	CategoryNotFound
	CategoryForbidden
)

var kindCategories = map[Kind]Category{
	KindInvalidInput:              CategoryValidation,
	KindInvalidService:            CategoryValidation,
	KindInvalidDateTime:           CategoryValidation,
	KindNotesTooLong:              CategoryValidation,
	KindPastDateTime:              CategoryPolicy,
	KindLeadTimeNotMet:            CategoryPolicy,
	KindOutsideBusinessHours:      CategoryPolicy,
	KindCancellationWindowExpired: CategoryPolicy,
	KindInvalidTransition:         CategoryPolicy,
	KindSlotUnavailable:           CategoryConflict,
	KindServiceNotFound:           CategoryNotFound,
	KindAppointmentNotFound:       CategoryNotFound,
	KindNotOwner:                  CategoryForbidden,
	KindForbidden:                 CategoryForbidden,
}

// Category возвращает группу вида ошибки
func (k Kind) Category() Category {
	if c, ok := kindCategories[k]; ok {
		return c
	}
	return CategoryInternal
}

// BookingError бизнес-ошибка. Сравнивается через errors.Is с sentinel-значениями ниже
type BookingError struct {
	Kind    Kind
	message string
}

func (e *BookingError) Error() string {
	return e.message
}

func newError(kind Kind, message string) *BookingError {
	return &BookingError{Kind: kind, message: message}
}

var (
	ErrInvalidInput              = newError(KindInvalidInput, "invalid input")
	ErrInvalidService            = newError(KindInvalidService, "service does not exist or is inactive")
	ErrInvalidDateTime           = newError(KindInvalidDateTime, "invalid date or time")
	ErrNotesTooLong              = newError(KindNotesTooLong, "notes are too long")
	ErrPastDateTime              = newError(KindPastDateTime, "appointment time is in the past")
	ErrLeadTimeNotMet            = newError(KindLeadTimeNotMet, "appointment time is too soon")
	ErrOutsideBusinessHours      = newError(KindOutsideBusinessHours, "appointment is outside business hours")
	ErrCancellationWindowExpired = newError(KindCancellationWindowExpired, "cancellation window has expired")
	ErrInvalidTransition         = newError(KindInvalidTransition, "status transition is not allowed")
	ErrSlotUnavailable           = newError(KindSlotUnavailable, "time slot is not available")
	ErrServiceNotFound           = newError(KindServiceNotFound, "service not found")
	ErrAppointmentNotFound       = newError(KindAppointmentNotFound, "appointment not found")
	ErrNotOwner                  = newError(KindNotOwner, "appointment belongs to another client")
	ErrForbidden                 = newError(KindForbidden, "operation is not permitted for this role")
)

// KindOf возвращает вид бизнес-ошибки или KindInternal для всех прочих
func KindOf(err error) Kind {
	var be *BookingError
	if errors.As(err, &be) {
		return be.Kind
	}
	return KindInternal
}

// CategoryOf возвращает группу ошибки; всё, что не BookingError, считается Internal
func CategoryOf(err error) Category {
	return KindOf(err).Category()
}
