package change_status

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.AppointmentID <= 0 {
		return fmt.Errorf("%w: appointmentID must be positive", ErrInvalidInput)
	}
	if !req.Target.IsValid() {
		return fmt.Errorf("%w: unknown target status", ErrInvalidInput)
	}
	switch req.Actor.Role {
	case domain.RoleClient, domain.RoleStaff:
	default:
		return fmt.Errorf("%w: unknown actor role %q", ErrForbidden, req.Actor.Role)
	}
	return nil
}

// checkStaff правила для персонала: отмена из любого статуса, завершение только из scheduled
func checkStaff(appt *domain.Appointment, target domain.Status) error {
	if !domain.CanTransition(appt.Status, target) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, appt.Status, target)
	}
	return nil
}

// checkClient правила для клиента: только отмена своей запланированной записи
// не позже чем за notice до начала
func checkClient(appt *domain.Appointment, actor domain.Actor, target domain.Status, now time.Time, notice time.Duration) error {
	if appt.ClientID != actor.ID {
		return fmt.Errorf("%w: appointment id=%d", ErrNotOwner, appt.ID)
	}

	switch target {
	case domain.StatusCancelled:
	case domain.StatusCompleted:
		return fmt.Errorf("%w: clients cannot complete appointments", ErrForbidden)
	default:
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, appt.Status, target)
	}

	if appt.Status.IsTerminal() {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, appt.Status, target)
	}

	if left := appt.StartAt.Sub(now); left < notice {
		return fmt.Errorf("%w: %s left, at least %s required", ErrCancellationWindowExpired,
			left.Truncate(time.Minute), notice)
	}

	return nil
}
