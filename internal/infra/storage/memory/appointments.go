package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
)

// Appointments репозиторий записей в памяти
// Возвращает те же sentinel-ошибки, что и Postgres реализация
type Appointments struct {
	store *Store
}

func (r *Appointments) FindOverlapping(_ context.Context, start, end time.Time, exclude []domain.Status) ([]*domain.Appointment, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Appointment, 0)
	for _, a := range s.appointments {
		if containsStatus(exclude, a.Status) {
			continue
		}
		full := s.withService(a)
		if full.Overlaps(start, end) {
			out = append(out, full)
		}
	}

	sortByStart(out, false)
	return out, nil
}

func (r *Appointments) FindByDateRange(_ context.Context, start, end time.Time) ([]*domain.Appointment, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Appointment, 0)
	for _, a := range s.appointments {
		if !a.StartAt.Before(start) && a.StartAt.Before(end) {
			out = append(out, s.withService(a))
		}
	}

	sortByStart(out, false)
	return out, nil
}

func (r *Appointments) FindByClient(ctx context.Context, clientID int64) ([]*domain.Appointment, error) {
	return r.List(ctx, domain.AppointmentsFilter{ClientID: &clientID})
}

func (r *Appointments) List(_ context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	var dayStart, dayEnd time.Time
	if filter.Date != nil {
		dayStart = domain.StartOfDay(filter.Date.In(s.loc))
		dayEnd = dayStart.AddDate(0, 0, 1)
	}

	out := make([]*domain.Appointment, 0)
	for _, a := range s.appointments {
		if filter.Date != nil && (a.StartAt.Before(dayStart) || !a.StartAt.Before(dayEnd)) {
			continue
		}
		if filter.Status != nil && a.Status != *filter.Status {
			continue
		}
		if filter.ClientID != nil && a.ClientID != *filter.ClientID {
			continue
		}
		out = append(out, s.withService(a))
	}

	sortByStart(out, true)
	return out, nil
}

func (r *Appointments) GetByID(_ context.Context, id int64) (*domain.Appointment, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.appointments[id]
	if !ok {
		return nil, appointment.ErrAppointmentNotFound
	}
	return s.withService(a), nil
}

// Insert повторяет ограничения схемы: внешний ключ на услугу и уникальность start_at активных записей
func (r *Appointments) Insert(_ context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.services[appt.ServiceID]; !ok {
		return nil, fmt.Errorf("%w: Insert - service_id=%d violates foreign key", appointment.ErrExecQuery, appt.ServiceID)
	}

	if appt.Status.IsActive() {
		for _, existing := range s.appointments {
			if existing.Status.IsActive() && existing.StartAt.Equal(appt.StartAt) {
				return nil, fmt.Errorf("%w: Insert - start_at=%s", appointment.ErrConflict, appt.StartAt.Format(time.RFC3339))
			}
		}
	}

	s.nextApptID++
	stored := *appt
	stored.ID = s.nextApptID
	stored.CreatedAt = s.now()
	stored.UpdatedAt = stored.CreatedAt
	s.appointments[stored.ID] = &stored

	appt.ID = stored.ID
	appt.CreatedAt = stored.CreatedAt
	appt.UpdatedAt = stored.UpdatedAt
	return appt, nil
}

func (r *Appointments) UpdateStatus(_ context.Context, id int64, status domain.Status) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.appointments[id]
	if !ok {
		return appointment.ErrAppointmentNotFound
	}

	a.Status = status
	a.UpdatedAt = s.now()
	return nil
}

// LockDay ничего не блокирует: транзакции в памяти и так выполняются по одной
func (r *Appointments) LockDay(ctx context.Context, _ time.Time) error {
	if !inTx(ctx) {
		return fmt.Errorf("%w: LockDay", appointment.ErrTransaction)
	}
	return nil
}

func containsStatus(list []domain.Status, s domain.Status) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
