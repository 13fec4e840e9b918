package domain

import "time"

// Appointment запись клиента на услугу
type Appointment struct {
	ID        int64
	ClientID  int64
	ServiceID int64
	StartAt   time.Time
	Status    Status
	Notes     string

	// Заполняются при чтении из текущей строки услуги, в записи не хранятся
	DurationMinutes int
	ServiceName     string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// EndAt возвращает конец занятого интервала [StartAt, EndAt)
func (a *Appointment) EndAt() time.Time {
	return a.StartAt.Add(time.Duration(a.DurationMinutes) * time.Minute)
}

// IsActive returns true if the appointment occupies its interval
func (a *Appointment) IsActive() bool {
	return a.Status.IsActive()
}

// Overlaps проверяет пересечение интервала записи с [start, end)
func (a *Appointment) Overlaps(start, end time.Time) bool {
	return Overlaps(a.StartAt, a.EndAt(), start, end)
}

// Overlaps проверяет пересечение полуоткрытых интервалов [aStart, aEnd) и [bStart, bEnd)
// Касание границами пересечением не считается
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// AppointmentsFilter фильтр для списка записей (все поля опциональны)
type AppointmentsFilter struct {
	Date     *time.Time // Конкретный день (в часовом поясе расписания)
	Status   *Status
	ClientID *int64
}
