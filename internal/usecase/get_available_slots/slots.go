package get_available_slots

import (
	"iter"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// DayPlan всё, что нужно для генерации слотов на один день
// Генерация чистая: данные загружены заранее, повторный обход даёт тот же результат
type DayPlan struct {
	Rule            domain.WorkingHoursRule
	Date            time.Time // Полночь дня в часовом поясе расписания
	DurationMinutes int
	StepMinutes     int
	Cutoff          time.Time             // Слоты раньше cutoff не предлагаются
	Busy            []*domain.Appointment // Активные записи, пересекающиеся с рабочими часами
}

// candidates перебирает начала слотов от открытия с фиксированным шагом,
// пока слот целиком помещается до закрытия
//
// Шаг не зависит от длительности услуги:
// услуга на 45 минут при шаге 30 получает 09:00, 09:30, 10:00, ...
func (p DayPlan) candidates() iter.Seq[time.Time] {
	return func(yield func(time.Time) bool) {
		if p.StepMinutes <= 0 || p.DurationMinutes <= 0 {
			return
		}

		step := time.Duration(p.StepMinutes) * time.Minute
		duration := time.Duration(p.DurationMinutes) * time.Minute
		closeAt := p.Rule.CloseOn(p.Date)

		for start := p.Rule.OpenOn(p.Date); !start.Add(duration).After(closeAt); start = start.Add(step) {
			if !yield(start) {
				return
			}
		}
	}
}

// afterCutoff оставляет начала не раньше cutoff
func (p DayPlan) afterCutoff() iter.Seq[time.Time] {
	return func(yield func(time.Time) bool) {
		for start := range p.candidates() {
			if start.Before(p.Cutoff) {
				continue
			}
			if !yield(start) {
				return
			}
		}
	}
}

// Slots возвращает свободные слоты в хронологическом порядке
func (p DayPlan) Slots() iter.Seq[types.TimeString] {
	return func(yield func(types.TimeString) bool) {
		duration := time.Duration(p.DurationMinutes) * time.Minute

		for start := range p.afterCutoff() {
			if p.isBusy(start, start.Add(duration)) {
				continue
			}
			if !yield(types.NewTimeString(start.In(p.Date.Location()))) {
				return
			}
		}
	}
}

// isBusy проверяет пересечение [start, end) с любой активной записью
// Касание границами пересечением не считается
func (p DayPlan) isBusy(start, end time.Time) bool {
	for _, appt := range p.Busy {
		if appt.IsActive() && appt.Overlaps(start, end) {
			return true
		}
	}
	return false
}

// emptyReason объясняет пустой результат
func (p DayPlan) emptyReason() domain.EmptyReason {
	if !hasAny(p.candidates()) {
		return domain.ReasonClosed
	}
	if !hasAny(p.afterCutoff()) {
		return domain.ReasonPast
	}
	return domain.ReasonFull
}

func hasAny[T any](seq iter.Seq[T]) bool {
	for range seq {
		return true
	}
	return false
}
