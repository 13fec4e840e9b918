package domain

import (
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// WorkingHoursRule рабочие часы на день недели
// Интервал работы полуоткрытый: [OpenTime, CloseTime)
type WorkingHoursRule struct {
	Weekday   time.Weekday // 0 = воскресенье
	OpenTime  types.TimeString
	CloseTime types.TimeString
	Active    bool
	UpdatedAt time.Time
}

// IsOpen returns true if the rule is active and its times form a non-empty interval
func (r WorkingHoursRule) IsOpen() bool {
	return r.Active &&
		r.OpenTime.Validate() == nil &&
		r.CloseTime.Validate() == nil &&
		r.OpenTime.IsBefore(r.CloseTime)
}

// OpenOn возвращает момент открытия в указанный день
func (r WorkingHoursRule) OpenOn(date time.Time) time.Time {
	return r.OpenTime.OnDate(date)
}

// CloseOn возвращает момент закрытия в указанный день
func (r WorkingHoursRule) CloseOn(date time.Time) time.Time {
	return r.CloseTime.OnDate(date)
}

// Covers проверяет, что [start, start+durationMinutes) целиком внутри рабочих часов
func (r WorkingHoursRule) Covers(start time.Time, durationMinutes int) bool {
	if !r.IsOpen() || durationMinutes <= 0 || start.Weekday() != r.Weekday {
		return false
	}

	end := start.Add(time.Duration(durationMinutes) * time.Minute)
	return !start.Before(r.OpenOn(start)) && !end.After(r.CloseOn(start))
}

// Validate проверяет правило перед сохранением
func (r WorkingHoursRule) Validate() error {
	if r.Weekday < time.Sunday || r.Weekday > time.Saturday {
		return fmt.Errorf("%w: weekday must be in 0..6", ErrInvalidInput)
	}
	if err := r.OpenTime.Validate(); err != nil {
		return fmt.Errorf("%w: open time: %v", ErrInvalidInput, err)
	}
	if err := r.CloseTime.Validate(); err != nil {
		return fmt.Errorf("%w: close time: %v", ErrInvalidInput, err)
	}
	if !r.OpenTime.IsBefore(r.CloseTime) {
		return fmt.Errorf("%w: open time must be before close time", ErrInvalidInput)
	}
	return nil
}

// Calendar недельное расписание, по одному правилу на день недели
type Calendar struct {
	rules map[time.Weekday]WorkingHoursRule
}

// NewCalendar строит календарь из списка правил; при дублях побеждает последнее
func NewCalendar(rules []WorkingHoursRule) *Calendar {
	c := &Calendar{rules: make(map[time.Weekday]WorkingHoursRule, len(rules))}
	for _, r := range rules {
		c.rules[r.Weekday] = r
	}
	return c
}

// RuleFor возвращает правило на день недели даты
// false, если правила нет или день нерабочий
func (c *Calendar) RuleFor(date time.Time) (WorkingHoursRule, bool) {
	rule, ok := c.rules[date.Weekday()]
	if !ok || !rule.IsOpen() {
		return WorkingHoursRule{}, false
	}
	return rule, true
}

// Rules возвращает все правила по порядку дней недели
func (c *Calendar) Rules() []WorkingHoursRule {
	out := make([]WorkingHoursRule, 0, len(c.rules))
	for _, r := range c.rules {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Weekday < out[j].Weekday })
	return out
}

// DefaultWorkingHours расписание по умолчанию: будни 09-19, суббота 09-17, воскресенье выходной
func DefaultWorkingHours() []WorkingHoursRule {
	rules := make([]WorkingHoursRule, 0, 7)
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		rule := WorkingHoursRule{Weekday: wd, OpenTime: "09:00", CloseTime: "19:00", Active: true}
		switch wd {
		case time.Saturday:
			rule.CloseTime = "17:00"
		case time.Sunday:
			rule.CloseTime = "13:00"
			rule.Active = false
		}
		rules = append(rules, rule)
	}
	return rules
}
