package create_booking

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// validateRequest проверяет идентификаторы запроса
func validateRequest(req *Request) error {
	if req.ClientID <= 0 {
		return fmt.Errorf("%w: clientID must be positive", ErrInvalidInput)
	}
	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}
	return nil
}

// parseStart собирает время начала из даты и времени в часовом поясе расписания
func parseStart(date, clock string, loc *time.Location) (time.Time, error) {
	day, err := domain.ParseDate(strings.TrimSpace(date), loc)
	if err != nil {
		return time.Time{}, err
	}

	ts, err := types.NewTimeStringFromString(clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: time %q must be HH:MM", ErrInvalidDateTime, clock)
	}

	return ts.OnDate(day), nil
}

// validateStart проверяет, что запись не в прошлом и соблюдён минимальный запас
func validateStart(start, now time.Time, leadTimeMinutes int) error {
	if start.Before(now) {
		return fmt.Errorf("%w: %s", ErrPastDateTime, start.Format(time.RFC3339))
	}

	cutoff := now.Add(time.Duration(leadTimeMinutes) * time.Minute)
	if start.Before(cutoff) {
		return fmt.Errorf("%w: booking requires at least %d minutes notice", ErrLeadTimeNotMet, leadTimeMinutes)
	}

	return nil
}

// validateBusinessHours проверяет, что [start, start+duration) целиком в рабочих часах дня
func validateBusinessHours(calendar *domain.Calendar, start time.Time, durationMinutes int) error {
	rule, ok := calendar.RuleFor(start)
	if !ok {
		return fmt.Errorf("%w: closed on %s", ErrOutsideBusinessHours, start.Weekday())
	}

	if !rule.Covers(start, durationMinutes) {
		return fmt.Errorf("%w: %s-%s, requested %s for %d minutes",
			ErrOutsideBusinessHours, rule.OpenTime, rule.CloseTime, types.NewTimeString(start), durationMinutes)
	}

	return nil
}

// normalizeNotes обрезает пробелы по краям и проверяет длину в символах
func normalizeNotes(notes string, maxLength int) (string, error) {
	notes = strings.TrimSpace(notes)
	if n := utf8.RuneCountInString(notes); n > maxLength {
		return "", fmt.Errorf("%w: %d characters, max %d", ErrNotesTooLong, n, maxLength)
	}
	return notes, nil
}
