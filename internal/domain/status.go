package domain

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownStatus возвращается при разборе неизвестного статуса
var ErrUnknownStatus = errors.New("domain: unknown appointment status")

// Status статус записи. Нулевое значение невалидно, получать только через ParseStatus
type Status uint8

const (
	statusUnknown Status = iota
	StatusScheduled
	StatusCompleted
	StatusCancelled
)

var statusNames = map[Status]string{
	StatusScheduled: "scheduled",
	StatusCompleted: "completed",
	StatusCancelled: "cancelled",
}

// ParseStatus разбирает строковое представление статуса
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "scheduled":
		return StatusScheduled, nil
	case "completed":
		return StatusCompleted, nil
	case "cancelled":
		return StatusCancelled, nil
	default:
		return statusUnknown, fmt.Errorf("%w: %q", ErrUnknownStatus, s)
	}
}

// String реализует fmt.Stringer
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "unknown"
}

// IsValid возвращает true для одного из трёх известных статусов
func (s Status) IsValid() bool {
	_, ok := statusNames[s]
	return ok
}

// IsActive возвращает true, если запись занимает время в расписании
func (s Status) IsActive() bool {
	return s.IsValid() && s != StatusCancelled
}

// IsTerminal возвращает true для завершённых и отменённых записей
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// MarshalText реализует encoding.TextMarshaler (JSON)
func (s Status) MarshalText() ([]byte, error) {
	if !s.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownStatus, uint8(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText реализует encoding.TextUnmarshaler (JSON)
func (s *Status) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Scan реализует sql.Scanner
func (s *Status) Scan(src interface{}) error {
	var raw string
	switch v := src.(type) {
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("%w: unsupported scan type %T", ErrUnknownStatus, src)
	}
	return s.UnmarshalText([]byte(raw))
}

// Value реализует driver.Valuer
func (s Status) Value() (driver.Value, error) {
	if !s.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownStatus, uint8(s))
	}
	return s.String(), nil
}

// staffTransitions допустимые переходы для персонала
// Отмена разрешена из любого статуса, завершение только из scheduled
var staffTransitions = map[Status]map[Status]bool{
	StatusScheduled: {StatusCompleted: true, StatusCancelled: true},
	StatusCompleted: {StatusCancelled: true},
	StatusCancelled: {StatusCancelled: true},
}

// CanTransition сообщает, может ли персонал перевести запись из from в to
func CanTransition(from, to Status) bool {
	return staffTransitions[from][to]
}
