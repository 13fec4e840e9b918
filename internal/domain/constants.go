package domain

import (
	"fmt"
	"time"
)

// Default booking rules
const (
	DefaultSlotStepMinutes           = 30
	DefaultLeadTimeMinutes           = 30
	DefaultClientCancelNoticeMinutes = 120 // 2 hours
)

// Business validation constants
const (
	MaxNotesLength            = 500
	MinServiceNameLength      = 3
	MinServiceDurationMinutes = 1
	MaxServiceDurationMinutes = 480 // 8 hours
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ParseDate разбирает дату YYYY-MM-DD в полночь указанного часового пояса
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	date, err := time.ParseInLocation(DateFormat, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q must be YYYY-MM-DD", ErrInvalidDateTime, s)
	}
	return date, nil
}

// StartOfDay возвращает полночь дня t в его часовом поясе
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DefaultServices каталог, которым заполняется пустая база
func DefaultServices() []Service {
	return []Service{
		{Name: "Corte de Cabelo", Description: "Corte masculino tradicional ou moderno", DurationMinutes: 30, Price: 35, Active: true},
		{Name: "Barba", Description: "Aparar e modelar barba", DurationMinutes: 20, Price: 25, Active: true},
		{Name: "Corte + Barba", Description: "Combo completo de corte e barba", DurationMinutes: 45, Price: 50, Active: true},
		{Name: "Sobrancelha", Description: "Design de sobrancelha masculina", DurationMinutes: 15, Price: 15, Active: true},
		{Name: "Hidratação", Description: "Tratamento capilar com hidratação profunda", DurationMinutes: 30, Price: 40, Active: true},
		{Name: "Acabamento", Description: "Finalização com máquina e navalha", DurationMinutes: 15, Price: 20, Active: true},
	}
}
