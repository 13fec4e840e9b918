package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Service услуга из каталога
type Service struct {
	ID              int64
	Name            string
	Description     string
	DurationMinutes int
	Price           float64
	Active          bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsBookable returns true if clients can book the service
func (s *Service) IsBookable() bool {
	return s.Active && s.DurationMinutes > 0
}

// Duration возвращает длительность услуги
func (s *Service) Duration() time.Duration {
	return time.Duration(s.DurationMinutes) * time.Minute
}

// Normalize убирает лишние пробелы в текстовых полях
func (s *Service) Normalize() {
	s.Name = strings.TrimSpace(s.Name)
	s.Description = strings.TrimSpace(s.Description)
}

// Validate проверяет услугу перед сохранением в каталог
func (s *Service) Validate() error {
	if utf8.RuneCountInString(strings.TrimSpace(s.Name)) < MinServiceNameLength {
		return fmt.Errorf("%w: name must be at least %d characters", ErrInvalidInput, MinServiceNameLength)
	}
	if s.DurationMinutes < MinServiceDurationMinutes || s.DurationMinutes > MaxServiceDurationMinutes {
		return fmt.Errorf("%w: duration must be between %d and %d minutes",
			ErrInvalidInput, MinServiceDurationMinutes, MaxServiceDurationMinutes)
	}
	if s.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}
	return nil
}
