package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownRole возвращается при разборе неизвестной роли
var ErrUnknownRole = errors.New("domain: unknown role")

// Role роль пользователя, выполняющего операцию
type Role string

const (
	RoleClient Role = "client"
	RoleStaff  Role = "staff"
)

// ParseRole разбирает роль из заголовка
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleClient:
		return RoleClient, nil
	case RoleStaff:
		return RoleStaff, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
}

// Actor кто выполняет операцию. Передаётся в use case явно
type Actor struct {
	Role Role
	ID   int64
}

// IsStaff returns true for staff members
func (a Actor) IsStaff() bool {
	return a.Role == RoleStaff
}

// CanAccessClient проверяет доступ к данным клиента: свои данные или персонал
func (a Actor) CanAccessClient(clientID int64) bool {
	return a.IsStaff() || a.ID == clientID
}
