package models

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Request модели

// UpdateWorkingHoursRequest запрос на изменение рабочих часов дня недели
type UpdateWorkingHoursRequest struct {
	OpenTime  string `json:"openTime" validate:"required"`  // "09:00"
	CloseTime string `json:"closeTime" validate:"required"` // "19:00"
	Active    bool   `json:"active"`
}

// ToDomainRule конвертирует запрос в правило
func (r *UpdateWorkingHoursRequest) ToDomainRule(weekday time.Weekday) (domain.WorkingHoursRule, error) {
	open, err := types.NewTimeStringFromString(r.OpenTime)
	if err != nil {
		return domain.WorkingHoursRule{}, err
	}
	closeAt, err := types.NewTimeStringFromString(r.CloseTime)
	if err != nil {
		return domain.WorkingHoursRule{}, err
	}
	return domain.WorkingHoursRule{
		Weekday:   weekday,
		OpenTime:  open,
		CloseTime: closeAt,
		Active:    r.Active,
	}, nil
}

// Response модели

// WorkingHoursResponse рабочие часы на день недели
type WorkingHoursResponse struct {
	Weekday   int       `json:"weekday"` // 0 = воскресенье
	DayName   string    `json:"dayName"`
	OpenTime  string    `json:"openTime"`
	CloseTime string    `json:"closeTime"`
	Active    bool      `json:"active"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// WorkingHoursListResponse недельное расписание
type WorkingHoursListResponse struct {
	Days []WorkingHoursResponse `json:"days"`
}

// FromDomainRule конвертирует правило в DTO
func FromDomainRule(r domain.WorkingHoursRule) WorkingHoursResponse {
	return WorkingHoursResponse{
		Weekday:   int(r.Weekday),
		DayName:   r.Weekday.String(),
		OpenTime:  r.OpenTime.String(),
		CloseTime: r.CloseTime.String(),
		Active:    r.Active,
		UpdatedAt: r.UpdatedAt,
	}
}

// FromDomainRules конвертирует список правил в DTO
func FromDomainRules(rules []domain.WorkingHoursRule) *WorkingHoursListResponse {
	resp := &WorkingHoursListResponse{Days: make([]WorkingHoursResponse, 0, len(rules))}
	for _, r := range rules {
		resp.Days = append(resp.Days, FromDomainRule(r))
	}
	return resp
}
