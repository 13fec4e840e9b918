package models

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

// Request модели

// CreateServiceRequest запрос на добавление услуги в каталог
type CreateServiceRequest struct {
	Name            string  `json:"name"`
	Description     string  `json:"description"`
	DurationMinutes int     `json:"durationMinutes"`
	Price           float64 `json:"price"`
	Active          *bool   `json:"active,omitempty"` // По умолчанию true
}

// ToDomainService конвертирует запрос в domain модель
func (r *CreateServiceRequest) ToDomainService() *domain.Service {
	active := true
	if r.Active != nil {
		active = *r.Active
	}
	return &domain.Service{
		Name:            r.Name,
		Description:     r.Description,
		DurationMinutes: r.DurationMinutes,
		Price:           r.Price,
		Active:          active,
	}
}

// UpdateServiceRequest запрос на изменение услуги
// Все поля опциональны - обновляются только переданные значения
type UpdateServiceRequest struct {
	Name            *string  `json:"name,omitempty"`
	Description     *string  `json:"description,omitempty"`
	DurationMinutes *int     `json:"durationMinutes,omitempty"`
	Price           *float64 `json:"price,omitempty"`
	Active          *bool    `json:"active,omitempty"`
}

// ApplyTo переносит переданные поля в услугу
func (r *UpdateServiceRequest) ApplyTo(svc *domain.Service) {
	svc.Name = ptr.Deref(r.Name, svc.Name)
	svc.Description = ptr.Deref(r.Description, svc.Description)
	svc.DurationMinutes = ptr.Deref(r.DurationMinutes, svc.DurationMinutes)
	svc.Price = ptr.Deref(r.Price, svc.Price)
	svc.Active = ptr.Deref(r.Active, svc.Active)
}

// Response модели

// ServiceResponse ответ с данными услуги
type ServiceResponse struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description,omitempty"`
	DurationMinutes int       `json:"durationMinutes"`
	Price           float64   `json:"price"`
	Active          bool      `json:"active"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// ServiceListResponse ответ со списком услуг
type ServiceListResponse struct {
	Services []ServiceResponse `json:"services"`
}

// FromDomainService конвертирует domain модель в DTO
func FromDomainService(s *domain.Service) *ServiceResponse {
	if s == nil {
		return nil
	}
	return &ServiceResponse{
		ID:              s.ID,
		Name:            s.Name,
		Description:     s.Description,
		DurationMinutes: s.DurationMinutes,
		Price:           s.Price,
		Active:          s.Active,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

// FromDomainServiceList конвертирует список domain моделей в DTO
func FromDomainServiceList(services []*domain.Service) *ServiceListResponse {
	resp := &ServiceListResponse{Services: make([]ServiceResponse, 0, len(services))}
	for _, s := range services {
		if dto := FromDomainService(s); dto != nil {
			resp.Services = append(resp.Services, *dto)
		}
	}
	return resp
}
