package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	serviceRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/service"
	"github.com/m04kA/SMC-AppointmentService/internal/service/catalog/models"
)

// Service сервис каталога услуг
type Service struct {
	serviceRepo ServiceRepository
	logger      Logger
}

// NewService создает новый экземпляр сервиса каталога
func NewService(serviceRepo ServiceRepository, logger Logger) *Service {
	return &Service{
		serviceRepo: serviceRepo,
		logger:      logger,
	}
}

// List возвращает услуги каталога
// Неактивные услуги видит только персонал и только по запросу
func (s *Service) List(ctx context.Context, includeInactive bool, actor domain.Actor) (*models.ServiceListResponse, error) {
	onlyActive := !(includeInactive && actor.IsStaff())
	s.logger.Info("List: onlyActive=%t by %s:%d", onlyActive, actor.Role, actor.ID)

	services, err := s.serviceRepo.List(ctx, onlyActive)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainServiceList(services), nil
}

// GetByID получает услугу по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.ServiceResponse, error) {
	svc, err := s.get(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}
	return models.FromDomainService(svc), nil
}

// Create добавляет услугу в каталог
// Доступно только персоналу
func (s *Service) Create(ctx context.Context, req *models.CreateServiceRequest, actor domain.Actor) (*models.ServiceResponse, error) {
	s.logger.Info("Create: name=%q, duration=%d by %s:%d", req.Name, req.DurationMinutes, actor.Role, actor.ID)

	if !actor.IsStaff() {
		s.logger.Warn("Create: %s:%d is not staff", actor.Role, actor.ID)
		return nil, ErrForbidden
	}

	svc := req.ToDomainService()
	svc.Normalize()
	if err := svc.Validate(); err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, err
	}

	created, err := s.serviceRepo.Create(ctx, svc)
	if err != nil {
		s.logger.Error("Create: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: successfully created service id=%d", created.ID)
	return models.FromDomainService(created), nil
}

// Update изменяет услугу каталога
// Доступно только персоналу. Длительность уже созданных записей меняется вместе с услугой
func (s *Service) Update(ctx context.Context, id int64, req *models.UpdateServiceRequest, actor domain.Actor) (*models.ServiceResponse, error) {
	s.logger.Info("Update: service id=%d by %s:%d", id, actor.Role, actor.ID)

	if !actor.IsStaff() {
		s.logger.Warn("Update: %s:%d is not staff", actor.Role, actor.ID)
		return nil, ErrForbidden
	}

	svc, err := s.get(ctx, "Update", id)
	if err != nil {
		return nil, err
	}

	req.ApplyTo(svc)
	svc.Normalize()
	if err := svc.Validate(); err != nil {
		s.logger.Warn("Update: validation failed for service id=%d: %v", id, err)
		return nil, err
	}

	updated, err := s.serviceRepo.Update(ctx, svc)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			s.logger.Warn("Update: service id=%d not found during update", id)
			return nil, ErrServiceNotFound
		}
		s.logger.Error("Update: repository error for service id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Update: successfully updated service id=%d", id)
	return models.FromDomainService(updated), nil
}

func (s *Service) get(ctx context.Context, op string, id int64) (*domain.Service, error) {
	svc, err := s.serviceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			s.logger.Warn("%s: service id=%d not found", op, id)
			return nil, ErrServiceNotFound
		}
		s.logger.Error("%s: repository error for service id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return svc, nil
}
