package calendar

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/calendar/models"
)

// Service сервис недельного расписания
type Service struct {
	repo   WorkingHoursRepository
	logger Logger
}

// NewService создает новый экземпляр сервиса расписания
func NewService(repo WorkingHoursRepository, logger Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// List возвращает расписание на неделю
// Публичный метод - доступен всем
func (s *Service) List(ctx context.Context) (*models.WorkingHoursListResponse, error) {
	s.logger.Info("List: fetching working hours")

	rules, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainRules(domain.NewCalendar(rules).Rules()), nil
}

// Update заменяет рабочие часы дня недели
// Доступно только персоналу. Уже созданные записи не проверяются повторно
func (s *Service) Update(ctx context.Context, weekday int, req *models.UpdateWorkingHoursRequest, actor domain.Actor) (*models.WorkingHoursResponse, error) {
	s.logger.Info("Update: weekday=%d, open=%s, close=%s, active=%t by %s:%d",
		weekday, req.OpenTime, req.CloseTime, req.Active, actor.Role, actor.ID)

	if !actor.IsStaff() {
		s.logger.Warn("Update: %s:%d is not staff", actor.Role, actor.ID)
		return nil, ErrForbidden
	}

	if weekday < int(time.Sunday) || weekday > int(time.Saturday) {
		return nil, fmt.Errorf("%w: weekday must be in 0..6", ErrInvalidInput)
	}

	rule, err := req.ToDomainRule(time.Weekday(weekday))
	if err != nil {
		s.logger.Warn("Update: invalid times: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := rule.Validate(); err != nil {
		s.logger.Warn("Update: validation failed: %v", err)
		return nil, err
	}

	saved, err := s.repo.Upsert(ctx, rule)
	if err != nil {
		s.logger.Error("Update: repository error for weekday=%d: %v", weekday, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Update: successfully saved working hours for %s", saved.Weekday)
	resp := models.FromDomainRule(saved)
	return &resp, nil
}
