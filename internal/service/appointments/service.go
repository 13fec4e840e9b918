package appointments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

// Service сервис чтения записей
type Service struct {
	appointmentRepo AppointmentRepository
	loc             *time.Location
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
// loc - часовой пояс расписания для разбора дат фильтра
func NewService(
	appointmentRepo AppointmentRepository,
	loc *time.Location,
	logger Logger,
) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{
		appointmentRepo: appointmentRepo,
		loc:             loc,
		logger:          logger,
	}
}

// GetByID получает запись по ID
// Клиент видит только свои записи, персонал - любые
func (s *Service) GetByID(ctx context.Context, id int64, actor domain.Actor) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%d for %s:%d", id, actor.Role, actor.ID)

	appt, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("GetByID: appointment id=%d not found", id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("GetByID: repository error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if !actor.CanAccessClient(appt.ClientID) {
		s.logger.Warn("GetByID: access denied for %s:%d to appointment id=%d", actor.Role, actor.ID, id)
		return nil, ErrAccessDenied
	}

	return models.FromDomainAppointment(appt), nil
}

// ClientHistory возвращает все записи клиента, новые первыми
func (s *Service) ClientHistory(ctx context.Context, clientID int64, actor domain.Actor) (*models.AppointmentListResponse, error) {
	s.logger.Info("ClientHistory: fetching appointments for client=%d by %s:%d", clientID, actor.Role, actor.ID)

	if clientID <= 0 {
		return nil, fmt.Errorf("%w: clientID must be positive", ErrInvalidInput)
	}

	if !actor.CanAccessClient(clientID) {
		s.logger.Warn("ClientHistory: access denied for %s:%d to client=%d", actor.Role, actor.ID, clientID)
		return nil, ErrAccessDenied
	}

	list, err := s.appointmentRepo.FindByClient(ctx, clientID)
	if err != nil {
		s.logger.Error("ClientHistory: repository error for client=%d: %v", clientID, err)
		return nil, fmt.Errorf("%w: ClientHistory - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ClientHistory: fetched %d appointments for client=%d", len(list), clientID)
	return models.FromDomainAppointmentList(list), nil
}

// List возвращает записи для персонала с фильтром по дню и статусу
// Без фильтров возвращаются все записи, новые первыми
func (s *Service) List(ctx context.Context, req *models.ListAppointmentsRequest, actor domain.Actor) (*models.AppointmentListResponse, error) {
	s.logger.Info("List: date=%q, status=%q by %s:%d", req.Date, req.Status, actor.Role, actor.ID)

	if !actor.IsStaff() {
		s.logger.Warn("List: %s:%d is not staff", actor.Role, actor.ID)
		return nil, ErrForbidden
	}

	filter, err := s.toFilter(req)
	if err != nil {
		s.logger.Warn("List: invalid filter: %v", err)
		return nil, err
	}

	list, err := s.find(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: fetched %d appointments", len(list))
	return models.FromDomainAppointmentList(list), nil
}

// find выбирает записи по фильтру
// Записи дня читаются диапазоном [полночь, следующая полночь) и разворачиваются: новые первыми
func (s *Service) find(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	if filter.Date == nil {
		return s.appointmentRepo.List(ctx, filter)
	}

	dayStart := domain.StartOfDay(filter.Date.In(s.loc))
	day, err := s.appointmentRepo.FindByDateRange(ctx, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	out := make([]*domain.Appointment, 0, len(day))
	for i := len(day) - 1; i >= 0; i-- {
		if filter.Status != nil && day[i].Status != *filter.Status {
			continue
		}
		out = append(out, day[i])
	}
	return out, nil
}

func (s *Service) toFilter(req *models.ListAppointmentsRequest) (domain.AppointmentsFilter, error) {
	var filter domain.AppointmentsFilter

	if date := strings.TrimSpace(req.Date); date != "" {
		day, err := domain.ParseDate(date, s.loc)
		if err != nil {
			return filter, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		filter.Date = ptr.Ptr(day)
	}

	if status := strings.TrimSpace(req.Status); status != "" {
		parsed, err := domain.ParseStatus(status)
		if err != nil {
			return filter, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		filter.Status = ptr.Ptr(parsed)
	}

	return filter, nil
}
