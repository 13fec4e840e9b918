package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	serviceRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/service"
)

const resultOK = "ok"

// UseCase use case для создания записи
type UseCase struct {
	appointmentRepo AppointmentRepository
	serviceRepo     ServiceRepository
	calendar        CalendarProvider
	txManager       TransactionManager
	metrics         Metrics
	timeProvider    TimeProvider
	logger          Logger
	cfg             Config
}

// NewUseCase создает новый экземпляр use case
// metrics может быть nil
func NewUseCase(
	appointmentRepo AppointmentRepository,
	serviceRepo ServiceRepository,
	calendar CalendarProvider,
	txManager TransactionManager,
	metrics Metrics,
	cfg Config,
	logger Logger,
) *UseCase {
	if cfg.LeadTimeMinutes < 0 {
		cfg.LeadTimeMinutes = domain.DefaultLeadTimeMinutes
	}
	if cfg.MaxNotesLength <= 0 {
		cfg.MaxNotesLength = domain.MaxNotesLength
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}

	return &UseCase{
		appointmentRepo: appointmentRepo,
		serviceRepo:     serviceRepo,
		calendar:        calendar,
		txManager:       txManager,
		metrics:         metrics,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
		cfg:             cfg,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case создания записи
// Проверка пересечений и вставка выполняются в сериализуемой транзакции под блокировкой дня
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: client=%d, service=%d, date=%s, time=%s",
		req.ClientID, req.ServiceID, req.Date, req.Time)

	result, err := uc.execute(ctx, req)
	uc.observe(err)
	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created appointment id=%d", result.ID)

	return toResponse(result), nil
}

func (uc *UseCase) execute(ctx context.Context, req *Request) (*domain.Appointment, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Услуга должна существовать и быть активной
	service, err := uc.getService(ctx, req.ServiceID)
	if err != nil {
		return nil, err
	}

	// 3. Время начала в часовом поясе расписания
	start, err := parseStart(req.Date, req.Time, uc.cfg.Location)
	if err != nil {
		uc.logger.Warn("CreateBooking: invalid date or time: %v", err)
		return nil, err
	}

	// 4. Не в прошлом и не раньше минимального запаса
	now := uc.timeProvider.Now()
	if err := validateStart(start, now, uc.cfg.LeadTimeMinutes); err != nil {
		uc.logger.Warn("CreateBooking: start validation failed: %v", err)
		return nil, err
	}

	// 5. Запись целиком в рабочих часах дня
	calendar, err := uc.calendar.Calendar(ctx)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to load calendar: %v", err)
		return nil, fmt.Errorf("%w: failed to load calendar: %v", ErrInternal, err)
	}
	if err := validateBusinessHours(calendar, start, service.DurationMinutes); err != nil {
		uc.logger.Warn("CreateBooking: %v", err)
		return nil, err
	}

	// 6. Комментарий
	notes, err := normalizeNotes(req.Notes, uc.cfg.MaxNotesLength)
	if err != nil {
		uc.logger.Warn("CreateBooking: %v", err)
		return nil, err
	}

	appt := &domain.Appointment{
		ClientID:        req.ClientID,
		ServiceID:       service.ID,
		StartAt:         start,
		Status:          domain.StatusScheduled,
		Notes:           notes,
		DurationMinutes: service.DurationMinutes,
		ServiceName:     service.Name,
	}

	// 7. Проверка пересечений и вставка атомарно
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		if err := uc.appointmentRepo.LockDay(txCtx, start); err != nil {
			uc.logger.Error("CreateBooking: failed to lock day %s: %v", start.Format(domain.DateFormat), err)
			return fmt.Errorf("%w: failed to lock day: %w", ErrInternal, err)
		}

		overlapping, err := uc.appointmentRepo.FindOverlapping(txCtx, start, appt.EndAt(),
			[]domain.Status{domain.StatusCancelled})
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get overlapping appointments: %v", err)
			return fmt.Errorf("%w: failed to get overlapping appointments: %w", ErrInternal, err)
		}

		for _, other := range overlapping {
			if other.IsActive() && other.Overlaps(start, appt.EndAt()) {
				uc.logger.Warn("CreateBooking: slot %s overlaps appointment id=%d",
					start.Format(time.RFC3339), other.ID)
				return fmt.Errorf("%w: overlaps appointment at %s", ErrSlotUnavailable, other.StartAt.Format(domain.TimeFormat))
			}
		}

		created, err := uc.appointmentRepo.Insert(txCtx, appt)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrConflict) {
				uc.logger.Warn("CreateBooking: slot %s already taken", start.Format(time.RFC3339))
				return fmt.Errorf("%w: %v", ErrSlotUnavailable, err)
			}
			uc.logger.Error("CreateBooking: failed to insert appointment: %v", err)
			return fmt.Errorf("%w: failed to insert appointment: %w", ErrInternal, err)
		}

		appt = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	// Репозиторий не заполняет поля услуги
	appt.DurationMinutes = service.DurationMinutes
	appt.ServiceName = service.Name

	return appt, nil
}

func (uc *UseCase) getService(ctx context.Context, id int64) (*domain.Service, error) {
	service, err := uc.serviceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateBooking: service id=%d not found", id)
			return nil, fmt.Errorf("%w: service id=%d not found", ErrInvalidService, id)
		}
		uc.logger.Error("CreateBooking: failed to get service id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	if !service.IsBookable() {
		uc.logger.Warn("CreateBooking: service id=%d is inactive", id)
		return nil, fmt.Errorf("%w: service id=%d is inactive", ErrInvalidService, id)
	}

	return service, nil
}

func (uc *UseCase) observe(err error) {
	if uc.metrics == nil {
		return
	}
	if err == nil {
		uc.metrics.ObserveBooking(resultOK)
		return
	}
	uc.metrics.ObserveBooking(string(domain.KindOf(err)))
}
