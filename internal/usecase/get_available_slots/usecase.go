package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"slices"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	serviceRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/service"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// UseCase use case для получения доступных слотов для записи
type UseCase struct {
	appointmentRepo AppointmentRepository
	serviceRepo     ServiceRepository
	calendar        CalendarProvider
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
	metrics Metrics,
	cfg Config,
	logger Logger,
) *UseCase {
	if cfg.SlotStepMinutes <= 0 {
		cfg.SlotStepMinutes = domain.DefaultSlotStepMinutes
	}
	if cfg.LeadTimeMinutes < 0 {
		cfg.LeadTimeMinutes = domain.DefaultLeadTimeMinutes
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}

	return &UseCase{
		appointmentRepo: appointmentRepo,
		serviceRepo:     serviceRepo,
		calendar:        calendar,
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

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: service=%d, date=%s", req.ServiceID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	date := domain.StartOfDay(req.Date.In(uc.cfg.Location))

	// 2. Получаем услугу
	service, err := uc.getService(ctx, req.ServiceID)
	if err != nil {
		return nil, err
	}

	// 3. Строим план дня и генерируем слоты
	plan, reason, err := uc.plan(ctx, date, service)
	if err != nil {
		return nil, err
	}

	slots := make([]types.TimeString, 0)
	if reason == domain.ReasonNone {
		slots = slices.Collect(plan.Slots())
		if len(slots) == 0 {
			reason = plan.emptyReason()
		}
	}

	if uc.metrics != nil {
		uc.metrics.ObserveSlotsQuery(string(reason), len(slots))
	}

	uc.logger.Info("GetAvailableSlots: generated %d slots for service=%d, date=%s, reason=%q",
		len(slots), req.ServiceID, date.Format(domain.DateFormat), reason)

	return &Response{
		Date:      date,
		ServiceID: req.ServiceID,
		Slots:     slots,
		Reason:    reason,
	}, nil
}

// Slots возвращает ленивую последовательность свободных слотов на дату
// Данные читаются один раз, обход последовательности не обращается к хранилищу
func (uc *UseCase) Slots(ctx context.Context, date time.Time, service *domain.Service) (iter.Seq[types.TimeString], error) {
	plan, reason, err := uc.plan(ctx, domain.StartOfDay(date.In(uc.cfg.Location)), service)
	if err != nil {
		return nil, err
	}
	if reason != domain.ReasonNone {
		return func(func(types.TimeString) bool) {}, nil
	}
	return plan.Slots(), nil
}

// plan загружает правило дня и занятые интервалы
// Если день закрыт или весь в прошлом, возвращает причину и не читает записи
func (uc *UseCase) plan(ctx context.Context, date time.Time, service *domain.Service) (DayPlan, domain.EmptyReason, error) {
	now := uc.timeProvider.Now()

	// Минимальное время начала слота
	cutoff := now.Add(time.Duration(uc.cfg.LeadTimeMinutes) * time.Minute)

	calendar, err := uc.calendar.Calendar(ctx)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to load calendar: %v", err)
		return DayPlan{}, domain.ReasonNone, fmt.Errorf("%w: failed to load calendar: %v", ErrInternal, err)
	}

	rule, ok := calendar.RuleFor(date)
	if !ok {
		uc.logger.Info("GetAvailableSlots: closed on %s", date.Format(domain.DateFormat))
		return DayPlan{}, domain.ReasonClosed, nil
	}

	plan := DayPlan{
		Rule:            rule,
		Date:            date,
		DurationMinutes: service.DurationMinutes,
		StepMinutes:     uc.cfg.SlotStepMinutes,
		Cutoff:          cutoff,
	}

	// День в прошлом или все слоты раньше cutoff: записи читать незачем
	if !hasAny(plan.afterCutoff()) {
		return plan, plan.emptyReason(), nil
	}

	// Одним запросом получаем все активные записи в рабочих часах дня
	busy, err := uc.appointmentRepo.FindOverlapping(ctx, rule.OpenOn(date), rule.CloseOn(date),
		[]domain.Status{domain.StatusCancelled})
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get appointments: %v", err)
		return DayPlan{}, domain.ReasonNone, fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
	}
	plan.Busy = busy

	return plan, domain.ReasonNone, nil
}

func (uc *UseCase) getService(ctx context.Context, id int64) (*domain.Service, error) {
	service, err := uc.serviceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableSlots: service id=%d not found", id)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get service id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	if !service.IsBookable() {
		uc.logger.Warn("GetAvailableSlots: service id=%d is inactive", id)
		return nil, fmt.Errorf("%w: service id=%d is inactive", ErrInvalidService, id)
	}

	return service, nil
}
