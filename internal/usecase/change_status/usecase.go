package change_status

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
)

const resultOK = "ok"

// UseCase use case для смены статуса записи (отмена, завершение)
type UseCase struct {
	appointmentRepo AppointmentRepository
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
	txManager TransactionManager,
	metrics Metrics,
	cfg Config,
	logger Logger,
) *UseCase {
	if cfg.ClientCancelNoticeMinutes < 0 {
		cfg.ClientCancelNoticeMinutes = domain.DefaultClientCancelNoticeMinutes
	}

	return &UseCase{
		appointmentRepo: appointmentRepo,
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

// Execute выполняет use case смены статуса
// Чтение и обновление статуса выполняются в одной транзакции с блокировкой строки
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ChangeStatus: appointment=%d, target=%s, actor=%s:%d",
		req.AppointmentID, req.Target, req.Actor.Role, req.Actor.ID)

	resp, err := uc.execute(ctx, req)
	uc.observe(req.Target, err)
	if err != nil {
		return nil, err
	}

	if resp.Changed {
		uc.logger.Info("ChangeStatus: appointment id=%d is now %s", req.AppointmentID, resp.Appointment.Status)
	} else {
		uc.logger.Info("ChangeStatus: appointment id=%d already %s", req.AppointmentID, resp.Appointment.Status)
	}

	return resp, nil
}

func (uc *UseCase) execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ChangeStatus: validation failed: %v", err)
		return nil, err
	}

	resp := &Response{}

	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// 2. Получаем запись с блокировкой
		appt, err := uc.appointmentRepo.GetByID(txCtx, req.AppointmentID)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				uc.logger.Warn("ChangeStatus: appointment id=%d not found", req.AppointmentID)
				return ErrAppointmentNotFound
			}
			uc.logger.Error("ChangeStatus: failed to get appointment id=%d: %v", req.AppointmentID, err)
			return fmt.Errorf("%w: failed to get appointment: %w", ErrInternal, err)
		}

		// 3. Проверяем политику для роли
		if req.Actor.IsStaff() {
			err = checkStaff(appt, req.Target)
		} else {
			err = checkClient(appt, req.Actor, req.Target, uc.timeProvider.Now(), uc.cfg.clientNotice())
		}
		if err != nil {
			uc.logger.Warn("ChangeStatus: denied for appointment id=%d: %v", appt.ID, err)
			return err
		}

		resp.Appointment = appt

		// Повторная отмена ничего не меняет
		if appt.Status == req.Target {
			return nil
		}

		// 4. Обновляем статус
		if err := uc.appointmentRepo.UpdateStatus(txCtx, appt.ID, req.Target); err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				uc.logger.Warn("ChangeStatus: appointment id=%d not found during update", appt.ID)
				return ErrAppointmentNotFound
			}
			uc.logger.Error("ChangeStatus: failed to update appointment id=%d: %v", appt.ID, err)
			return fmt.Errorf("%w: failed to update status: %w", ErrInternal, err)
		}

		updated, err := uc.appointmentRepo.GetByID(txCtx, appt.ID)
		if err != nil {
			uc.logger.Error("ChangeStatus: failed to reload appointment id=%d: %v", appt.ID, err)
			return fmt.Errorf("%w: failed to reload appointment: %w", ErrInternal, err)
		}

		resp.Appointment = updated
		resp.Changed = true
		return nil
	})

	if err != nil {
		return nil, err
	}

	return resp, nil
}

func (uc *UseCase) observe(target domain.Status, err error) {
	if uc.metrics == nil {
		return
	}
	result := resultOK
	if err != nil {
		result = string(domain.KindOf(err))
	}
	uc.metrics.ObserveStatusChange(target.String(), result)
}
