package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/storage/service"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/storage/workinghours"
)

var monday = time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

func at(hour, minute int) time.Time {
	return monday.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

func newTestStore(t *testing.T) (*Store, *domain.Service, *domain.Service) {
	t.Helper()
	s := NewStore(time.UTC)
	ctx := context.Background()

	short, err := s.Services().Create(ctx, &domain.Service{Name: "Barba", DurationMinutes: 20, Active: true})
	require.NoError(t, err)
	long, err := s.Services().Create(ctx, &domain.Service{Name: "Corte + Barba", DurationMinutes: 45, Active: true})
	require.NoError(t, err)

	return s, short, long
}

func insert(t *testing.T, s *Store, clientID, serviceID int64, start time.Time, status domain.Status) *domain.Appointment {
	t.Helper()
	var created *domain.Appointment
	err := s.TxManager().DoSerializable(context.Background(), func(ctx context.Context) error {
		var err error
		created, err = s.Appointments().Insert(ctx, &domain.Appointment{
			ClientID:  clientID,
			ServiceID: serviceID,
			StartAt:   start,
			Status:    status,
		})
		return err
	})
	require.NoError(t, err)
	return created
}

func TestAppointments_FindOverlapping_UsesServiceDuration(t *testing.T) {
	s, short, long := newTestStore(t)
	ctx := context.Background()

	insert(t, s, 1, long.ID, at(10, 0), domain.StatusScheduled)  // 10:00-10:45
	insert(t, s, 2, short.ID, at(11, 0), domain.StatusCancelled) // cancelled
	insert(t, s, 3, short.ID, at(12, 0), domain.StatusCompleted) // 12:00-12:20

	found, err := s.Appointments().FindOverlapping(ctx, at(10, 30), at(11, 30), []domain.Status{domain.StatusCancelled})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, int64(1), found[0].ClientID)
	assert.Equal(t, 45, found[0].DurationMinutes)
	assert.Equal(t, "Corte + Barba", found[0].ServiceName)

	found, err = s.Appointments().FindOverlapping(ctx, at(10, 45), at(12, 0), []domain.Status{domain.StatusCancelled})
	require.NoError(t, err)
	assert.Empty(t, found, "touching intervals do not overlap")

	found, err = s.Appointments().FindOverlapping(ctx, at(9, 0), at(13, 0), nil)
	require.NoError(t, err)
	assert.Len(t, found, 3)
	assert.True(t, found[0].StartAt.Before(found[1].StartAt))
}

func TestAppointments_Insert_Constraints(t *testing.T) {
	s, short, _ := newTestStore(t)
	insert(t, s, 1, short.ID, at(9, 0), domain.StatusScheduled)

	err := s.TxManager().DoSerializable(context.Background(), func(ctx context.Context) error {
		_, err := s.Appointments().Insert(ctx, &domain.Appointment{ClientID: 2, ServiceID: short.ID, StartAt: at(9, 0), Status: domain.StatusScheduled})
		return err
	})
	require.ErrorIs(t, err, appointment.ErrConflict)

	_, err = s.Appointments().Insert(context.Background(), &domain.Appointment{ClientID: 2, ServiceID: 999, StartAt: at(15, 0), Status: domain.StatusScheduled})
	require.ErrorIs(t, err, appointment.ErrExecQuery)
}

func TestAppointments_ListAndHistory(t *testing.T) {
	s, short, long := newTestStore(t)
	ctx := context.Background()

	insert(t, s, 7, short.ID, at(9, 0), domain.StatusScheduled)
	insert(t, s, 7, long.ID, at(14, 0), domain.StatusCancelled)
	insert(t, s, 8, short.ID, monday.AddDate(0, 0, 1).Add(10*time.Hour), domain.StatusScheduled)

	history, err := s.Appointments().FindByClient(ctx, 7)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, at(14, 0), history[0].StartAt, "newest first")

	day := monday
	status := domain.StatusScheduled
	list, err := s.Appointments().List(ctx, domain.AppointmentsFilter{Date: &day, Status: &status})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, int64(7), list[0].ClientID)

	all, err := s.Appointments().List(ctx, domain.AppointmentsFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	byRange, err := s.Appointments().FindByDateRange(ctx, monday, monday.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Len(t, byRange, 2)
}

func TestAppointments_GetAndUpdateStatus(t *testing.T) {
	s, short, _ := newTestStore(t)
	ctx := context.Background()
	created := insert(t, s, 1, short.ID, at(9, 0), domain.StatusScheduled)

	require.NoError(t, s.Appointments().UpdateStatus(ctx, created.ID, domain.StatusCompleted))

	got, err := s.Appointments().GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, got.Status)

	_, err = s.Appointments().GetByID(ctx, 404)
	require.ErrorIs(t, err, appointment.ErrAppointmentNotFound)
	require.ErrorIs(t, s.Appointments().UpdateStatus(ctx, 404, domain.StatusCancelled), appointment.ErrAppointmentNotFound)
}

func TestTxManager_RollbackOnError(t *testing.T) {
	s, short, _ := newTestStore(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.TxManager().DoSerializable(ctx, func(txCtx context.Context) error {
		require.NoError(t, s.Appointments().LockDay(txCtx, monday))
		_, err := s.Appointments().Insert(txCtx, &domain.Appointment{ClientID: 1, ServiceID: short.ID, StartAt: at(9, 0), Status: domain.StatusScheduled})
		require.NoError(t, err)
		return boom
	})
	require.ErrorIs(t, err, boom)

	all, err := s.Appointments().List(ctx, domain.AppointmentsFilter{})
	require.NoError(t, err)
	assert.Empty(t, all)

	require.ErrorIs(t, s.Appointments().LockDay(ctx, monday), appointment.ErrTransaction)
}

func TestServicesAndWorkingHours(t *testing.T) {
	s := NewSeededStore(time.UTC)
	ctx := context.Background()

	services, err := s.Services().List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, services, 6)

	svc := services[0]
	svc.Active = false
	_, err = s.Services().Update(ctx, svc)
	require.NoError(t, err)

	active, err := s.Services().List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, active, 5)

	_, err = s.Services().GetByID(ctx, 100)
	require.ErrorIs(t, err, service.ErrServiceNotFound)
	_, err = s.Services().Update(ctx, &domain.Service{ID: 100})
	require.ErrorIs(t, err, service.ErrServiceNotFound)

	rules, err := s.WorkingHours().List(ctx)
	require.NoError(t, err)
	require.Len(t, rules, 7)
	assert.False(t, rules[0].Active, "sunday is closed by default")

	_, err = s.WorkingHours().Upsert(ctx, domain.WorkingHoursRule{Weekday: time.Sunday, OpenTime: "10:00", CloseTime: "14:00", Active: true})
	require.NoError(t, err)
	sunday, err := s.WorkingHours().Get(ctx, time.Sunday)
	require.NoError(t, err)
	assert.True(t, sunday.Active)

	_, err = NewStore(time.UTC).WorkingHours().Get(ctx, time.Monday)
	require.ErrorIs(t, err, workinghours.ErrRuleNotFound)
}
