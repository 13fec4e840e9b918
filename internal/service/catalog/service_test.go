package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-AppointmentService/internal/service/catalog/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

var (
	client  = domain.Actor{Role: domain.RoleClient, ID: 7}
	manager = domain.Actor{Role: domain.RoleStaff, ID: 1}
)

func newService() *Service {
	return NewService(memory.NewSeededStore(time.UTC).Services(), logger.NewNop())
}

func TestService_List(t *testing.T) {
	s := newService()
	ctx := context.Background()

	_, err := s.Update(ctx, 1, &models.UpdateServiceRequest{Active: ptr.Ptr(false)}, manager)
	require.NoError(t, err)

	resp, err := s.List(ctx, false, client)
	require.NoError(t, err)
	assert.Len(t, resp.Services, 5)

	// Клиенту неактивные не показываются даже по запросу
	resp, err = s.List(ctx, true, client)
	require.NoError(t, err)
	assert.Len(t, resp.Services, 5)

	resp, err = s.List(ctx, true, manager)
	require.NoError(t, err)
	assert.Len(t, resp.Services, 6)
}

func TestService_Create(t *testing.T) {
	s := newService()
	ctx := context.Background()

	tests := []struct {
		name    string
		req     models.CreateServiceRequest
		actor   domain.Actor
		wantErr error
	}{
		{
			name:  "valid",
			req:   models.CreateServiceRequest{Name: "  Pigmentação  ", DurationMinutes: 40, Price: 60},
			actor: manager,
		},
		{
			name:    "client",
			req:     models.CreateServiceRequest{Name: "Pigmentação", DurationMinutes: 40, Price: 60},
			actor:   client,
			wantErr: ErrForbidden,
		},
		{
			name:    "short name",
			req:     models.CreateServiceRequest{Name: " ab ", DurationMinutes: 40},
			actor:   manager,
			wantErr: ErrInvalidInput,
		},
		{
			name:    "zero duration",
			req:     models.CreateServiceRequest{Name: "Pigmentação"},
			actor:   manager,
			wantErr: ErrInvalidInput,
		},
		{
			name:    "too long",
			req:     models.CreateServiceRequest{Name: "Pigmentação", DurationMinutes: 481},
			actor:   manager,
			wantErr: ErrInvalidInput,
		},
		{
			name:    "negative price",
			req:     models.CreateServiceRequest{Name: "Pigmentação", DurationMinutes: 40, Price: -1},
			actor:   manager,
			wantErr: ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			resp, err := s.Create(ctx, &req, tt.actor)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotZero(t, resp.ID)
			assert.Equal(t, "Pigmentação", resp.Name)
			assert.True(t, resp.Active, "active by default")
		})
	}
}

func TestService_Update(t *testing.T) {
	s := newService()
	ctx := context.Background()

	resp, err := s.Update(ctx, 2, &models.UpdateServiceRequest{DurationMinutes: ptr.Ptr(25), Price: ptr.Ptr(30.0)}, manager)
	require.NoError(t, err)
	assert.Equal(t, "Barba", resp.Name)
	assert.Equal(t, 25, resp.DurationMinutes)
	assert.Equal(t, 30.0, resp.Price)

	got, err := s.GetByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 25, got.DurationMinutes)

	_, err = s.Update(ctx, 2, &models.UpdateServiceRequest{Name: ptr.Ptr("x")}, manager)
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = s.Update(ctx, 2, &models.UpdateServiceRequest{Price: ptr.Ptr(1.0)}, client)
	require.ErrorIs(t, err, ErrForbidden)

	_, err = s.Update(ctx, 404, &models.UpdateServiceRequest{}, manager)
	require.ErrorIs(t, err, ErrServiceNotFound)

	_, err = s.GetByID(ctx, 404)
	require.ErrorIs(t, err, ErrServiceNotFound)
}
