package create_service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/catalog/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
)

type stubService struct {
	err    error
	gotReq *models.CreateServiceRequest
}

func (s *stubService) Create(_ context.Context, req *models.CreateServiceRequest, _ domain.Actor) (*models.ServiceResponse, error) {
	s.gotReq = req
	if s.err != nil {
		return nil, s.err
	}
	return &models.ServiceResponse{ID: 7, Name: req.Name, DurationMinutes: req.DurationMinutes}, nil
}

func serve(svc CatalogService, actor *domain.Actor, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/services", bytes.NewBufferString(body))
	if actor != nil {
		req = req.WithContext(middleware.WithActor(req.Context(), *actor))
	}
	rec := httptest.NewRecorder()
	NewHandler(svc, logger.NewNop()).Handle(rec, req)
	return rec
}

func TestHandler_Created(t *testing.T) {
	svc := &stubService{}
	rec := serve(svc, &domain.Actor{Role: domain.RoleStaff, ID: 1}, `{"name":"Sobrancelha","durationMinutes":15,"price":20}`)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.NotNil(t, svc.gotReq)
	assert.Equal(t, 15, svc.gotReq.DurationMinutes)

	var resp models.ServiceResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(7), resp.ID)
	assert.Equal(t, "Sobrancelha", resp.Name)
}

func TestHandler_Errors(t *testing.T) {
	staff := &domain.Actor{Role: domain.RoleStaff, ID: 1}
	valid := `{"name":"Sobrancelha","durationMinutes":15,"price":20}`

	tests := []struct {
		name       string
		actor      *domain.Actor
		body       string
		err        error
		wantStatus int
		wantKind   domain.Kind
	}{
		{name: "no actor", body: valid, wantStatus: http.StatusUnauthorized, wantKind: handlers.KindUnauthorized},
		{name: "broken json", actor: staff, body: `{"name":`, wantStatus: http.StatusBadRequest, wantKind: domain.KindInvalidInput},
		{name: "unknown field", actor: staff, body: `{"name":"x","color":"red"}`, wantStatus: http.StatusBadRequest, wantKind: domain.KindInvalidInput},
		{name: "invalid service", actor: staff, body: valid, err: fmt.Errorf("%w: duration", domain.ErrInvalidInput), wantStatus: http.StatusBadRequest, wantKind: domain.KindInvalidInput},
		{name: "client", actor: &domain.Actor{Role: domain.RoleClient, ID: 5}, body: valid, err: domain.ErrForbidden, wantStatus: http.StatusForbidden, wantKind: domain.KindForbidden},
		{name: "internal", actor: staff, body: valid, err: errors.New("db down"), wantStatus: http.StatusInternalServerError, wantKind: domain.KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&stubService{err: tt.err}, tt.actor, tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)

			var errResp handlers.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
			assert.Equal(t, string(tt.wantKind), errResp.Kind)
		})
	}
}
