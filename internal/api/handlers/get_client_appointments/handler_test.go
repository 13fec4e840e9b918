package get_client_appointments

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
)

type stubService struct {
	err         error
	gotClientID int64
}

func (s *stubService) ClientHistory(_ context.Context, clientID int64, _ domain.Actor) (*models.AppointmentListResponse, error) {
	s.gotClientID = clientID
	if s.err != nil {
		return nil, s.err
	}
	return &models.AppointmentListResponse{Appointments: []models.AppointmentResponse{{ID: 1, ClientID: clientID}}}, nil
}

func serve(svc AppointmentService, actor *domain.Actor, url string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/api/v1/clients/{clientId}/appointments", NewHandler(svc, logger.NewNop()).Handle).Methods(http.MethodGet)

	req := httptest.NewRequest(http.MethodGet, url, nil)
	if actor != nil {
		req = req.WithContext(middleware.WithActor(req.Context(), *actor))
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandler_Success(t *testing.T) {
	svc := &stubService{}
	rec := serve(svc, &domain.Actor{Role: domain.RoleClient, ID: 5}, "/api/v1/clients/5/appointments")

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, int64(5), svc.gotClientID)

	var resp models.AppointmentListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Appointments, 1)
}

func TestHandler_Errors(t *testing.T) {
	client := &domain.Actor{Role: domain.RoleClient, ID: 5}

	tests := []struct {
		name       string
		actor      *domain.Actor
		url        string
		err        error
		wantStatus int
		wantKind   domain.Kind
	}{
		{name: "no actor", url: "/api/v1/clients/5/appointments", wantStatus: http.StatusUnauthorized, wantKind: handlers.KindUnauthorized},
		{name: "bad id", actor: client, url: "/api/v1/clients/-1/appointments", wantStatus: http.StatusBadRequest, wantKind: domain.KindInvalidInput},
		{name: "other client", actor: client, url: "/api/v1/clients/6/appointments", err: domain.ErrNotOwner, wantStatus: http.StatusForbidden, wantKind: domain.KindNotOwner},
		{name: "internal", actor: client, url: "/api/v1/clients/5/appointments", err: errors.New("db down"), wantStatus: http.StatusInternalServerError, wantKind: domain.KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&stubService{err: tt.err}, tt.actor, tt.url)
			assert.Equal(t, tt.wantStatus, rec.Code)

			var errResp handlers.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
			assert.Equal(t, string(tt.wantKind), errResp.Kind)
		})
	}
}
