package get_working_hours

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/calendar/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
)

type stubService struct {
	resp *models.WorkingHoursListResponse
	err  error
}

func (s *stubService) List(context.Context) (*models.WorkingHoursListResponse, error) {
	return s.resp, s.err
}

func serve(svc CalendarService) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	NewHandler(svc, logger.NewNop()).Handle(rec, httptest.NewRequest(http.MethodGet, "/api/v1/working-hours", nil))
	return rec
}

func TestHandler_Success(t *testing.T) {
	rec := serve(&stubService{resp: &models.WorkingHoursListResponse{Days: []models.WorkingHoursResponse{{}, {}}}})

	require.Equal(t, http.StatusOK, rec.Code)
	var resp models.WorkingHoursListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Days, 2)
}

func TestHandler_RepositoryError(t *testing.T) {
	rec := serve(&stubService{err: errors.New("db down")})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var errResp handlers.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
	assert.Equal(t, string(domain.KindInternal), errResp.Kind)
	assert.NotContains(t, errResp.Message, "db down")
}
