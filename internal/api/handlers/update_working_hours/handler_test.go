package update_working_hours

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-AppointmentService/internal/service/calendar"
	"github.com/m04kA/SMC-AppointmentService/internal/service/calendar/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
)

func TestHandler_Update(t *testing.T) {
	store := memory.NewSeededStore(time.UTC)
	log := logger.NewNop()

	r := mux.NewRouter()
	r.HandleFunc("/api/v1/admin/working-hours/{weekday}",
		NewHandler(calendar.NewService(store.WorkingHours(), log), log).Handle).Methods(http.MethodPut)

	put := func(actor domain.Actor, weekday, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPut, "/api/v1/admin/working-hours/"+weekday, bytes.NewBufferString(body))
		req = req.WithContext(middleware.WithActor(req.Context(), actor))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}
	staff := domain.Actor{Role: domain.RoleStaff, ID: 1}

	rec := put(staff, "0", `{"openTime":"10:00","closeTime":"14:00","active":true}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp models.WorkingHoursResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Weekday)
	assert.Equal(t, "10:00", resp.OpenTime)
	assert.True(t, resp.Active)

	sunday, err := store.WorkingHours().Get(t.Context(), time.Sunday)
	require.NoError(t, err)
	assert.True(t, sunday.Active)

	assert.Equal(t, http.StatusBadRequest, put(staff, "7", `{"openTime":"10:00","closeTime":"14:00","active":true}`).Code)
	assert.Equal(t, http.StatusBadRequest, put(staff, "mon", `{"openTime":"10:00","closeTime":"14:00","active":true}`).Code)
	assert.Equal(t, http.StatusBadRequest, put(staff, "1", `{"openTime":"15:00","closeTime":"14:00","active":true}`).Code)
	assert.Equal(t, http.StatusBadRequest, put(staff, "1", `{"closeTime":"14:00"}`).Code)
	assert.Equal(t, http.StatusForbidden, put(domain.Actor{Role: domain.RoleClient, ID: 3}, "1", `{"openTime":"10:00","closeTime":"14:00","active":true}`).Code)
}
