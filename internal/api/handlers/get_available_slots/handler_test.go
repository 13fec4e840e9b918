package get_available_slots

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	calendarCache "github.com/m04kA/SMC-AppointmentService/internal/infra/cache/calendar"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/storage/memory"
	getAvailableSlots "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
)

var loc = time.FixedZone("BRT", -3*60*60)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

func newRouter(t *testing.T, store *memory.Store) *mux.Router {
	t.Helper()
	log := logger.NewNop()

	uc := getAvailableSlots.NewUseCase(
		store.Appointments(),
		store.Services(),
		calendarCache.NewCachedRepository(store.WorkingHours(), 0),
		nil,
		getAvailableSlots.Config{SlotStepMinutes: 30, LeadTimeMinutes: 30, Location: loc},
		log,
	).WithTimeProvider(fixedClock{now: time.Date(2026, 10, 19, 17, 0, 0, 0, loc)})

	r := mux.NewRouter()
	r.HandleFunc("/api/v1/services/{serviceId}/available-slots", NewHandler(uc, loc, log).Handle).Methods(http.MethodGet)
	return r
}

func get(r http.Handler, url string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, url, nil))
	return rec
}

func TestHandler_Slots(t *testing.T) {
	store := memory.NewSeededStore(loc)
	r := newRouter(t, store)

	// Понедельник, сейчас 17:00: cutoff 17:30, закрытие 19:00, услуга 30 минут
	rec := get(r, "/api/v1/services/1/available-slots?date=2026-10-19")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp AvailableSlotsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "2026-10-19", resp.Date)
	assert.Equal(t, int64(1), resp.ServiceID)
	assert.Equal(t, []string{"17:30", "18:00", "18:30"}, resp.Slots)
	assert.Empty(t, resp.Reason)
}

func TestHandler_EmptyReasons(t *testing.T) {
	r := newRouter(t, memory.NewSeededStore(loc))

	tests := []struct {
		date   string
		reason domain.EmptyReason
	}{
		{date: "2026-10-25", reason: domain.ReasonClosed}, // воскресенье
		{date: "2026-10-16", reason: domain.ReasonPast},
	}

	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			rec := get(r, "/api/v1/services/1/available-slots?date="+tt.date)
			require.Equal(t, http.StatusOK, rec.Code)

			var resp AvailableSlotsResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.NotNil(t, resp.Slots)
			assert.Empty(t, resp.Slots)
			assert.Equal(t, string(tt.reason), resp.Reason)
		})
	}
}

func TestHandler_BadRequests(t *testing.T) {
	r := newRouter(t, memory.NewSeededStore(loc))

	tests := []struct {
		name       string
		url        string
		wantStatus int
	}{
		{name: "bad service id", url: "/api/v1/services/abc/available-slots?date=2026-10-20", wantStatus: http.StatusBadRequest},
		{name: "missing date", url: "/api/v1/services/1/available-slots", wantStatus: http.StatusBadRequest},
		{name: "bad date", url: "/api/v1/services/1/available-slots?date=2026-13-01", wantStatus: http.StatusBadRequest},
		{name: "unknown service", url: "/api/v1/services/77/available-slots?date=2026-10-20", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantStatus, get(r, tt.url).Code)
		})
	}
}
