package create_booking

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
)

var loc = time.FixedZone("BRT", -3*60*60)

// 2026-10-19 понедельник, "сейчас" 09:45
var (
	monday = time.Date(2026, 10, 19, 0, 0, 0, 0, loc)
	now    = monday.Add(9*time.Hour + 45*time.Minute)
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type staticCalendar struct {
	rules []domain.WorkingHoursRule
	err   error
}

func (c staticCalendar) Calendar(context.Context) (*domain.Calendar, error) {
	if c.err != nil {
		return nil, c.err
	}
	return domain.NewCalendar(c.rules), nil
}

type recordingMetrics struct {
	mu      sync.Mutex
	results []string
}

func (m *recordingMetrics) ObserveBooking(result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = append(m.results, result)
}

func (m *recordingMetrics) last() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.results) == 0 {
		return ""
	}
	return m.results[len(m.results)-1]
}

// blindAppointments не видит пересечений, конфликт ловит только уникальный индекс
type blindAppointments struct {
	AppointmentRepository
}

func (blindAppointments) FindOverlapping(context.Context, time.Time, time.Time, []domain.Status) ([]*domain.Appointment, error) {
	return nil, nil
}

type fixture struct {
	store    *memory.Store
	metrics  *recordingMetrics
	uc       *UseCase
	haircut  *domain.Service // 30 минут
	combo    *domain.Service // 45 минут
	inactive *domain.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	store := memory.NewStore(loc)
	haircut, err := store.Services().Create(ctx, &domain.Service{Name: "Corte de Cabelo", DurationMinutes: 30, Active: true})
	require.NoError(t, err)
	combo, err := store.Services().Create(ctx, &domain.Service{Name: "Corte + Barba", DurationMinutes: 45, Active: true})
	require.NoError(t, err)
	inactive, err := store.Services().Create(ctx, &domain.Service{Name: "Hidratação", DurationMinutes: 30, Active: false})
	require.NoError(t, err)

	f := &fixture{store: store, metrics: &recordingMetrics{}, haircut: haircut, combo: combo, inactive: inactive}
	f.uc = f.newUseCase(store.Appointments(), staticCalendar{rules: domain.DefaultWorkingHours()})
	return f
}

func (f *fixture) newUseCase(appts AppointmentRepository, calendar CalendarProvider) *UseCase {
	return NewUseCase(
		appts,
		f.store.Services(),
		calendar,
		f.store.TxManager(),
		f.metrics,
		Config{LeadTimeMinutes: 30, MaxNotesLength: 500, Location: loc},
		logger.NewNop(),
	).WithTimeProvider(fixedClock{now: now})
}

func (f *fixture) request(svc *domain.Service, date, clock string) *Request {
	return &Request{ClientID: 7, ServiceID: svc.ID, Date: date, Time: clock}
}

func (f *fixture) seed(t *testing.T, svc *domain.Service, clock string, status domain.Status) {
	t.Helper()
	start, err := parseStart("2026-10-19", clock, loc)
	require.NoError(t, err)
	err = f.store.TxManager().DoSerializable(context.Background(), func(ctx context.Context) error {
		_, err := f.store.Appointments().Insert(ctx, &domain.Appointment{ClientID: 1, ServiceID: svc.ID, StartAt: start, Status: status})
		return err
	})
	require.NoError(t, err)
}

func TestCreateBooking_Success(t *testing.T) {
	f := newFixture(t)

	req := f.request(f.combo, "2026-10-19", "10:30")
	req.Notes = "  degradê baixo  "

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.NotZero(t, resp.ID)
	assert.Equal(t, int64(7), resp.ClientID)
	assert.Equal(t, domain.StatusScheduled, resp.Status)
	assert.Equal(t, monday.Add(10*time.Hour+30*time.Minute), resp.StartAt)
	assert.Equal(t, monday.Add(11*time.Hour+15*time.Minute), resp.EndAt)
	assert.Equal(t, 45, resp.DurationMinutes)
	assert.Equal(t, "Corte + Barba", resp.ServiceName)
	assert.Equal(t, "degradê baixo", resp.Notes)
	assert.Equal(t, resultOK, f.metrics.last())

	stored, err := f.store.Appointments().GetByID(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusScheduled, stored.Status)
}

func TestCreateBooking_Validation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name    string
		req     func() *Request
		wantErr error
	}{
		{
			name:    "zero client id",
			req:     func() *Request { r := f.request(f.haircut, "2026-10-19", "11:00"); r.ClientID = 0; return r },
			wantErr: ErrInvalidInput,
		},
		{
			name:    "zero service id",
			req:     func() *Request { return &Request{ClientID: 7, Date: "2026-10-19", Time: "11:00"} },
			wantErr: ErrInvalidInput,
		},
		{
			name:    "unknown service",
			req:     func() *Request { return &Request{ClientID: 7, ServiceID: 999, Date: "2026-10-19", Time: "11:00"} },
			wantErr: ErrInvalidService,
		},
		{
			name:    "inactive service is checked before the date",
			req:     func() *Request { return f.request(f.inactive, "not-a-date", "11:00") },
			wantErr: ErrInvalidService,
		},
		{
			name:    "malformed date",
			req:     func() *Request { return f.request(f.haircut, "2026-13-01", "11:00") },
			wantErr: ErrInvalidDateTime,
		},
		{
			name:    "malformed time",
			req:     func() *Request { return f.request(f.haircut, "2026-10-19", "11h") },
			wantErr: ErrInvalidDateTime,
		},
		{
			name:    "seconds out of range",
			req:     func() *Request { return f.request(f.haircut, "2026-10-19", "12:00:99") },
			wantErr: ErrInvalidDateTime,
		},
		{
			name:    "garbage after minutes",
			req:     func() *Request { return f.request(f.haircut, "2026-10-19", "10:00:zz") },
			wantErr: ErrInvalidDateTime,
		},
		{
			name:    "yesterday",
			req:     func() *Request { return f.request(f.haircut, "2026-10-18", "10:00") },
			wantErr: ErrPastDateTime,
		},
		{
			name:    "earlier today",
			req:     func() *Request { return f.request(f.haircut, "2026-10-19", "09:00") },
			wantErr: ErrPastDateTime,
		},
		{
			name:    "inside lead time",
			req:     func() *Request { return f.request(f.haircut, "2026-10-19", "10:00") },
			wantErr: ErrLeadTimeNotMet,
		},
		{
			name:    "sunday is closed",
			req:     func() *Request { return f.request(f.haircut, "2026-10-25", "10:00") },
			wantErr: ErrOutsideBusinessHours,
		},
		{
			name:    "after close",
			req:     func() *Request { return f.request(f.haircut, "2026-10-20", "19:00") },
			wantErr: ErrOutsideBusinessHours,
		},
		{
			name:    "before open",
			req:     func() *Request { return f.request(f.haircut, "2026-10-20", "08:30") },
			wantErr: ErrOutsideBusinessHours,
		},
		{
			name:    "duration runs past close",
			req:     func() *Request { return f.request(f.combo, "2026-10-20", "18:30") },
			wantErr: ErrOutsideBusinessHours,
		},
		{
			name:    "saturday closes earlier",
			req:     func() *Request { return f.request(f.haircut, "2026-10-24", "17:00") },
			wantErr: ErrOutsideBusinessHours,
		},
		{
			name: "business hours are checked before notes",
			req: func() *Request {
				r := f.request(f.haircut, "2026-10-25", "10:00")
				r.Notes = strings.Repeat("a", 501)
				return r
			},
			wantErr: ErrOutsideBusinessHours,
		},
		{
			name: "notes too long",
			req: func() *Request {
				r := f.request(f.haircut, "2026-10-20", "10:00")
				r.Notes = strings.Repeat("a", 501)
				return r
			},
			wantErr: ErrNotesTooLong,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.uc.Execute(context.Background(), tt.req())
			require.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, string(domain.KindOf(tt.wantErr)), f.metrics.last())
		})
	}

	all, err := f.store.Appointments().List(context.Background(), domain.AppointmentsFilter{})
	require.NoError(t, err)
	assert.Empty(t, all, "rejected requests must not be stored")
}

func TestCreateBooking_BoundaryTimes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Ровно now + lead time
	_, err := f.uc.Execute(ctx, f.request(f.haircut, "2026-10-19", "10:15"))
	require.NoError(t, err)

	// Заканчивается ровно в момент закрытия
	_, err = f.uc.Execute(ctx, f.request(f.combo, "2026-10-19", "18:15"))
	require.NoError(t, err)

	// Не кратно шагу сетки
	_, err = f.uc.Execute(ctx, f.request(f.haircut, "2026-10-19", "13:10"))
	require.NoError(t, err)
}

func TestCreateBooking_NotesCountRunes(t *testing.T) {
	f := newFixture(t)

	req := f.request(f.haircut, "2026-10-19", "11:00")
	req.Notes = strings.Repeat("ç", 500)

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, req.Notes, resp.Notes)
}

func TestCreateBooking_Overlaps(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.seed(t, f.combo, "11:00", domain.StatusScheduled)   // 11:00-11:45
	f.seed(t, f.haircut, "13:00", domain.StatusScheduled) // 13:00-13:30
	f.seed(t, f.haircut, "15:00", domain.StatusCancelled)
	f.seed(t, f.haircut, "16:00", domain.StatusCompleted)

	tests := []struct {
		name    string
		svc     *domain.Service
		clock   string
		wantErr error
	}{
		{name: "same start", svc: f.haircut, clock: "11:00", wantErr: ErrSlotUnavailable},
		{name: "inside longer appointment", svc: f.haircut, clock: "11:30", wantErr: ErrSlotUnavailable},
		{name: "touching end", svc: f.haircut, clock: "11:45"},
		{name: "longer service runs into next", svc: f.combo, clock: "12:30", wantErr: ErrSlotUnavailable},
		{name: "ends exactly at next start", svc: f.haircut, clock: "12:30"},
		{name: "cancelled frees the slot", svc: f.haircut, clock: "15:00"},
		{name: "completed still occupies", svc: f.haircut, clock: "16:00", wantErr: ErrSlotUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.uc.Execute(ctx, f.request(tt.svc, "2026-10-19", tt.clock))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, domain.CategoryConflict, domain.CategoryOf(err))
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestCreateBooking_UniqueConflictMapsToSlotUnavailable(t *testing.T) {
	f := newFixture(t)
	f.seed(t, f.haircut, "11:00", domain.StatusScheduled)

	uc := f.newUseCase(blindAppointments{AppointmentRepository: f.store.Appointments()}, staticCalendar{rules: domain.DefaultWorkingHours()})

	_, err := uc.Execute(context.Background(), f.request(f.haircut, "2026-10-19", "11:00"))
	require.ErrorIs(t, err, ErrSlotUnavailable)
}

func TestCreateBooking_InternalErrors(t *testing.T) {
	f := newFixture(t)
	uc := f.newUseCase(f.store.Appointments(), staticCalendar{err: errors.New("db down")})

	_, err := uc.Execute(context.Background(), f.request(f.haircut, "2026-10-19", "11:00"))
	require.ErrorIs(t, err, ErrInternal)
	assert.Equal(t, domain.CategoryInternal, domain.CategoryOf(err))
	assert.Equal(t, string(domain.KindInternal), f.metrics.last())
}

// Параллельные запросы на один слот: ровно один успешный
func TestCreateBooking_ConcurrentSameSlot(t *testing.T) {
	f := newFixture(t)
	const workers = 16

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(clientID int64) {
			defer wg.Done()
			req := f.request(f.haircut, "2026-10-19", "14:00")
			req.ClientID = clientID

			_, err := f.uc.Execute(context.Background(), req)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, ErrSlotUnavailable):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(int64(i + 1))
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, workers-1, conflicts)

	all, err := f.store.Appointments().List(context.Background(), domain.AppointmentsFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

// Параллельные запросы на разные, но пересекающиеся интервалы
func TestCreateBooking_ConcurrentOverlappingIntervals(t *testing.T) {
	f := newFixture(t)

	var wg sync.WaitGroup
	for _, clock := range []string{"14:00", "14:15", "14:30"} {
		wg.Add(1)
		go func(clock string) {
			defer wg.Done()
			_, _ = f.uc.Execute(context.Background(), f.request(f.combo, "2026-10-19", clock))
		}(clock)
	}
	wg.Wait()

	assertNoOverlaps(t, f.store)
}

func TestCreateBooking_RandomBookingsNeverOverlap(t *testing.T) {
	f := newFixture(t)
	rng := rand.New(rand.NewSource(7))
	services := []*domain.Service{f.haircut, f.combo}

	for i := 0; i < 300; i++ {
		day := fmt.Sprintf("2026-10-%02d", 19+rng.Intn(3))
		clock := fmt.Sprintf("%02d:%02d", 9+rng.Intn(10), rng.Intn(12)*5)
		_, err := f.uc.Execute(context.Background(), f.request(services[rng.Intn(len(services))], day, clock))
		if err != nil {
			require.Contains(t, []domain.Category{domain.CategoryConflict, domain.CategoryPolicy}, domain.CategoryOf(err), err.Error())
		}
	}

	assertNoOverlaps(t, f.store)
}

func assertNoOverlaps(t *testing.T, store *memory.Store) {
	t.Helper()
	all, err := store.Appointments().List(context.Background(), domain.AppointmentsFilter{})
	require.NoError(t, err)
	require.NotEmpty(t, all)

	for i, a := range all {
		for _, b := range all[i+1:] {
			if a.IsActive() && b.IsActive() {
				assert.False(t, a.Overlaps(b.StartAt, b.EndAt()),
					"appointments %d [%s] and %d [%s] overlap", a.ID, a.StartAt, b.ID, b.StartAt)
			}
		}
	}
}

func TestParseStart(t *testing.T) {
	start, err := parseStart(" 2026-10-19 ", "09:30", loc)
	require.NoError(t, err)
	assert.Equal(t, monday.Add(9*time.Hour+30*time.Minute), start)
	assert.Equal(t, loc, start.Location())

	withSeconds, err := parseStart("2026-10-19", "09:30:00", loc)
	require.NoError(t, err)
	assert.Equal(t, start, withSeconds)

	for _, clock := range []string{"25:00", "12:00:99", "10:00:zz", "12:60", ""} {
		_, err = parseStart("2026-10-19", clock, loc)
		require.ErrorIs(t, err, ErrInvalidDateTime, "time %q", clock)
	}
}
