package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Store хранилище в памяти процесса: записи, каталог услуг и рабочие часы
// Используется драйвером storage.driver = "memory" и в тестах
type Store struct {
	mu           sync.RWMutex
	appointments map[int64]*domain.Appointment
	services     map[int64]*domain.Service
	rules        map[time.Weekday]domain.WorkingHoursRule
	nextApptID   int64
	nextSvcID    int64

	// txMu сериализует транзакции целиком
	txMu sync.Mutex

	loc *time.Location
	now func() time.Time
}

// NewStore создает пустое хранилище
func NewStore(loc *time.Location) *Store {
	if loc == nil {
		loc = time.Local
	}
	return &Store{
		appointments: make(map[int64]*domain.Appointment),
		services:     make(map[int64]*domain.Service),
		rules:        make(map[time.Weekday]domain.WorkingHoursRule),
		loc:          loc,
		now:          time.Now,
	}
}

// NewSeededStore создает хранилище с каталогом и расписанием по умолчанию
func NewSeededStore(loc *time.Location) *Store {
	s := NewStore(loc)
	s.Seed(domain.DefaultServices(), domain.DefaultWorkingHours())
	return s
}

// Seed добавляет услуги и правила рабочих часов
func (s *Store) Seed(services []domain.Service, rules []domain.WorkingHoursRule) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range services {
		svc := services[i]
		s.nextSvcID++
		svc.ID = s.nextSvcID
		svc.CreatedAt = s.now()
		svc.UpdatedAt = svc.CreatedAt
		s.services[svc.ID] = &svc
	}

	for _, r := range rules {
		r.UpdatedAt = s.now()
		s.rules[r.Weekday] = r
	}
}

// Appointments возвращает репозиторий записей поверх хранилища
func (s *Store) Appointments() *Appointments {
	return &Appointments{store: s}
}

// Services возвращает репозиторий каталога поверх хранилища
func (s *Store) Services() *Services {
	return &Services{store: s}
}

// WorkingHours возвращает репозиторий рабочих часов поверх хранилища
func (s *Store) WorkingHours() *WorkingHours {
	return &WorkingHours{store: s}
}

// TxManager возвращает менеджер транзакций поверх хранилища
func (s *Store) TxManager() *TxManager {
	return &TxManager{store: s}
}

// withService заполняет поля, которые в Postgres приходят из join с услугой
// Вызывать под s.mu
func (s *Store) withService(a *domain.Appointment) *domain.Appointment {
	out := *a
	out.StartAt = out.StartAt.In(s.loc)
	if svc, ok := s.services[a.ServiceID]; ok {
		out.DurationMinutes = svc.DurationMinutes
		out.ServiceName = svc.Name
	}
	return &out
}

func (s *Store) snapshotAppointments() (map[int64]domain.Appointment, int64) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := make(map[int64]domain.Appointment, len(s.appointments))
	for id, a := range s.appointments {
		snap[id] = *a
	}
	return snap, s.nextApptID
}

func (s *Store) restoreAppointments(snap map[int64]domain.Appointment, nextID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.appointments = make(map[int64]*domain.Appointment, len(snap))
	for id, a := range snap {
		a := a
		s.appointments[id] = &a
	}
	s.nextApptID = nextID
}

type txKey struct{}

func inTx(ctx context.Context) bool {
	v, _ := ctx.Value(txKey{}).(bool)
	return v
}

func sortByStart(list []*domain.Appointment, desc bool) {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].StartAt.Equal(list[j].StartAt) {
			if desc {
				return list[i].ID > list[j].ID
			}
			return list[i].ID < list[j].ID
		}
		if desc {
			return list[i].StartAt.After(list[j].StartAt)
		}
		return list[i].StartAt.Before(list[j].StartAt)
	})
}
