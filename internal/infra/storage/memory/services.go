package memory

import (
	"context"
	"sort"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/storage/service"
)

// Services каталог услуг в памяти
type Services struct {
	store *Store
}

func (r *Services) GetByID(_ context.Context, id int64) (*domain.Service, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	svc, ok := s.services[id]
	if !ok {
		return nil, service.ErrServiceNotFound
	}
	out := *svc
	return &out, nil
}

func (r *Services) List(_ context.Context, onlyActive bool) ([]*domain.Service, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Service, 0, len(s.services))
	for _, svc := range s.services {
		if onlyActive && !svc.Active {
			continue
		}
		c := *svc
		out = append(out, &c)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Name == out[j].Name {
			return out[i].ID < out[j].ID
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r *Services) Create(_ context.Context, svc *domain.Service) (*domain.Service, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextSvcID++
	svc.ID = s.nextSvcID
	svc.CreatedAt = s.now()
	svc.UpdatedAt = svc.CreatedAt

	stored := *svc
	s.services[svc.ID] = &stored
	return svc, nil
}

func (r *Services) Update(_ context.Context, svc *domain.Service) (*domain.Service, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.services[svc.ID]
	if !ok {
		return nil, service.ErrServiceNotFound
	}

	svc.CreatedAt = existing.CreatedAt
	svc.UpdatedAt = s.now()

	stored := *svc
	s.services[svc.ID] = &stored
	return svc, nil
}
