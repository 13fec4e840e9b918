package memory

import (
	"context"
	"sort"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/storage/workinghours"
)

// WorkingHours рабочие часы в памяти
type WorkingHours struct {
	store *Store
}

func (r *WorkingHours) List(_ context.Context) ([]domain.WorkingHoursRule, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.WorkingHoursRule, 0, len(s.rules))
	for _, rule := range s.rules {
		out = append(out, rule)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Weekday < out[j].Weekday })
	return out, nil
}

func (r *WorkingHours) Get(_ context.Context, weekday time.Weekday) (domain.WorkingHoursRule, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	rule, ok := s.rules[weekday]
	if !ok {
		return domain.WorkingHoursRule{}, workinghours.ErrRuleNotFound
	}
	return rule, nil
}

func (r *WorkingHours) Upsert(_ context.Context, rule domain.WorkingHoursRule) (domain.WorkingHoursRule, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	rule.UpdatedAt = s.now()
	s.rules[rule.Weekday] = rule
	return rule, nil
}
