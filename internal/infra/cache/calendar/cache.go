package calendar

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

const rulesKey = "working_hours:rules"

// Repository источник правил рабочих часов (Postgres или память)
type Repository interface {
	List(ctx context.Context) ([]domain.WorkingHoursRule, error)
	Get(ctx context.Context, weekday time.Weekday) (domain.WorkingHoursRule, error)
	Upsert(ctx context.Context, rule domain.WorkingHoursRule) (domain.WorkingHoursRule, error)
}

// CachedRepository кеширует список правил на ttl и сбрасывает его при Upsert
type CachedRepository struct {
	repo  Repository
	cache *gocache.Cache
}

// NewCachedRepository оборачивает репозиторий кешем
// ttl <= 0 отключает кеширование
func NewCachedRepository(repo Repository, ttl time.Duration) *CachedRepository {
	c := &CachedRepository{repo: repo}
	if ttl > 0 {
		// Без janitor: просроченные значения отбрасываются при чтении
		c.cache = gocache.New(ttl, 0)
	}
	return c
}

// List возвращает правила из кеша или из репозитория
func (c *CachedRepository) List(ctx context.Context) ([]domain.WorkingHoursRule, error) {
	if c.cache != nil {
		if cached, ok := c.cache.Get(rulesKey); ok {
			return cloneRules(cached.([]domain.WorkingHoursRule)), nil
		}
	}

	rules, err := c.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		c.cache.SetDefault(rulesKey, cloneRules(rules))
	}
	return rules, nil
}

// Get читает правило напрямую, админке нужны свежие данные
func (c *CachedRepository) Get(ctx context.Context, weekday time.Weekday) (domain.WorkingHoursRule, error) {
	return c.repo.Get(ctx, weekday)
}

// Upsert сохраняет правило и сбрасывает кеш
func (c *CachedRepository) Upsert(ctx context.Context, rule domain.WorkingHoursRule) (domain.WorkingHoursRule, error) {
	saved, err := c.repo.Upsert(ctx, rule)
	if err != nil {
		return domain.WorkingHoursRule{}, err
	}

	if c.cache != nil {
		c.cache.Delete(rulesKey)
	}
	return saved, nil
}

// Calendar собирает календарь из текущих правил
func (c *CachedRepository) Calendar(ctx context.Context) (*domain.Calendar, error) {
	rules, err := c.List(ctx)
	if err != nil {
		return nil, err
	}
	return domain.NewCalendar(rules), nil
}

func cloneRules(rules []domain.WorkingHoursRule) []domain.WorkingHoursRule {
	out := make([]domain.WorkingHoursRule, len(rules))
	copy(out, rules)
	return out
}
