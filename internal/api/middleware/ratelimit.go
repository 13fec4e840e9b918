package middleware

import (
	"net"
	"net/http"
	"strconv"
	"sync"

	"golang.org/x/time/rate"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

const (
	kindRateLimited domain.Kind = "RateLimited"
	msgRateLimited              = "слишком много запросов, попробуйте позже"
)

// RateLimiterConfig лимит запросов на одного пользователя
type RateLimiterConfig struct {
	Rate  rate.Limit
	Burst int
}

// RateLimiter token bucket на каждого пользователя (или IP, если запрос без Auth)
type RateLimiter struct {
	cfg      RateLimiterConfig
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewRateLimiter создает лимитер
func NewRateLimiter(cfg RateLimiterConfig) *RateLimiter {
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	return &RateLimiter{
		cfg:      cfg,
		limiters: make(map[string]*rate.Limiter),
	}
}

// PerMinute переводит количество запросов в минуту в rate.Limit
func PerMinute(n float64) rate.Limit {
	return rate.Limit(n / 60)
}

// Middleware отклоняет запросы сверх лимита с 429
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.limiter(clientKey(r)).Allow() {
			w.Header().Set("Retry-After", "60")
			handlers.RespondError(w, http.StatusTooManyRequests, kindRateLimited, msgRateLimited)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) limiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	l, ok := rl.limiters[key]
	if !ok {
		l = rate.NewLimiter(rl.cfg.Rate, rl.cfg.Burst)
		rl.limiters[key] = l
	}
	return l
}

func clientKey(r *http.Request) string {
	if actor, ok := GetActor(r.Context()); ok {
		return string(actor.Role) + ":" + strconv.FormatInt(actor.ID, 10)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil {
		return host
	}
	return r.RemoteAddr
}
