package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

const (
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"

	msgMissingUserID = "отсутствует или некорректен X-User-ID"
	msgInvalidRole   = "некорректная роль в X-User-Role"
	msgStaffOnly     = "доступно только персоналу"
)

type actorKey struct{}

// WithActor кладёт actor в контекст
func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// GetActor достаёт actor, установленный Auth
func GetActor(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorKey{}).(domain.Actor)
	return actor, ok
}

// Auth читает X-User-ID и X-User-Role
// Роль по умолчанию client
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, msg, ok := actorFromHeaders(r)
		if !ok {
			handlers.RespondUnauthorized(w, msg)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
	})
}

// OptionalAuth как Auth, но пропускает запросы без X-User-ID
// Некорректные заголовки по-прежнему отклоняются
func OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(HeaderUserID) == "" {
			next.ServeHTTP(w, r)
			return
		}
		Auth(next).ServeHTTP(w, r)
	})
}

func actorFromHeaders(r *http.Request) (domain.Actor, string, bool) {
	id, err := strconv.ParseInt(r.Header.Get(HeaderUserID), 10, 64)
	if err != nil || id <= 0 {
		return domain.Actor{}, msgMissingUserID, false
	}

	role := domain.RoleClient
	if raw := r.Header.Get(HeaderUserRole); raw != "" {
		role, err = domain.ParseRole(raw)
		if err != nil {
			return domain.Actor{}, msgInvalidRole, false
		}
	}

	return domain.Actor{Role: role, ID: id}, "", true
}

// RequireStaff пропускает только персонал; ставится после Auth
func RequireStaff(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := GetActor(r.Context())
		if !ok {
			handlers.RespondUnauthorized(w, msgMissingUserID)
			return
		}
		if !actor.IsStaff() {
			handlers.RespondForbidden(w, msgStaffOnly)
			return
		}
		next.ServeHTTP(w, r)
	})
}
