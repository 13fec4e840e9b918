package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

const (
	// KindUnauthorized запрос без идентификации пользователя
	KindUnauthorized domain.Kind = "Unauthorized"

	msgInternalError   = "внутренняя ошибка сервера"
	maxRequestBodySize = 1 << 20
)

// ErrorResponse тело ответа с ошибкой
type ErrorResponse struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator возвращает общий валидатор DTO; имена полей берутся из json тегов
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
	})
	return validate
}

// DecodeJSON читает тело запроса в dst и валидирует его по тегам validate
func DecodeJSON(r *http.Request, dst interface{}) error {
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxRequestBodySize))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}

	return ValidateStruct(dst)
}

// ValidateStruct проверяет DTO и собирает ошибки полей в одно сообщение
func ValidateStruct(dst interface{}) error {
	err := Validator().Struct(dst)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	parts := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s: %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			parts = append(parts, fmt.Sprintf("%s: %s", fe.Field(), fe.Tag()))
		}
	}
	return errors.New(strings.Join(parts, "; "))
}

// RespondJSON отправляет JSON ответ
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// RespondError отправляет ошибку с видом и сообщением
func RespondError(w http.ResponseWriter, status int, kind domain.Kind, message string) {
	RespondJSON(w, status, ErrorResponse{Kind: string(kind), Message: message})
}

// RespondBadRequest отправляет 400 с видом InvalidInput
func RespondBadRequest(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusBadRequest, domain.KindInvalidInput, message)
}

// RespondUnauthorized отправляет 401
func RespondUnauthorized(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusUnauthorized, KindUnauthorized, message)
}

// RespondForbidden отправляет 403
func RespondForbidden(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusForbidden, domain.KindForbidden, message)
}

// RespondNotFound отправляет 404
func RespondNotFound(w http.ResponseWriter, kind domain.Kind, message string) {
	RespondError(w, http.StatusNotFound, kind, message)
}

// RespondInternalError отправляет 500 без подробностей
func RespondInternalError(w http.ResponseWriter) {
	RespondError(w, http.StatusInternalServerError, domain.KindInternal, msgInternalError)
}

// ParseID разбирает положительный int64 идентификатор из строки пути
func ParseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, fmt.Errorf("id must be positive, got %d", id)
	}
	return id, nil
}

// StatusFor возвращает HTTP код для ошибки по её группе
func StatusFor(err error) int {
	switch domain.CategoryOf(err) {
	case domain.CategoryValidation:
		return http.StatusBadRequest
	case domain.CategoryPolicy:
		return http.StatusUnprocessableEntity
	case domain.CategoryConflict:
		return http.StatusConflict
	case domain.CategoryNotFound:
		return http.StatusNotFound
	case domain.CategoryForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// RespondDomainError отправляет бизнес-ошибку
// messages переопределяют текст для отдельных видов; внутренние ошибки наружу не раскрываются
func RespondDomainError(w http.ResponseWriter, err error, messages map[domain.Kind]string) {
	kind := domain.KindOf(err)
	if kind == domain.KindInternal {
		RespondInternalError(w)
		return
	}

	message, ok := messages[kind]
	if !ok {
		message = err.Error()
	}
	RespondError(w, StatusFor(err), kind, message)
}
