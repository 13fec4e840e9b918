package appointment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
)

const uniqueViolation = "23505"

// Длительность не хранится в записи, а берётся из текущей строки услуги
var selectColumns = []string{
	"a.id",
	"a.client_id",
	"a.service_id",
	"a.start_at",
	"a.status",
	"a.notes",
	"s.duration_minutes",
	"s.name",
	"a.created_at",
	"a.updated_at",
}

const endAtExpr = "a.start_at + s.duration_minutes * INTERVAL '1 minute'"

// Repository репозиторий для работы с записями
type Repository struct {
	db  DBExecutor
	loc *time.Location
}

// NewRepository создает новый экземпляр репозитория записей
// loc - часовой пояс расписания, в нём возвращается StartAt
func NewRepository(db DBExecutor, loc *time.Location) *Repository {
	if loc == nil {
		loc = time.Local
	}
	return &Repository{db: db, loc: loc}
}

func (r *Repository) selectBuilder() squirrel.SelectBuilder {
	return psqlbuilder.Select(selectColumns...).
		From("appointments a").
		Join("services s ON s.id = a.service_id")
}

// lockSuffix внутри транзакции блокирует прочитанные записи до её завершения
func lockSuffix(ctx context.Context, b squirrel.SelectBuilder) squirrel.SelectBuilder {
	if dbmetrics.IsInTransaction(ctx) {
		return b.Suffix("FOR UPDATE OF a")
	}
	return b
}

// FindOverlapping возвращает записи, чей интервал пересекается с [start, end)
// Записи со статусами из exclude не учитываются
func (r *Repository) FindOverlapping(ctx context.Context, start, end time.Time, exclude []domain.Status) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := r.selectBuilder().
		Where(squirrel.Lt{"a.start_at": end}).
		Where(squirrel.Expr(endAtExpr+" > ?", start)).
		OrderBy("a.start_at ASC", "a.id ASC")

	if len(exclude) > 0 {
		builder = builder.Where(squirrel.NotEq{"a.status": statusStrings(exclude)})
	}

	query, args, err := lockSuffix(ctx, builder).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: FindOverlapping - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: FindOverlapping - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanAppointments(rows)
}

// FindByDateRange возвращает записи, начинающиеся в [start, end), по возрастанию времени
func (r *Repository) FindByDateRange(ctx context.Context, start, end time.Time) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.selectBuilder().
		Where(squirrel.GtOrEq{"a.start_at": start}).
		Where(squirrel.Lt{"a.start_at": end}).
		OrderBy("a.start_at ASC", "a.id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: FindByDateRange - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: FindByDateRange - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanAppointments(rows)
}

// FindByClient возвращает историю записей клиента, новые первыми
func (r *Repository) FindByClient(ctx context.Context, clientID int64) ([]*domain.Appointment, error) {
	return r.List(ctx, domain.AppointmentsFilter{ClientID: &clientID})
}

// List получает записи с фильтрацией по дню, статусу и клиенту
// Сортировка: сначала новые по времени начала
func (r *Repository) List(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := r.selectBuilder()

	// Фильтрация по дню
	if filter.Date != nil {
		dayStart := domain.StartOfDay(filter.Date.In(r.loc))
		builder = builder.
			Where(squirrel.GtOrEq{"a.start_at": dayStart}).
			Where(squirrel.Lt{"a.start_at": dayStart.AddDate(0, 0, 1)})
	}

	// Фильтрация по статусу
	if filter.Status != nil {
		builder = builder.Where(squirrel.Eq{"a.status": filter.Status.String()})
	}

	// Фильтрация по клиенту
	if filter.ClientID != nil {
		builder = builder.Where(squirrel.Eq{"a.client_id": *filter.ClientID})
	}

	query, args, err := builder.OrderBy("a.start_at DESC", "a.id DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanAppointments(rows)
}

// GetByID получает запись по ID
// Внутри транзакции строка блокируется (FOR UPDATE) до её завершения
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := lockSuffix(ctx, r.selectBuilder().Where(squirrel.Eq{"a.id": id})).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	appt, err := r.scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan appointment: %w", ErrScanRow, err)
	}

	return appt, nil
}

// Insert сохраняет новую запись
// Нарушение уникального индекса по времени начала возвращается как ErrConflict
func (r *Repository) Insert(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("appointments").
		Columns(
			"client_id",
			"service_id",
			"start_at",
			"status",
			"notes",
		).
		Values(
			appt.ClientID,
			appt.ServiceID,
			appt.StartAt,
			appt.Status,
			appt.Notes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Insert - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&appt.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: Insert - start_at=%s", ErrConflict, appt.StartAt.Format(time.RFC3339))
		}
		return nil, fmt.Errorf("%w: Insert - execute insert: %w", ErrExecQuery, err)
	}

	appt.CreatedAt = createdAt.Time
	appt.UpdatedAt = updatedAt.Time

	return appt, nil
}

// UpdateStatus обновляет статус записи
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.Status) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: UpdateStatus - id=%d", ErrConflict, id)
		}
		return fmt.Errorf("%w: UpdateStatus - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrAppointmentNotFound
	}

	return nil
}

// LockDay берёт advisory lock на день до конца текущей транзакции
// Сериализует проверку пересечений и вставку записей на одну дату
func (r *Repository) LockDay(ctx context.Context, date time.Time) error {
	if !dbmetrics.IsInTransaction(ctx) {
		return fmt.Errorf("%w: LockDay", ErrTransaction)
	}
	executor := dbmetrics.GetExecutor(ctx, r.db)

	key := "appointments:" + date.In(r.loc).Format(domain.DateFormat)
	if _, err := executor.ExecContext(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", key); err != nil {
		return fmt.Errorf("%w: LockDay - key=%s: %w", ErrExecQuery, key, err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *Repository) scanAppointment(row rowScanner) (*domain.Appointment, error) {
	var appt domain.Appointment
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&appt.ID,
		&appt.ClientID,
		&appt.ServiceID,
		&appt.StartAt,
		&appt.Status,
		&appt.Notes,
		&appt.DurationMinutes,
		&appt.ServiceName,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	appt.StartAt = appt.StartAt.In(r.loc)
	appt.CreatedAt = createdAt.Time
	appt.UpdatedAt = updatedAt.Time

	return &appt, nil
}

// scanAppointments сканирует результаты запроса в слайс записей
func (r *Repository) scanAppointments(rows *sql.Rows) ([]*domain.Appointment, error) {
	appointments := make([]*domain.Appointment, 0)

	for rows.Next() {
		appt, err := r.scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanAppointments - scan row: %v", ErrScanRow, err)
		}
		appointments = append(appointments, appt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanAppointments - rows error: %w", ErrScanRow, err)
	}

	return appointments, nil
}

func statusStrings(statuses []domain.Status) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = s.String()
	}
	return out
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
