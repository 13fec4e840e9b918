package workinghours

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
)

// DBExecutor интерфейс для выполнения запросов (*sql.DB, *dbmetrics.DB, транзакция)
type DBExecutor = dbmetrics.DBExecutor

var selectColumns = []string{
	"weekday",
	"open_time",
	"close_time",
	"active",
	"updated_at",
}

// Repository репозиторий рабочих часов (одна строка на день недели)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория рабочих часов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// List возвращает все правила по порядку дней недели
func (r *Repository) List(ctx context.Context) ([]domain.WorkingHoursRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(selectColumns...).
		From("working_hours").
		OrderBy("weekday ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	rules := make([]domain.WorkingHoursRule, 0, 7)
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %v", ErrScanRow, err)
		}
		rules = append(rules, rule)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %w", ErrScanRow, err)
	}

	return rules, nil
}

// Get возвращает правило на день недели
func (r *Repository) Get(ctx context.Context, weekday time.Weekday) (domain.WorkingHoursRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(selectColumns...).
		From("working_hours").
		Where(squirrel.Eq{"weekday": int(weekday)}).
		ToSql()

	if err != nil {
		return domain.WorkingHoursRule{}, fmt.Errorf("%w: Get - build select query: %v", ErrBuildQuery, err)
	}

	rule, err := scanRule(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.WorkingHoursRule{}, ErrRuleNotFound
	}
	if err != nil {
		return domain.WorkingHoursRule{}, fmt.Errorf("%w: Get - scan rule: %w", ErrScanRow, err)
	}

	return rule, nil
}

// Upsert создает или заменяет правило на день недели
func (r *Repository) Upsert(ctx context.Context, rule domain.WorkingHoursRule) (domain.WorkingHoursRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("working_hours").
		Columns("weekday", "open_time", "close_time", "active").
		Values(int(rule.Weekday), rule.OpenTime, rule.CloseTime, rule.Active).
		Suffix(`ON CONFLICT (weekday) DO UPDATE SET
			open_time = EXCLUDED.open_time,
			close_time = EXCLUDED.close_time,
			active = EXCLUDED.active,
			updated_at = NOW()
		RETURNING updated_at`).
		ToSql()

	if err != nil {
		return domain.WorkingHoursRule{}, fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	var updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&updatedAt); err != nil {
		return domain.WorkingHoursRule{}, fmt.Errorf("%w: Upsert - execute upsert: %w", ErrExecQuery, err)
	}

	rule.UpdatedAt = updatedAt.Time
	return rule, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRule(row rowScanner) (domain.WorkingHoursRule, error) {
	var rule domain.WorkingHoursRule
	var weekday int
	var updatedAt sql.NullTime

	if err := row.Scan(&weekday, &rule.OpenTime, &rule.CloseTime, &rule.Active, &updatedAt); err != nil {
		return domain.WorkingHoursRule{}, err
	}

	rule.Weekday = time.Weekday(weekday)
	rule.UpdatedAt = updatedAt.Time
	return rule, nil
}
