package availability

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/NutriClinic-SchedulingService/internal/domain"
	"github.com/m04kA/NutriClinic-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/NutriClinic-SchedulingService/pkg/psqlbuilder"
)

const tableName = "availability_windows"

var columns = []string{
	"id",
	"provider_id",
	"day_of_week",
	"start_time",
	"end_time",
	"is_active",
	"created_at",
	"updated_at",
}

// Repository репозиторий недельных окон доступности провайдеров
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория окон доступности
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// ListByProvider получает все окна провайдера (включая неактивные),
// отсортированные по дню недели и времени начала
func (r *Repository) ListByProvider(ctx context.Context, providerID int64) ([]domain.AvailabilityWindow, error) {
	query, args, err := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{"provider_id": providerID}).
		OrderBy("day_of_week ASC", "start_time ASC", "id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByProvider - build select query: %w", ErrBuildQuery, err)
	}

	return r.query(ctx, "ListByProvider", query, args)
}

// ListActiveByDay получает активные окна провайдера на конкретный день недели
func (r *Repository) ListActiveByDay(ctx context.Context, providerID int64, day domain.Weekday) ([]domain.AvailabilityWindow, error) {
	query, args, err := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{
			"provider_id": providerID,
			"day_of_week": int(day),
			"is_active":   true,
		}).
		OrderBy("start_time ASC", "id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveByDay - build select query: %w", ErrBuildQuery, err)
	}

	return r.query(ctx, "ListActiveByDay", query, args)
}

// ReplaceForProvider заменяет все окна провайдера новым набором.
// Должен вызываться внутри транзакции: удаление и вставка применяются вместе.
func (r *Repository) ReplaceForProvider(ctx context.Context, providerID int64, windows []domain.AvailabilityWindow) ([]domain.AvailabilityWindow, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	deleteQuery, deleteArgs, err := psqlbuilder.Delete(tableName).
		Where(squirrel.Eq{"provider_id": providerID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ReplaceForProvider - build delete query: %w", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return nil, fmt.Errorf("%w: ReplaceForProvider - execute delete: %w", ErrExecQuery, err)
	}

	if len(windows) == 0 {
		return []domain.AvailabilityWindow{}, nil
	}

	insertBuilder := psqlbuilder.Insert(tableName).
		Columns("provider_id", "day_of_week", "start_time", "end_time", "is_active")
	for _, w := range windows {
		insertBuilder = insertBuilder.Values(providerID, int(w.DayOfWeek), w.StartTime, w.EndTime, w.Active)
	}

	insertQuery, insertArgs, err := insertBuilder.
		Suffix("RETURNING " + strings.Join(columns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ReplaceForProvider - build insert query: %w", ErrBuildQuery, err)
	}

	saved, err := r.query(ctx, "ReplaceForProvider", insertQuery, insertArgs)
	if err != nil {
		return nil, err
	}

	return saved, nil
}

func (r *Repository) query(ctx context.Context, op, query string, args []interface{}) ([]domain.AvailabilityWindow, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %w", ErrExecQuery, op, err)
	}
	defer rows.Close()

	windows := make([]domain.AvailabilityWindow, 0)
	for rows.Next() {
		var w domain.AvailabilityWindow
		var createdAt, updatedAt sql.NullTime

		if err := rows.Scan(
			&w.ID,
			&w.ProviderID,
			&w.DayOfWeek,
			&w.StartTime,
			&w.EndTime,
			&w.Active,
			&createdAt,
			&updatedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %w", ErrScanRow, op, err)
		}

		w.CreatedAt = createdAt.Time
		w.UpdatedAt = updatedAt.Time
		windows = append(windows, w)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %w", ErrScanRow, op, err)
	}

	return windows, nil
}
