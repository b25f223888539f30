package exclusion

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/NutriClinic-SchedulingService/internal/domain"
	"github.com/m04kA/NutriClinic-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/NutriClinic-SchedulingService/pkg/psqlbuilder"
)

const tableName = "exclusion_blocks"

var columns = []string{
	"id",
	"provider_id",
	"start_at",
	"end_at",
	"title",
	"kind",
	"created_at",
}

// Repository репозиторий блоков исключений (отпуск, праздник, личное время)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория блоков исключений
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новый блок исключения
func (r *Repository) Create(ctx context.Context, block *domain.ExclusionBlock) (*domain.ExclusionBlock, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(tableName).
		Columns("provider_id", "start_at", "end_at", "title", "kind").
		Values(block.ProviderID, block.StartAt, block.EndAt, block.Title, block.Kind).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %w", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&block.ID, &createdAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}
	block.CreatedAt = createdAt.Time

	return block, nil
}

// GetByID получает блок исключения по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.ExclusionBlock, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %w", ErrBuildQuery, err)
	}

	block, err := scanBlock(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrExclusionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan exclusion: %w", ErrScanRow, err)
	}

	return block, nil
}

// ListIntersecting получает блоки провайдера, пересекающиеся с интервалом [from, to)
// Пересечение строгое: блоки, касающиеся границы, не попадают в выборку
func (r *Repository) ListIntersecting(ctx context.Context, providerID int64, from, to time.Time) ([]domain.ExclusionBlock, error) {
	query, args, err := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{"provider_id": providerID}).
		Where(squirrel.Lt{"start_at": to}).
		Where(squirrel.Gt{"end_at": from}).
		OrderBy("start_at ASC", "id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListIntersecting - build select query: %w", ErrBuildQuery, err)
	}

	return r.query(ctx, "ListIntersecting", query, args)
}

// ListByProvider получает блоки провайдера, заканчивающиеся после from (nil - все)
func (r *Repository) ListByProvider(ctx context.Context, providerID int64, from *time.Time) ([]domain.ExclusionBlock, error) {
	selectBuilder := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{"provider_id": providerID}).
		OrderBy("start_at ASC", "id ASC")

	if from != nil {
		selectBuilder = selectBuilder.Where(squirrel.Gt{"end_at": *from})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByProvider - build select query: %w", ErrBuildQuery, err)
	}

	return r.query(ctx, "ListByProvider", query, args)
}

// Delete удаляет блок исключения провайдера
func (r *Repository) Delete(ctx context.Context, providerID, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(tableName).
		Where(squirrel.Eq{"id": id, "provider_id": providerID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %w", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrExclusionNotFound
	}

	return nil
}

func (r *Repository) query(ctx context.Context, op, query string, args []interface{}) ([]domain.ExclusionBlock, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %w", ErrExecQuery, op, err)
	}
	defer rows.Close()

	blocks := make([]domain.ExclusionBlock, 0)
	for rows.Next() {
		block, err := scanBlock(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %w", ErrScanRow, op, err)
		}
		blocks = append(blocks, *block)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %w", ErrScanRow, op, err)
	}

	return blocks, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBlock(row rowScanner) (*domain.ExclusionBlock, error) {
	var block domain.ExclusionBlock
	var createdAt sql.NullTime

	if err := row.Scan(
		&block.ID,
		&block.ProviderID,
		&block.StartAt,
		&block.EndAt,
		&block.Title,
		&block.Kind,
		&createdAt,
	); err != nil {
		return nil, err
	}
	block.CreatedAt = createdAt.Time

	return &block, nil
}
