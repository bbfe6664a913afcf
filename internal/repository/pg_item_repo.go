package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/itemhub/item-service/internal/domain"
)

// PostgreSQL error codes the repository translates into domain errors.
const (
	notNullViolationCode = "23502"
	checkViolationCode   = "23514"
)

const itemColumns = `id, name, description, status, email, created_at, updated_at`

type pgItemRepository struct {
	pool *pgxpool.Pool
}

// NewPgItemRepository returns an ItemRepository backed by PostgreSQL.
func NewPgItemRepository(pool *pgxpool.Pool) ItemRepository {
	return &pgItemRepository{pool: pool}
}

func (r *pgItemRepository) Create(ctx context.Context, item *domain.Item) (*domain.Item, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO items (name, description, status, email)
		VALUES ($1, $2, $3, $4)
		RETURNING `+itemColumns,
		item.Name, item.Description, item.Status, item.Email,
	)

	created, err := scanItem(row)
	if err != nil {
		return nil, fmt.Errorf("insert item: %w", mapPgError(err))
	}
	return created, nil
}

func (r *pgItemRepository) GetByID(ctx context.Context, id int64) (*domain.Item, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+itemColumns+` FROM items WHERE id = $1`, id)

	item, err := scanItem(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get item %d: %w", id, err)
	}
	return item, nil
}

func (r *pgItemRepository) List(ctx context.Context) ([]*domain.Item, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+itemColumns+` FROM items ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()
	return scanItems(rows)
}

func (r *pgItemRepository) ListIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.pool.Query(ctx, `SELECT id FROM items ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list item ids: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("scan item ids: %w", err)
	}
	return ids, nil
}

func (r *pgItemRepository) Update(ctx context.Context, item *domain.Item) (*domain.Item, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE items
		SET name = $1, description = $2, status = $3, email = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING `+itemColumns,
		item.Name, item.Description, item.Status, item.Email, item.ID,
	)

	updated, err := scanItem(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update item %d: %w", item.ID, mapPgError(err))
	}
	return updated, nil
}

func (r *pgItemRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete item %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ---- helpers ----

// scanItem reads a single item row from any pgx row type.
func scanItem(row pgx.Row) (*domain.Item, error) {
	var it domain.Item
	err := row.Scan(
		&it.ID, &it.Name, &it.Description, &it.Status, &it.Email,
		&it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func scanItems(rows pgx.Rows) ([]*domain.Item, error) {
	result := []*domain.Item{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, it)
	}
	return result, rows.Err()
}

// mapPgError turns constraint violations on the name column into the same
// validation error the API layer produces, so a request that slipped past
// validation still gets a 422 rather than a 500.
func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case notNullViolationCode, checkViolationCode:
		if pgErr.ColumnName == "name" || pgErr.ConstraintName == "items_name_check" {
			return fmt.Errorf("%w: %v", domain.ErrInvalidName, err)
		}
	}
	return err
}
