package repository

import (
	"context"

	"github.com/itemhub/item-service/internal/domain"
)

// ItemRepository defines all persistence operations for items.
// The pgx implementation is in pg_item_repo.go.
// Tests use a hand-written mock (mock_item_repo.go).
//
// Implementations must be safe for concurrent use: the bulk processor calls
// GetByID and Update from many workers at once.
type ItemRepository interface {
	Create(ctx context.Context, item *domain.Item) (*domain.Item, error)
	GetByID(ctx context.Context, id int64) (*domain.Item, error)
	List(ctx context.Context) ([]*domain.Item, error)
	ListIDs(ctx context.Context) ([]int64, error)
	// Update replaces every mutable field of the item with item.ID and returns
	// the stored row. Returns domain.ErrNotFound if no such item exists.
	Update(ctx context.Context, item *domain.Item) (*domain.Item, error)
	Delete(ctx context.Context, id int64) error
}
