package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/itemhub/item-service/internal/domain"
	"github.com/itemhub/item-service/internal/processor"
	"github.com/itemhub/item-service/internal/repository"
)

// ItemService coordinates the repository and the bulk processor.
// HTTP handlers and the scheduled runner depend on this service, not on
// each other.
type ItemService struct {
	repo           repository.ItemRepository
	proc           *processor.BatchProcessor
	processTimeout time.Duration
	logger         *zap.Logger
}

// NewItemService builds the service. processTimeout bounds every ProcessAll
// call; zero leaves the caller's context untouched.
func NewItemService(
	repo repository.ItemRepository,
	proc *processor.BatchProcessor,
	processTimeout time.Duration,
	logger *zap.Logger,
) *ItemService {
	return &ItemService{repo: repo, proc: proc, processTimeout: processTimeout, logger: logger}
}

func (s *ItemService) List(ctx context.Context) ([]*domain.Item, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return items, nil
}

// GetByID returns domain.ErrNotFound for unknown ids.
func (s *ItemService) GetByID(ctx context.Context, id int64) (*domain.Item, error) {
	return s.repo.GetByID(ctx, id)
}

// Create validates and persists a new item.
func (s *ItemService) Create(ctx context.Context, req domain.ItemRequest) (*domain.Item, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	item, err := s.repo.Create(ctx, req.ToItem())
	if err != nil {
		return nil, fmt.Errorf("persist item: %w", err)
	}
	s.logger.Debug("item created", zap.Int64("item_id", item.ID))
	return item, nil
}

// Update replaces the item with the given id. The id in the path wins over
// anything in the body.
func (s *ItemService) Update(ctx context.Context, id int64, req domain.ItemRequest) (*domain.Item, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	item := req.ToItem()
	item.ID = id

	saved, err := s.repo.Update(ctx, item)
	if err != nil {
		return nil, fmt.Errorf("update item %d: %w", id, err)
	}
	return saved, nil
}

func (s *ItemService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete item %d: %w", id, err)
	}
	s.logger.Debug("item deleted", zap.Int64("item_id", id))
	return nil
}

// ProcessAll marks every stored item as processed. See
// processor.BatchProcessor.ProcessAll for the all-or-nothing contract.
func (s *ItemService) ProcessAll(ctx context.Context) ([]*domain.Item, error) {
	if s.processTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.processTimeout)
		defer cancel()
	}
	return s.proc.ProcessAll(ctx)
}
