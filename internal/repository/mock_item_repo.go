package repository

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/itemhub/item-service/internal/domain"
)

// MockItemRepository is a hand-written, in-memory implementation of
// ItemRepository used in unit tests. No mock-generation library needed.
type MockItemRepository struct {
	mu     sync.RWMutex
	items  map[int64]*domain.Item
	nextID int64

	// Call counters, read by tests after a run.
	GetCalls    atomic.Int64
	UpdateCalls atomic.Int64

	// Optional error overrides, set in tests to simulate failure paths.
	CreateErr  error
	ListErr    error
	ListIDsErr error
	// GetHook and UpdateHook run before the real operation; a non-nil error
	// is returned in its place.
	GetHook    func(id int64) error
	UpdateHook func(id int64) error

	// PhantomIDs are appended to ListIDs, simulating items deleted between
	// the id snapshot and their lookup.
	PhantomIDs []int64
}

func NewMockItemRepository() *MockItemRepository {
	return &MockItemRepository{items: make(map[int64]*domain.Item)}
}

// Seed inserts n items named item-1..item-n and returns their ids.
func (m *MockItemRepository) Seed(n int) []int64 {
	ids := make([]int64, 0, n)
	for i := 0; i < n; i++ {
		it, _ := m.Create(context.Background(), &domain.Item{
			Name:  "item",
			Email: "owner@example.com",
		})
		ids = append(ids, it.ID)
	}
	return ids
}

func (m *MockItemRepository) Create(_ context.Context, item *domain.Item) (*domain.Item, error) {
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	now := time.Now().UTC()
	clone := *item
	clone.ID = m.nextID
	clone.CreatedAt = now
	clone.UpdatedAt = now
	m.items[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (m *MockItemRepository) GetByID(_ context.Context, id int64) (*domain.Item, error) {
	m.GetCalls.Add(1)
	if m.GetHook != nil {
		if err := m.GetHook(id); err != nil {
			return nil, err
		}
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	it, ok := m.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *it
	return &clone, nil
}

func (m *MockItemRepository) List(_ context.Context) ([]*domain.Item, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Item, 0, len(m.items))
	for _, it := range m.items {
		clone := *it
		result = append(result, &clone)
	}
	slices.SortFunc(result, func(a, b *domain.Item) int { return int(a.ID - b.ID) })
	return result, nil
}

func (m *MockItemRepository) ListIDs(_ context.Context) ([]int64, error) {
	if m.ListIDsErr != nil {
		return nil, m.ListIDsErr
	}
	m.mu.RLock()
	ids := make([]int64, 0, len(m.items)+len(m.PhantomIDs))
	for id := range m.items {
		ids = append(ids, id)
	}
	m.mu.RUnlock()
	slices.Sort(ids)
	return append(ids, m.PhantomIDs...), nil
}

func (m *MockItemRepository) Update(_ context.Context, item *domain.Item) (*domain.Item, error) {
	m.UpdateCalls.Add(1)
	if m.UpdateHook != nil {
		if err := m.UpdateHook(item.ID); err != nil {
			return nil, err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.items[item.ID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *item
	clone.CreatedAt = existing.CreatedAt
	clone.UpdatedAt = time.Now().UTC()
	m.items[item.ID] = &clone
	out := clone
	return &out, nil
}

func (m *MockItemRepository) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

// compile-time check that MockItemRepository implements ItemRepository
var _ ItemRepository = (*MockItemRepository)(nil)
