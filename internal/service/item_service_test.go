package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/itemhub/item-service/internal/domain"
	"github.com/itemhub/item-service/internal/processor"
	"github.com/itemhub/item-service/internal/queue"
	"github.com/itemhub/item-service/internal/ratelimiter"
	"github.com/itemhub/item-service/internal/repository"
	"github.com/itemhub/item-service/internal/service"
	"github.com/itemhub/item-service/internal/worker"
)

func newService(t *testing.T, timeout time.Duration) (*service.ItemService, *repository.MockItemRepository) {
	t.Helper()
	repo := repository.NewMockItemRepository()
	pool := worker.NewPool(4, queue.New(16), zap.NewNop(), worker.MetricHooks{})
	ctx, cancel := context.WithCancel(context.Background())
	pool.Start(ctx)
	t.Cleanup(func() {
		cancel()
		pool.Wait()
	})

	proc := processor.New(repo, pool, ratelimiter.New(0), zap.NewNop(), processor.MetricHooks{})
	return service.NewItemService(repo, proc, timeout, zap.NewNop()), repo
}

var validReq = domain.ItemRequest{
	Name:        "widget",
	Description: "a widget",
	Email:       "owner@example.com",
}

func TestItemService_Create(t *testing.T) {
	svc, _ := newService(t, 0)

	item, err := svc.Create(context.Background(), validReq)
	require.NoError(t, err)
	assert.NotZero(t, item.ID)
	assert.Equal(t, "widget", item.Name)
	assert.Equal(t, domain.StatusNew, item.Status)
	assert.False(t, item.CreatedAt.IsZero())
}

func TestItemService_Create_InvalidRequest(t *testing.T) {
	svc, repo := newService(t, 0)

	t.Run("empty name", func(t *testing.T) {
		bad := validReq
		bad.Name = ""
		_, err := svc.Create(context.Background(), bad)
		assert.ErrorIs(t, err, domain.ErrInvalidName)
	})

	t.Run("bad email", func(t *testing.T) {
		bad := validReq
		bad.Email = "not-an-email"
		_, err := svc.Create(context.Background(), bad)
		assert.ErrorIs(t, err, domain.ErrInvalidEmail)
	})

	items, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items, "invalid requests must not be persisted")
}

func TestItemService_Create_RepositoryError(t *testing.T) {
	svc, repo := newService(t, 0)
	repo.CreateErr = errors.New("db down")

	_, err := svc.Create(context.Background(), validReq)
	assert.ErrorContains(t, err, "db down")
}

func TestItemService_GetByID(t *testing.T) {
	svc, _ := newService(t, 0)
	ctx := context.Background()

	created, err := svc.Create(ctx, validReq)
	require.NoError(t, err)

	got, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = svc.GetByID(ctx, created.ID+100)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestItemService_List(t *testing.T) {
	svc, repo := newService(t, 0)
	repo.Seed(3)

	items, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 3)

	repo.ListErr = errors.New("timeout")
	_, err = svc.List(context.Background())
	assert.ErrorContains(t, err, "timeout")
}

func TestItemService_Update(t *testing.T) {
	svc, _ := newService(t, 0)
	ctx := context.Background()

	created, err := svc.Create(ctx, validReq)
	require.NoError(t, err)

	req := validReq
	req.Name = "gadget"
	req.Status = "ARCHIVED"
	updated, err := svc.Update(ctx, created.ID, req)
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "gadget", updated.Name)
	assert.Equal(t, domain.Status("ARCHIVED"), updated.Status)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
}

func TestItemService_Update_NotFound(t *testing.T) {
	svc, _ := newService(t, 0)

	_, err := svc.Update(context.Background(), 42, validReq)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestItemService_Update_Invalid(t *testing.T) {
	svc, repo := newService(t, 0)
	ids := repo.Seed(1)

	bad := validReq
	bad.Name = ""
	_, err := svc.Update(context.Background(), ids[0], bad)
	assert.ErrorIs(t, err, domain.ErrInvalidName)
	assert.Zero(t, repo.UpdateCalls.Load())
}

func TestItemService_Delete(t *testing.T) {
	svc, repo := newService(t, 0)
	ctx := context.Background()
	ids := repo.Seed(1)

	require.NoError(t, svc.Delete(ctx, ids[0]))
	_, err := svc.GetByID(ctx, ids[0])
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, ids[0]), domain.ErrNotFound)
}

func TestItemService_ProcessAll(t *testing.T) {
	svc, repo := newService(t, time.Second)
	repo.Seed(25)

	items, err := svc.ProcessAll(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 25)
	for _, it := range items {
		assert.Equal(t, domain.StatusProcessed, it.Status)
	}
}

func TestItemService_ProcessAll_Timeout(t *testing.T) {
	svc, repo := newService(t, 50*time.Millisecond)
	repo.Seed(2)

	release := make(chan struct{})
	defer close(release)
	repo.GetHook = func(int64) error {
		<-release
		return nil
	}

	start := time.Now()
	items, err := svc.ProcessAll(context.Background())
	assert.Nil(t, items)
	assert.ErrorIs(t, err, domain.ErrProcessingCancelled)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}
