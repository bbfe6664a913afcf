//go:build integration

package repository_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	"github.com/itemhub/item-service/internal/config"
	"github.com/itemhub/item-service/internal/db"
	"github.com/itemhub/item-service/internal/domain"
	"github.com/itemhub/item-service/internal/processor"
	"github.com/itemhub/item-service/internal/queue"
	"github.com/itemhub/item-service/internal/ratelimiter"
	"github.com/itemhub/item-service/internal/repository"
	"github.com/itemhub/item-service/internal/worker"
)

// setupPostgres starts a Postgres container, applies the migrations and
// returns a repository on top of it.
func setupPostgres(t *testing.T) repository.ItemRepository {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "items",
			"POSTGRES_PASSWORD": "items",
			"POSTGRES_DB":       "items",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err, "start postgres container")
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	cfg := &config.Config{
		DatabaseURL: fmt.Sprintf("postgres://items:items@%s:%s/items?sslmode=disable", host, port.Port()),
		DBMaxConns:  20,
		DBMinConns:  1,
	}
	version, err := db.Migrate("file://../../migrations", cfg.DatabaseURL)
	require.NoError(t, err)
	require.Equal(t, uint(1), version)

	pool, err := db.Connect(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return repository.NewPgItemRepository(pool)
}

func TestPgItemRepository_Integration_CRUD(t *testing.T) {
	repo := setupPostgres(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, &domain.Item{Name: "widget", Email: "a@b.c"})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, domain.StatusNew, created.Status)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "widget", got.Name)

	got.Status = domain.StatusProcessed
	updated, err := repo.Update(ctx, got)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusProcessed, updated.Status)
	assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))

	ids, err := repo.ListIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{created.ID}, ids)

	require.NoError(t, repo.Delete(ctx, created.ID))
	_, err = repo.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = repo.Update(ctx, got)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, created.ID), domain.ErrNotFound)
}

func TestPgItemRepository_Integration_EmptyNameRejected(t *testing.T) {
	repo := setupPostgres(t)

	_, err := repo.Create(context.Background(), &domain.Item{Name: ""})
	assert.ErrorIs(t, err, domain.ErrInvalidName)
}

func TestProcessAll_Integration(t *testing.T) {
	repo := setupPostgres(t)
	ctx := context.Background()

	for i := 0; i < 200; i++ {
		_, err := repo.Create(ctx, &domain.Item{Name: fmt.Sprintf("item-%d", i)})
		require.NoError(t, err)
	}

	pool := worker.NewPool(10, queue.New(1000), zap.NewNop(), worker.MetricHooks{})
	workerCtx, cancel := context.WithCancel(ctx)
	pool.Start(workerCtx)
	t.Cleanup(func() {
		cancel()
		pool.Wait()
	})

	proc := processor.New(repo, pool, ratelimiter.New(0), zap.NewNop(), processor.MetricHooks{})

	runCtx, runCancel := context.WithTimeout(ctx, 30*time.Second)
	defer runCancel()
	items, err := proc.ProcessAll(runCtx)
	require.NoError(t, err)
	require.Len(t, items, 200)

	stored, err := repo.List(ctx)
	require.NoError(t, err)
	for _, it := range stored {
		assert.Equal(t, domain.StatusProcessed, it.Status, "item %d", it.ID)
	}
}
