package repository

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"workflow-platform/internal/logging"
	"workflow-platform/pkg/models"
)

func newRedisClient(t *testing.T) *redis.Client {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Fatalf("failed to terminate container: %s", err)
		}
	})

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: endpoint})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestCachedRepository(t *testing.T) {
	client := newRedisClient(t)
	ctx := context.Background()

	backing := NewInMemoryStore()
	cached := NewCachedRepository(backing, client, time.Minute, logging.NewNop())

	wf := &models.Workflow{OwnerID: "u1", Name: "first", Definition: sampleDefinition()}
	require.NoError(t, cached.CreateWorkflow(ctx, wf))

	got, err := cached.GetWorkflow(ctx, wf.ID)
	require.NoError(t, err)
	assert.Equal(t, "first", got.Name)

	exists, err := client.Exists(ctx, workflowKey(wf.ID)).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), exists)

	// A write behind the cache's back is not visible until eviction.
	stale := *wf
	stale.Name = "behind-the-back"
	require.NoError(t, backing.UpdateWorkflow(ctx, &stale))
	got, err = cached.GetWorkflow(ctx, wf.ID)
	require.NoError(t, err)
	assert.Equal(t, "first", got.Name)

	// Updates through the cache evict the entry.
	wf.Name = "second"
	require.NoError(t, cached.UpdateWorkflow(ctx, wf))
	got, err = cached.GetWorkflow(ctx, wf.ID)
	require.NoError(t, err)
	assert.Equal(t, "second", got.Name)
}

func TestCachedRepository_FallsBackWhenRedisIsDown(t *testing.T) {
	ctx := context.Background()
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond})
	defer client.Close()

	backing := NewInMemoryStore()
	cached := NewCachedRepository(backing, client, time.Minute, logging.NewNop())

	wf := &models.Workflow{OwnerID: "u1", Name: "offline"}
	require.NoError(t, backing.CreateWorkflow(ctx, wf))

	got, err := cached.GetWorkflow(ctx, wf.ID)
	require.NoError(t, err)
	assert.Equal(t, "offline", got.Name)

	wf.Name = "still-offline"
	assert.NoError(t, cached.UpdateWorkflow(ctx, wf))
}
