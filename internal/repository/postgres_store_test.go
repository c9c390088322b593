package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"workflow-platform/internal/apperrors"
	"workflow-platform/pkg/models"
)

func newPostgresStore(t *testing.T) *PostgresStore {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("test-db"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Fatalf("failed to terminate container: %s", err)
		}
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	store := NewPostgresStore(pool)
	require.NoError(t, store.Migrate(ctx))
	// applying the schema twice is harmless
	require.NoError(t, store.Migrate(ctx))
	return store
}

func sampleDefinition() models.Definition {
	return models.Definition{
		Nodes: []models.Node{
			{ID: "1", Type: models.NodeTypeInput, Data: map[string]interface{}{"label": "start"}},
			{ID: "2", Type: models.NodeTypeSlack, Data: map[string]interface{}{"webhookUrl": "https://hooks.example/x", "message": "hi"}},
		},
		Edges: []models.Edge{{ID: "e1-2", Source: "1", Target: "2"}},
	}
}

func TestPostgresStore(t *testing.T) {
	store := newPostgresStore(t)
	ctx := context.Background()

	wf := &models.Workflow{OwnerID: "user-1", Name: "notify", Definition: sampleDefinition()}
	require.NoError(t, store.CreateWorkflow(ctx, wf))
	require.NotEmpty(t, wf.ID)

	t.Run("Get workflow", func(t *testing.T) {
		got, err := store.GetWorkflow(ctx, wf.ID)
		require.NoError(t, err)
		assert.Equal(t, "user-1", got.OwnerID)
		assert.Equal(t, "notify", got.Name)
		assert.Equal(t, wf.Definition.Edges, got.Definition.Edges)
		assert.Equal(t, "hi", got.Definition.Nodes[1].Data["message"])
	})

	t.Run("Missing workflow", func(t *testing.T) {
		_, err := store.GetWorkflow(ctx, uuid.New().String())
		assert.ErrorIs(t, err, apperrors.ErrNotFound)

		_, err = store.GetWorkflow(ctx, "not-a-uuid")
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("Update and list workflows", func(t *testing.T) {
		wf.Name = "renamed"
		require.NoError(t, store.UpdateWorkflow(ctx, wf))

		list, err := store.ListWorkflows(ctx, "user-1")
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "renamed", list[0].Name)

		other, err := store.ListWorkflows(ctx, "user-2")
		require.NoError(t, err)
		assert.Empty(t, other)

		err = store.UpdateWorkflow(ctx, &models.Workflow{ID: uuid.New().String(), Name: "x"})
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("Execution lifecycle", func(t *testing.T) {
		started := time.Now().UTC().Truncate(time.Microsecond)
		exec := &models.Execution{
			ID:         uuid.New().String(),
			WorkflowID: wf.ID,
			Status:     models.ExecutionStatusRunning,
			Log:        "Execution started...",
			StartedAt:  started,
		}
		require.NoError(t, store.CreateExecution(ctx, exec))

		got, err := store.GetExecution(ctx, exec.ID)
		require.NoError(t, err)
		assert.Equal(t, models.ExecutionStatusRunning, got.Status)
		assert.Nil(t, got.EndedAt)

		ended := started.Add(time.Second)
		require.NoError(t, store.UpdateExecution(ctx, exec.ID, models.ExecutionStatusCompleted, "done", ended))

		got, err = store.GetExecution(ctx, exec.ID)
		require.NoError(t, err)
		assert.Equal(t, models.ExecutionStatusCompleted, got.Status)
		assert.Equal(t, "done", got.Log)
		require.NotNil(t, got.EndedAt)
		assert.True(t, ended.Equal(*got.EndedAt))

		err = store.UpdateExecution(ctx, exec.ID, models.ExecutionStatusFailed, "again", ended)
		assert.ErrorIs(t, err, apperrors.ErrExecutionFinalized)

		err = store.UpdateExecution(ctx, uuid.New().String(), models.ExecutionStatusFailed, "x", ended)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("History ordered by start time", func(t *testing.T) {
		base := time.Now().UTC().Add(time.Hour)
		var ids []string
		for i := 0; i < 3; i++ {
			exec := &models.Execution{
				ID:         uuid.New().String(),
				WorkflowID: wf.ID,
				Status:     models.ExecutionStatusRunning,
				StartedAt:  base.Add(time.Duration(i) * time.Minute),
			}
			require.NoError(t, store.CreateExecution(ctx, exec))
			ids = append(ids, exec.ID)
		}

		history, err := store.ListExecutions(ctx, wf.ID, 2)
		require.NoError(t, err)
		require.Len(t, history, 2)
		assert.Equal(t, ids[2], history[0].ID)
		assert.Equal(t, ids[1], history[1].ID)
	})
}
