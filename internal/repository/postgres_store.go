package repository

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"workflow-platform/internal/apperrors"
	"workflow-platform/pkg/models"
)

//go:embed schema.sql
var schema string

// PostgresStore is a PostgreSQL implementation of the Repository interface.
type PostgresStore struct {
	db *pgxpool.Pool
}

var _ Repository = (*PostgresStore)(nil)

// NewPostgresStore creates a new PostgresStore.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate creates the tables when they do not exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// Ping checks the database connection.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// CreateWorkflow inserts a workflow.
func (s *PostgresStore) CreateWorkflow(ctx context.Context, wf *models.Workflow) error {
	if wf.ID == "" {
		wf.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if wf.CreatedAt.IsZero() {
		wf.CreatedAt = now
	}
	wf.UpdatedAt = wf.CreatedAt

	def, err := json.Marshal(wf.Definition)
	if err != nil {
		return fmt.Errorf("failed to marshal definition: %w", err)
	}
	_, err = s.db.Exec(ctx,
		"INSERT INTO workflows (id, owner_id, name, definition, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6)",
		wf.ID, wf.OwnerID, wf.Name, def, wf.CreatedAt, wf.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert workflow: %w", err)
	}
	return nil
}

// GetWorkflow retrieves a workflow by its ID.
func (s *PostgresStore) GetWorkflow(ctx context.Context, id string) (*models.Workflow, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("workflow %q: %w", id, apperrors.ErrNotFound)
	}
	row := s.db.QueryRow(ctx,
		"SELECT id::text, owner_id, name, definition, created_at, updated_at FROM workflows WHERE id = $1", id)
	wf, err := scanWorkflow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("workflow %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get workflow: %w", err)
	}
	return wf, nil
}

// UpdateWorkflow replaces the name and definition of a workflow.
func (s *PostgresStore) UpdateWorkflow(ctx context.Context, wf *models.Workflow) error {
	def, err := json.Marshal(wf.Definition)
	if err != nil {
		return fmt.Errorf("failed to marshal definition: %w", err)
	}
	wf.UpdatedAt = time.Now().UTC()
	tag, err := s.db.Exec(ctx,
		"UPDATE workflows SET name = $1, definition = $2, updated_at = $3 WHERE id = $4",
		wf.Name, def, wf.UpdatedAt, wf.ID)
	if err != nil {
		return fmt.Errorf("failed to update workflow: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("workflow %s: %w", wf.ID, apperrors.ErrNotFound)
	}
	return nil
}

// ListWorkflows returns the workflows of an owner, newest first.
func (s *PostgresStore) ListWorkflows(ctx context.Context, ownerID string) ([]*models.Workflow, error) {
	rows, err := s.db.Query(ctx,
		"SELECT id::text, owner_id, name, definition, created_at, updated_at FROM workflows WHERE owner_id = $1 ORDER BY created_at DESC",
		ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list workflows: %w", err)
	}
	defer rows.Close()

	workflows := []*models.Workflow{}
	for rows.Next() {
		wf, err := scanWorkflow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan workflow: %w", err)
		}
		workflows = append(workflows, wf)
	}
	return workflows, rows.Err()
}

// CreateExecution inserts a new execution record.
func (s *PostgresStore) CreateExecution(ctx context.Context, exec *models.Execution) error {
	_, err := s.db.Exec(ctx,
		"INSERT INTO executions (id, workflow_id, status, log, started_at) VALUES ($1, $2, $3, $4, $5)",
		exec.ID, exec.WorkflowID, string(exec.Status), exec.Log, exec.StartedAt)
	if err != nil {
		return fmt.Errorf("failed to insert execution: %w", err)
	}
	return nil
}

// UpdateExecution commits status, log and end time. Only a running
// execution can be updated.
func (s *PostgresStore) UpdateExecution(ctx context.Context, id string, status models.ExecutionStatus, log string, endedAt time.Time) error {
	tag, err := s.db.Exec(ctx,
		"UPDATE executions SET status = $1, log = $2, ended_at = $3 WHERE id = $4 AND status = $5",
		string(status), log, endedAt, id, string(models.ExecutionStatusRunning))
	if err != nil {
		return fmt.Errorf("failed to update execution: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	// Distinguish a missing record from a finalized one.
	if _, err := s.GetExecution(ctx, id); err != nil {
		return err
	}
	return fmt.Errorf("execution %s: %w", id, apperrors.ErrExecutionFinalized)
}

// GetExecution retrieves an execution by its ID.
func (s *PostgresStore) GetExecution(ctx context.Context, id string) (*models.Execution, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("execution %q: %w", id, apperrors.ErrNotFound)
	}
	row := s.db.QueryRow(ctx,
		"SELECT id::text, workflow_id::text, status, log, started_at, ended_at FROM executions WHERE id = $1", id)
	exec, err := scanExecution(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("execution %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get execution: %w", err)
	}
	return exec, nil
}

// ListExecutions returns the executions of a workflow, latest start first.
func (s *PostgresStore) ListExecutions(ctx context.Context, workflowID string, limit int) ([]*models.Execution, error) {
	if _, err := uuid.Parse(workflowID); err != nil {
		return []*models.Execution{}, nil
	}
	rows, err := s.db.Query(ctx,
		"SELECT id::text, workflow_id::text, status, log, started_at, ended_at FROM executions WHERE workflow_id = $1 ORDER BY started_at DESC LIMIT $2",
		workflowID, ClampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list executions: %w", err)
	}
	defer rows.Close()

	executions := []*models.Execution{}
	for rows.Next() {
		exec, err := scanExecution(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan execution: %w", err)
		}
		executions = append(executions, exec)
	}
	return executions, rows.Err()
}

func scanWorkflow(row pgx.Row) (*models.Workflow, error) {
	var wf models.Workflow
	var def []byte
	if err := row.Scan(&wf.ID, &wf.OwnerID, &wf.Name, &def, &wf.CreatedAt, &wf.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(def, &wf.Definition); err != nil {
		return nil, fmt.Errorf("failed to decode definition of workflow %s: %w", wf.ID, err)
	}
	return &wf, nil
}

func scanExecution(row pgx.Row) (*models.Execution, error) {
	var exec models.Execution
	var status string
	if err := row.Scan(&exec.ID, &exec.WorkflowID, &status, &exec.Log, &exec.StartedAt, &exec.EndedAt); err != nil {
		return nil, err
	}
	exec.Status = models.ExecutionStatus(status)
	return &exec, nil
}
