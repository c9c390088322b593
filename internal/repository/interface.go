package repository

import (
	"context"
	"time"

	"workflow-platform/pkg/models"
)

// Default and maximum page size for execution history.
const (
	DefaultHistoryLimit = 50
	MaxHistoryLimit     = 200
)

// WorkflowStore is an interface for storing and retrieving workflow definitions.
type WorkflowStore interface {
	// CreateWorkflow inserts a workflow. ID, CreatedAt and UpdatedAt are
	// filled in when empty.
	CreateWorkflow(ctx context.Context, workflow *models.Workflow) error
	// GetWorkflow retrieves a workflow by its ID.
	GetWorkflow(ctx context.Context, id string) (*models.Workflow, error)
	// UpdateWorkflow replaces the name and definition of a workflow.
	UpdateWorkflow(ctx context.Context, workflow *models.Workflow) error
	// ListWorkflows returns the workflows of an owner, newest first.
	ListWorkflows(ctx context.Context, ownerID string) ([]*models.Workflow, error)
}

// ExecutionStore is an interface for storing and retrieving execution records.
type ExecutionStore interface {
	// CreateExecution inserts a new execution record.
	CreateExecution(ctx context.Context, execution *models.Execution) error
	// UpdateExecution commits status, log and end time of a running execution.
	UpdateExecution(ctx context.Context, id string, status models.ExecutionStatus, log string, endedAt time.Time) error
	// GetExecution retrieves an execution by its ID.
	GetExecution(ctx context.Context, id string) (*models.Execution, error)
	// ListExecutions returns the executions of a workflow, latest start first.
	ListExecutions(ctx context.Context, workflowID string, limit int) ([]*models.Execution, error)
}

// Repository is the full persistence surface of the service.
type Repository interface {
	WorkflowStore
	ExecutionStore
	Ping(ctx context.Context) error
}

// ClampLimit applies the history page size bounds.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		return MaxHistoryLimit
	}
	return limit
}
