package engine

import (
	"context"
	"time"

	"workflow-platform/pkg/models"
)

// Logger defines the logging interface compatible with the application logger.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// DefinitionSource reads persisted workflows.
type DefinitionSource interface {
	// GetWorkflow returns the workflow or an error matching apperrors.ErrNotFound.
	GetWorkflow(ctx context.Context, id string) (*models.Workflow, error)
}

// ExecutionStore persists execution records.
type ExecutionStore interface {
	// CreateExecution inserts a new record.
	CreateExecution(ctx context.Context, execution *models.Execution) error
	// UpdateExecution commits a terminal status. It fails with
	// apperrors.ErrExecutionFinalized when the record is no longer running.
	UpdateExecution(ctx context.Context, id string, status models.ExecutionStatus, log string, endedAt time.Time) error
}

// MessagePoster delivers a text message to a webhook.
type MessagePoster interface {
	PostMessage(ctx context.Context, webhookURL, text string) error
}
