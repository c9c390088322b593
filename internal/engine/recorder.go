package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"workflow-platform/internal/apperrors"
	"workflow-platform/pkg/models"
)

// StartedMessage is the first line of every run log.
const StartedMessage = "Execution started..."

// Recorder owns the persisted Execution record of a run.
type Recorder struct {
	store ExecutionStore
	now   func() time.Time
}

// NewRecorder creates a Recorder writing to store.
func NewRecorder(store ExecutionStore) *Recorder {
	return &Recorder{store: store, now: time.Now}
}

// Begin inserts a running execution for the workflow.
func (r *Recorder) Begin(ctx context.Context, workflowID string) (*models.Execution, error) {
	exec := &models.Execution{
		ID:         uuid.New().String(),
		WorkflowID: workflowID,
		Status:     models.ExecutionStatusRunning,
		Log:        StartedMessage,
		StartedAt:  r.now().UTC(),
	}
	if err := r.store.CreateExecution(ctx, exec); err != nil {
		return nil, fmt.Errorf("failed to create execution: %w: %w", apperrors.ErrPersistence, err)
	}
	return exec, nil
}

// Complete commits the run as completed with its full log.
func (r *Recorder) Complete(ctx context.Context, executionID, fullLog string) error {
	return r.commit(ctx, executionID, models.ExecutionStatusCompleted, fullLog)
}

// Fail commits the run as failed, appending the error detail to its log.
func (r *Recorder) Fail(ctx context.Context, executionID, fullLog, errorDetail string) error {
	return r.commit(ctx, executionID, models.ExecutionStatusFailed, fullLog+"\nError: "+errorDetail)
}

func (r *Recorder) commit(ctx context.Context, executionID string, status models.ExecutionStatus, log string) error {
	if err := r.store.UpdateExecution(ctx, executionID, status, log, r.now().UTC()); err != nil {
		return fmt.Errorf("failed to commit execution %s as %s: %w: %w", executionID, status, apperrors.ErrPersistence, err)
	}
	return nil
}
