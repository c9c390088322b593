package services

import (
	"context"

	"workflow-platform/internal/engine"
)

// Executor runs workflows. *engine.Engine implements it.
type Executor interface {
	Execute(ctx context.Context, workflowID, callerID string) (*engine.Result, error)
}

var _ Executor = (*engine.Engine)(nil)
