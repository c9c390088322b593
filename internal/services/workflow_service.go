package services

import (
	"context"
	"fmt"
	"strings"

	"workflow-platform/internal/apperrors"
	"workflow-platform/internal/engine"
	"workflow-platform/internal/repository"
	"workflow-platform/pkg/models"
)

// Logger defines the logging interface compatible with the application logger.
type Logger interface {
	Info(msg string, args ...any)
	Error(msg string, args ...any)
}

// WorkflowService is the facade used by the REST and MCP surfaces. Every
// method acts on behalf of an authenticated caller.
type WorkflowService struct {
	repo     repository.Repository
	executor Executor
	logger   Logger
}

// NewWorkflowService creates a new WorkflowService.
func NewWorkflowService(repo repository.Repository, executor Executor, logger Logger) *WorkflowService {
	return &WorkflowService{
		repo:     repo,
		executor: executor,
		logger:   logger,
	}
}

// Ping checks the backing store.
func (s *WorkflowService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

// CreateWorkflow saves a new workflow owned by callerID. The definition
// does not have to be runnable yet.
func (s *WorkflowService) CreateWorkflow(ctx context.Context, callerID, name string, def *models.Definition) (*models.Workflow, error) {
	name = strings.TrimSpace(name)
	if name == "" || def == nil {
		return nil, fmt.Errorf("%w: name and definition are required", apperrors.ErrInvalidArgument)
	}

	wf := &models.Workflow{
		OwnerID:    callerID,
		Name:       name,
		Definition: *def,
	}
	if err := s.repo.CreateWorkflow(ctx, wf); err != nil {
		return nil, fmt.Errorf("failed to save workflow: %w", err)
	}
	s.logger.Info("workflow created", "workflow_id", wf.ID, "owner_id", callerID)
	return wf, nil
}

// UpdateWorkflow changes the name and/or definition of a workflow owned by callerID.
func (s *WorkflowService) UpdateWorkflow(ctx context.Context, callerID, workflowID string, name *string, def *models.Definition) (*models.Workflow, error) {
	wf, err := s.GetWorkflow(ctx, callerID, workflowID)
	if err != nil {
		return nil, err
	}
	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if trimmed == "" {
			return nil, fmt.Errorf("%w: name must not be empty", apperrors.ErrInvalidArgument)
		}
		wf.Name = trimmed
	}
	if def != nil {
		wf.Definition = *def
	}
	if err := s.repo.UpdateWorkflow(ctx, wf); err != nil {
		return nil, fmt.Errorf("failed to update workflow: %w", err)
	}
	return wf, nil
}

// GetWorkflow returns a workflow owned by callerID.
func (s *WorkflowService) GetWorkflow(ctx context.Context, callerID, workflowID string) (*models.Workflow, error) {
	wf, err := s.repo.GetWorkflow(ctx, workflowID)
	if err != nil {
		return nil, err
	}
	if wf.OwnerID != callerID {
		return nil, fmt.Errorf("workflow %s: %w", workflowID, apperrors.ErrForbidden)
	}
	return wf, nil
}

// ListWorkflows returns the workflows owned by callerID.
func (s *WorkflowService) ListWorkflows(ctx context.Context, callerID string) ([]*models.Workflow, error) {
	return s.repo.ListWorkflows(ctx, callerID)
}

// Execute runs a workflow owned by callerID. See engine.Engine.Execute for
// the meaning of the returned Result and error.
func (s *WorkflowService) Execute(ctx context.Context, callerID, workflowID string) (*engine.Result, error) {
	return s.executor.Execute(ctx, workflowID, callerID)
}

// ListExecutions returns the run history of a workflow owned by callerID.
func (s *WorkflowService) ListExecutions(ctx context.Context, callerID, workflowID string, limit int) ([]*models.Execution, error) {
	if _, err := s.GetWorkflow(ctx, callerID, workflowID); err != nil {
		return nil, err
	}
	return s.repo.ListExecutions(ctx, workflowID, repository.ClampLimit(limit))
}

// GetExecution returns one execution of a workflow owned by callerID.
func (s *WorkflowService) GetExecution(ctx context.Context, callerID, executionID string) (*models.Execution, error) {
	exec, err := s.repo.GetExecution(ctx, executionID)
	if err != nil {
		return nil, err
	}
	if _, err := s.GetWorkflow(ctx, callerID, exec.WorkflowID); err != nil {
		return nil, err
	}
	return exec, nil
}
