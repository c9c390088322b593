package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"workflow-platform/internal/apperrors"
	"workflow-platform/pkg/models"
)

// InMemoryStore is a Repository kept in process memory. It backs the
// `execute --dry-run` command and tests.
type InMemoryStore struct {
	mu         sync.RWMutex
	workflows  map[string]models.Workflow
	executions map[string]models.Execution
}

var _ Repository = (*InMemoryStore)(nil)

// NewInMemoryStore creates an empty InMemoryStore.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		workflows:  make(map[string]models.Workflow),
		executions: make(map[string]models.Execution),
	}
}

// Ping always succeeds.
func (s *InMemoryStore) Ping(context.Context) error { return nil }

// CreateWorkflow inserts a workflow.
func (s *InMemoryStore) CreateWorkflow(_ context.Context, wf *models.Workflow) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if wf.ID == "" {
		wf.ID = uuid.New().String()
	}
	if _, exists := s.workflows[wf.ID]; exists {
		return fmt.Errorf("workflow %s already exists", wf.ID)
	}
	if wf.CreatedAt.IsZero() {
		wf.CreatedAt = time.Now().UTC()
	}
	wf.UpdatedAt = wf.CreatedAt
	s.workflows[wf.ID] = *wf
	return nil
}

// GetWorkflow retrieves a workflow by its ID.
func (s *InMemoryStore) GetWorkflow(_ context.Context, id string) (*models.Workflow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wf, ok := s.workflows[id]
	if !ok {
		return nil, fmt.Errorf("workflow %s: %w", id, apperrors.ErrNotFound)
	}
	return &wf, nil
}

// UpdateWorkflow replaces the name and definition of a workflow.
func (s *InMemoryStore) UpdateWorkflow(_ context.Context, wf *models.Workflow) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.workflows[wf.ID]
	if !ok {
		return fmt.Errorf("workflow %s: %w", wf.ID, apperrors.ErrNotFound)
	}
	stored.Name = wf.Name
	stored.Definition = wf.Definition
	stored.UpdatedAt = time.Now().UTC()
	wf.UpdatedAt = stored.UpdatedAt
	s.workflows[wf.ID] = stored
	return nil
}

// ListWorkflows returns the workflows of an owner, newest first.
func (s *InMemoryStore) ListWorkflows(_ context.Context, ownerID string) ([]*models.Workflow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	workflows := []*models.Workflow{}
	for _, wf := range s.workflows {
		if wf.OwnerID == ownerID {
			wf := wf
			workflows = append(workflows, &wf)
		}
	}
	sort.Slice(workflows, func(i, j int) bool {
		return workflows[i].CreatedAt.After(workflows[j].CreatedAt)
	})
	return workflows, nil
}

// CreateExecution inserts a new execution record.
func (s *InMemoryStore) CreateExecution(_ context.Context, exec *models.Execution) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.workflows[exec.WorkflowID]; !ok {
		return fmt.Errorf("workflow %s: %w", exec.WorkflowID, apperrors.ErrNotFound)
	}
	if _, exists := s.executions[exec.ID]; exists {
		return fmt.Errorf("execution %s already exists", exec.ID)
	}
	s.executions[exec.ID] = *exec
	return nil
}

// UpdateExecution commits status, log and end time of a running execution.
func (s *InMemoryStore) UpdateExecution(_ context.Context, id string, status models.ExecutionStatus, log string, endedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	exec, ok := s.executions[id]
	if !ok {
		return fmt.Errorf("execution %s: %w", id, apperrors.ErrNotFound)
	}
	if exec.Status.Terminal() {
		return fmt.Errorf("execution %s: %w", id, apperrors.ErrExecutionFinalized)
	}
	exec.Status = status
	exec.Log = log
	exec.EndedAt = &endedAt
	s.executions[id] = exec
	return nil
}

// GetExecution retrieves an execution by its ID.
func (s *InMemoryStore) GetExecution(_ context.Context, id string) (*models.Execution, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	exec, ok := s.executions[id]
	if !ok {
		return nil, fmt.Errorf("execution %s: %w", id, apperrors.ErrNotFound)
	}
	return &exec, nil
}

// ListExecutions returns the executions of a workflow, latest start first.
func (s *InMemoryStore) ListExecutions(_ context.Context, workflowID string, limit int) ([]*models.Execution, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	executions := []*models.Execution{}
	for _, exec := range s.executions {
		if exec.WorkflowID == workflowID {
			exec := exec
			executions = append(executions, &exec)
		}
	}
	sort.Slice(executions, func(i, j int) bool {
		return executions[i].StartedAt.After(executions[j].StartedAt)
	})
	if limit = ClampLimit(limit); len(executions) > limit {
		executions = executions[:limit]
	}
	return executions, nil
}
