// Package engine loads workflow definitions, walks them from their input
// step and records each run.
package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"workflow-platform/internal/observability"
	"workflow-platform/pkg/models"
)

// FinishedMessage is the last line of a completed run log.
const FinishedMessage = "Execution finished successfully."

// Result is what the caller learns about an accepted run.
type Result struct {
	ExecutionID string                 `json:"execution_id"`
	Status      models.ExecutionStatus `json:"status"`
	Steps       int                    `json:"steps"`
}

// Engine runs workflows. It holds no per-run state and is safe for
// concurrent use; each call to Execute is an independent run.
type Engine struct {
	loader   *Loader
	registry *Registry
	recorder *Recorder
	logger   Logger
	metrics  *observability.Metrics
}

// New creates an Engine. metrics may be nil.
func New(source DefinitionSource, store ExecutionStore, registry *Registry, logger Logger, metrics *observability.Metrics) *Engine {
	return &Engine{
		loader:   NewLoader(source, logger),
		registry: registry,
		recorder: NewRecorder(store),
		logger:   logger,
		metrics:  metrics,
	}
}

// Execute runs the workflow on behalf of callerID.
//
// Errors returned with a nil Result happened before a run record existed
// (not found, forbidden, invalid definition, failure to create the record).
// Once the run is accepted the Result is always returned: a run-fatal
// error such as a broken edge comes back together with a failed Result,
// and an error committing the final status comes back with the Result of
// the outcome that could not be recorded.
func (e *Engine) Execute(ctx context.Context, workflowID, callerID string) (*Result, error) {
	graph, err := e.loader.Load(ctx, workflowID, callerID)
	if err != nil {
		return nil, err
	}

	exec, err := e.recorder.Begin(ctx, workflowID)
	if err != nil {
		e.logger.Error("failed to begin execution", "workflow_id", workflowID, "error", err)
		return nil, err
	}

	// The run is not tied to the lifetime of the triggering request.
	ctx = context.WithoutCancel(ctx)
	started := time.Now()
	e.logger.Info("execution started", "workflow_id", workflowID, "execution_id", exec.ID)

	buf := newRunLog(StartedMessage)
	steps, runErr := e.walk(ctx, graph, buf)
	result := &Result{ExecutionID: exec.ID, Steps: steps}

	if runErr != nil {
		result.Status = models.ExecutionStatusFailed
		e.logger.Error("execution failed", "workflow_id", workflowID, "execution_id", exec.ID, "error", runErr)
		if err := e.recorder.Fail(ctx, exec.ID, buf.String(), runErr.Error()); err != nil {
			e.logger.Error("failed to record failed execution", "execution_id", exec.ID, "error", err)
			return result, fmt.Errorf("%w (run error: %w)", err, runErr)
		}
		e.metrics.RecordExecution(ctx, string(result.Status), time.Since(started))
		return result, runErr
	}

	buf.add(FinishedMessage)
	result.Status = models.ExecutionStatusCompleted
	if err := e.recorder.Complete(ctx, exec.ID, buf.String()); err != nil {
		e.logger.Error("failed to record completed execution", "execution_id", exec.ID, "error", err)
		return result, err
	}
	e.metrics.RecordExecution(ctx, string(result.Status), time.Since(started))
	e.logger.Info("execution completed", "workflow_id", workflowID, "execution_id", exec.ID, "steps", steps)
	return result, nil
}

// walk visits the path from the start step, one step at a time.
func (e *Engine) walk(ctx context.Context, g *Graph, buf *runLog) (int, error) {
	visited := 0
	current, ok := g.Start, true
	for ok {
		buf.add(fmt.Sprintf("[Step] Executing Node ID: %s, Type: %s", current.ID, current.Kind))
		if fragment := e.registry.Dispatch(ctx, current); fragment != "" {
			buf.add(fragment)
		}
		e.metrics.RecordStep(ctx, string(current.Kind))
		visited++

		var err error
		current, ok, err = g.Next(current.ID)
		if err != nil {
			return visited, err
		}
	}
	return visited, nil
}

// runLog is an append-only sequence of log entries, joined on commit.
type runLog struct {
	entries []string
}

func newRunLog(first string) *runLog {
	return &runLog{entries: []string{first}}
}

func (l *runLog) add(entry string) {
	l.entries = append(l.entries, entry)
}

func (l *runLog) String() string {
	return strings.Join(l.entries, "\n")
}
