package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cast"

	"workflow-platform/internal/apperrors"
	"workflow-platform/pkg/models"
)

// SlackConfig is the configuration of a slack step. Empty fields are
// reported when the step runs, not when the definition is loaded.
type SlackConfig struct {
	WebhookURL string
	Message    string
}

// Step is a node of a loaded graph with its data decoded for its kind.
type Step struct {
	ID    string
	Kind  models.NodeType
	Label string
	Slack *SlackConfig
}

// Graph is a definition indexed for traversal. Every step has at most
// one successor; when several edges share a source the last one wins and
// the others are listed in DroppedEdges.
type Graph struct {
	WorkflowID   string
	Start        Step
	Steps        map[string]Step
	DroppedEdges []models.Edge

	successors map[string]string
}

// Next returns the successor of the step with the given id. ok is false
// when the step has no outgoing edge. A successor id that names no step
// yields a *BrokenEdgeError.
func (g *Graph) Next(id string) (next Step, ok bool, err error) {
	target, found := g.successors[id]
	if !found {
		return Step{}, false, nil
	}
	step, known := g.Steps[target]
	if !known {
		return Step{}, false, &BrokenEdgeError{Source: id, Target: target}
	}
	return step, true, nil
}

// Successor returns the raw successor id of a step, if any.
func (g *Graph) Successor(id string) (string, bool) {
	target, ok := g.successors[id]
	return target, ok
}

// BuildGraph validates a definition and indexes it.
func BuildGraph(workflowID string, def models.Definition) (*Graph, error) {
	g := &Graph{
		WorkflowID: workflowID,
		Steps:      make(map[string]Step, len(def.Nodes)),
		successors: make(map[string]string, len(def.Edges)),
	}

	var starts []string
	for _, node := range def.Nodes {
		if node.ID == "" {
			return nil, invalidDefinition("node without id")
		}
		if _, dup := g.Steps[node.ID]; dup {
			return nil, invalidDefinition("duplicate node id %q", node.ID)
		}
		step := decodeStep(node)
		g.Steps[step.ID] = step
		if step.Kind == models.NodeTypeInput {
			starts = append(starts, step.ID)
		}
	}

	switch len(starts) {
	case 0:
		return nil, invalidDefinition("no input node")
	case 1:
		g.Start = g.Steps[starts[0]]
	default:
		return nil, invalidDefinition("%d input nodes, expected exactly one", len(starts))
	}

	edgeBySource := make(map[string]models.Edge, len(def.Edges))
	for _, edge := range def.Edges {
		if prev, dup := edgeBySource[edge.Source]; dup {
			g.DroppedEdges = append(g.DroppedEdges, prev)
		}
		edgeBySource[edge.Source] = edge
		g.successors[edge.Source] = edge.Target
	}

	if err := g.checkTerminates(); err != nil {
		return nil, err
	}
	return g, nil
}

// checkTerminates follows the path from the start step and rejects a
// cycle. A dangling edge ends the walk here and is reported at run time.
func (g *Graph) checkTerminates() error {
	seen := map[string]bool{g.Start.ID: true}
	current := g.Start.ID
	for {
		target, ok := g.successors[current]
		if !ok {
			return nil
		}
		if _, known := g.Steps[target]; !known {
			return nil
		}
		if seen[target] {
			return invalidDefinition("cycle through node %q", target)
		}
		seen[target] = true
		current = target
	}
}

func decodeStep(node models.Node) Step {
	kind := node.Type
	if kind == "" {
		kind = models.NodeTypeDefault
	}
	step := Step{
		ID:    node.ID,
		Kind:  kind,
		Label: cast.ToString(node.Data["label"]),
	}
	if kind == models.NodeTypeSlack {
		step.Slack = &SlackConfig{
			WebhookURL: cast.ToString(node.Data["webhookUrl"]),
			Message:    cast.ToString(node.Data["message"]),
		}
	}
	return step
}

// Loader resolves a workflow into a Graph for a given caller.
type Loader struct {
	source DefinitionSource
	logger Logger
}

// NewLoader creates a Loader.
func NewLoader(source DefinitionSource, logger Logger) *Loader {
	return &Loader{source: source, logger: logger}
}

// Load fetches the workflow, checks that callerID owns it and indexes its
// definition.
func (l *Loader) Load(ctx context.Context, workflowID, callerID string) (*Graph, error) {
	wf, err := l.source.GetWorkflow(ctx, workflowID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("workflow %s: %w", workflowID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load workflow %s: %w: %w", workflowID, apperrors.ErrPersistence, err)
	}
	if wf.OwnerID != callerID {
		return nil, fmt.Errorf("workflow %s: %w", workflowID, apperrors.ErrForbidden)
	}

	g, err := BuildGraph(wf.ID, wf.Definition)
	if err != nil {
		return nil, fmt.Errorf("workflow %s: %w", workflowID, err)
	}
	for _, edge := range g.DroppedEdges {
		l.logger.Warn("ignoring edge superseded by a later edge from the same source",
			"workflow_id", workflowID, "source", edge.Source, "target", edge.Target)
	}
	return g, nil
}
