package engine

import (
	"context"
	"fmt"
	"sync"

	"workflow-platform/internal/apperrors"
	"workflow-platform/internal/observability"
	"workflow-platform/pkg/models"
)

// Log fragments emitted by the built-in handlers.
const (
	SlackNotConfiguredMessage = "Slack node is not configured correctly."
	SlackSentMessage          = "Slack message sent successfully."
)

// Handler executes one step and returns a log fragment describing what it
// did. An empty fragment adds nothing to the run log. Handlers never fail
// the run: side-effect failures are described in the fragment.
type Handler interface {
	Execute(ctx context.Context, step Step) string
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, step Step) string

// Execute calls f(ctx, step).
func (f HandlerFunc) Execute(ctx context.Context, step Step) string {
	return f(ctx, step)
}

// Registry maps step kinds to handlers. Kinds without a handler are run by
// the fallback, which only records the visit.
type Registry struct {
	mu       sync.RWMutex
	handlers map[models.NodeType]Handler
	fallback Handler
}

// NewRegistry creates a Registry with the standard handler registered for
// input, output and default steps and used as the fallback.
func NewRegistry() *Registry {
	r := &Registry{
		handlers: make(map[models.NodeType]Handler),
		fallback: StandardHandler{},
	}
	r.Register(models.NodeTypeInput, StandardHandler{})
	r.Register(models.NodeTypeOutput, StandardHandler{})
	r.Register(models.NodeTypeDefault, StandardHandler{})
	return r
}

// Register sets the handler for a kind, replacing any previous one.
func (r *Registry) Register(kind models.NodeType, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[kind] = h
}

// Lookup returns the handler registered for a kind.
func (r *Registry) Lookup(kind models.NodeType) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[kind]
	return h, ok
}

// Dispatch runs the step through its handler.
func (r *Registry) Dispatch(ctx context.Context, step Step) string {
	h, ok := r.Lookup(step.Kind)
	if !ok {
		h = r.fallback
	}
	return h.Execute(ctx, step)
}

// StandardHandler performs no action. The visit itself is recorded by the
// engine's step line.
type StandardHandler struct{}

// Execute implements Handler.
func (StandardHandler) Execute(context.Context, Step) string {
	return ""
}

// SlackHandler posts a slack step's message to its webhook.
type SlackHandler struct {
	poster  MessagePoster
	logger  Logger
	metrics *observability.Metrics
}

// NewSlackHandler creates a SlackHandler. metrics may be nil.
func NewSlackHandler(poster MessagePoster, logger Logger, metrics *observability.Metrics) *SlackHandler {
	return &SlackHandler{poster: poster, logger: logger, metrics: metrics}
}

// Execute implements Handler.
func (h *SlackHandler) Execute(ctx context.Context, step Step) string {
	cfg := step.Slack
	if cfg == nil || cfg.WebhookURL == "" || cfg.Message == "" {
		h.logger.Warn("slack step is missing webhookUrl or message", "node_id", step.ID)
		return SlackNotConfiguredMessage
	}

	if err := h.poster.PostMessage(ctx, cfg.WebhookURL, cfg.Message); err != nil {
		err = fmt.Errorf("%w: %w", apperrors.ErrIntegration, err)
		h.logger.Warn("slack delivery failed, continuing run", "node_id", step.ID, "error", err)
		h.metrics.RecordIntegrationFailure(ctx, string(step.Kind))
		return "Error sending Slack message: " + err.Error()
	}
	return SlackSentMessage
}

// DefaultRegistry returns the registry used by the service: the standard
// kinds plus slack.
func DefaultRegistry(poster MessagePoster, logger Logger, metrics *observability.Metrics) *Registry {
	r := NewRegistry()
	r.Register(models.NodeTypeSlack, NewSlackHandler(poster, logger, metrics))
	return r
}
