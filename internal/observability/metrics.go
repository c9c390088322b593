// Package observability defines the OpenTelemetry instruments recorded by
// the execution engine.
package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// InstrumentationName is the meter name used for all engine instruments.
const InstrumentationName = "workflow-platform/engine"

// Metrics groups the engine instruments. A nil *Metrics records nothing.
type Metrics struct {
	executions          metric.Int64Counter
	steps               metric.Int64Counter
	integrationFailures metric.Int64Counter
	duration            metric.Float64Histogram
}

// NewMetrics creates the instruments on the given meter. When meter is nil
// the global meter provider is used.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	if meter == nil {
		meter = otel.Meter(InstrumentationName)
	}

	executions, err := meter.Int64Counter("workflow.executions",
		metric.WithDescription("Workflow runs by terminal status"))
	if err != nil {
		return nil, fmt.Errorf("failed to create executions counter: %w", err)
	}
	steps, err := meter.Int64Counter("workflow.steps",
		metric.WithDescription("Steps dispatched by kind"))
	if err != nil {
		return nil, fmt.Errorf("failed to create steps counter: %w", err)
	}
	failures, err := meter.Int64Counter("workflow.integration.failures",
		metric.WithDescription("Tolerated integration failures by step kind"))
	if err != nil {
		return nil, fmt.Errorf("failed to create integration failures counter: %w", err)
	}
	duration, err := meter.Float64Histogram("workflow.execution.duration",
		metric.WithDescription("Wall time of a run from begin to commit"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, fmt.Errorf("failed to create duration histogram: %w", err)
	}

	return &Metrics{
		executions:          executions,
		steps:               steps,
		integrationFailures: failures,
		duration:            duration,
	}, nil
}

// RecordExecution records a committed run.
func (m *Metrics) RecordExecution(ctx context.Context, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("status", status))
	m.executions.Add(ctx, 1, attrs)
	m.duration.Record(ctx, elapsed.Seconds(), attrs)
}

// RecordStep records one dispatched step.
func (m *Metrics) RecordStep(ctx context.Context, kind string) {
	if m == nil {
		return
	}
	m.steps.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
}

// RecordIntegrationFailure records a failed outbound call that the run tolerated.
func (m *Metrics) RecordIntegrationFailure(ctx context.Context, kind string) {
	if m == nil {
		return
	}
	m.integrationFailures.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
}
