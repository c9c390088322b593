package observability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
)

func TestMetrics_NoopMeter(t *testing.T) {
	m, err := NewMetrics(noop.NewMeterProvider().Meter("test"))
	require.NoError(t, err)
	require.NotNil(t, m)

	ctx := context.Background()
	assert.NotPanics(t, func() {
		m.RecordStep(ctx, "input")
		m.RecordIntegrationFailure(ctx, "slack")
		m.RecordExecution(ctx, "completed", 150*time.Millisecond)
	})
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	ctx := context.Background()
	assert.NotPanics(t, func() {
		m.RecordStep(ctx, "input")
		m.RecordIntegrationFailure(ctx, "slack")
		m.RecordExecution(ctx, "failed", time.Second)
	})
}

func TestNewMetrics_GlobalProvider(t *testing.T) {
	m, err := NewMetrics(nil)
	require.NoError(t, err)
	assert.NotNil(t, m)
}
