package metrics_test

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seedworks/arbor/internal/metrics"
	"github.com/seedworks/arbor/pkg/domain"
	"github.com/seedworks/arbor/pkg/graph"
)

func TestRecorder_CountsNodeVisitsAndRoutes(t *testing.T) {
	reg := prometheus.NewRegistry()
	recorder := metrics.NewRecorder(reg)

	def := graph.New("metrics-demo").
		AddNode("first", func(ctx context.Context, s *domain.State) error { return nil }).
		AddNode("second", func(ctx context.Context, s *domain.State) error { return nil }).
		SetEntry("first").
		AddConditionalEdge("first", func(s *domain.State) string { return "next" }, map[string]string{
			"next": "second",
		}).
		AddEdge("second", graph.End)

	compiled, err := def.Compile()
	require.NoError(t, err)

	engine := graph.NewEngine(graph.WithLifecycleHooks(recorder.Hooks()))
	_, err = engine.Invoke(context.Background(), compiled, domain.NewState())
	require.NoError(t, err)

	visits := testutil.ToFloat64(recorder.NodeVisits().WithLabelValues("metrics-demo", "first"))
	assert.Equal(t, 1.0, visits)

	routes := testutil.ToFloat64(recorder.RouteSelects().WithLabelValues("metrics-demo", "first", "next"))
	assert.Equal(t, 1.0, routes)

	// Two nodes ran, so two durations were observed.
	count := testutil.CollectAndCount(recorder.StepDuration())
	assert.Equal(t, 2, count)
}
