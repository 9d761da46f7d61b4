// Package metrics exposes engine activity as Prometheus collectors,
// bridged through lifecycle hooks.
package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/seedworks/arbor/pkg/domain"
)

// Recorder holds the engine collectors.
type Recorder struct {
	nodeVisits   *prometheus.CounterVec
	stepDuration *prometheus.HistogramVec
	routeSelects *prometheus.CounterVec
}

// NewRecorder builds the collectors and registers them with reg. Pass
// prometheus.DefaultRegisterer outside of tests.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		nodeVisits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "arbor_node_visits_total",
				Help: "Total number of node visits per graph.",
			},
			[]string{"graph", "node"},
		),
		stepDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "arbor_step_duration_seconds",
				Help: "Duration of node handler executions.",
			},
			[]string{"graph", "node"},
		),
		routeSelects: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "arbor_route_selections_total",
				Help: "Total number of conditional route selections per label.",
			},
			[]string{"graph", "node", "label"},
		),
	}
	reg.MustRegister(r.nodeVisits, r.stepDuration, r.routeSelects)
	return r
}

// NodeVisits exposes the visit counter, mainly for tests and custom
// registration setups.
func (r *Recorder) NodeVisits() *prometheus.CounterVec { return r.nodeVisits }

// StepDuration exposes the handler duration histogram.
func (r *Recorder) StepDuration() *prometheus.HistogramVec { return r.stepDuration }

// RouteSelects exposes the route selection counter.
func (r *Recorder) RouteSelects() *prometheus.CounterVec { return r.routeSelects }

// Hooks returns lifecycle hooks that feed the collectors. Compose with
// other hooks before handing them to the engine.
func (r *Recorder) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnNodeEnter: func(ctx context.Context, e *domain.NodeEvent) {
			r.nodeVisits.WithLabelValues(e.Graph, e.Node).Inc()
		},
		OnNodeLeave: func(ctx context.Context, e *domain.NodeEvent) {
			r.stepDuration.WithLabelValues(e.Graph, e.Node).Observe(e.Duration.Seconds())
		},
		OnRouteSelect: func(ctx context.Context, e *domain.RouteEvent) {
			r.routeSelects.WithLabelValues(e.Graph, e.Node, e.Label).Inc()
		},
	}
}
