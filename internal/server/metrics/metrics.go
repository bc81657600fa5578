// Package metrics exposes the server's Prometheus counters.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/punchclock/internal/attendance"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "punchclock"

// Metrics holds the counters of one server instance. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	rpcs       *prometheus.CounterVec
	commits    prometheus.Counter
	mutations  *prometheus.CounterVec
	violations *prometheus.CounterVec
	clocks     *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		rpcs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rpc_requests_total",
			Help:      "gRPC requests by method and status code.",
		}, []string{"method", "code"}),
		commits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "day_commits_total",
			Help:      "Committed day edits.",
		}),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "event_mutations_total",
			Help:      "Event store mutations issued by commits.",
		}, []string{"op"}),
		violations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sequence_violations_total",
			Help:      "Rejected event sequences by violation code.",
		}, []string{"code"}),
		clocks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "clock_actions_total",
			Help:      "Live clock actions by event type.",
		}, []string{"type"}),
	}

	m.registry.MustRegister(
		m.rpcs, m.commits, m.mutations, m.violations, m.clocks,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) ObserveRPC(method, code string) {
	if m == nil {
		return
	}
	m.rpcs.WithLabelValues(method, code).Inc()
}

func (m *Metrics) ObserveCommit(plan attendance.CommitPlan) {
	if m == nil {
		return
	}
	m.commits.Inc()
	m.mutations.WithLabelValues("delete").Add(float64(len(plan.Deletes)))
	m.mutations.WithLabelValues("create").Add(float64(len(plan.Creates)))
	m.mutations.WithLabelValues("update").Add(float64(len(plan.Updates)))
}

func (m *Metrics) ObserveViolation(v attendance.Violation) {
	if m == nil {
		return
	}
	m.violations.WithLabelValues(string(v.Code)).Inc()
}

func (m *Metrics) ObserveClock(t attendance.EventType) {
	if m == nil {
		return
	}
	m.clocks.WithLabelValues(string(t)).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve runs a /metrics endpoint on addr until ctx is cancelled.
func (m *Metrics) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
