// Package metrics exposes admission-engine activity as Prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/BrandonDHaskell/gymgate/internal/gym/roster"
	"github.com/BrandonDHaskell/gymgate/internal/gym/service"
)

const namespace = "gymgate"

// Metrics implements service.Observer.
type Metrics struct {
	registry *prometheus.Registry

	admissions *prometheus.CounterVec
	outcomes   *prometheus.CounterVec
	rejections *prometheus.CounterVec
	inside     prometheus.Gauge
	waiting    prometheus.Gauge
	capacity   prometheus.Gauge
}

var _ service.Observer = (*Metrics)(nil)

// New registers every collector on a fresh registry, along with the Go and
// process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		admissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "admissions_total",
			Help:      "Members admitted, by category and path (direct or waitlist).",
		}, []string{"category", "path"}),
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outcomes_total",
			Help:      "Successful engine operations by outcome.",
		}, []string{"outcome"}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rejections_total",
			Help:      "Rejected engine operations by kind.",
		}, []string{"kind"}),
		inside: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "members_inside",
			Help:      "Members currently inside.",
		}),
		waiting: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "members_waiting",
			Help:      "Members currently on the waiting list.",
		}),
		capacity: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "capacity",
			Help:      "Configured capacity.",
		}),
	}

	m.registry.MustRegister(
		m.admissions, m.outcomes, m.rejections,
		m.inside, m.waiting, m.capacity,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) ObserveOutcome(o service.Outcome, c roster.Category, fromWaiting bool) {
	m.outcomes.WithLabelValues(string(o)).Inc()
	if o != service.OutcomeAdmitted {
		return
	}
	path := "direct"
	if fromWaiting {
		path = "waitlist"
	}
	m.admissions.WithLabelValues(c.String(), path).Inc()
}

func (m *Metrics) ObserveRejection(kind string) {
	m.rejections.WithLabelValues(kind).Inc()
}

func (m *Metrics) ObserveOccupancy(inside, waiting, capacity int) {
	m.inside.Set(float64(inside))
	m.waiting.Set(float64(waiting))
	m.capacity.Set(float64(capacity))
}

// SetCapacity records the configured capacity before any traffic arrives.
func (m *Metrics) SetCapacity(capacity int) {
	m.capacity.Set(float64(capacity))
}

// Gatherer exposes the private registry for in-process inspection.
func (m *Metrics) Gatherer() prometheus.Gatherer { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
