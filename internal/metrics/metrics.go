// Package metrics exposes portal counters in the Prometheus format.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "homologation_portal"

// Recorder holds the portal's collectors on a private registry.
// A nil *Recorder is valid and records nothing.
type Recorder struct {
	registry       *prometheus.Registry
	lookups        *prometheus.CounterVec
	resolutions    *prometheus.CounterVec
	assignments    *prometheus.CounterVec
	submissions    *prometheus.CounterVec
	activeSessions prometheus.Gauge
}

// New creates a recorder with process and Go runtime collectors attached.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "supplier_lookups_total",
			Help:      "Supplier name lookups by outcome.",
		}, []string{"outcome"}),
		resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requirement_resolutions_total",
			Help:      "Requirement list resolutions by outcome.",
		}, []string{"outcome"}),
		assignments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "slot_assignments_total",
			Help:      "Files assigned to upload slots by resulting status.",
		}, []string{"status"}),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_total",
			Help:      "Submission attempts by outcome.",
		}, []string{"outcome"}),
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Portal sessions currently held in memory.",
		}),
	}
	r.registry.MustRegister(
		r.lookups,
		r.resolutions,
		r.assignments,
		r.submissions,
		r.activeSessions,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

func (r *Recorder) SupplierLookup(outcome string) {
	if r == nil {
		return
	}
	r.lookups.WithLabelValues(outcome).Inc()
}

func (r *Recorder) RequirementResolution(outcome string) {
	if r == nil {
		return
	}
	r.resolutions.WithLabelValues(outcome).Inc()
}

func (r *Recorder) SlotAssignment(status string) {
	if r == nil {
		return
	}
	r.assignments.WithLabelValues(status).Inc()
}

func (r *Recorder) Submission(outcome string) {
	if r == nil {
		return
	}
	r.submissions.WithLabelValues(outcome).Inc()
}

// SetActiveSessions records the current session count.
func (r *Recorder) SetActiveSessions(n int) {
	if r == nil {
		return
	}
	r.activeSessions.Set(float64(n))
}

// Handler serves the registry for scraping.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
