// Package metrics records generation outcomes as Prometheus metrics and
// writes them in the node_exporter textfile format.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Revision outcomes.
const (
	OutcomeGenerated = "generated"
	OutcomeFailed    = "failed"
	OutcomeSkipped   = "skipped"
)

// Recorder holds the generator metrics on a private registry.
type Recorder struct {
	registry *prometheus.Registry

	revisions      *prometheus.CounterVec
	constants      *prometheus.CounterVec
	formatWarnings prometheus.Counter
	duration       *prometheus.HistogramVec
}

// NewRecorder creates a Recorder with all metrics registered.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		revisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "codatagen_revisions_total",
			Help: "Catalog revisions processed, by outcome.",
		}, []string{"outcome"}),
		constants: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "codatagen_constants_emitted_total",
			Help: "Constants written to generated artifacts, by revision.",
		}, []string{"revision"}),
		formatWarnings: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "codatagen_format_warnings_total",
			Help: "Artifacts left unformatted because the formatter failed.",
		}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "codatagen_revision_duration_seconds",
			Help:    "Time spent generating one revision.",
			Buckets: prometheus.ExponentialBuckets(0.005, 4, 8),
		}, []string{"revision"}),
	}

	r.registry.MustRegister(r.revisions, r.constants, r.formatWarnings, r.duration)
	return r
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// RevisionGenerated records a successful revision.
func (r *Recorder) RevisionGenerated(label string, constants int, elapsed time.Duration) {
	r.revisions.WithLabelValues(OutcomeGenerated).Inc()
	r.constants.WithLabelValues(label).Add(float64(constants))
	r.duration.WithLabelValues(label).Observe(elapsed.Seconds())
}

// RevisionFailed records a revision abandoned with an error.
func (r *Recorder) RevisionFailed(label string, elapsed time.Duration) {
	r.revisions.WithLabelValues(OutcomeFailed).Inc()
	r.duration.WithLabelValues(label).Observe(elapsed.Seconds())
}

// RevisionSkipped records a revision not attempted because the run was
// cancelled.
func (r *Recorder) RevisionSkipped() {
	r.revisions.WithLabelValues(OutcomeSkipped).Inc()
}

// FormatWarning records one unformatted artifact.
func (r *Recorder) FormatWarning() {
	r.formatWarnings.Inc()
}

// WriteTextfile writes all metrics to path, replacing it atomically.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
