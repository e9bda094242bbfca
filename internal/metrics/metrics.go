package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"AppScanner/internal/domain"
)

const namespace = "app_scanner"

// Recorder owns the run collectors. A nil *Recorder is a no-op.
type Recorder struct {
	registry *prometheus.Registry

	discovered     prometheus.Gauge
	outcomes       *prometheus.CounterVec
	reviewsFetched prometheus.Counter
	pageErrors     prometheus.Counter
	entityDuration prometheus.Histogram
	lastRun        prometheus.Gauge
}

// New registers the collectors on a fresh registry.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		discovered: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "discovery",
			Name:      "entities",
			Help:      "Distinct apps produced by the discovery merge in the last run.",
		}),
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "fetch",
			Name:      "entities_total",
			Help:      "Processed apps by outcome.",
		}, []string{"outcome"}),
		reviewsFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "fetch",
			Name:      "reviews_total",
			Help:      "Reviews fetched across all apps.",
		}),
		pageErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "fetch",
			Name:      "review_page_errors_total",
			Help:      "Review page requests that failed and truncated pagination.",
		}),
		entityDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "fetch",
			Name:      "entity_duration_seconds",
			Help:      "Wall time spent on one app.",
			Buckets:   prometheus.ExponentialBuckets(0.25, 2, 10), // 250ms to ~2min
		}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last run finished.",
		}),
	}

	r.registry.MustRegister(r.discovered, r.outcomes, r.reviewsFetched, r.pageErrors, r.entityDuration, r.lastRun)
	return r
}

// Registry exposes the underlying gatherer.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// SetDiscovered records the merged entity count.
func (r *Recorder) SetDiscovered(n int) {
	if r == nil {
		return
	}
	r.discovered.Set(float64(n))
}

// ObserveResult counts one finished entity.
func (r *Recorder) ObserveResult(res domain.Result, took time.Duration) {
	if r == nil {
		return
	}
	r.outcomes.WithLabelValues(Outcome(res)).Inc()
	r.entityDuration.Observe(took.Seconds())
}

// AddReviews counts fetched reviews.
func (r *Recorder) AddReviews(n int) {
	if r == nil || n <= 0 {
		return
	}
	r.reviewsFetched.Add(float64(n))
}

// PageError counts a failed review page request.
func (r *Recorder) PageError() {
	if r == nil {
		return
	}
	r.pageErrors.Inc()
}

// RunFinished stamps the completion time.
func (r *Recorder) RunFinished(at time.Time) {
	if r == nil {
		return
	}
	r.lastRun.Set(float64(at.Unix()))
}

// WriteTextfile dumps the registry in the node-exporter textfile format, creating the
// parent directory when needed.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil || path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create metrics dir: %w", err)
	}
	return prometheus.WriteToTextfile(path, r.registry)
}

// Outcome is the label value for a result.
func Outcome(res domain.Result) string {
	if res.OK() {
		return "recorded"
	}
	if res.Skip == domain.SkipNone {
		return "unknown"
	}
	return string(res.Skip)
}
