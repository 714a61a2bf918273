package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusRecorder implements Recorder on a dedicated registry.
type PrometheusRecorder struct {
	registry *prometheus.Registry

	filesProcessed *prometheus.CounterVec
	filesCopied    prometheus.Counter
	diagrams       *prometheus.CounterVec
	relocations    prometheus.Counter
	runDuration    prometheus.Histogram
}

// NewPrometheusRecorder creates a recorder with its own registry so tests
// and repeated construction never collide on the default registry.
func NewPrometheusRecorder() *PrometheusRecorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &PrometheusRecorder{
		registry: reg,
		filesProcessed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "docnorm_files_processed_total",
			Help: "Markdown documents run through the pipeline.",
		}, []string{"changed"}),
		filesCopied: factory.NewCounter(prometheus.CounterOpts{
			Name: "docnorm_files_copied_total",
			Help: "Non-markdown files mirrored unchanged.",
		}),
		diagrams: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "docnorm_diagrams_sanitized_total",
			Help: "Mermaid blocks visited by the sanitizer.",
		}, []string{"kind"}),
		relocations: factory.NewCounter(prometheus.CounterOpts{
			Name: "docnorm_branch_labels_relocated_total",
			Help: "Branch labels moved to a different edge.",
		}),
		runDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "docnorm_run_duration_seconds",
			Help:    "Wall time of full normalization runs.",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

func (r *PrometheusRecorder) FileProcessed(changed bool) {
	label := "false"
	if changed {
		label = "true"
	}
	r.filesProcessed.WithLabelValues(label).Inc()
}

func (r *PrometheusRecorder) FileCopied() { r.filesCopied.Inc() }

func (r *PrometheusRecorder) DiagramSanitized(flowchart bool) {
	kind := "other"
	if flowchart {
		kind = "flowchart"
	}
	r.diagrams.WithLabelValues(kind).Inc()
}

func (r *PrometheusRecorder) LabelsRelocated(n int) {
	if n > 0 {
		r.relocations.Add(float64(n))
	}
}

func (r *PrometheusRecorder) RunCompleted(d time.Duration) {
	r.runDuration.Observe(d.Seconds())
}

// Handler exposes the registry for the watch-mode HTTP endpoint.
func (r *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
