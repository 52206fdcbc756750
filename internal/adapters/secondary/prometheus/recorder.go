package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	ports "agri-ml-service/internal/core/ports/output"
)

const namespace = "agri_ml"

type recorder struct {
	artifactLoads    *prometheus.CounterVec
	artifactDuration *prometheus.HistogramVec
	predictions      *prometheus.CounterVec
	predictDuration  *prometheus.HistogramVec
}

// NewRecorder creates a MetricsRecorder whose collectors are registered on reg.
func NewRecorder(reg prometheus.Registerer) ports.MetricsRecorder {
	r := &recorder{
		artifactLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "artifact_loads_total",
			Help:      "Model artifact group load attempts.",
		}, []string{"group", "outcome"}),
		artifactDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "artifact_load_duration_seconds",
			Help:      "Time spent loading a model artifact group.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 4, 8),
		}, []string{"group"}),
		predictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "predictions_total",
			Help:      "Prediction requests by task and outcome.",
		}, []string{"task", "outcome"}),
		predictDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "prediction_duration_seconds",
			Help:      "Prediction latency including any cold-start artifact load.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"task"}),
	}

	reg.MustRegister(r.artifactLoads, r.artifactDuration, r.predictions, r.predictDuration)
	return r
}

func (r *recorder) ArtifactGroupLoaded(group, outcome string, took time.Duration) {
	r.artifactLoads.WithLabelValues(group, outcome).Inc()
	r.artifactDuration.WithLabelValues(group).Observe(took.Seconds())
}

func (r *recorder) PredictionServed(task, outcome string, took time.Duration) {
	r.predictions.WithLabelValues(task, outcome).Inc()
	r.predictDuration.WithLabelValues(task).Observe(took.Seconds())
}
