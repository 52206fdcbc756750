package ports

import "time"

// Outcome labels used by MetricsRecorder.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// MetricsRecorder receives registry and prediction events for export.
type MetricsRecorder interface {
	// ArtifactGroupLoaded is called once per load attempt of a model group.
	ArtifactGroupLoaded(group, outcome string, took time.Duration)
	// PredictionServed is called once per prediction request.
	PredictionServed(task, outcome string, took time.Duration)
}

// NopRecorder discards all events.
type NopRecorder struct{}

func (NopRecorder) ArtifactGroupLoaded(string, string, time.Duration) {}
func (NopRecorder) PredictionServed(string, string, time.Duration)    {}
