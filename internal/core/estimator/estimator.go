// Package estimator holds the inference-only model types the service loads
// from disk: regressors, classifiers, feature scalers and categorical
// mappings. Training happens elsewhere; these types only evaluate.
package estimator

import (
	"errors"
	"fmt"
	"slices"
)

var (
	ErrShapeMismatch   = errors.New("feature vector has the wrong length")
	ErrFeatureMismatch = errors.New("feature names do not match the trained schema")
	ErrUnknownKind     = errors.New("unknown artifact kind")
	ErrInvalidArtifact = errors.New("invalid artifact")
)

// Regressor predicts a single continuous value from one feature row.
type Regressor interface {
	Predict(x []float64) (float64, error)
	FeatureNames() []string
}

// Classifier predicts a class label and the per-class probabilities for one
// feature row. Probabilities are ordered by class index.
type Classifier interface {
	Predict(x []float64) (int, error)
	PredictProba(x []float64) ([]float64, error)
	FeatureNames() []string
}

// Schema records the feature names an artifact was trained on. An empty
// schema accepts any names of the right length.
type Schema struct {
	Features []string `json:"feature_names,omitempty"`
}

func (s Schema) FeatureNames() []string {
	return slices.Clone(s.Features)
}

// CheckFeatures verifies that names are exactly the trained feature order.
func CheckFeatures(trained, names []string) error {
	if len(trained) == 0 {
		return nil
	}
	if !slices.Equal(trained, names) {
		return fmt.Errorf("%w: trained %v, got %v", ErrFeatureMismatch, trained, names)
	}
	return nil
}

func checkWidth(want int, x []float64) error {
	if want > 0 && len(x) != want {
		return fmt.Errorf("%w: want %d, got %d", ErrShapeMismatch, want, len(x))
	}
	return nil
}

func argmax(v []float64) int {
	best := 0
	for i := 1; i < len(v); i++ {
		if v[i] > v[best] {
			best = i
		}
	}
	return best
}
