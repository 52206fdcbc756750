package estimator

import (
	"fmt"
	"math"
)

// LinearRegressor evaluates y = intercept + sum(coef[i] * x[i]).
type LinearRegressor struct {
	Schema
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
}

func (m *LinearRegressor) validate() error {
	if len(m.Coefficients) == 0 {
		return fmt.Errorf("%w: linear regressor has no coefficients", ErrInvalidArtifact)
	}
	if n := len(m.Features); n > 0 && n != len(m.Coefficients) {
		return fmt.Errorf("%w: %d feature names for %d coefficients", ErrInvalidArtifact, n, len(m.Coefficients))
	}
	return nil
}

func (m *LinearRegressor) Predict(x []float64) (float64, error) {
	if err := checkWidth(len(m.Coefficients), x); err != nil {
		return 0, err
	}
	y := m.Intercept
	for i, c := range m.Coefficients {
		y += c * x[i]
	}
	return y, nil
}

// LogisticClassifier is a multinomial logistic regression. A single row of
// coefficients is treated as the binary case, giving probabilities for
// classes 0 and 1.
type LogisticClassifier struct {
	Schema
	Coefficients [][]float64 `json:"coefficients"`
	Intercepts   []float64   `json:"intercepts"`
	Classes      []int       `json:"classes,omitempty"`
}

func (m *LogisticClassifier) validate() error {
	if len(m.Coefficients) == 0 {
		return fmt.Errorf("%w: logistic classifier has no coefficients", ErrInvalidArtifact)
	}
	if len(m.Intercepts) != len(m.Coefficients) {
		return fmt.Errorf("%w: %d intercepts for %d coefficient rows", ErrInvalidArtifact, len(m.Intercepts), len(m.Coefficients))
	}
	width := len(m.Coefficients[0])
	for _, row := range m.Coefficients {
		if len(row) != width {
			return fmt.Errorf("%w: ragged coefficient matrix", ErrInvalidArtifact)
		}
	}
	if n := len(m.Features); n > 0 && n != width {
		return fmt.Errorf("%w: %d feature names for %d coefficients", ErrInvalidArtifact, n, width)
	}
	classes := len(m.Coefficients)
	if classes == 1 {
		classes = 2
	}
	if len(m.Classes) > 0 && len(m.Classes) != classes {
		return fmt.Errorf("%w: %d class labels for %d classes", ErrInvalidArtifact, len(m.Classes), classes)
	}
	return nil
}

func (m *LogisticClassifier) PredictProba(x []float64) ([]float64, error) {
	if err := checkWidth(len(m.Coefficients[0]), x); err != nil {
		return nil, err
	}
	scores := make([]float64, len(m.Coefficients))
	for k, row := range m.Coefficients {
		s := m.Intercepts[k]
		for i, c := range row {
			s += c * x[i]
		}
		scores[k] = s
	}
	if len(scores) == 1 {
		p := 1 / (1 + math.Exp(-scores[0]))
		return []float64{1 - p, p}, nil
	}
	return softmax(scores), nil
}

func (m *LogisticClassifier) Predict(x []float64) (int, error) {
	proba, err := m.PredictProba(x)
	if err != nil {
		return 0, err
	}
	return classLabel(m.Classes, argmax(proba)), nil
}

func softmax(scores []float64) []float64 {
	peak := scores[argmax(scores)]
	out := make([]float64, len(scores))
	var sum float64
	for i, s := range scores {
		out[i] = math.Exp(s - peak)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}

func classLabel(classes []int, idx int) int {
	if idx < len(classes) {
		return classes[idx]
	}
	return idx
}
