package estimator

import (
	"fmt"
	"maps"
	"slices"
)

// StandardScaler standardizes features as (x - mean) / scale. A zero scale
// leaves the centered value unscaled, matching constant training columns.
type StandardScaler struct {
	Schema
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

func (s *StandardScaler) validate() error {
	if len(s.Mean) == 0 || len(s.Mean) != len(s.Scale) {
		return fmt.Errorf("%w: scaler has %d means and %d scales", ErrInvalidArtifact, len(s.Mean), len(s.Scale))
	}
	if n := len(s.Features); n > 0 && n != len(s.Mean) {
		return fmt.Errorf("%w: %d feature names for %d columns", ErrInvalidArtifact, n, len(s.Mean))
	}
	return nil
}

// Transform returns a scaled copy of x.
func (s *StandardScaler) Transform(x []float64) ([]float64, error) {
	if err := checkWidth(len(s.Mean), x); err != nil {
		return nil, err
	}
	out := make([]float64, len(x))
	for i, v := range x {
		scale := s.Scale[i]
		if scale == 0 {
			scale = 1
		}
		out[i] = (v - s.Mean[i]) / scale
	}
	return out, nil
}

// CategoryMapping maps a categorical value to the integer code used in training.
type CategoryMapping struct {
	Values map[string]int `json:"values"`
}

func (c *CategoryMapping) validate() error {
	if len(c.Values) == 0 {
		return fmt.Errorf("%w: mapping has no values", ErrInvalidArtifact)
	}
	return nil
}

func (c *CategoryMapping) Code(category string) (int, bool) {
	v, ok := c.Values[category]
	return v, ok
}

// Categories returns the known categories in sorted order.
func (c *CategoryMapping) Categories() []string {
	return slices.Sorted(maps.Keys(c.Values))
}
